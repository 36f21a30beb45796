// cmd/activities-api/sinks_test.go
package main

import (
	"context"
	"testing"
	"time"

	"mergington-activities/internal/common/config"
	"mergington-activities/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectSinks_NoneConfigured(t *testing.T) {
	deps, err := connectSinks(context.Background(), &config.Config{}, logger.NewTestLogger(t))
	require.NoError(t, err)

	assert.Empty(t, deps.sinks)
	assert.Empty(t, deps.checks)
}

func TestConnectSinks_KafkaAndRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := &config.Config{}
	cfg.Events.Sinks = []string{config.SinkKafka, config.SinkRedis}
	cfg.Events.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Events.Kafka.Topic = "activities.roster_changes"
	cfg.Events.Redis.Channel = "activities:roster"
	cfg.Database.Redis.Address = mr.Addr()

	log := logger.NewTestLogger(t)
	deps, err := connectSinks(context.Background(), cfg, log)
	require.NoError(t, err)
	defer deps.close(log)

	require.Len(t, deps.sinks, 2)
	assert.Equal(t, "kafka", deps.sinks[0].Name())
	assert.Equal(t, "redis", deps.sinks[1].Name())
	require.Contains(t, deps.checks, "redis")
	assert.NoError(t, deps.checks["redis"](context.Background()))
}

func TestConnectSinks_FailureClosesEarlierConnections(t *testing.T) {
	prevAttempts, prevDelay := postgresConnectAttempts, connectRetryDelay
	postgresConnectAttempts, connectRetryDelay = 1, time.Millisecond
	t.Cleanup(func() { postgresConnectAttempts, connectRetryDelay = prevAttempts, prevDelay })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := &config.Config{}
	cfg.Events.Sinks = []string{config.SinkRedis, config.SinkJournal}
	cfg.Events.Redis.Channel = "activities:roster"
	cfg.Database.Redis.Address = mr.Addr()
	cfg.Database.Postgres = config.PostgresConfig{
		Host: "127.0.0.1", Port: 1, Database: "activities", User: "postgres",
		MaxConnections: 1, MaxIdle: 1, SSLMode: "disable",
	}

	deps, err := connectSinks(context.Background(), cfg, logger.NewTestLogger(t))

	require.Error(t, err)
	assert.Nil(t, deps)
	assert.Eventually(t, func() bool { return mr.CurrentConnectionCount() == 0 },
		2*time.Second, 10*time.Millisecond, "redis connection left open")
}
