// cmd/activities-api/sinks.go
package main

import (
	"context"
	"fmt"
	"time"

	"mergington-activities/internal/api"
	"mergington-activities/internal/common/aws"
	"mergington-activities/internal/common/config"
	"mergington-activities/internal/common/database"
	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/events"
)

// Connection retry policy for backing stores that start alongside the service.
var (
	redisConnectAttempts    = 10
	postgresConnectAttempts = 15
	connectRetryDelay       = 2 * time.Second
)

type sinkDeps struct {
	sinks   []events.Sink
	checks  map[string]api.ReadinessCheck
	closers []func() error
}

func (d *sinkDeps) close(log logger.Logger) {
	for _, c := range d.closers {
		if err := c(); err != nil {
			log.Warn("Closing connection failed", map[string]interface{}{"error": err})
		}
	}
}

// connectSinks builds every sink listed in events.sinks, retrying Postgres
// and Redis with backoff. On error every connection opened so far is closed.
func connectSinks(ctx context.Context, cfg *config.Config, log logger.Logger) (_ *sinkDeps, err error) {
	deps := &sinkDeps{checks: make(map[string]api.ReadinessCheck)}
	defer func() {
		if err != nil {
			_ = events.NewDispatcher(log, 0, deps.sinks...).Close()
			deps.close(log)
		}
	}()

	if cfg.Events.Enabled(config.SinkKafka) {
		deps.sinks = append(deps.sinks, events.NewKafkaSink(cfg.Events.Kafka.Brokers, cfg.Events.Kafka.Topic))
	}

	if cfg.Events.Enabled(config.SinkRedis) {
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return nil, err
		}
		if err := database.RetryWithBackoff(ctx, rdb.Ping, redisConnectAttempts, connectRetryDelay, log, "Redis connection"); err != nil {
			_ = rdb.Close()
			return nil, err
		}
		deps.closers = append(deps.closers, rdb.Close)
		deps.checks["redis"] = rdb.Ping
		deps.sinks = append(deps.sinks, events.NewRedisSink(rdb.Client, cfg.Events.Redis.Channel))
	}

	if cfg.Events.Enabled(config.SinkJournal) {
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		if err := database.RetryWithBackoff(ctx, pg.Ping, postgresConnectAttempts, connectRetryDelay, log, "PostgreSQL connection"); err != nil {
			_ = pg.Close()
			return nil, err
		}
		deps.closers = append(deps.closers, pg.Close)
		deps.checks["postgres"] = pg.Ping

		journal := events.NewJournalSink(pg.DB)
		if err := journal.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		deps.sinks = append(deps.sinks, journal)
	}

	if cfg.Events.Enabled(config.SinkSNS) {
		client, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region, cfg.Events.SNS.TopicARN)
		if err != nil {
			return nil, fmt.Errorf("sns client: %w", err)
		}
		deps.sinks = append(deps.sinks, events.NewSNSSink(client))
	}

	if cfg.Events.Enabled(config.SinkEmail) {
		client, err := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region, cfg.Integrations.AWS.SES.FromEmail)
		if err != nil {
			return nil, fmt.Errorf("ses client: %w", err)
		}
		deps.sinks = append(deps.sinks, events.NewEmailSink(client))
	}

	return deps, nil
}
