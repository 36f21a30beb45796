// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: test-activities\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test-activities", cfg.App.Name)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, ":8000", cfg.Server.Addr())
	assert.Equal(t, "./static", cfg.Server.StaticDir)
	assert.False(t, cfg.Registry.EnforceCapacity)
	assert.Empty(t, cfg.Events.Sinks)
	assert.Equal(t, "activities.roster_changes", cfg.Events.Kafka.Topic)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REGISTRY_ENFORCE_CAPACITY", "true")
	path := writeConfig(t, "server:\n  port: 8000\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Registry.EnforceCapacity)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("TEST_SES_FROM", "activities@mergington.edu")
	path := writeConfig(t, `
events:
  sinks: [email]
integrations:
  aws:
    ses:
      from_email: ${TEST_SES_FROM}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "activities@mergington.edu", cfg.Integrations.AWS.SES.FromEmail)
	assert.True(t, cfg.Events.Enabled(SinkEmail))
	assert.False(t, cfg.Events.Enabled(SinkKafka))
}

func TestLoadFromFile_ValidatesSinks(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "kafka without brokers",
			body:    "events:\n  sinks: [kafka]\n",
			wantErr: "events.kafka.brokers",
		},
		{
			name:    "redis without address",
			body:    "events:\n  sinks: [redis]\n",
			wantErr: "database.redis.address",
		},
		{
			name:    "sns without topic",
			body:    "events:\n  sinks: [sns]\n",
			wantErr: "events.sns.topic_arn",
		},
		{
			name:    "journal without postgres",
			body:    "events:\n  sinks: [journal]\n",
			wantErr: "database.postgres",
		},
		{
			name:    "unknown sink",
			body:    "events:\n  sinks: [carrier-pigeon]\n",
			wantErr: "unknown event sink",
		},
		{
			name:    "bad port",
			body:    "server:\n  port: 70000\n",
			wantErr: "server.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
