package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("QUEUE_SUMMARY_NAME", "summaries")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.Equal(t, "summaries", cfg.Queue.SummaryName)
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"STORAGE_DRIVER", "QUEUE_TRAITS_NAME", "QUEUE_MESSAGE_TTL_SEC", "LOG_LEVEL", "LOG_FORMAT", "BODY_LIMIT_MB"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "minio", cfg.Storage.Driver)
	assert.Equal(t, "document-traits", cfg.Queue.TraitsName)
	assert.Equal(t, 604800, cfg.Queue.MessageTTLSec)
	assert.Equal(t, 0, cfg.Queue.VisibilityTimeoutSec)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 100, cfg.BodyLimitMB)
}

func TestQueueConfigValidate(t *testing.T) {
	valid := QueueConfig{SummaryName: "document-summary", TraitsName: "document-traits", MessageTTLSec: 60}

	tests := []struct {
		name    string
		mutate  func(q *QueueConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*QueueConfig) {}},
		{name: "zero ttl", mutate: func(q *QueueConfig) { q.MessageTTLSec = 0 }, wantErr: "QUEUE_MESSAGE_TTL_SEC must be positive, got 0"},
		{name: "negative ttl", mutate: func(q *QueueConfig) { q.MessageTTLSec = -5 }, wantErr: "QUEUE_MESSAGE_TTL_SEC must be positive, got -5"},
		{name: "negative visibility", mutate: func(q *QueueConfig) { q.VisibilityTimeoutSec = -1 }, wantErr: "QUEUE_VISIBILITY_TIMEOUT_SEC"},
		{name: "missing name", mutate: func(q *QueueConfig) { q.TraitsName = "" }, wantErr: "must be set"},
		{name: "shared name", mutate: func(q *QueueConfig) { q.TraitsName = q.SummaryName }, wantErr: "share the name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
