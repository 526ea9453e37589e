package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"STORAGE_DRIVER", "STORAGE_BUCKET", "PRESIGN_EXPIRY_SECONDS", "VERIFY_UPLOADS",
		"RECONCILE_INTERVAL_SECONDS", "ORPHAN_GRACE_SECONDS", "HTTP_PORT", "DEPLOY_ENV",
		"RABBITMQ_HOST", "REDIS_PORT", "JWT_ALGORITHM", "PGPOOL_PORT",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadEnvConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, StorageDriverMinio, cfg.Storage.Driver)
	assert.Equal(t, "cloudlet", cfg.Storage.Bucket)
	assert.Equal(t, time.Hour, cfg.Storage.PresignExpiry)
	assert.False(t, cfg.Storage.VerifyUploads)
	assert.Equal(t, time.Hour, cfg.Reconcile.Interval)
	assert.Equal(t, 2*time.Hour, cfg.Reconcile.OrphanGrace)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "localhost", cfg.RabbitMQ.Host)
	assert.Equal(t, "6379", cfg.Redis.RedisPort)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadEnvConfig_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("STORAGE_BUCKET", "files")
	t.Setenv("PRESIGN_EXPIRY_SECONDS", "600")
	t.Setenv("VERIFY_UPLOADS", "true")
	t.Setenv("ORPHAN_GRACE_SECONDS", "60")
	t.Setenv("GRAFANA_OTLP_ENDPOINT", "https://otel.example.com")
	t.Setenv("DEPLOY_ENV", "production")

	cfg := LoadEnvConfig()

	assert.Equal(t, StorageDriverS3, cfg.Storage.Driver)
	assert.Equal(t, "files", cfg.Storage.Bucket)
	assert.Equal(t, 10*time.Minute, cfg.Storage.PresignExpiry)
	assert.True(t, cfg.Storage.VerifyUploads)
	// grace is clamped to the presign window
	assert.Equal(t, 10*time.Minute, cfg.Reconcile.OrphanGrace)
	assert.Equal(t, "otel.example.com", cfg.Grafana.OTLPEndpoint)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadEnvConfig_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("PRESIGN_EXPIRY_SECONDS", "soon")
	t.Setenv("RECONCILE_INTERVAL_SECONDS", "-5")

	cfg := LoadEnvConfig()

	assert.Equal(t, time.Hour, cfg.Storage.PresignExpiry)
	assert.Equal(t, time.Hour, cfg.Reconcile.Interval)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &EnvConfig{}
	cfg.Postgres.HOST = "db"
	cfg.Postgres.Username = "u"
	cfg.Postgres.Password = "p"
	cfg.Postgres.Database = "cloudlet"
	cfg.Postgres.Port = "5433"

	assert.Equal(t, "host=db user=u password=p dbname=cloudlet port=5433 sslmode=disable TimeZone=UTC", cfg.PostgresDSN())
}
