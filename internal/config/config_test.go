package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpirationTime)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 20, cfg.RateLimit.Requests)
	assert.Equal(t, 100, cfg.RateLimit.UserRequests)
	assert.Equal(t, time.Minute, cfg.RateLimit.UserWindow)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.Server.AllowedOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("FITBATTLE_PORT", "9090")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_NAME", "battles")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("FITBATTLE_JWT_EXPIRE", "2h")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpirationTime)
	assert.Contains(t, cfg.Database.DSN(), "@tcp(localhost:5432)/battles")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load(viper.New())
	assert.Error(t, err)
}

func TestDatabaseConfig_PostgresDSN(t *testing.T) {
	d := DatabaseConfig{Driver: "postgres", Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable TimeZone=UTC", d.DSN())
}
