package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cr3t")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "stock-ledger", cfg.App.Name)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 4, cfg.Ledger.Parallelism)
	assert.False(t, cfg.Ledger.BuildOnFatal)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cr3t")
	v.Set("HTTP_PORT", "9090")
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("REDIS_TTL_SECONDS", "60")
	v.Set("LEDGER_PARALLELISM", "0")
	v.Set("LEDGER_BUILD_ON_FATAL", "true")
	v.Set("DB_AUTO_MIGRATE", "no-es-bool")
	v.Set("LOCATIONS_FILE", "locations.yaml")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 1, cfg.Ledger.Parallelism)
	assert.True(t, cfg.Ledger.BuildOnFatal)
	assert.True(t, cfg.DB.AutoMigrate, "valor inválido conserva el default")
	assert.Equal(t, "locations.yaml", cfg.Ledger.LocationsFile)
}

func TestFromViper_RequiresSecret(t *testing.T) {
	_, err := fromViper(viper.New())
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/ledger?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestFromViper_AdminPassword(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cr3t")
	v.Set("ADMIN_EMAIL", "admin@ledger.local")
	v.Set("ADMIN_PASSWORD", "corta")
	_, err := fromViper(v)
	assert.Error(t, err)

	v.Set("ADMIN_PASSWORD", "suficientemente-larga")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "admin@ledger.local", cfg.Auth.AdminEmail)
}
