package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "shop_api", cfg.Common.ServiceName)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "./images", cfg.HTTP.ImagesDir)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, 60*time.Minute, cfg.JWT.TTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, 15*time.Minute, cfg.JWT.TTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestValidate(t *testing.T) {
	valid := Config{
		DB:   DBConfig{Driver: DriverPostgres, URL: "postgres://x"},
		JWT:  JWTConfig{Secret: "s", Algorithm: "HS256", TTL: time.Hour},
		Auth: AuthConfig{BcryptCost: 10},
	}
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *Config){
		"driver":    func(c *Config) { c.DB.Driver = "mysql" },
		"algorithm": func(c *Config) { c.JWT.Algorithm = "RS256" },
		"ttl":       func(c *Config) { c.JWT.TTL = 0 },
		"cost":      func(c *Config) { c.Auth.BcryptCost = 1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
