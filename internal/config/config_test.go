package config_test

import (
	"testing"
	"time"

	"github.com/aurastudio/booking-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Contains(t, cfg.Database.URL, "postgres://")
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOOKING_SERVER_PORT", "9000")
	t.Setenv("BOOKING_DATABASE_URL", "postgres://app:secret@db:5432/booking")
	t.Setenv("BOOKING_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr())
	assert.Equal(t, "postgres://app:secret@db:5432/booking", cfg.Database.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}
