package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE", StoreMemory)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "UTC", cfg.ClinicTimezone)
	assert.Equal(t, "08:00", cfg.ClinicOpen)
	assert.Equal(t, "18:00", cfg.ClinicClose)
	assert.Equal(t, 24*time.Hour, cfg.ReminderLead())
	assert.Equal(t, 30*time.Minute, cfg.NoShowGrace())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE", StorePostgres)
	t.Setenv("DATABASE_URL", "postgres://clinic@localhost/clinic")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("REMINDER_LEAD_MINUTES", "90")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://clinic@localhost/clinic", cfg.DBUrl)
	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, 90*time.Minute, cfg.ReminderLead())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("STORE", StorePostgres)
		t.Setenv("DATABASE_URL", "")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown store", func(t *testing.T) {
		t.Setenv("STORE", "mysql")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad clinic hours", func(t *testing.T) {
		t.Setenv("STORE", StoreMemory)
		t.Setenv("CLINIC_OPEN", "8am")

		_, err := Load()
		assert.Error(t, err)
	})
}
