package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Env        string `mapstructure:"ENV"`
	ServerPort string `mapstructure:"SERVER_PORT"`
	Store      string `mapstructure:"STORE"`
	DBUrl      string `mapstructure:"DATABASE_URL"`
	JWTSecret  string `mapstructure:"JWT_SECRET"`

	RedisURL            string `mapstructure:"REDIS_URL"`
	NotificationChannel string `mapstructure:"NOTIFICATION_CHANNEL"`

	ClinicTimezone string `mapstructure:"CLINIC_TIMEZONE"`
	ClinicOpen     string `mapstructure:"CLINIC_OPEN"`
	ClinicClose    string `mapstructure:"CLINIC_CLOSE"`

	ReminderLeadMinutes int `mapstructure:"REMINDER_LEAD_MINUTES"`
	NoShowGraceMinutes  int `mapstructure:"NO_SHOW_GRACE_MINUTES"`
	CronIntervalMinutes int `mapstructure:"CRON_INTERVAL_MINUTES"`

	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
}

var keys = []string{
	"ENV", "SERVER_PORT", "STORE", "DATABASE_URL", "JWT_SECRET",
	"REDIS_URL", "NOTIFICATION_CHANNEL",
	"CLINIC_TIMEZONE", "CLINIC_OPEN", "CLINIC_CLOSE",
	"REMINDER_LEAD_MINUTES", "NO_SHOW_GRACE_MINUTES", "CRON_INTERVAL_MINUTES",
	"CORS_ORIGINS",
}

func Load() (*Config, error) {
	// .env is optional; real environment wins over it.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("STORE", StorePostgres)
	v.SetDefault("JWT_SECRET", "changeme")
	v.SetDefault("NOTIFICATION_CHANNEL", "clinic:notifications")
	v.SetDefault("CLINIC_TIMEZONE", "UTC")
	v.SetDefault("CLINIC_OPEN", "08:00")
	v.SetDefault("CLINIC_CLOSE", "18:00")
	v.SetDefault("REMINDER_LEAD_MINUTES", 24*60)
	v.SetDefault("NO_SHOW_GRACE_MINUTES", 30)
	v.SetDefault("CRON_INTERVAL_MINUTES", 1)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) <= 1 {
		if raw := v.GetString("CORS_ORIGINS"); raw != "" {
			cfg.CORSOrigins = strings.Split(raw, ",")
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DBUrl == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE=%s", StorePostgres)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE %q", c.Store)
	}

	for _, hm := range []string{c.ClinicOpen, c.ClinicClose} {
		if _, err := time.Parse("15:04", hm); err != nil {
			return fmt.Errorf("invalid clinic hour %q", hm)
		}
	}

	if c.CronIntervalMinutes <= 0 {
		return fmt.Errorf("CRON_INTERVAL_MINUTES must be positive")
	}

	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) ReminderLead() time.Duration {
	return time.Duration(c.ReminderLeadMinutes) * time.Minute
}

func (c *Config) NoShowGrace() time.Duration {
	return time.Duration(c.NoShowGraceMinutes) * time.Minute
}
