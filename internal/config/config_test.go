package config

import (
	"testing"
	"time"
)

func validTestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Postgres: PostgresConfig{Host: "localhost"},
		},
		Monitor: MonitorConfig{
			OfflineThreshold:   10 * time.Minute,
			MaxContinuousGap:   15 * time.Minute,
			FullDayTargetHours: 8.0,
			OfficeAddresses:    []string{"203.0.113.10"},
			Timezone:           "Asia/Kolkata",
		},
		Retention: RetentionConfig{
			Window:        45 * 24 * time.Hour,
			SweepInterval: 24 * time.Hour,
		},
		FileStore: FileStoreConfig{BasePath: "./screenshots"},
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:   "valid config passes",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing postgres host",
			mutate:  func(c *Config) { c.Database.Postgres.Host = "" },
			wantErr: true,
		},
		{
			name:    "zero offline threshold",
			mutate:  func(c *Config) { c.Monitor.OfflineThreshold = 0 },
			wantErr: true,
		},
		{
			name:    "negative max continuous gap",
			mutate:  func(c *Config) { c.Monitor.MaxContinuousGap = -time.Minute },
			wantErr: true,
		},
		{
			name:    "zero full day target",
			mutate:  func(c *Config) { c.Monitor.FullDayTargetHours = 0 },
			wantErr: true,
		},
		{
			name:    "no office addresses",
			mutate:  func(c *Config) { c.Monitor.OfficeAddresses = nil },
			wantErr: true,
		},
		{
			name:    "unknown timezone",
			mutate:  func(c *Config) { c.Monitor.Timezone = "Nowhere/Void" },
			wantErr: true,
		},
		{
			name:    "zero retention window",
			mutate:  func(c *Config) { c.Retention.Window = 0 },
			wantErr: true,
		},
		{
			name:    "zero sweep interval",
			mutate:  func(c *Config) { c.Retention.SweepInterval = 0 },
			wantErr: true,
		},
		{
			name:    "missing filestore base path",
			mutate:  func(c *Config) { c.FileStore.BasePath = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr && err == nil {
				t.Fatal("Expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Expected config to validate, got %v", err)
			}
		})
	}
}

func TestRedisEnabled(t *testing.T) {
	if (RedisConfig{}).Enabled() {
		t.Error("Expected cache disabled without a host")
	}
	if !(RedisConfig{Host: "localhost"}).Enabled() {
		t.Error("Expected cache enabled with a host")
	}
}
