package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Monitor   MonitorConfig
	Retention RetentionConfig
	FileStore FileStoreConfig
	Auth      AuthConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Enabled reports whether the optional day-activity cache is configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// MonitorConfig carries the tunables of the working-hours engine. All of
// them are validated at startup; the engine never sees invalid values.
type MonitorConfig struct {
	// OfflineThreshold is the maximum age of the latest liveness ping for a
	// worker to still count as online. Configure it at 2-3x the agent ping
	// cadence so one or two lost pings do not flip the state.
	OfflineThreshold time.Duration `mapstructure:"offline_threshold"`
	// MaxContinuousGap is the longest silence between two events that still
	// counts as continuous work. Gaps above it are excluded from working
	// time as untracked breaks.
	MaxContinuousGap   time.Duration `mapstructure:"max_continuous_gap"`
	FullDayTargetHours float64       `mapstructure:"full_day_target_hours"`
	// OfficeAddresses is the set of public network addresses that classify
	// a day as worked from the office.
	OfficeAddresses []string `mapstructure:"office_addresses"`
	Timezone        string   `mapstructure:"timezone"`
}

// Location resolves the configured timezone. Validated at load time, so
// callers may ignore the error after startup.
func (m MonitorConfig) Location() (*time.Location, error) {
	return time.LoadLocation(m.Timezone)
}

type RetentionConfig struct {
	Window        time.Duration `mapstructure:"window"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type FileStoreConfig struct {
	BasePath    string `mapstructure:"base_path"`
	MaxFileSize int64  `mapstructure:"max_file_size"`
}

type AuthConfig struct {
	AgentToken string `mapstructure:"agent_token"`
	AdminToken string `mapstructure:"admin_token"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("WFH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	viper.SetDefault("database.postgres.port", 5432)
	viper.SetDefault("database.postgres.sslmode", "disable")

	// Redis defaults
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.cache_ttl", "6h")

	// Engine defaults
	viper.SetDefault("monitor.offline_threshold", "10m")
	viper.SetDefault("monitor.max_continuous_gap", "15m")
	viper.SetDefault("monitor.full_day_target_hours", 8.0)
	viper.SetDefault("monitor.timezone", "UTC")

	// Retention defaults
	viper.SetDefault("retention.window", fmt.Sprintf("%dh", 45*24))
	viper.SetDefault("retention.sweep_interval", "24h")

	// FileStore defaults
	viper.SetDefault("filestore.base_path", "./screenshots")
	viper.SetDefault("filestore.max_file_size", 10*1024*1024) // 10MB
}

// validateConfig rejects configurations the engine cannot run with. Invalid
// configuration is a fatal startup error, never a per-request one.
func validateConfig(config *Config) error {
	if config.Database.Postgres.Host == "" {
		return fmt.Errorf("postgres host is required")
	}
	if config.Monitor.OfflineThreshold <= 0 {
		return fmt.Errorf("monitor offline_threshold must be a positive duration")
	}
	if config.Monitor.MaxContinuousGap <= 0 {
		return fmt.Errorf("monitor max_continuous_gap must be a positive duration")
	}
	if config.Monitor.FullDayTargetHours <= 0 {
		return fmt.Errorf("monitor full_day_target_hours must be positive")
	}
	if len(config.Monitor.OfficeAddresses) == 0 {
		return fmt.Errorf("monitor office_addresses must not be empty")
	}
	if _, err := config.Monitor.Location(); err != nil {
		return fmt.Errorf("monitor timezone is invalid: %w", err)
	}
	if config.Retention.Window <= 0 {
		return fmt.Errorf("retention window must be a positive duration")
	}
	if config.Retention.SweepInterval <= 0 {
		return fmt.Errorf("retention sweep_interval must be a positive duration")
	}
	if config.FileStore.BasePath == "" {
		return fmt.Errorf("filestore base_path is required")
	}
	return nil
}
