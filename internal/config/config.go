package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Workbook WorkbookConfig `mapstructure:"workbook"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Refresh  RefreshConfig  `mapstructure:"refresh"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// WorkbookConfig holds the workbook source configuration.
type WorkbookConfig struct {
	URL           string        `mapstructure:"url"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	FetchAttempts int           `mapstructure:"fetch_attempts"`
}

// IngestConfig tunes the heuristic parts of the ingestion pipeline. The
// summary-label list is configurable because the authoritative set drifts
// with the hand-maintained source file.
type IngestConfig struct {
	SheetNames    []string `mapstructure:"sheet_names"`
	SheetKeywords []string `mapstructure:"sheet_keywords"`
	SummaryLabels []string `mapstructure:"summary_labels"`
}

// RefreshConfig holds the background refresh worker configuration.
type RefreshConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/vales.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	// Workbook defaults
	viper.SetDefault("workbook.fetch_timeout", 30*time.Second)
	viper.SetDefault("workbook.fetch_attempts", 3)

	// Ingest defaults mirror the known layout of the source spreadsheet.
	viper.SetDefault("ingest.sheet_names", []string{"Acomp Físico", "Acomp Fisico"})
	viper.SetDefault("ingest.sheet_keywords", []string{"acomp", "fisico", "vales", "dados", "planilha"})
	viper.SetDefault("ingest.summary_labels", []string{
		"total", "total de vale", "total de vales", "soma", "subtotal", "grand total",
	})

	// Refresh defaults
	viper.SetDefault("refresh.enabled", false)
	viper.SetDefault("refresh.interval", 15*time.Minute)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration.
func bindEnvVars() {
	viper.BindEnv("workbook.url", "WORKBOOK_URL")
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Refresh.Enabled && c.Workbook.URL == "" {
		return fmt.Errorf("workbook.url is required when refresh is enabled")
	}
	if c.Refresh.Enabled && c.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh.interval must be positive")
	}
	if c.Workbook.FetchAttempts < 1 {
		return fmt.Errorf("workbook.fetch_attempts must be at least 1")
	}
	return nil
}
