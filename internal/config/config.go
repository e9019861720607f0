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
	Auth     AuthConfig     `mapstructure:"auth"`
	Policy   PolicyConfig   `mapstructure:"policy"`
	Export   ExportConfig   `mapstructure:"export"`
	Worker   WorkerConfig   `mapstructure:"worker"`
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

// AuthConfig holds session token configuration.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// PolicyConfig holds the travel policy thresholds the validator and the
// approval routing use.
type PolicyConfig struct {
	FlightLeadTimeDays int     `mapstructure:"flight_lead_time_days"`
	TrainLeadTimeDays  int     `mapstructure:"train_lead_time_days"`
	CEOCostThreshold   float64 `mapstructure:"ceo_cost_threshold"`
	StrictLeadTime     bool    `mapstructure:"strict_lead_time"`
}

// ExportConfig holds reconciliation statement export configuration.
type ExportConfig struct {
	CompanyName string `mapstructure:"company_name"`
	OutputDir   string `mapstructure:"output_dir"`
}

// WorkerConfig holds the reminder worker configuration.
type WorkerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	ReminderInterval time.Duration `mapstructure:"reminder_interval"`
	PendingThreshold time.Duration `mapstructure:"pending_threshold"`
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

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("database.path", "data/traveldesk.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	viper.SetDefault("auth.token_ttl", 12*time.Hour)

	viper.SetDefault("policy.flight_lead_time_days", 7)
	viper.SetDefault("policy.train_lead_time_days", 3)
	viper.SetDefault("policy.ceo_cost_threshold", 10000)
	viper.SetDefault("policy.strict_lead_time", false)

	viper.SetDefault("export.output_dir", "statements")

	viper.SetDefault("worker.enabled", true)
	viper.SetDefault("worker.reminder_interval", time.Hour)
	viper.SetDefault("worker.pending_threshold", 48*time.Hour)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

func bindEnvVars() {
	viper.BindEnv("auth.jwt_secret", "TRAVELDESK_JWT_SECRET")
	viper.BindEnv("database.path", "TRAVELDESK_DB_PATH")
	viper.BindEnv("export.company_name", "COMPANY_NAME")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Policy.FlightLeadTimeDays < 0 || c.Policy.TrainLeadTimeDays < 0 {
		return fmt.Errorf("policy lead times must not be negative")
	}
	if c.Policy.CEOCostThreshold <= 0 {
		return fmt.Errorf("policy.ceo_cost_threshold must be positive")
	}
	if c.Worker.Enabled && c.Worker.ReminderInterval <= 0 {
		return fmt.Errorf("worker.reminder_interval must be positive")
	}
	return nil
}
