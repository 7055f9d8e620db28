package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	DB       DBConfig       `mapstructure:"db"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Realtime RealtimeConfig `mapstructure:"realtime"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Checker  CheckerConfig  `mapstructure:"checker"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

type AppConfig struct {
	Port           string   `mapstructure:"port"`
	Env            string   `mapstructure:"env"`
	LogLevel       string   `mapstructure:"log_level"`
	SecureCookies  bool     `mapstructure:"secure_cookies"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DBConfig holds the Postgres connection settings
type DBConfig struct {
	URL         string `mapstructure:"url"`
	MaxConns    int32  `mapstructure:"max_conns"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

// RealtimeConfig selects where dashboard change notifications come from.
type RealtimeConfig struct {
	Source     string `mapstructure:"source"`
	Channel    string `mapstructure:"channel"`
	Event      string `mapstructure:"event"`
	BufferSize int    `mapstructure:"buffer_size"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	Group   string   `mapstructure:"group"`
}

type CheckerConfig struct {
	Schedule    string        `mapstructure:"schedule"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
	UserAgent   string        `mapstructure:"user_agent"`
	Once        bool          `mapstructure:"once"`
	MetricsPort string        `mapstructure:"metrics_port"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	Endpoint       string  `mapstructure:"endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	ServiceVersion string  `mapstructure:"service_version"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

const (
	SourcePostgres = "postgres"
	SourceKafka    = "kafka"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.secure_cookies", false)
	v.SetDefault("app.allowed_origins", []string{})

	v.SetDefault("db.url", "")
	v.SetDefault("db.max_conns", 10)
	v.SetDefault("db.auto_migrate", true)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("auth.refresh_ttl", 7*24*time.Hour)

	v.SetDefault("realtime.source", SourcePostgres)
	v.SetDefault("realtime.channel", "sites_changes")
	v.SetDefault("realtime.event", "*")
	v.SetDefault("realtime.buffer_size", 16)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "site-status")
	v.SetDefault("kafka.group", "stillup-web")

	v.SetDefault("checker.schedule", "@every 5m")
	v.SetDefault("checker.timeout", 15*time.Second)
	v.SetDefault("checker.concurrency", 10)
	v.SetDefault("checker.user_agent", "StillUp-Bot/1.0 (Uptime Monitor)")
	v.SetDefault("checker.once", false)
	v.SetDefault("checker.metrics_port", "9091")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.service_name", "stillup")
	v.SetDefault("tracing.service_version", "1.0.0")
	v.SetDefault("tracing.sample_ratio", 1.0)
}

// Load reads configs/settings.yml when present and lets environment variables
// override every key (db.url -> DB_URL).
func Load() (*Config, error) {
	return load(viper.New(), []string{"./configs", "/configs"})
}

func load(v *viper.Viper, paths []string) (*Config, error) {
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("settings")
	v.SetConfigType("yml")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// DATABASE_URL is accepted as an alias
	_ = v.BindEnv("db.url", "DB_URL", "DATABASE_URL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// comma separated lists arrive from the environment as one string
	cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers)
	cfg.App.AllowedOrigins = splitList(cfg.App.AllowedOrigins)

	return &cfg, nil
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks the settings the web server cannot start without.
func (c *Config) Validate() error {
	if c.DB.URL == "" {
		return &ConfigError{Field: "db.url", Message: "database url cannot be empty"}
	}
	if c.Auth.JWTSecret == "" {
		return &ConfigError{Field: "auth.jwt_secret", Message: "jwt secret cannot be empty"}
	}
	if c.Auth.TokenTTL <= 0 {
		return &ConfigError{Field: "auth.token_ttl", Message: "token ttl must be positive"}
	}
	switch c.Realtime.Source {
	case SourcePostgres:
	case SourceKafka:
		if len(c.Kafka.Brokers) == 0 {
			return &ConfigError{Field: "kafka.brokers", Message: "kafka realtime source needs brokers"}
		}
	default:
		return &ConfigError{Field: "realtime.source", Message: fmt.Sprintf("unknown source %q", c.Realtime.Source)}
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return &ConfigError{Field: "tracing.sample_ratio", Message: "sampling ratio must be between 0 and 1"}
	}
	return nil
}

// ValidateChecker checks the settings the pinger needs.
func (c *Config) ValidateChecker() error {
	if c.DB.URL == "" {
		return &ConfigError{Field: "db.url", Message: "database url cannot be empty"}
	}
	if c.Checker.Concurrency < 1 {
		return &ConfigError{Field: "checker.concurrency", Message: "concurrency must be at least 1"}
	}
	if c.Checker.Timeout <= 0 {
		return &ConfigError{Field: "checker.timeout", Message: "timeout must be positive"}
	}
	if !c.Checker.Once && c.Checker.Schedule == "" {
		return &ConfigError{Field: "checker.schedule", Message: "schedule required unless running once"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}
