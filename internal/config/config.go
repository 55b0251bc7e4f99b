package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the complete configuration for the service.
type AppConfig struct {
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	ServiceName string         `mapstructure:"service_name"`
	HTTP        HTTPConfig     `mapstructure:"http"`
	Postgres    PostgresConfig `mapstructure:"postgres"`
	Auth        AuthConfig     `mapstructure:"auth"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Admin       AdminConfig    `mapstructure:"admin"`
}

type HTTPConfig struct {
	Port      string `mapstructure:"port"`
	StaticDir string `mapstructure:"static_dir"`
}

type PostgresConfig struct {
	URI            string `mapstructure:"uri"`
	MaxConns       int32  `mapstructure:"max_conns"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

type AuthConfig struct {
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

// RedisConfig is optional; an empty Addr keeps revoked tokens in memory.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type AdminConfig struct {
	PageSize      int    `mapstructure:"page_size"`
	DefaultLeague string `mapstructure:"default_league"`
	DateLocale    string `mapstructure:"date_locale"`

	// Bootstrap account created on start when its email is not taken yet.
	BootstrapName     string `mapstructure:"bootstrap_name"`
	BootstrapEmail    string `mapstructure:"bootstrap_email"`
	BootstrapPassword string `mapstructure:"bootstrap_password"`
}

// Load loads configuration from file and environment variables
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("service_name", "ludic-admin")
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.static_dir", "/app/static")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.migrations_path", "migrations")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("redis.key_prefix", "ludic:")
	v.SetDefault("admin.page_size", 8)
	v.SetDefault("admin.default_league", "РПЛ")
	v.SetDefault("admin.date_locale", "ru-RU")
	v.SetDefault("admin.bootstrap_name", "admin")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	// The short names are the ones the deployment already exports.
	v.BindEnv("environment", "ENVIRONMENT")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("service_name", "SERVICE_NAME")
	v.BindEnv("http.port", "PORT")
	v.BindEnv("http.static_dir", "STATIC_DIR")
	v.BindEnv("postgres.uri", "DATABASE_URL")
	v.BindEnv("postgres.max_conns", "DATABASE_MAX_CONNS")
	v.BindEnv("postgres.migrations_path", "MIGRATIONS_PATH")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_ttl", "TOKEN_TTL")
	v.BindEnv("auth.cookie_secure", "COOKIE_SECURE")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("admin.page_size", "ADMIN_PAGE_SIZE")
	v.BindEnv("admin.default_league", "ADMIN_DEFAULT_LEAGUE")
	v.BindEnv("admin.date_locale", "ADMIN_DATE_LOCALE")
	v.BindEnv("admin.bootstrap_email", "ADMIN_EMAIL")
	v.BindEnv("admin.bootstrap_password", "ADMIN_PASSWORD")

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *AppConfig) Validate() error {
	if c.Postgres.URI == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if c.Admin.PageSize <= 0 {
		return errors.New("admin.page_size must be positive")
	}
	if c.HTTP.Port == "" {
		return errors.New("http.port is required")
	}
	return nil
}
