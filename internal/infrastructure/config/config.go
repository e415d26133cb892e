package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Sync     SyncConfig
	Monitor  MonitorConfig
	Alert    AlertConfig
	Secrets  SecretsConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings. Redis is optional; it backs
// the shared alert throttle store in multi-replica deployments.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
}

// SyncConfig holds order and inventory sync settings
type SyncConfig struct {
	Enabled          bool
	OrderInterval    time.Duration // how often scheduled order sync runs
	OrderLookback    time.Duration // default since window when a connection has never synced
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	PlatformTimeout  time.Duration // per-request timeout for platform adapters
}

// MonitorConfig holds health monitoring settings
type MonitorConfig struct {
	Enabled               bool
	QuickInterval         time.Duration // lightweight connectivity checks
	FullInterval          time.Duration // probe plus recent sync scoring
	DeepInterval          time.Duration // authenticated platform round trip
	TokenExpiryInterval   time.Duration // credential expiry scan
	HistoryRetention      time.Duration // how long health samples are kept
	FailureThreshold      int           // consecutive failures before INTEGRATION_DOWN
	LatencyThreshold      time.Duration // above this a HIGH_LATENCY alert fires
	TokenWarningDays      int           // days before expiry for a warning alert
	TokenCriticalDays     int           // days before expiry for a critical alert
	RecentSyncWindow      time.Duration // trailing window the full check scores
	RecentSyncMaxFailures int           // failures tolerated inside the window
}

// AlertConfig holds alert dispatch settings
type AlertConfig struct {
	ThrottleWindow time.Duration
	HistoryLimit   int

	EmailEnabled bool
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
	EmailTo      []string

	SlackEnabled    bool
	SlackWebhookURL string

	WebhookEnabled bool
	WebhookURL     string
}

// SecretsConfig holds credential encryption settings
type SecretsConfig struct {
	Passphrase string
	Salt       string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with WMS_ prefix (e.g., WMS_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("WMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
		},
		Sync: SyncConfig{
			Enabled:          v.GetBool("sync.enabled"),
			OrderInterval:    v.GetDuration("sync.order_interval"),
			OrderLookback:    v.GetDuration("sync.order_lookback"),
			RetryMaxAttempts: v.GetInt("sync.retry_max_attempts"),
			RetryBaseDelay:   v.GetDuration("sync.retry_base_delay"),
			PlatformTimeout:  v.GetDuration("sync.platform_timeout"),
		},
		Monitor: MonitorConfig{
			Enabled:               v.GetBool("monitor.enabled"),
			QuickInterval:         v.GetDuration("monitor.quick_interval"),
			FullInterval:          v.GetDuration("monitor.full_interval"),
			DeepInterval:          v.GetDuration("monitor.deep_interval"),
			TokenExpiryInterval:   v.GetDuration("monitor.token_expiry_interval"),
			HistoryRetention:      v.GetDuration("monitor.history_retention"),
			FailureThreshold:      v.GetInt("monitor.failure_threshold"),
			LatencyThreshold:      v.GetDuration("monitor.latency_threshold"),
			TokenWarningDays:      v.GetInt("monitor.token_warning_days"),
			TokenCriticalDays:     v.GetInt("monitor.token_critical_days"),
			RecentSyncWindow:      v.GetDuration("monitor.recent_sync_window"),
			RecentSyncMaxFailures: v.GetInt("monitor.recent_sync_max_failures"),
		},
		Alert: AlertConfig{
			ThrottleWindow:  v.GetDuration("alert.throttle_window"),
			HistoryLimit:    v.GetInt("alert.history_limit"),
			EmailEnabled:    v.GetBool("alert.email_enabled"),
			SMTPHost:        v.GetString("alert.smtp_host"),
			SMTPPort:        v.GetInt("alert.smtp_port"),
			SMTPUsername:    v.GetString("alert.smtp_username"),
			SMTPPassword:    v.GetString("alert.smtp_password"),
			EmailFrom:       v.GetString("alert.email_from"),
			EmailTo:         v.GetStringSlice("alert.email_to"),
			SlackEnabled:    v.GetBool("alert.slack_enabled"),
			SlackWebhookURL: v.GetString("alert.slack_webhook_url"),
			WebhookEnabled:  v.GetBool("alert.webhook_enabled"),
			WebhookURL:      v.GetString("alert.webhook_url"),
		},
		Secrets: SecretsConfig{
			Passphrase: v.GetString("secrets.passphrase"),
			Salt:       v.GetString("secrets.salt"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "wms-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "wms"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.Sync.OrderInterval == 0 {
		cfg.Sync.OrderInterval = 15 * time.Minute
	}
	if cfg.Sync.OrderLookback == 0 {
		cfg.Sync.OrderLookback = 7 * 24 * time.Hour
	}
	if cfg.Sync.RetryMaxAttempts == 0 {
		cfg.Sync.RetryMaxAttempts = 3
	}
	if cfg.Sync.RetryBaseDelay == 0 {
		cfg.Sync.RetryBaseDelay = time.Second
	}
	if cfg.Sync.PlatformTimeout == 0 {
		cfg.Sync.PlatformTimeout = 30 * time.Second
	}
	if cfg.Monitor.QuickInterval == 0 {
		cfg.Monitor.QuickInterval = 5 * time.Minute
	}
	if cfg.Monitor.FullInterval == 0 {
		cfg.Monitor.FullInterval = 15 * time.Minute
	}
	if cfg.Monitor.DeepInterval == 0 {
		cfg.Monitor.DeepInterval = time.Hour
	}
	if cfg.Monitor.TokenExpiryInterval == 0 {
		cfg.Monitor.TokenExpiryInterval = 24 * time.Hour
	}
	if cfg.Monitor.HistoryRetention == 0 {
		cfg.Monitor.HistoryRetention = 24 * time.Hour
	}
	if cfg.Monitor.FailureThreshold == 0 {
		cfg.Monitor.FailureThreshold = 3
	}
	if cfg.Monitor.LatencyThreshold == 0 {
		cfg.Monitor.LatencyThreshold = 5 * time.Second
	}
	if cfg.Monitor.TokenWarningDays == 0 {
		cfg.Monitor.TokenWarningDays = 7
	}
	if cfg.Monitor.TokenCriticalDays == 0 {
		cfg.Monitor.TokenCriticalDays = 1
	}
	if cfg.Monitor.RecentSyncWindow == 0 {
		cfg.Monitor.RecentSyncWindow = 24 * time.Hour
	}
	if cfg.Monitor.RecentSyncMaxFailures == 0 {
		cfg.Monitor.RecentSyncMaxFailures = 2
	}
	if cfg.Alert.ThrottleWindow == 0 {
		cfg.Alert.ThrottleWindow = 15 * time.Minute
	}
	if cfg.Alert.HistoryLimit == 0 {
		cfg.Alert.HistoryLimit = 50
	}
	if cfg.Alert.SMTPPort == 0 {
		cfg.Alert.SMTPPort = 587
	}
	if cfg.Secrets.Salt == "" {
		cfg.Secrets.Salt = "wms-credentials-v1"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Monitor.FailureThreshold < 1 {
		return fmt.Errorf("monitor.failure_threshold must be at least 1")
	}
	if c.Alert.EmailEnabled && len(c.Alert.EmailTo) == 0 {
		return fmt.Errorf("alert.email_to is required when email alerts are enabled")
	}
	if c.Alert.SlackEnabled && c.Alert.SlackWebhookURL == "" {
		return fmt.Errorf("alert.slack_webhook_url is required when Slack alerts are enabled")
	}
	if c.Alert.WebhookEnabled && c.Alert.WebhookURL == "" {
		return fmt.Errorf("alert.webhook_url is required when webhook alerts are enabled")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Secrets.Passphrase == "" {
			return fmt.Errorf("secrets.passphrase is required in production")
		}
		if len(c.Secrets.Passphrase) < 16 {
			return fmt.Errorf("secrets.passphrase must be at least 16 characters in production")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
