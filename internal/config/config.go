package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL             string        `mapstructure:"url"`
	StreamName      string        `mapstructure:"stream_name"`
	SubjectPrefix   string        `mapstructure:"subject_prefix"`
	MaxReconnects   int           `mapstructure:"max_reconnects"`
	ReconnectWait   time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName  string        `mapstructure:"connection_name"`
	DuplicateWindow time.Duration `mapstructure:"duplicate_window"`
}

// EthereumConfig holds Ethereum-specific configuration.
// An empty RPCURL disables collection standard detection.
type EthereumConfig struct {
	RPCURL string `mapstructure:"rpc_url"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	ReadTimeout  int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int      `mapstructure:"idle_timeout"`  // in seconds
	AllowOrigins []string `mapstructure:"allow_origins"` // CORS origins, empty allows any
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string `mapstructure:"jwt_public_key"`
}

// ProtocolBootstrapConfig holds the initial protocol configuration applied by migrate
type ProtocolBootstrapConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Admin         string `mapstructure:"admin"`
	Signer        string `mapstructure:"signer"`
	TeamWallet    string `mapstructure:"team_wallet"`
	PaymentToken  string `mapstructure:"payment_token"`
	Custody       string `mapstructure:"custody"`
	ServiceFeeBps uint16 `mapstructure:"service_fee_bps"`
}

// RelayWorkerConfig holds journal relay worker configuration
type RelayWorkerConfig struct {
	BatchSize      int           `mapstructure:"batch_size"`
	PoolSize       int           `mapstructure:"pool_size"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	RetryInitial   time.Duration `mapstructure:"retry_initial"`
	RetryMaxTime   time.Duration `mapstructure:"retry_max_time"`
	ShutdownWindow time.Duration `mapstructure:"shutdown_window"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	Server     ServerConfig   `mapstructure:"server"`
	Auth       AuthConfig     `mapstructure:"auth"`
	Ethereum   EthereumConfig `mapstructure:"ethereum"`
}

// MigrateConfig holds configuration for the migrate program
type MigrateConfig struct {
	BaseConfig    `mapstructure:",squash"`
	Database      DatabaseConfig          `mapstructure:"database"`
	TargetVersion int                     `mapstructure:"target_version"`
	Bootstrap     ProtocolBootstrapConfig `mapstructure:"bootstrap"`
}

// RelayConfig holds configuration for event-relay
type RelayConfig struct {
	BaseConfig     `mapstructure:",squash"`
	Database       DatabaseConfig    `mapstructure:"database"`
	NATS           NATSConfig        `mapstructure:"nats"`
	Relay          RelayWorkerConfig `mapstructure:"relay"`
	MetricsAddress string            `mapstructure:"metrics_address"` // empty disables the metrics listener
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	setDatabaseDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadMigrateConfig loads configuration for the migrate program
func LoadMigrateConfig(configFile string, envPath string) (*MigrateConfig, error) {
	v := configureViper("migrate", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	v.SetDefault("target_version", 0) // 0 means latest
	v.SetDefault("bootstrap.enabled", false)
	v.SetDefault("bootstrap.service_fee_bps", 0)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg MigrateConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if cfg.Database.DBName == "" {
		return nil, errors.New("database.dbname is required")
	}
	if cfg.TargetVersion < 0 {
		return nil, errors.New("target_version must not be negative")
	}

	return &cfg, nil
}

// LoadRelayConfig loads configuration for event-relay
func LoadRelayConfig(configFile string, envPath string) (*RelayConfig, error) {
	v := configureViper("event-relay", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "SETTLEMENT_EVENTS")
	v.SetDefault("nats.subject_prefix", "settlement")
	v.SetDefault("nats.connection_name", "event-relay")
	v.SetDefault("nats.duplicate_window", "2m")
	v.SetDefault("relay.batch_size", 100)
	v.SetDefault("relay.pool_size", 8)
	v.SetDefault("relay.poll_interval", "2s")
	v.SetDefault("relay.retry_initial", "200ms")
	v.SetDefault("relay.retry_max_time", "30s")
	v.SetDefault("relay.shutdown_window", "10s")
	v.SetDefault("metrics_address", ":9091")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config RelayConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.NATS.URL == "" {
		return nil, errors.New("nats.url is required")
	}

	return &config, nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
}

// readConfig reads the config file, tolerating a missing one so env vars alone can configure a binary
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/, cmd/event-relay/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("FF_SETTLEMENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)

	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.subject_prefix",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.duplicate_window",
		// Ethereum
		"ethereum.rpc_url",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allow_origins",
		// Auth
		"auth.jwt_public_key",
		// Migrate
		"target_version",
		"bootstrap.enabled",
		"bootstrap.admin",
		"bootstrap.signer",
		"bootstrap.team_wallet",
		"bootstrap.payment_token",
		"bootstrap.custody",
		"bootstrap.service_fee_bps",
		// Relay
		"relay.batch_size",
		"relay.pool_size",
		"relay.poll_interval",
		"relay.retry_initial",
		"relay.retry_max_time",
		"relay.shutdown_window",
		"metrics_address",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
