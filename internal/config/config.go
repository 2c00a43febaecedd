package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverLocal    = "local"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Log       LogConfig       `yaml:"log"`
	Sync      SyncConfig      `yaml:"sync"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port for the HTTP listener
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	// LocalDir holds the snapshot file of the local driver
	LocalDir string `yaml:"local_dir"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type SyncConfig struct {
	DashboardPoll time.Duration `yaml:"dashboard_poll"`
	AdminPoll     time.Duration `yaml:"admin_poll"`
}

type WebSocketConfig struct {
	PingInterval time.Duration `yaml:"ping_interval"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Store: StoreConfig{
			Driver:   DriverMemory,
			DSN:      "auction.db",
			LocalDir: ".",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Sync: SyncConfig{
			DashboardPoll: 2 * time.Second,
			AdminPoll:     5 * time.Second,
		},
		WebSocket: WebSocketConfig{
			PingInterval: 30 * time.Second,
			WriteTimeout: 10 * time.Second,
			ReadTimeout:  60 * time.Second,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("AUCTION_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("AUCTION_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	for _, key := range []string{"PORT", "AUCTION_SERVER_PORT"} {
		if portStr := os.Getenv(key); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", key, err)
			}
			cfg.Server.Port = port
		}
	}
	if driver := os.Getenv("AUCTION_STORE_DRIVER"); driver != "" {
		cfg.Store.Driver = driver
	}
	if dsn := os.Getenv("AUCTION_STORE_DSN"); dsn != "" {
		cfg.Store.DSN = dsn
	}
	if dir := os.Getenv("AUCTION_LOCAL_DIR"); dir != "" {
		cfg.Store.LocalDir = dir
	}
	if level := os.Getenv("AUCTION_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if format := os.Getenv("AUCTION_LOG_FORMAT"); format != "" {
		cfg.Log.Format = format
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"AUCTION_DASHBOARD_POLL_MS", &cfg.Sync.DashboardPoll},
		{"AUCTION_ADMIN_POLL_MS", &cfg.Sync.AdminPoll},
		{"AUCTION_WS_PING_MS", &cfg.WebSocket.PingInterval},
		{"AUCTION_WS_WRITE_TIMEOUT_MS", &cfg.WebSocket.WriteTimeout},
		{"AUCTION_WS_READ_TIMEOUT_MS", &cfg.WebSocket.ReadTimeout},
	}
	for _, d := range durations {
		if err := millisFromEnv(d.key, d.target); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite, DriverPostgres, DriverLocal:
	default:
		return fmt.Errorf("invalid store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == DriverPostgres && c.Store.DSN == "" {
		return fmt.Errorf("store dsn is required for the postgres driver")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Sync.DashboardPoll <= 0 || c.Sync.AdminPoll <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}
	if c.WebSocket.PingInterval <= 0 {
		return fmt.Errorf("websocket ping interval must be positive")
	}
	if c.WebSocket.ReadTimeout <= c.WebSocket.PingInterval {
		return fmt.Errorf("websocket read timeout must exceed the ping interval")
	}
	return nil
}

func millisFromEnv(key string, target *time.Duration) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	ms, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	if ms <= 0 {
		return fmt.Errorf("invalid %s: must be positive", key)
	}
	*target = time.Duration(ms) * time.Millisecond
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
