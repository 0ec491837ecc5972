package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvTesting    Environment = "testing"
	EnvProduction Environment = "production"
)

func (e Environment) IsProduction() bool {
	return e == EnvProduction
}

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
	DriverBolt     = "bolt"
)

type Config struct {
	AppEnv         Environment   `yaml:"app_env" envconfig:"APP_ENV"`
	GinMode        string        `yaml:"gin_mode" envconfig:"GIN_MODE"`
	TZ             string        `yaml:"tz" envconfig:"TZ"`
	LogLevel       zapcore.Level `yaml:"log_level" envconfig:"LOG_LEVEL"`
	DuplicateCheck *bool         `yaml:"duplicate_check" envconfig:"DUPLICATE_CHECK"`

	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" envconfig:"SERVER_ADDR"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SERVER_SHUTDOWN_TIMEOUT"`
}

type DBConfig struct {
	Driver          string        `yaml:"driver" envconfig:"DB_DRIVER"`
	Host            string        `yaml:"host" envconfig:"DB_HOST"`
	Port            string        `yaml:"port" envconfig:"DB_PORT"`
	User            string        `yaml:"user" envconfig:"DB_USER"`
	Pass            string        `yaml:"pass" envconfig:"DB_PASS"`
	Name            string        `yaml:"name" envconfig:"DB_NAME"`
	SSLMode         string        `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	Path            string        `yaml:"path" envconfig:"DB_PATH"`
	MaxOpenConns    int           `yaml:"max_open_conns" envconfig:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" envconfig:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"DB_CONN_MAX_LIFETIME"`
	ConnectAttempts int           `yaml:"connect_attempts" envconfig:"DB_CONNECT_ATTEMPTS"`
	ConnectDelay    time.Duration `yaml:"connect_delay" envconfig:"DB_CONNECT_DELAY"`
	BoltTimeout     time.Duration `yaml:"bolt_timeout" envconfig:"DB_BOLT_TIMEOUT"`
}

type RateLimitConfig struct {
	Enabled *bool   `yaml:"enabled" envconfig:"RATE_LIMIT_ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RATE_LIMIT_RPS"`
	Burst   int     `yaml:"burst" envconfig:"RATE_LIMIT_BURST"`
}

type CORSConfig struct {
	AllowOrigin string `yaml:"allow_origin" envconfig:"CORS_ALLOW_ORIGIN"`
}

// Load reads configuration in order: the YAML file named by CONFIG_FILE,
// dotenv files, process environment, then defaults for anything still unset.
func Load() (*Config, error) {
	cfg := &Config{}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	loadDotenv()

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("load config from environment: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return yaml.NewDecoder(file).Decode(cfg)
}

// loadDotenv loads .env.dev (debug mode only) and .env when they exist in the
// working directory or one of its parents. Variables already set win.
func loadDotenv() {
	mode := os.Getenv("GIN_MODE")

	files := []string{".env"}
	if mode == "" || mode == "debug" {
		files = append([]string{".env.dev"}, files...)
	}

	for _, name := range files {
		if path := findEnvFile(name); path != "" {
			_ = godotenv.Load(path)
		}
	}
}

func findEnvFile(name string) string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func (c *Config) applyDefaults() {
	if c.GinMode == "" {
		c.GinMode = "debug"
	}
	if c.AppEnv == "" {
		if c.GinMode == "release" {
			c.AppEnv = EnvProduction
		} else {
			c.AppEnv = EnvLocal
		}
	}
	if c.TZ == "" {
		c.TZ = "UTC"
	}
	if c.DuplicateCheck == nil {
		c.DuplicateCheck = boolPtr(true)
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	c.DB.Driver = strings.ToLower(c.DB.Driver)
	if c.DB.Driver == "" {
		c.DB.Driver = DriverPostgres
	}
	if c.DB.Host == "" {
		c.DB.Host = "localhost"
	}
	if c.DB.Port == "" {
		switch c.DB.Driver {
		case DriverMySQL:
			c.DB.Port = "3306"
		default:
			c.DB.Port = "5432"
		}
	}
	if c.DB.User == "" {
		c.DB.User = "postgres"
	}
	if c.DB.Name == "" {
		c.DB.Name = "books"
	}
	if c.DB.SSLMode == "" {
		if c.GinMode == "release" {
			c.DB.SSLMode = "require"
		} else {
			c.DB.SSLMode = "disable"
		}
	}
	if c.DB.Path == "" {
		switch c.DB.Driver {
		case DriverBolt:
			c.DB.Path = "books.db"
		default:
			c.DB.Path = "books.sqlite"
		}
	}
	if c.DB.MaxOpenConns == 0 {
		c.DB.MaxOpenConns = 25
	}
	if c.DB.MaxIdleConns == 0 {
		c.DB.MaxIdleConns = 5
	}
	if c.DB.ConnMaxLifetime == 0 {
		c.DB.ConnMaxLifetime = 5 * time.Minute
	}
	if c.DB.ConnectAttempts == 0 {
		c.DB.ConnectAttempts = 10
	}
	if c.DB.ConnectDelay == 0 {
		c.DB.ConnectDelay = 2 * time.Second
	}
	if c.DB.BoltTimeout == 0 {
		c.DB.BoltTimeout = time.Second
	}

	if c.RateLimit.Enabled == nil {
		c.RateLimit.Enabled = boolPtr(true)
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 10
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 20
	}

	if c.CORS.AllowOrigin == "" {
		c.CORS.AllowOrigin = "*"
	}
}

func (c *Config) Validate() error {
	switch c.AppEnv {
	case EnvLocal, EnvTesting, EnvProduction:
	default:
		return fmt.Errorf("invalid APP_ENV %q: want local, testing or production", c.AppEnv)
	}

	switch c.DB.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite, DriverBolt:
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: want postgres, mysql, sqlite or bolt", c.DB.Driver)
	}

	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rate limit rps and burst must not be negative")
	}

	return nil
}

func (c *Config) DuplicateCheckEnabled() bool {
	return c.DuplicateCheck != nil && *c.DuplicateCheck
}

func (c *Config) RateLimitEnabled() bool {
	return c.RateLimit.Enabled != nil && *c.RateLimit.Enabled
}

// DSN returns the connection string for the configured SQL driver.
func (c *Config) DSN() string {
	switch c.DB.Driver {
	case DriverMySQL:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=%s",
			c.DB.User,
			c.DB.Pass,
			c.DB.Host,
			c.DB.Port,
			c.DB.Name,
			c.TZ,
		)
	case DriverSQLite, DriverBolt:
		return c.DB.Path
	default:
		return fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			c.DB.Host,
			c.DB.User,
			c.DB.Pass,
			c.DB.Name,
			c.DB.Port,
			c.DB.SSLMode,
			c.TZ,
		)
	}
}

func boolPtr(v bool) *bool {
	return &v
}
