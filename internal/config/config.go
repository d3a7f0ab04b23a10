package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joeshaw/envdecode"
	timex "github.com/nixbug/entebus-server/internal/pkg/time"
)

const (
	APITitle   = "Entebus Server"
	APIVersion = "1.0.0"
)

type Server struct {
	Port            int            `json:"port,omitempty"`
	ReadTimeout     timex.Duration `json:"read_timeout,omitempty"`
	WriteTimeout    timex.Duration `json:"write_timeout,omitempty"`
	IdleTimeout     timex.Duration `json:"idle_timeout,omitempty"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout,omitempty"`
	MaxBodyBytes    int64          `json:"max_body_bytes,omitempty"`
}

type DB struct {
	Driver          string         `json:"driver,omitempty"`
	SSLMode         string         `json:"ssl_mode,omitempty"`
	MaxOpenConns    int            `json:"max_open_conns,omitempty"`
	MaxIdleConns    int            `json:"max_idle_conns,omitempty"`
	ConnMaxIdleTime timex.Duration `json:"conn_max_idle_time,omitempty"`
	ConnMaxLifetime timex.Duration `json:"conn_max_lifetime,omitempty"`
	PingTimeout     timex.Duration `json:"ping_timeout,omitempty"`
}

type Argon2 struct {
	Memory     uint32 `json:"memory,omitempty"`
	Iterations uint32 `json:"iterations,omitempty"`
	Threads    uint8  `json:"threads,omitempty"`
	SaltLength uint32 `json:"salt_length,omitempty"`
	KeyLength  uint32 `json:"key_length,omitempty"`
}

// Lock holds the Redis mutex timings. Timeout bounds how long a lock may be
// held before it expires on its own; MaxWait bounds how long a caller waits
// to acquire it.
type Lock struct {
	Timeout       timex.Duration `json:"timeout,omitempty"`
	MaxWait       timex.Duration `json:"max_wait,omitempty"`
	RetryInterval timex.Duration `json:"retry_interval,omitempty"`
}

type Logging struct {
	BatchSize     int            `json:"batch_size,omitempty"`
	BufferSize    int            `json:"buffer_size,omitempty"`
	FlushInterval timex.Duration `json:"flush_interval,omitempty"`
	Timeout       timex.Duration `json:"timeout,omitempty"`
}

type Migration struct {
	Dir string `json:"dir,omitempty"`
}

type Storage struct {
	Secure bool `json:"secure,omitempty"`
}

type App struct {
	Env         string `env:"ENV,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	SecurityKey string `env:"SECURITY_KEY"`
}

type Postgres struct {
	Driver   string `env:"PSQL_DB_DRIVER,default=postgresql"`
	Username string `env:"PSQL_DB_USERNAME,default=postgres"`
	Password string `env:"PSQL_DB_PASSWORD,default=password"`
	Host     string `env:"PSQL_DB_HOST,default=localhost"`
	Port     string `env:"PSQL_DB_PORT,default=5432"`
	Name     string `env:"PSQL_DB_NAME,default=postgres"`
}

type OpenObserve struct {
	Enabled  bool   `env:"OPENOBSERVE_ENABLED,default=false"`
	Protocol string `env:"OPENOBSERVE_PROTOCOL,default=http"`
	Host     string `env:"OPENOBSERVE_HOST,default=localhost"`
	Port     string `env:"OPENOBSERVE_PORT,default=5080"`
	Username string `env:"OPENOBSERVE_USERNAME,default=admin@entebus.com"`
	Password string `env:"OPENOBSERVE_PASSWORD,default=password"`
	Org      string `env:"OPENOBSERVE_ORG,default=nixbug"`
	Stream   string `env:"OPENOBSERVE_STREAM,default=entebus-core-server"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST,default=localhost"`
	Port     string `env:"REDIS_PORT,default=6379"`
	Password string `env:"REDIS_PASSWORD,default=password"`
}

type MinIO struct {
	Host     string `env:"MINIO_HOST,default=localhost"`
	Port     string `env:"MINIO_PORT,default=9000"`
	Username string `env:"MINIO_USERNAME,default=minio"`
	Password string `env:"MINIO_PASSWORD,default=password"`
}

// Env groups the settings that are only ever read from the environment.
type Env struct {
	App         App
	Postgres    Postgres
	OpenObserve OpenObserve
	Redis       Redis
	MinIO       MinIO
}

type Config struct {
	Server    *Server    `json:"server,omitempty"`
	DB        *DB        `json:"db,omitempty"`
	Argon2    *Argon2    `json:"argon2,omitempty"`
	Lock      *Lock      `json:"lock,omitempty"`
	Logging   *Logging   `json:"logging,omitempty"`
	Migration *Migration `json:"migration,omitempty"`
	Storage   *Storage   `json:"storage,omitempty"`
	Env       Env        `json:"-"`
}

func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("server", c.Server),
		slog.Any("db", c.DB),
		slog.Any("argon2", c.Argon2),
		slog.Any("lock", c.Lock),
		slog.Any("logging", c.Logging),
		slog.Any("migration", c.Migration),
		slog.Any("storage", c.Storage),
		slog.String("env", c.Env.App.Env),
		slog.String("postgres", c.Env.Postgres.Host+":"+c.Env.Postgres.Port+"/"+c.Env.Postgres.Name),
		slog.String("redis", c.RedisAddr()),
		slog.String("minio", c.MinIOEndpoint()),
		slog.Bool("openobserve", c.Env.OpenObserve.Enabled),
	)
}

// Default returns the configuration used for any value that the config file leaves out.
func Default() *Config {
	return &Config{
		Server: &Server{
			Port:            8080,
			ReadTimeout:     timex.Duration{Duration: 10 * time.Second},
			WriteTimeout:    timex.Duration{Duration: 10 * time.Second},
			IdleTimeout:     timex.Duration{Duration: 60 * time.Second},
			ShutdownTimeout: timex.Duration{Duration: 10 * time.Second},
			MaxBodyBytes:    1 << 20,
		},
		DB: &DB{
			Driver:          "pgx",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxIdleTime: timex.Duration{Duration: 5 * time.Minute},
			ConnMaxLifetime: timex.Duration{Duration: time.Hour},
			PingTimeout:     timex.Duration{Duration: 5 * time.Second},
		},
		Argon2: &Argon2{
			Memory:     65536,
			Iterations: 3,
			Threads:    2,
			SaltLength: 16,
			KeyLength:  32,
		},
		Lock: &Lock{
			Timeout:       timex.Duration{Duration: 10 * time.Second},
			MaxWait:       timex.Duration{Duration: 10 * time.Second},
			RetryInterval: timex.Duration{Duration: 100 * time.Millisecond},
		},
		Logging: &Logging{
			BatchSize:     100,
			BufferSize:    1024,
			FlushInterval: timex.Duration{Duration: 5 * time.Second},
			Timeout:       timex.Duration{Duration: 5 * time.Second},
		},
		Migration: &Migration{
			Dir: "migrations",
		},
		Storage: &Storage{},
	}
}

func Load(cfgFile string) (*Config, error) {
	slog.Info("Loading config...")
	cfg, err := parseCfgFile(cfgFile)
	if err != nil {
		return nil, err
	}

	if err := decodeEnv(&cfg.Env); err != nil {
		return nil, err
	}

	if err := overrideWithEnv(cfg); err != nil {
		return nil, err
	}

	slog.Info("Config loaded.", "config_file", cfgFile, slog.Any("config", cfg))
	return cfg, nil
}

func parseCfgFile(cfgFile string) (*Config, error) {
	cfgFile = filepath.Clean(cfgFile)
	configFile, err := os.ReadFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
	}

	cfg := Default()
	if err := json.Unmarshal(configFile, cfg); err != nil {
		return nil, fmt.Errorf("decode json config %s: %w", cfgFile, err)
	}

	return cfg, nil
}

func decodeEnv(e *Env) error {
	if err := envdecode.Decode(e); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode env: %w", err)
	}
	return nil
}

func overrideWithEnv(cfg *Config) error {
	if portStr, ok := os.LookupEnv("PORT"); ok {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("parse PORT %q: %w", portStr, err)
		}
		cfg.Server.Port = port
	}
	return nil
}

// PostgresDSN returns the connection URL for the configured database.
// The SQLAlchemy-style "postgresql" scheme is accepted as an alias of "postgres".
func (c *Config) PostgresDSN() string {
	pg := c.Env.Postgres
	scheme := pg.Driver
	if scheme == "" || scheme == "postgresql" {
		scheme = "postgres"
	}

	dsn := &url.URL{
		Scheme: scheme,
		User:   url.UserPassword(pg.Username, pg.Password),
		Host:   net.JoinHostPort(pg.Host, pg.Port),
		Path:   "/" + pg.Name,
	}

	if c.DB != nil && c.DB.SSLMode != "" {
		dsn.RawQuery = url.Values{"sslmode": []string{c.DB.SSLMode}}.Encode()
	}

	return dsn.String()
}

func (c *Config) RedisAddr() string {
	return net.JoinHostPort(c.Env.Redis.Host, c.Env.Redis.Port)
}

func (c *Config) MinIOEndpoint() string {
	return net.JoinHostPort(c.Env.MinIO.Host, c.Env.MinIO.Port)
}

// OpenObserveURL returns the JSON ingestion endpoint of the configured stream.
func (c *Config) OpenObserveURL() string {
	oo := c.Env.OpenObserve
	return fmt.Sprintf("%s://%s/api/%s/%s/_json",
		oo.Protocol, net.JoinHostPort(oo.Host, oo.Port), url.PathEscape(oo.Org), url.PathEscape(oo.Stream))
}
