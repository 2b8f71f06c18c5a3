package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
	Storage StorageConfig `toml:"storage"`
	Auth    AuthConfig    `toml:"auth"`
	Scoring ScoringConfig `toml:"scoring"`
}

type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	CORSOrigins  []string `toml:"cors_origins"`
}

type LogConfig struct {
	Mode string `toml:"mode"`
}

// StorageConfig selects the backend of the durable session slot.
type StorageConfig struct {
	Backend  string         `toml:"backend"` // file, redis, postgres, memory
	Key      string         `toml:"key"`
	Dir      string         `toml:"dir"`
	Redis    RedisConfig    `toml:"redis"`
	Postgres PostgresConfig `toml:"postgres"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
}

type AuthConfig struct {
	SessionSecret string   `toml:"session_secret"`
	JWTSecret     string   `toml:"jwt_secret"`
	TokenTTL      Duration `toml:"token_ttl"`
	Delay         Duration `toml:"delay"`
}

type ScoringConfig struct {
	Delay Duration `toml:"delay"`
}

// Duration decodes "1500ms"-style strings from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8181",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{15 * time.Second},
			CORSOrigins:  []string{"http://localhost:8080"},
		},
		Log: LogConfig{Mode: "development"},
		Storage: StorageConfig{
			Backend: "file",
			Key:     "contentboost_user",
			Dir:     "./data",
			Redis:   RedisConfig{Addr: "localhost:6379"},
			Postgres: PostgresConfig{
				Host: "localhost",
				Port: "5432",
				User: "postgres",
				Name: "contentboost",
			},
		},
		Auth: AuthConfig{
			SessionSecret: "super-secret-key",
			JWTSecret:     "jwt-secret-key",
			TokenTTL:      Duration{24 * time.Hour},
			Delay:         Duration{800 * time.Millisecond},
		},
		Scoring: ScoringConfig{Delay: Duration{1500 * time.Millisecond}},
	}
}

// Load reads the optional .env and TOML file, then applies environment
// overrides. A missing file at path is not an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Addr = getEnv("SERVER_ADDR", cfg.Server.Addr)
	if v := getEnv("CORS_ORIGINS", ""); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
	cfg.Log.Mode = getEnv("LOG_MODE", cfg.Log.Mode)

	cfg.Storage.Backend = getEnv("STORAGE_BACKEND", cfg.Storage.Backend)
	cfg.Storage.Dir = getEnv("STORAGE_DIR", cfg.Storage.Dir)
	cfg.Storage.Redis.Addr = getEnv("REDIS_ADDR", cfg.Storage.Redis.Addr)
	cfg.Storage.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Storage.Redis.Password)
	cfg.Storage.Redis.DB = getEnvInt("REDIS_DB", cfg.Storage.Redis.DB)
	cfg.Storage.Postgres.Host = getEnv("DB_HOST", cfg.Storage.Postgres.Host)
	cfg.Storage.Postgres.Port = getEnv("DB_PORT", cfg.Storage.Postgres.Port)
	cfg.Storage.Postgres.User = getEnv("DB_USER", cfg.Storage.Postgres.User)
	cfg.Storage.Postgres.Password = getEnv("DB_PASSWORD", cfg.Storage.Postgres.Password)
	cfg.Storage.Postgres.Name = getEnv("DB_NAME", cfg.Storage.Postgres.Name)

	cfg.Auth.SessionSecret = getEnv("SESSION_SECRET", cfg.Auth.SessionSecret)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.Delay.Duration = getEnvDuration("AUTH_DELAY", cfg.Auth.Delay.Duration)
	cfg.Scoring.Delay.Duration = getEnvDuration("SCORING_DELAY", cfg.Scoring.Delay.Duration)
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "redis", "postgres", "memory":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return errors.New("storage key must not be empty")
	}
	if c.Auth.JWTSecret == "" || c.Auth.SessionSecret == "" {
		return errors.New("auth secrets must not be empty")
	}
	if c.Auth.Delay.Duration < 0 || c.Scoring.Delay.Duration < 0 {
		return errors.New("delays must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return i
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}
