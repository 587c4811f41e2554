package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type config struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	LogLevel        string        `mapstructure:"log_level"`
	SeedFile        string        `mapstructure:"seed_file"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	TrustXFF        bool          `mapstructure:"trust_xff"`
	TrustRequestID  bool          `mapstructure:"trust_request_id"`

	Concurrency concurrencyConfig `mapstructure:"concurrency"`
	CORS        corsConfig        `mapstructure:"cors"`
	Stats       statsConfig       `mapstructure:"stats"`
}

type concurrencyConfig struct {
	Max     int           `mapstructure:"max"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type corsConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	MaxAge         int      `mapstructure:"max_age"`
}

type statsConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Backend   string        `mapstructure:"backend"` // "memory" ou "redis"
	Prefix    string        `mapstructure:"prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
	Bucket    string        `mapstructure:"bucket"`
	TrackKeys bool          `mapstructure:"track_keys"`
	Redis     redisConfig   `mapstructure:"redis"`
}

type redisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

var defaults = map[string]any{
	"listen_addr":          "127.0.0.1:3030",
	"log_level":            "info",
	"seed_file":            "",
	"shutdown_timeout":     10 * time.Second,
	"trust_xff":            false,
	"trust_request_id":     false,
	"concurrency.max":      100,
	"concurrency.timeout":  time.Duration(0),
	"cors.allowed_origins": []string{"*"},
	"cors.allowed_headers": []string{"content-type"},
	"cors.allowed_methods": []string{"GET", "POST", "PUT", "DELETE"},
	"cors.max_age":         0,
	"stats.enabled":        true,
	"stats.backend":        "memory",
	"stats.prefix":         "qa:stats",
	"stats.ttl":            24 * time.Hour,
	"stats.bucket":         "minute",
	"stats.track_keys":     false,
	"stats.redis.addr":     "",
	"stats.redis.password": "",
	"stats.redis.db":       0,
}

// envBindings liga cada chave de configuração às variáveis de ambiente aceitas.
var envBindings = map[string]string{
	"listen_addr":          "LISTEN_ADDR",
	"log_level":            "LOG_LEVEL",
	"seed_file":            "SEED_FILE",
	"shutdown_timeout":     "SHUTDOWN_TIMEOUT",
	"trust_xff":            "TRUST_XFF",
	"trust_request_id":     "TRUST_REQUEST_ID",
	"concurrency.max":      "CONCURRENCY_MAX",
	"concurrency.timeout":  "CONCURRENCY_TIMEOUT",
	"cors.allowed_origins": "CORS_ALLOWED_ORIGINS",
	"cors.allowed_headers": "CORS_ALLOWED_HEADERS",
	"cors.allowed_methods": "CORS_ALLOWED_METHODS",
	"cors.max_age":         "CORS_MAX_AGE",
	"stats.enabled":        "STATS_ENABLED",
	"stats.backend":        "STATS_BACKEND",
	"stats.prefix":         "STATS_PREFIX",
	"stats.ttl":            "STATS_TTL",
	"stats.bucket":         "STATS_BUCKET",
	"stats.track_keys":     "STATS_TRACK_KEYS",
	"stats.redis.addr":     "STATS_REDIS_ADDR",
	"stats.redis.password": "STATS_REDIS_PASSWORD",
	"stats.redis.db":       "STATS_REDIS_DB",
}

// flagBindings liga flags da linha de comando às chaves (flags vencem env e arquivo).
var flagBindings = map[string]string{
	"listen-addr": "listen_addr",
	"log-level":   "log_level",
	"seed-file":   "seed_file",
}

// loadConfig lê, em ordem crescente de prioridade: defaults, arquivo (se existir),
// variáveis de ambiente (inclusive de um .env) e flags.
func loadConfig(path, dotenv string, flags *pflag.FlagSet) (config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config{}, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	for k, env := range envBindings {
		if err := v.BindEnv(k, env); err != nil {
			return config{}, err
		}
	}
	if flags != nil {
		for name, key := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return config{}, err
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			if err := v.ReadInConfig(); err != nil {
				return config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.CORS.AllowedOrigins = splitList(cfg.CORS.AllowedOrigins)
	cfg.CORS.AllowedHeaders = splitList(cfg.CORS.AllowedHeaders)
	cfg.CORS.AllowedMethods = splitList(cfg.CORS.AllowedMethods)
	cfg.Stats.Backend = strings.ToLower(strings.TrimSpace(cfg.Stats.Backend))

	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return errors.New("LISTEN_ADDR is required")
	}
	if c.Concurrency.Max < 0 {
		return errors.New("CONCURRENCY_MAX must be >= 0")
	}
	if c.Concurrency.Timeout < 0 {
		return errors.New("CONCURRENCY_TIMEOUT must be >= 0")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be > 0")
	}
	if c.Stats.Enabled {
		switch c.Stats.Backend {
		case "memory":
		case "redis":
			if strings.TrimSpace(c.Stats.Redis.Addr) == "" {
				return errors.New("STATS_REDIS_ADDR is required when STATS_BACKEND=redis")
			}
		default:
			return fmt.Errorf("STATS_BACKEND must be memory or redis, got %q", c.Stats.Backend)
		}
	}
	return nil
}

// splitList aceita tanto listas vindas do YAML quanto "a,b,c" vindo do ambiente.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
