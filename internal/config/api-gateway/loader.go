package api_gateway_config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	ErrNoDSN       ErrConfig = "db.dsn is required for the postgres store"
	ErrNoJWTSecret ErrConfig = "auth.jwt_secret is required"
)

// Load reads path (optional, YAML) and overlays environment variables,
// e.g. AUTH_JWT_SECRET for auth.jwt_secret.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetDefault("app.name", "turnstile")
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "5s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.graceful_timeout", "15s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("store.driver", StorePostgres)

	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_conns", 20)
	v.SetDefault("db.min_conns", 5)
	v.SetDefault("db.max_conn_lifetime", "30m")
	v.SetDefault("db.max_conn_idle_time", "10m")
	v.SetDefault("db.health_check_period", "30s")
	v.SetDefault("db.query_timeout", "2s")

	v.SetDefault("otel.enable", false)
	v.SetDefault("otel.service_name", "turnstile")
	v.SetDefault("otel.sample_ratio", 1.0)
	v.SetDefault("otel.otlp_endpoint", "localhost:4317")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_ttl", "300s")
	v.SetDefault("auth.refresh_ttl", "604600s")
	v.SetDefault("auth.cookie_domain", "")
	v.SetDefault("auth.cookie_path", "/")

	v.SetDefault("password.memory_kib", 19456)
	v.SetDefault("password.iterations", 2)
	v.SetDefault("password.parallelism", 1)
	v.SetDefault("password.salt_length", 16)
	v.SetDefault("password.key_length", 32)

	v.SetDefault("kafka.enable", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "auth-events")

	v.SetDefault("outbox.workers", 2)
	v.SetDefault("outbox.batch_size", 50)
	v.SetDefault("outbox.wait_time", "1s")
	v.SetDefault("outbox.in_progress_ttl", "30s")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StorePostgres:
		if c.DB.DSN == "" {
			return ErrNoDSN
		}
	case StoreMemory:
	default:
		return ErrConfig(fmt.Sprintf("unknown store.driver %q", c.Store.Driver))
	}
	if c.Auth.JWTSecret == "" {
		return ErrNoJWTSecret
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.AccessTTL >= c.Auth.RefreshTTL {
		return ErrConfig("auth.access_ttl must be positive and shorter than auth.refresh_ttl")
	}
	if err := c.Password.AsArgon2idParams().Validate(); err != nil {
		return ErrConfig("password: " + err.Error())
	}
	if c.Kafka.Enable && len(c.Kafka.Brokers) == 0 {
		return ErrConfig("kafka.brokers is required when kafka is enabled")
	}
	return nil
}
