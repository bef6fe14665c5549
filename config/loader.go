package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func LoadConfig(path string) (*Config, error) {
	// .env is optional, real env vars still win
	_ = godotenv.Load()

	v := viper.New()

	// default first
	setDefaults(v)

	// File Config
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Env Config
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read File
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Validate
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("service_name", "pulsewatch")
	v.SetDefault("port", 8080)

	v.SetDefault("scheduler.check_spec", "@every 1m")
	v.SetDefault("scheduler.cleanup_spec", "@daily")
	v.SetDefault("scheduler.distributed_lock", false)
	v.SetDefault("scheduler.lock_ttl", "55s")

	v.SetDefault("alerting.throttle_backend", "memory")
	v.SetDefault("alerting.error_rate_scope", "user")

	v.SetDefault("notification.send_timeout", "10s")
	v.SetDefault("notification.smtp.port", 587)

	v.SetDefault("retention.default_days", 30)

	v.SetDefault("rabbitmq.enabled", false)
	v.SetDefault("rabbitmq.exchange_type", "direct")
	v.SetDefault("rabbitmq.routing_key", "check.requested")
	v.SetDefault("rabbitmq.publish_routing_key", "monitoring.events")
	v.SetDefault("rabbitmq.worker_count", 10)

	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 5)
	v.SetDefault("redis.conn_max_lifetime", "2m")
	v.SetDefault("redis.conn_max_idle_time", "30s")

	v.SetDefault("db.max_open_conns", 50)
	v.SetDefault("db.min_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "1h")
	v.SetDefault("db.conn_max_idle_time", "30m")
	v.SetDefault("db.health_timeout", "5s")
	v.SetDefault("db.auto_migrate", false)

	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)
}

func validateConfig(cfg *Config) error {

	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return formatValidationErrors(ve)
		}
		return err
	}
	return nil
}

func formatValidationErrors(ve validator.ValidationErrors) error {
	var sb strings.Builder
	sb.WriteString("config validation failed:\n")

	for _, fe := range ve {
		fmt.Fprintf(&sb, "- field '%s' failed on '%s'\n", fe.Namespace(), fe.Tag())
	}
	return errors.New(sb.String())
}
