package config

import "time"

type AuthConfig struct {
	Secret     string `mapstructure:"secret" validate:"required,min=16"`
	APIKeyHash string `mapstructure:"api_key_hash"` // argon2id hash of the internal API key
}

type RabbitMQConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	BrokerLink        string `mapstructure:"broker_link" validate:"required_if=Enabled true"`
	ExchangeName      string `mapstructure:"exchange_name" validate:"required_if=Enabled true"`
	ExchangeType      string `mapstructure:"exchange_type"`
	QueueName         string `mapstructure:"queue_name" validate:"required_if=Enabled true"`
	RoutingKey        string `mapstructure:"routing_key"`         // inbound check.requested commands
	PublishRoutingKey string `mapstructure:"publish_routing_key"` // outbound check/alert events
	WorkerCount       int    `mapstructure:"worker_count" validate:"gte=1"`
}

type RedisConfig struct {
	URL             string        `mapstructure:"url" validate:"required"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PoolSize        int           `mapstructure:"pool_size"`
	MinIdleConns    int           `mapstructure:"min_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type DBConfig struct {
	URL             string        `mapstructure:"url" validate:"required"`
	MaxOpenConns    int32         `mapstructure:"max_open_conns"`
	MinIdleConns    int32         `mapstructure:"min_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	HealthTimeout   time.Duration `mapstructure:"health_timeout"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type SchedulerConfig struct {
	CheckSpec       string        `mapstructure:"check_spec" validate:"required"`
	CleanupSpec     string        `mapstructure:"cleanup_spec" validate:"required"`
	DistributedLock bool          `mapstructure:"distributed_lock"`
	LockTTL         time.Duration `mapstructure:"lock_ttl"`
}

type AlertingConfig struct {
	ThrottleBackend string `mapstructure:"throttle_backend" validate:"oneof=memory redis"`
	ErrorRateScope  string `mapstructure:"error_rate_scope" validate:"oneof=user endpoint"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type NotificationConfig struct {
	SendTimeout time.Duration `mapstructure:"send_timeout"`
	SMTP        SMTPConfig    `mapstructure:"smtp"`
}

type RetentionConfig struct {
	DefaultDays int `mapstructure:"default_days" validate:"gte=1"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type Config struct {
	Port         int                `mapstructure:"port" validate:"gt=0"`
	Env          string             `mapstructure:"env"`
	ServiceName  string             `mapstructure:"service_name"`
	DB           DBConfig           `mapstructure:"db"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Auth         AuthConfig         `mapstructure:"auth"`
	RabbitMQ     RabbitMQConfig     `mapstructure:"rabbitmq"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Alerting     AlertingConfig     `mapstructure:"alerting"`
	Notification NotificationConfig `mapstructure:"notification"`
	Retention    RetentionConfig    `mapstructure:"retention"`
	Log          LogConfig          `mapstructure:"log"`
}
