package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Redis      RedisConfig      `mapstructure:"redis"`
	MySQL      MySQLConfig      `mapstructure:"mysql"`
	Lock       LockConfig       `mapstructure:"lock"`
	Bidding    BiddingConfig    `mapstructure:"bidding"`
	Leader     LeaderConfig     `mapstructure:"leader"`
	Instance   InstanceConfig   `mapstructure:"instance"`
	Reconciler ReconcilerConfig `mapstructure:"reconciler"`
	Events     EventsConfig     `mapstructure:"events"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	BiddingPort int    `mapstructure:"bidding_port"`
	ItemsPort   int    `mapstructure:"items_port"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MySQLConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LockConfig tunes the per-item lease. A zero RenewInterval means TTL/3.
type LockConfig struct {
	TTL            time.Duration `mapstructure:"ttl"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"`
	MaxRetryDelay  time.Duration `mapstructure:"max_retry_delay"`
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout"`
	RenewInterval  time.Duration `mapstructure:"renew_interval"`
}

type BiddingConfig struct {
	ProcessingDelay    time.Duration `mapstructure:"processing_delay"`
	HistoryPageSize    int           `mapstructure:"history_page_size"`
	HistoryMaxPageSize int           `mapstructure:"history_max_page_size"`
}

type LeaderConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
	Key string        `mapstructure:"key"`
}

type InstanceConfig struct {
	ID string `mapstructure:"id"`
}

type ReconcilerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

type EventsConfig struct {
	Driver  string `mapstructure:"driver"`
	Channel string `mapstructure:"channel"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	EventsDriverRedis = "redis"
	EventsDriverKafka = "kafka"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.bidding_port", 8080)
	v.SetDefault("server.items_port", 8081)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("mysql.dsn", "bidding_user:bidding_pass@tcp(localhost:3306)/bidding_db?parseTime=true")
	v.SetDefault("mysql.max_open_conns", 25)
	v.SetDefault("mysql.max_idle_conns", 10)
	v.SetDefault("mysql.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("lock.ttl", 2*time.Second)
	v.SetDefault("lock.retry_delay", 100*time.Millisecond)
	v.SetDefault("lock.max_retry_delay", 500*time.Millisecond)
	v.SetDefault("lock.acquire_timeout", 2*time.Second)
	v.SetDefault("lock.renew_interval", time.Duration(0))
	v.SetDefault("bidding.processing_delay", time.Duration(0))
	v.SetDefault("bidding.history_page_size", 10)
	v.SetDefault("bidding.history_max_page_size", 100)
	v.SetDefault("leader.ttl", 30*time.Second)
	v.SetDefault("leader.key", "bid_reconciler_leader")
	v.SetDefault("instance.id", "")
	v.SetDefault("reconciler.enabled", true)
	v.SetDefault("reconciler.schedule", "@every 1m")
	v.SetDefault("events.driver", EventsDriverRedis)
	v.SetDefault("events.channel", "bid_events")
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "bid-events")
	v.SetDefault("kafka.group_id", "bid-analytics")
	v.SetDefault("log.level", "info")
}

func bindEnv(v *viper.Viper) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("server.host", "SERVER_HOST")
	v.BindEnv("server.bidding_port", "BIDDING_PORT")
	v.BindEnv("server.items_port", "ITEMS_PORT")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("mysql.dsn", "MYSQL_DSN")
	v.BindEnv("lock.ttl", "LOCK_TTL")
	v.BindEnv("lock.acquire_timeout", "LOCK_ACQUIRE_TIMEOUT")
	v.BindEnv("bidding.processing_delay", "BIDDING_PROCESSING_DELAY")
	v.BindEnv("leader.ttl", "LEADER_TTL")
	v.BindEnv("instance.id", "INSTANCE_ID")
	v.BindEnv("events.driver", "EVENTS_DRIVER")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("log.level", "LOG_LEVEL")
}

// Load reads .env (if any), then config.yaml from the usual places, then the
// environment. A missing config file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/bidding-system/")

	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return unmarshal(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects settings the lease protocol cannot work with.
func (c *Config) Validate() error {
	if c.Lock.TTL <= 0 {
		return fmt.Errorf("lock.ttl must be positive, got %s", c.Lock.TTL)
	}
	if c.Lock.RenewInterval < 0 || c.Lock.RenewInterval >= c.Lock.TTL {
		return fmt.Errorf("lock.renew_interval must be in [0, lock.ttl), got %s", c.Lock.RenewInterval)
	}
	if c.Lock.AcquireTimeout <= 0 {
		return fmt.Errorf("lock.acquire_timeout must be positive, got %s", c.Lock.AcquireTimeout)
	}
	if c.Bidding.HistoryPageSize <= 0 || c.Bidding.HistoryMaxPageSize < c.Bidding.HistoryPageSize {
		return fmt.Errorf("invalid history page sizes %d/%d", c.Bidding.HistoryPageSize, c.Bidding.HistoryMaxPageSize)
	}
	switch c.Events.Driver {
	case EventsDriverRedis, EventsDriverKafka:
	default:
		return fmt.Errorf("unknown events.driver %q", c.Events.Driver)
	}
	return nil
}

// GetConfigString returns a formatted string representation of the config
func (c *Config) GetConfigString() string {
	return fmt.Sprintf(
		"Server: %s:%d/%d, Redis: %s, Lock TTL: %s, Events: %s, Instance: %s",
		c.Server.Host,
		c.Server.BiddingPort,
		c.Server.ItemsPort,
		c.Redis.Address,
		c.Lock.TTL,
		c.Events.Driver,
		c.Instance.ID,
	)
}
