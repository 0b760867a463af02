package config

import "time"

// Config 配置主体
type Config struct {
	Server               ServerConfig         `mapstructure:"server"`
	DB                   DBConfig             `mapstructure:"database"`
	Redis                RedisConfig          `mapstructure:"redis"`
	Log                  LogConfig            `mapstructure:"log"`
	JWT                  JWTConfig            `mapstructure:"jwt"`
	Report               ReportConfig         `mapstructure:"report"`
	Cron                 CronConfig           `mapstructure:"cron"`
	Kafka                KafkaConfig          `mapstructure:"kafka"`
	KafkaChannelConsumer KafkaChannelConsumer `mapstructure:"kafka_channel_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"` // 分页链接前缀
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN           string `mapstructure:"dsn"`
	MaxIdle       int    `mapstructure:"max_idle"`
	MaxOpen       int    `mapstructure:"max_open"`
	MaxLifetime   int    `mapstructure:"max_lifetime"`
	QueryTimeout  int    `mapstructure:"query_timeout"`  // 毫秒
	SlowThreshold int    `mapstructure:"slow_threshold"` // 毫秒
}

func (c DBConfig) QueryTimeoutDuration() time.Duration {
	return time.Duration(c.QueryTimeout) * time.Millisecond
}

func (c DBConfig) SlowThresholdDuration() time.Duration {
	return time.Duration(c.SlowThreshold) * time.Millisecond
}

type RedisConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LogConfig 日志配置，RemoteAddress 为空时只输出到 stdout
type LogConfig struct {
	Level         string `mapstructure:"level"`
	RemoteAddress string `mapstructure:"remote_address"`
	Index         string `mapstructure:"index"`
	Token         string `mapstructure:"token"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// ReportConfig 报表分页与缓存配置
type ReportConfig struct {
	Strategy          string `mapstructure:"strategy"` // joined | batched
	DefaultPerPage    int    `mapstructure:"default_per_page"`
	MaxPerPage        int    `mapstructure:"max_per_page"`
	ActiveWindowHours int    `mapstructure:"active_window_hours"`
	ChannelCacheTTL   int    `mapstructure:"channel_cache_ttl"` // 秒
}

func (c ReportConfig) ActiveWindow() time.Duration {
	return time.Duration(c.ActiveWindowHours) * time.Hour
}

func (c ReportConfig) ChannelCacheTTLDuration() time.Duration {
	return time.Duration(c.ChannelCacheTTL) * time.Second
}

// CronConfig 定时任务表达式
type CronConfig struct {
	CachePurge string `mapstructure:"cache_purge"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaChannelConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
