package config

// Config is the root configuration shape.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"database"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	MinIO  MinIOConfig  `mapstructure:"minio"`
	SMS    SMSConfig    `mapstructure:"sms"`
	Email  EmailConfig  `mapstructure:"email"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Chat   ChatConfig   `mapstructure:"chat"`
	Ads    AdsConfig    `mapstructure:"ads"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
	// ExternalURL is the public base URL used in sitemap and feed links.
	ExternalURL string `mapstructure:"external_url"`
}

// DBConfig holds the MySQL connection settings.
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// MinIOConfig holds object-storage settings for ad and profile images.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// SMSConfig holds the outbound SMS gateway settings (OTP delivery).
type SMSConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	ApiKey   string `mapstructure:"api_key"`
}

// EmailConfig holds the transactional-email provider settings.
type EmailConfig struct {
	URL       string            `mapstructure:"url"`
	ApiKey    string            `mapstructure:"api_key"`
	FromEmail string            `mapstructure:"from_email"`
	Templates map[string]string `mapstructure:"templates"`
}

// AuthConfig controls token issuance and the alternative shared-secret
// authorization style used by scheduled jobs and the metrics surface.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	TokenExpiryMinutes int    `mapstructure:"token_expiry_minutes"`
	JobSecret          string `mapstructure:"job_secret"`
	AllowJobSecret     bool   `mapstructure:"allow_job_secret"`
}

// ChatConfig tunes the realtime chat subsystem.
type ChatConfig struct {
	PollIntervalSeconds  int  `mapstructure:"poll_interval_seconds"`
	RecencyWindowSeconds int  `mapstructure:"recency_window_seconds"`
	EchoToSender         bool `mapstructure:"echo_to_sender"`
}

type AdsConfig struct {
	ExpiryDays int `mapstructure:"expiry_days"`
}
