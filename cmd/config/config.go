package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"APP_ENV" env-default:"development"`
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	RabbitMQ    RabbitMQConfig
	Auth        AuthConfig
	Storage     StorageConfig
	Stats       StatsConfig
	CORS        CORSConfig
	Log         LogConfig
}

type ServerConfig struct {
	Port         string        `env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

type DatabaseConfig struct {
	Host            string        `env:"DB_HOST" env-default:"localhost"`
	Port            int           `env:"DB_PORT" env-default:"3306"`
	User            string        `env:"DB_USER" env-default:"root"`
	Password        string        `env:"DB_PASSWORD"`
	Name            string        `env:"DB_NAME" env-default:"crm"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
}

// RedisConfig is optional; an empty host disables login throttling.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT" env-default:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// RabbitMQConfig is optional; an empty host disables picture cleanup.
type RabbitMQConfig struct {
	Host     string `env:"RABBITMQ_HOST"`
	Port     int    `env:"RABBITMQ_PORT" env-default:"5672"`
	User     string `env:"RABBITMQ_USER" env-default:"guest"`
	Password string `env:"RABBITMQ_PASSWORD" env-default:"guest"`
}

type AuthConfig struct {
	JWTSecret          string        `env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTExpiration      time.Duration `env:"AUTH_JWT_EXPIRATION" env-default:"168h"`
	AllowAdminSignup   bool          `env:"AUTH_ALLOW_ADMIN_SIGNUP" env-default:"false"`
	MaxLoginAttempts   int64         `env:"AUTH_MAX_LOGIN_ATTEMPTS" env-default:"5"`
	LoginAttemptWindow time.Duration `env:"AUTH_LOGIN_ATTEMPT_WINDOW" env-default:"15m"`
}

type StorageConfig struct {
	S3Endpoint     string        `env:"S3_ENDPOINT"`
	S3Region       string        `env:"S3_REGION" env-default:"us-east-1"`
	S3AccessKey    string        `env:"S3_ACCESS_KEY"`
	S3SecretKey    string        `env:"S3_SECRET_KEY"`
	S3Bucket       string        `env:"S3_BUCKET" env-default:"crm"`
	MaxUploadBytes int64         `env:"UPLOAD_MAX_BYTES" env-default:"5242880"`
	PresignExpiry  time.Duration `env:"UPLOAD_PRESIGN_EXPIRY" env-default:"15m"`
}

type StatsConfig struct {
	Timezone string `env:"STATS_TIMEZONE"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000,http://localhost:5173" env-separator:","`
}

type LogConfig struct {
	File string `env:"LOG_FILE"`
}

// Load reads configuration from the environment, after a best-effort .env load.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := LoadFromEnv()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadFromEnv reads configuration from the process environment only.
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("read config: AUTH_JWT_SECRET is empty")
	}
	if _, err := cfg.Stats.Location(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &cfg, nil
}

// GetDSN builds the MySQL DSN. Times are parsed into the server location.
func (c *Config) GetDSN() string {
	mc := mysql.NewConfig()
	mc.User = c.Database.User
	mc.Passwd = c.Database.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port))
	mc.DBName = c.Database.Name
	mc.ParseTime = true
	// RowsAffected reports matched rows, so an update that changes nothing is not a miss.
	mc.ClientFoundRows = true
	mc.Loc = time.Local
	return mc.FormatDSN()
}

// Location is the time zone whose calendar day bounds "called today".
func (s StatsConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

// RedisEnabled reports whether a Redis host is configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// RabbitMQEnabled reports whether a broker is configured.
func (c *Config) RabbitMQEnabled() bool {
	return c.RabbitMQ.Host != ""
}

// StorageEnabled reports whether object storage is configured.
func (c *Config) StorageEnabled() bool {
	return c.Storage.S3Endpoint != "" && c.Storage.S3Bucket != ""
}
