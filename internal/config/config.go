package config

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Kafka     KafkaConfig
	MinIO     MinIOConfig
	RateLimit RateLimitConfig
}

var (
	ConfigInstance *Config
	once           sync.Once
	loadErr        error
)

type ServerConfig struct {
	Host           string
	Port           string
	Mode           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Driver          string // postgres or mysql
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL          string // empty disables redis
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

type JWTConfig struct {
	Secret         string
	Issuer         string
	ExpirationTime time.Duration
}

type KafkaConfig struct {
	Brokers  []string // empty disables event publishing
	Topic    string
	ClientID string
}

type MinIOConfig struct {
	Endpoint  string // empty disables avatar uploads
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// RateLimitConfig holds the per-IP budget of the public auth routes and the
// per-user budget of every authenticated route.
type RateLimitConfig struct {
	Requests     int
	Window       time.Duration
	UserRequests int
	UserWindow   time.Duration
}

// Addr is the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// DSN builds the driver-specific connection string.
func (d DatabaseConfig) DSN() string {
	switch d.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User, d.Password, d.Host, d.Port, d.DBName)
	default:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
	}
}

// LoadConfig loads the process configuration once.
func LoadConfig() (*Config, error) {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			slog.Debug("No .env file found, using environment variables")
		}
		ConfigInstance, loadErr = Load(viper.New())
	})
	return ConfigInstance, loadErr
}

// Load reads configuration from the environment through v.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault("FITBATTLE_HOST", "")
	v.SetDefault("FITBATTLE_PORT", "8080")
	v.SetDefault("FITBATTLE_MODE", "release")
	v.SetDefault("FITBATTLE_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("FITBATTLE_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("FITBATTLE_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	v.SetDefault("FITBATTLE_JWT_SECRET", "secret")
	v.SetDefault("FITBATTLE_JWT_ISSUER", "fitbattle-service")
	v.SetDefault("FITBATTLE_JWT_EXPIRE", "24h")
	v.SetDefault("FITBATTLE_RATE_LIMIT_REQUESTS", 20)
	v.SetDefault("FITBATTLE_RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("FITBATTLE_RATE_LIMIT_USER_REQUESTS", 100)
	v.SetDefault("FITBATTLE_RATE_LIMIT_USER_WINDOW", time.Minute)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 100)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
	v.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "fitbattle")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 50)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "fitbattle.battles")
	v.SetDefault("KAFKA_CLIENT_ID", "fitbattle-service")
	v.SetDefault("MINIO_ENDPOINT", "")
	v.SetDefault("MINIO_BUCKET", "avatars")
	v.SetDefault("MINIO_USE_SSL", false)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("FITBATTLE_HOST"),
			Port:           v.GetString("FITBATTLE_PORT"),
			Mode:           v.GetString("FITBATTLE_MODE"),
			ReadTimeout:    v.GetDuration("FITBATTLE_READ_TIMEOUT"),
			WriteTimeout:   v.GetDuration("FITBATTLE_WRITE_TIMEOUT"),
			IdleTimeout:    v.GetDuration("FITBATTLE_IDLE_TIMEOUT"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("REDIS_URL"),
			MaxRetries:   v.GetInt("REDIS_MAX_RETRIES"),
			DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
		},
		JWT: JWTConfig{
			Secret:         v.GetString("FITBATTLE_JWT_SECRET"),
			Issuer:         v.GetString("FITBATTLE_JWT_ISSUER"),
			ExpirationTime: v.GetDuration("FITBATTLE_JWT_EXPIRE"),
		},
		Kafka: KafkaConfig{
			Brokers:  splitList(v.GetString("KAFKA_BROKERS")),
			Topic:    v.GetString("KAFKA_TOPIC"),
			ClientID: v.GetString("KAFKA_CLIENT_ID"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			PublicURL: v.GetString("MINIO_PUBLIC_URL"),
		},
		RateLimit: RateLimitConfig{
			Requests:     v.GetInt("FITBATTLE_RATE_LIMIT_REQUESTS"),
			Window:       v.GetDuration("FITBATTLE_RATE_LIMIT_WINDOW"),
			UserRequests: v.GetInt("FITBATTLE_RATE_LIMIT_USER_REQUESTS"),
			UserWindow:   v.GetDuration("FITBATTLE_RATE_LIMIT_USER_WINDOW"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("FITBATTLE_JWT_SECRET must not be empty")
	}
	if c.JWT.ExpirationTime <= 0 {
		return fmt.Errorf("FITBATTLE_JWT_EXPIRE must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
