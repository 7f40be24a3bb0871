package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Booking  BookingConfig
}

type ServerConfig struct {
	Port        string
	ReadTimeout time.Duration
	IdleTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Username     string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// DSN renders the postgres:// connection string the pgdriver connector
// and the migration runner share.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.Username, d.Password, d.Host, d.Port, d.Database, d.SSLMode)
}

type RedisConfig struct {
	Addr           string
	FlightCacheTTL time.Duration
	IdentityTTL    time.Duration
}

type KafkaConfig struct {
	Brokers  []string
	Topics   TopicConfig
	Enabled  bool
	MockMode bool
}

type TopicConfig struct {
	BookingCreated   string
	BookingConfirmed string
	BookingCancelled string
}

// AuthConfig selects how bearer tokens are verified.
//
// Mode "local" decodes the claim set without checking the signature and
// trusts it blindly. Mode "backend" forwards the raw token to the auth
// backend's user endpoint. Mode "oidc" verifies the signature against the
// issuer's published keys and is the default.
type AuthConfig struct {
	Mode           string
	Issuer         string
	BackendURL     string
	AnonKey        string
	ServiceRoleKey string
}

type BookingConfig struct {
	// StrictTransitions guards cancel/confirm against terminal-state
	// bookings instead of flipping them unconditionally.
	StrictTransitions bool
	PassSecret        string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", ":8080"),
			ReadTimeout: 15 * time.Second,
			IdleTimeout: 60 * time.Second,
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Username:     getEnv("DB_USERNAME", "skybook"),
			Password:     getEnv("DB_PASSWORD", "skybook"),
			Database:     getEnv("DB_NAME", "skybook"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
		},
		Redis: RedisConfig{
			Addr:           getEnv("REDIS_ADDR", "localhost:6379"),
			FlightCacheTTL: time.Duration(getEnvInt("FLIGHT_CACHE_TTL_SECONDS", 30)) * time.Second,
			IdentityTTL:    time.Duration(getEnvInt("IDENTITY_CACHE_TTL_SECONDS", 60)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Enabled:  getEnvBool("KAFKA_ENABLED", true),
			MockMode: getEnvBool("KAFKA_MOCK_MODE", false),
			Topics: TopicConfig{
				BookingCreated:   getEnv("KAFKA_TOPIC_BOOKING_CREATED", "booking-created"),
				BookingConfirmed: getEnv("KAFKA_TOPIC_BOOKING_CONFIRMED", "booking-confirmed"),
				BookingCancelled: getEnv("KAFKA_TOPIC_BOOKING_CANCELLED", "booking-cancelled"),
			},
		},
		Auth: AuthConfig{
			Mode:           getEnv("AUTH_MODE", "oidc"),
			Issuer:         getEnv("AUTH_ISSUER", "http://localhost:9999"),
			BackendURL:     getEnv("AUTH_BACKEND_URL", "http://localhost:9999"),
			AnonKey:        getEnv("AUTH_ANON_KEY", ""),
			ServiceRoleKey: getEnv("AUTH_SERVICE_ROLE_KEY", ""),
		},
		Booking: BookingConfig{
			StrictTransitions: getEnvBool("BOOKING_STRICT_TRANSITIONS", false),
			PassSecret:        getEnv("BOARDING_PASS_SECRET", "dev-pass-secret"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
