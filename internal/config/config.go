package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Service  ServiceConfig
	Server   ServerConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Log      LogConfig
}

type ServiceConfig struct {
	Name string
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver       string // sqlite or postgres
	DSN          string
	MaxOpenConns int
	MaxRetries   int
	RetryDelay   time.Duration
	Debug        bool
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type LogConfig struct {
	Dir   string
	Level string
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func Load() *Config {
	return &Config{
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "event-service"),
		},
		Server: ServerConfig{
			Port:            normalizePort(getEnv("PORT", ":5000")),
			ReadTimeout:     time.Duration(getEnvInt("SERVER_READ_TIMEOUT_SECONDS", 15)) * time.Second,
			WriteTimeout:    time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT_SECONDS", 15)) * time.Second,
			IdleTimeout:     time.Duration(getEnvInt("SERVER_IDLE_TIMEOUT_SECONDS", 60)) * time.Second,
			ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			DSN:          getEnv("DB_DSN", "file:dbsqlite?cache=shared"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxRetries:   getEnvInt("DB_CONNECT_RETRIES", 5),
			RetryDelay:   time.Duration(getEnvInt("DB_CONNECT_RETRY_DELAY_SECONDS", 2)) * time.Second,
			Debug:        getEnvBool("DB_DEBUG", false),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC_EVENTS", "concerthall.events"),
		},
		Log: LogConfig{
			Dir:   getEnv("LOG_DIR", "logs"),
			Level: strings.ToUpper(getEnv("LOG_LEVEL", "INFO")),
		},
	}
}

// normalizePort accepts both "8080" and ":8080".
func normalizePort(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
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

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
