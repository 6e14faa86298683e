package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort         string
	GracefulTimeout time.Duration
	LogLevel        string
	LogFormat       string

	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	SQLitePath     string

	IdempotencyKeyTTL time.Duration
	CleanupSchedule   string

	EventsBackend      string
	KafkaBrokers       []string
	KafkaTopic         string
	SQSQueueURL        string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	LockBackend  string
	RedisAddr    string
	OrderLockTTL time.Duration

	JWTSecret          string
	EnforcePermissions bool

	PayPalClientID     string
	PayPalClientSecret string
	PayPalMode         string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:         getEnv("APP_PORT", "8080"),
		GracefulTimeout: parseDuration(getEnv("GRACEFUL_TIMEOUT", "5s"), 5*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),

		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "orders"),
		DBPassword:     getEnv("DB_PASSWORD", "orders123"),
		DBName:         getEnv("DB_NAME", "orders_db"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns: parseInt(getEnv("DB_MAX_OPEN_CONNS", "20"), 20),
		SQLitePath:     getEnv("SQLITE_PATH", "orders.db"),

		IdempotencyKeyTTL: parseDuration(getEnv("IDEMPOTENCY_KEY_TTL", "24h"), 24*time.Hour),
		CleanupSchedule:   getEnv("CLEANUP_SCHEDULE", "@every 1h"),

		EventsBackend:      getEnv("EVENTS_BACKEND", "local"),
		KafkaBrokers:       parseList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "order-events"),
		SQSQueueURL:        getEnv("SQS_QUEUE_URL", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		LockBackend:  getEnv("LOCK_BACKEND", "local"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		OrderLockTTL: parseDuration(getEnv("ORDER_LOCK_TTL", "2m"), 2*time.Minute),

		JWTSecret:          getEnv("JWT_SECRET", ""),
		EnforcePermissions: parseBool(getEnv("ENFORCE_PERMISSIONS", "false"), false),

		PayPalClientID:     getEnv("PAYPAL_CLIENT_ID", ""),
		PayPalClientSecret: getEnv("PAYPAL_CLIENT_SECRET", ""),
		PayPalMode:         getEnv("PAYPAL_MODE", "sandbox"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode
}

func (c *Config) MySQLDSN() string {
	return c.DBUser + ":" + c.DBPassword +
		"@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName +
		"?charset=utf8mb4&parseTime=True&loc=UTC"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(value string, fallback bool) bool {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func parseList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
