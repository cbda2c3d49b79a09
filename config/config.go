package config

import (
	"YouthHealth/utils"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// AppConfig holds the API server configuration
type AppConfig struct {
	Addr           string
	Env            string
	DBURL          string
	Redis          RedisConfig
	TokenKey       string
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
	SMTP           utils.SMTPConfig
	KafkaBrokers   []string
	KafkaTopic     string
	PingInterval   time.Duration
	PingTimeout    time.Duration
	AdminEmail     string
	AdminPassword  string
	LogLevel       string
}

// AgentConfig holds the dashboard agent configuration
type AgentConfig struct {
	APIURL         string
	RealtimeURL    string
	Email          string
	Password       string
	SessionPath    string
	CoalesceWindow time.Duration
	ResyncSchedule string
	MetricsAddr    string
	LogLevel       string
}

// RedisConfig holds the Redis connection settings
type RedisConfig struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	MinIdleConns int
	ReadTimeout  time.Duration
	MaxRetries   int
}

// LoadEnv reads a .env file into the environment when one is present.
// Variables already set take precedence.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("failed to load .env file")
	}
}

// LoadAppConfig loads the server configuration from environment variables.
func LoadAppConfig() (*AppConfig, error) {
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		return nil, errors.New("missing DB_URL environment variable")
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	tokenKey := os.Getenv("PASETO_KEY")
	if len(tokenKey) != 32 {
		return nil, errors.New("PASETO_KEY environment variable must be 32 bytes long")
	}

	return &AppConfig{
		Addr:           getEnv("ADDR", ":8930"),
		Env:            getEnv("ENV", "production"),
		DBURL:          dbURL,
		Redis:          redisConfig,
		TokenKey:       tokenKey,
		AllowedOrigins: getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		RateLimit:      getEnvAsFloat("RATE_LIMIT_RPS", 15),
		RateBurst:      getEnvAsInt("RATE_LIMIT_BURST", 30),
		SMTP: utils.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			Inbox:    os.Getenv("CONTACT_INBOX"),
		},
		KafkaBrokers:  getEnvAsList("KAFKA_BROKER", nil),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "dashboard_events"),
		PingInterval:  getEnvAsDuration("RT_PING_INTERVAL", 25*time.Second),
		PingTimeout:   getEnvAsDuration("RT_PING_TIMEOUT", 20*time.Second),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}, nil
}

// LoadAgentConfig loads the dashboard agent configuration from environment
// variables.
func LoadAgentConfig() (*AgentConfig, error) {
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		return nil, errors.New("missing API_URL environment variable")
	}
	email := os.Getenv("DASHBOARD_EMAIL")
	password := os.Getenv("DASHBOARD_PASSWORD")

	return &AgentConfig{
		APIURL:         apiURL,
		RealtimeURL:    getEnv("RT_URL", apiURL),
		Email:          email,
		Password:       password,
		SessionPath:    getEnv("SESSION_PATH", "dashboard-session.db"),
		CoalesceWindow: getEnvAsDuration("RT_COALESCE_WINDOW", 250*time.Millisecond),
		ResyncSchedule: getEnv("RESYNC_SCHEDULE", "@every 5m"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}, nil
}

// LoadRedisConfig loads configuration from environment variables with default fallbacks
func LoadRedisConfig() (RedisConfig, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return RedisConfig{}, errors.New("REDIS_URL environment variable is not set")
	}

	return RedisConfig{
		URL:          redisURL,
		PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
		DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 30*time.Second),
		MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 10*time.Second),
		MaxRetries:   getEnvAsInt("REDIS_MAX_RETRIES", 3),
	}, nil
}

// NewLogger returns a logrus logger at the given level. Production logs are
// JSON, everything else uses the text formatter.
func NewLogger(level, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if strings.EqualFold(env, "production") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithField("level", level).Warn("invalid log level, using info")
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
