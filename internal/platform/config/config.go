package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PistonURL         string
	PistonTimeout     time.Duration
	PistonRunTimeout  time.Duration
	EvalCaseTimeout   time.Duration
	EvalParallelism   int
	RuntimesCacheTTL  time.Duration
	PracticeRateLimit int
	PracticeWindow    time.Duration

	SubmissionEventsQueue string
	InlineStandingsWorker bool

	AdminUsername string
	AdminEmail    string
	AdminPassword string

	LogLevel  string
	LogFormat string
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:       getEnv("API_PORT", "8080"),
		JWTKey:        []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:        time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "user"),
		DBPassword:    getEnv("DB_PASSWORD", "password"),
		DBName:        getEnv("DB_NAME", "eventsphere"),
		DBSslMode:     getEnv("DB_SSLMODE", "disable"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		PistonURL:         getEnv("PISTON_URL", "https://emkc.org/api/v2/piston"),
		PistonTimeout:     time.Duration(getEnvAsInt("PISTON_TIMEOUT_SECONDS", 15)) * time.Second,
		PistonRunTimeout:  time.Duration(getEnvAsInt("PISTON_RUN_TIMEOUT_MS", 0)) * time.Millisecond,
		EvalCaseTimeout:   time.Duration(getEnvAsInt("EVAL_CASE_TIMEOUT_SECONDS", 20)) * time.Second,
		EvalParallelism:   getEnvAsInt("EVAL_PARALLELISM", 1),
		RuntimesCacheTTL:  time.Duration(getEnvAsInt("RUNTIMES_CACHE_TTL_SECONDS", 3600)) * time.Second,
		PracticeRateLimit: getEnvAsInt("PRACTICE_RATE_LIMIT", 30),
		PracticeWindow:    time.Duration(getEnvAsInt("PRACTICE_RATE_WINDOW_SECONDS", 60)) * time.Second,

		SubmissionEventsQueue: getEnv("SUBMISSION_EVENTS_QUEUE", "submission_events_queue"),
		InlineStandingsWorker: getEnvAsBool("INLINE_STANDINGS_WORKER", true),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if AppConfig.EvalParallelism < 1 {
		AppConfig.EvalParallelism = 1
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
