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

	GenerationInterval       time.Duration
	GenerationLockKey        string
	GenerationLockTTLSeconds int

	SyncInterval time.Duration
	SyncWindow   time.Duration

	AtCoderResourcesURL string
	AtCoderAPIURL       string
	FetchDelay          time.Duration
	SubmissionPageSize  int
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:                  getEnv("API_PORT", "8080"),
		DBHost:                   getEnv("DB_HOST", "localhost"),
		DBPort:                   getEnv("DB_PORT", "5432"),
		DBUser:                   getEnv("DB_USER", "user"),
		DBPassword:               getEnv("DB_PASSWORD", "password"),
		DBName:                   getEnv("DB_NAME", "atcoder_bingo_db"),
		DBSslMode:                getEnv("DB_SSLMODE", "disable"),
		RedisAddr:                getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:            getEnv("REDIS_PASSWORD", ""),
		RedisDB:                  getEnvAsInt("REDIS_DB", 0),
		GenerationInterval:       time.Duration(getEnvAsInt("GENERATION_INTERVAL_SECONDS", 300)) * time.Second,
		GenerationLockKey:        getEnv("GENERATION_LOCK_KEY", "bingo_generation_lock"),
		GenerationLockTTLSeconds: getEnvAsInt("GENERATION_LOCK_TTL_SECONDS", 300),
		SyncInterval:             time.Duration(getEnvAsInt("SYNC_INTERVAL_SECONDS", 30)) * time.Second,
		SyncWindow:               time.Duration(getEnvAsInt("SYNC_WINDOW_MINUTES", 60)) * time.Minute,
		AtCoderResourcesURL:      getEnv("ATCODER_RESOURCES_URL", "https://kenkoooo.com/atcoder/resources"),
		AtCoderAPIURL:            getEnv("ATCODER_API_URL", "https://kenkoooo.com/atcoder/atcoder-api"),
		FetchDelay:               time.Duration(getEnvAsInt("FETCH_DELAY_SECONDS", 5)) * time.Second,
		SubmissionPageSize:       getEnvAsInt("SUBMISSION_PAGE_SIZE", 1000),
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
