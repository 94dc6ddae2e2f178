package config

import (
	"cmp"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	LogMode string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string
	DBURL      string

	MigrationsPath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	GCSBucketName  string
	MediaCDNDomain string
	GCPCredentials string

	CORSAllowedOrigins []string

	DefaultPageSize int
	MaxPageSize     int
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	AppConfig = FromEnv()
}

// FromEnv builds a Config from the current environment without touching AppConfig.
func FromEnv() *Config {
	cfg := &Config{
		APIPort:            getEnv("API_PORT", "8088"),
		LogMode:            getEnv("LOG_MODE", "dev"),
		JWTKey:             []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:             time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "user"),
		DBPassword:         getEnv("DB_PASSWORD", "password"),
		DBName:             getEnv("DB_NAME", "cortex_db"),
		DBSslMode:          getEnv("DB_SSLMODE", "disable"),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "file://migrations"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		CacheTTL:           time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 600)) * time.Second,
		GCSBucketName:      getEnv("GCS_BUCKET_NAME", ""),
		MediaCDNDomain:     getEnv("MEDIA_CDN_DOMAIN", ""),
		GCPCredentials:     cmp.Or(getEnv("GOOGLE_APPLICATION_CREDENTIALS_JSON", ""), getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "tauri://localhost"}),
		DefaultPageSize:    getEnvAsInt("DEFAULT_PAGE_SIZE", 10),
		MaxPageSize:        getEnvAsInt("MAX_PAGE_SIZE", 100),
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode

	dbURL := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:     cfg.DBHost + ":" + cfg.DBPort,
		Path:     "/" + cfg.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(cfg.DBSslMode),
	}
	cfg.DBURL = dbURL.String()

	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	if cfg.DefaultPageSize <= 0 || cfg.DefaultPageSize > cfg.MaxPageSize {
		cfg.DefaultPageSize = min(10, cfg.MaxPageSize)
	}
	return cfg
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

func getEnvAsList(key string, fallback []string) []string {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
