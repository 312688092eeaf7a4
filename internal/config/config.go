package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env             string
	HTTPPort        string
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBPoolSize      int
	FrontendOrigin  string
	JWTSecret       string
	TokenTTL        time.Duration
	UploadDir       string
	UploadPublicURL string
	RedisAddr       string
	NotifierBackend string
	LoginRatePerMin int
	LogLevel        string
	SentryDSN       string
}

// Load returns application config populated from environment variables with
// sensible defaults. A .env file in the working directory is honored when
// present.
func Load() App {
	_ = godotenv.Load()

	return App{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("PORT", "5000"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBUser:          getEnv("DB_USER", "studentadmin"),
		DBPassword:      getEnv("DB_PASSWORD", "studentadmin"),
		DBName:          getEnv("DB_NAME", "studentadmin"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBPoolSize:      intEnv("DB_POOL_SIZE", 10),
		FrontendOrigin:  getEnv("FRONTEND_URL", "http://localhost:3000"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-signing-secret-change"),
		TokenTTL:        durationEnv("TOKEN_TTL", 24*time.Hour),
		UploadDir:       getEnv("UPLOAD_DIR", "public/uploads"),
		UploadPublicURL: getEnv("UPLOAD_PUBLIC_URL", "/uploads"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		NotifierBackend: getEnv("NOTIFIER_BACKEND", "memory"),
		LoginRatePerMin: intEnv("LOGIN_RATE_PER_MIN", 10),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		SentryDSN:       os.Getenv("SENTRY_DSN"),
	}
}

// DatabaseURL assembles a pgx connection string from the discrete DB_* vars.
func (a App) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		a.DBUser, a.DBPassword, a.DBHost, a.DBPort, a.DBName)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
