package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	AuthProvider            string // "jwt" or "firebase"
	PostgresConnStr         string
	MongoURI                string
	MongoDB                 string
	JWTSecret               string
	TokenTTL                time.Duration

	PageSize         int
	FeedCacheTTL     time.Duration
	MaxImageBytes    int64
	PostMaxLength    int
	CommentMaxLength int
}

// Load reads the configuration from the environment, after merging a .env
// file when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		zap.L().Debug("no .env file found, using process environment")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		AuthProvider:            getEnv("AUTH_PROVIDER", "jwt"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDB:                 getEnv("MONGO_DB", "yatube"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		TokenTTL:                getDuration("TOKEN_TTL", 72*time.Hour),

		PageSize:         getInt("PAGE_SIZE", 10),
		FeedCacheTTL:     getDuration("FEED_CACHE_TTL", 20*time.Second),
		MaxImageBytes:    int64(getInt("MAX_IMAGE_BYTES", 5<<20)),
		PostMaxLength:    getInt("POST_MAX_LENGTH", 5000),
		CommentMaxLength: getInt("COMMENT_MAX_LENGTH", 2000),
	}
}

// IsProduction reports whether ENV selects production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		zap.L().Warn("ignoring invalid integer setting", zap.String("key", key), zap.String("value", raw))
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		zap.L().Warn("ignoring invalid duration setting", zap.String("key", key), zap.String("value", raw))
		return defaultValue
	}
	return d
}
