package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultProfilePicBytes = 2 << 20
	defaultDocumentBytes   = 5 << 20
)

type AppConfig struct {
	Port        string
	GinMode     string
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	UploadDir          string
	MaxProfilePicBytes int64
	MaxDocumentBytes   int64

	EmpCodePrefix string
	EmpCodeWidth  int

	LogLevel string
	LogFile  string

	AllowedOrigins []string
	JWTSecret      string

	KafkaBrokers []string
	KafkaTopic   string

	ShutdownTimeout time.Duration
}

func Load() (AppConfig, error) {
	_ = godotenv.Load() // load .env if present

	cfg := AppConfig{
		Port:               getEnv("PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "release"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBMaxConns:         int32(getEnvInt("DB_MAX_CONNS", 10)),
		DBMinConns:         int32(getEnvInt("DB_MIN_CONNS", 1)),
		UploadDir:          getEnv("UPLOAD_DIR", "Uploads"),
		MaxProfilePicBytes: int64(getEnvInt("MAX_PROFILE_PIC_BYTES", defaultProfilePicBytes)),
		MaxDocumentBytes:   int64(getEnvInt("MAX_DOCUMENT_BYTES", defaultDocumentBytes)),
		EmpCodePrefix:      getEnv("EMP_CODE_PREFIX", "ATS0"),
		EmpCodeWidth:       getEnvInt("EMP_CODE_WIDTH", 3),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFile:            os.Getenv("LOG_FILE"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "*")),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "hr.onboarding"),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	missing := []string{}
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return cfg, errors.New("missing required env: " + strings.Join(missing, ", "))
	}
	if cfg.EmpCodeWidth < 1 {
		return cfg, errors.New("EMP_CODE_WIDTH must be positive")
	}
	if cfg.MaxProfilePicBytes <= 0 || cfg.MaxDocumentBytes <= 0 {
		return cfg, errors.New("upload size limits must be positive")
	}

	return cfg, nil
}

// KafkaEnabled reports whether onboarding events should be published.
func (c AppConfig) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
