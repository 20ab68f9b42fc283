package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin string

	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	GeminiAPIKey         string
	GeminiModel          string
	GeminiBaseURL        string
	GeminiTimeoutSeconds int

	SMTPServer         string
	SMTPPort           int
	SMTPUser           string
	SMTPPass           string
	SMTPStartTLS       bool
	SMTPTimeoutSeconds int

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present; variables
// already set in the environment win.
func Load() Config {
	_ = godotenv.Load(".env")

	return Config{
		Port:            getEnv("PORT", "8000"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: strings.TrimSpace(getEnv("CORS_ALLOW_ORIGIN", "http://localhost:3000")),

		DBDriver:    normalizeDriver(getEnv("DB_DRIVER", "sqlite")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "kmrl_docs.db"),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "uploads"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-pro"),
		GeminiBaseURL:        getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTimeoutSeconds: getEnvInt("GEMINI_TIMEOUT_SECONDS", 60),

		SMTPServer:         getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		SMTPUser:           os.Getenv("SMTP_USER"),
		SMTPPass:           os.Getenv("SMTP_PASS"),
		SMTPStartTLS:       getEnvBool("SMTP_STARTTLS", true),
		SMTPTimeoutSeconds: getEnvInt("SMTP_TIMEOUT_SECONDS", 30),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		LogFile:   os.Getenv("LOG_FILE"),
	}
}

// Validate returns non-fatal warnings and an error when the configuration
// cannot produce a working server.
func (c Config) Validate() (warnings []string, err error) {
	switch c.DBDriver {
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	case "sqlite":
		if strings.TrimSpace(c.SQLitePath) == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	case "memory":
		if c.Env == "production" {
			warnings = append(warnings, "DB_DRIVER=memory in production; data is lost on restart")
		}
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}

	if c.ObjectStoreType == "s3" && strings.TrimSpace(c.S3Bucket) == "" {
		return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
	}

	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		warnings = append(warnings, "GEMINI_API_KEY is empty; every summary will use the failure placeholder")
	}
	if c.SMTPUser == "" || c.SMTPPass == "" {
		warnings = append(warnings, "SMTP_USER/SMTP_PASS are not set; email sends will fail")
	}
	if c.CORSAllowOrigin == "" {
		warnings = append(warnings, "CORS_ALLOW_ORIGIN is empty; cross-origin requests are rejected")
	}
	return warnings, nil
}

// SMTPAddr returns host:port for the SMTP server.
func (c Config) SMTPAddr() string {
	return net.JoinHostPort(c.SMTPServer, strconv.Itoa(c.SMTPPort))
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config: %s=%q is not a positive integer, using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config: %s=%q is not a boolean, using %t", key, raw, def)
		return def
	}
	return val
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}

func normalizeDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "postgresql", "pg":
		return "postgres"
	case "memory", "mem":
		return "memory"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
