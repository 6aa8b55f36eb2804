package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	JWT      JWTConfig
	AWS      AWSConfig
	Tables   TableConfig
	Storage  StorageConfig
	Payments PaymentsConfig
	PDF      PDFConfig
	CORS     CORSConfig
	// AdminEmails register with administrative authority.
	AdminEmails []string
	LogLevel    string
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// MaxMultipartMemory bounds the in-memory part of multipart uploads.
	MaxMultipartMemory int64
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AWSConfig holds the shared AWS SDK settings. Local stacks (dynamodb-local,
// MinIO) do not validate credentials but the SDK requires them.
type AWSConfig struct {
	Region           string
	AccessKeyID      string
	SecretAccessKey  string
	DynamoDBEndpoint string
}

type TableConfig struct {
	Estimates       string
	Payments        string
	ServiceRequests string
	Reviews         string
	Users           string
}

// StorageConfig holds the S3-compatible attachment store settings.
// PublicBaseURL is the prefix of the URLs handed to clients.
type StorageConfig struct {
	Bucket        string
	Endpoint      string
	PublicBaseURL string
	UsePathStyle  bool
}

type PaymentsConfig struct {
	MockMode           bool
	AccessToken        string
	SandboxPayerEmail  string
	SandboxPayerUserID string
}

// Sandbox reports whether the access token belongs to a Mercado Pago test
// account.
func (p PaymentsConfig) Sandbox() bool {
	return strings.HasPrefix(p.AccessToken, "TEST-")
}

// PDFConfig points at a TTF font with Hangul glyphs. Without it the default
// font is used.
type PDFConfig struct {
	FontPath   string
	FontFamily string
	ShopName   string
}

type CORSConfig struct {
	AllowOrigins []string
}

// Load loads configuration from environment variables
// Panics if required configuration is missing
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               getEnvOrDefault("PORT", "8080"),
			ReadTimeout:        getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:       getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout:    getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxMultipartMemory: int64(getIntOrDefault("SERVER_MAX_MULTIPART_MB", 32)) << 20,
		},
		JWT: JWTConfig{
			Secret:     requireEnv("JWT_SECRET"),
			Expiration: getDurationOrDefault("JWT_EXPIRATION", 24*time.Hour),
			Issuer:     getEnvOrDefault("JWT_ISSUER", "pcshop"),
		},
		AWS: AWSConfig{
			Region:           getEnvOrDefault("AWS_REGION", "ap-northeast-2"),
			AccessKeyID:      getEnvOrDefault("AWS_ACCESS_KEY_ID", "local"),
			SecretAccessKey:  getEnvOrDefault("AWS_SECRET_ACCESS_KEY", "local"),
			DynamoDBEndpoint: os.Getenv("DYNAMODB_ENDPOINT"),
		},
		Tables: TableConfig{
			Estimates:       getEnvOrDefault("ESTIMATES_TABLE", "estimates"),
			Payments:        getEnvOrDefault("PAYMENTS_TABLE", "payments"),
			ServiceRequests: getEnvOrDefault("SERVICE_REQUESTS_TABLE", "service_requests"),
			Reviews:         getEnvOrDefault("REVIEWS_TABLE", "reviews"),
			Users:           getEnvOrDefault("USERS_TABLE", "users"),
		},
		Storage: StorageConfig{
			Bucket:        getEnvOrDefault("S3_BUCKET", "pcshop-attachments"),
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
			UsePathStyle:  getBoolOrDefault("S3_USE_PATH_STYLE", os.Getenv("S3_ENDPOINT") != ""),
		},
		Payments: PaymentsConfig{
			MockMode:           getBoolOrDefault("PAYMENT_GATEWAY_MOCK", false) || getBoolOrDefault("MERCADOPAGO_MOCK", false),
			AccessToken:        strings.TrimSpace(os.Getenv("MERCADOPAGO_ACCESS_TOKEN")),
			SandboxPayerEmail:  strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_EMAIL")),
			SandboxPayerUserID: strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_USER_ID")),
		},
		PDF: PDFConfig{
			FontPath:   os.Getenv("PDF_FONT_PATH"),
			FontFamily: getEnvOrDefault("PDF_FONT_FAMILY", "nanumgothic"),
			ShopName:   getEnvOrDefault("SHOP_NAME", "PC Shop"),
		},
		CORS: CORSConfig{
			AllowOrigins: getListOrDefault("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
		},
		AdminEmails: getListOrDefault("ADMIN_EMAILS", nil),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
	}
}

// requireEnv returns the value of the environment variable or panics if not set
func requireEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getBoolOrDefault(key string, defaultVal bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "":
		return defaultVal
	case "1", "true", "yes", "on", "mock":
		return true
	default:
		return false
	}
}

// getListOrDefault splits a comma separated variable, dropping blanks.
func getListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if strings.TrimSpace(val) == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
