package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Challenge store backends selectable per OTP flow.
const (
	StoreMemory = "memory"
	StoreDynamo = "dynamo"
	StoreRedis  = "redis"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	RedisURL string

	// Challenge store backend per flow: "memory", "dynamo" or "redis".
	EmailOTPStore  string
	MobileOTPStore string
	SignupOTPStore string

	EmailOTPTTL  time.Duration
	MobileOTPTTL time.Duration
	SignupOTPTTL time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string

	S3InvoiceBucket string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	// Audience for Firebase/Google ID token verification. Empty disables the
	// verifier and the auth middleware degrades to optimistic-allow.
	GoogleClientID string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	OTPChallenges string
	Orders        string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "8080"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "ap-south-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			OTPChallenges: getEnv("DYNAMO_TABLE_OTP_CHALLENGES", "otp_challenges"),
			Orders:        getEnv("DYNAMO_TABLE_ORDERS", "orders"),
		},

		RedisURL: getEnv("REDIS_URL", ""),

		EmailOTPStore:  getEnv("EMAIL_OTP_STORE", StoreMemory),
		MobileOTPStore: getEnv("MOBILE_OTP_STORE", StoreMemory),
		SignupOTPStore: getEnv("SIGNUP_OTP_STORE", StoreDynamo),

		EmailOTPTTL:  time.Duration(getEnvInt("EMAIL_OTP_TTL_MINUTES", 5)) * time.Minute,
		MobileOTPTTL: time.Duration(getEnvInt("MOBILE_OTP_TTL_MINUTES", 5)) * time.Minute,
		SignupOTPTTL: time.Duration(getEnvInt("SIGNUP_OTP_TTL_MINUTES", 10)) * time.Minute,

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "465"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@mkrfoods.example.com"),
		SMTPUsername: getEnv("EMAIL_USER", ""),
		SMTPPassword: getEnv("EMAIL_PASS", ""),

		SNSRegion: getEnv("SNS_REGION", "ap-south-1"),

		RazorpayKeyID:         getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret:     getEnv("RAZORPAY_KEY_SECRET", ""),
		RazorpayWebhookSecret: getEnv("RAZORPAY_WEBHOOK_SECRET", ""),

		S3InvoiceBucket: getEnv("S3_INVOICE_BUCKET", "mkrfoods-invoices"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// IsDevelopment reports whether the dev-only surfaces (status endpoint, mail
// fallback, diagnostic error detail) should be enabled.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv != "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
