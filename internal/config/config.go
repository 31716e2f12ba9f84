package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Storage selects the booking store backend: "memory" or "postgres".
	StorageDriver string
	DatabaseURL   string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	RazorpayKeyID     string
	RazorpayKeySecret string

	WorkflowWebhookURL string
	WebhookTimeout     time.Duration

	SendGridAPIKey    string
	SendGridFromEmail string
	ClinicNotifyEmail string

	CORSOrigins []string

	ClinicOpenHour       int
	ClinicCloseHour      int
	ClinicSlotMinutes    int
	ClinicClosedWeekdays []string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		StorageDriver: strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", "memory"))),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),

		WorkflowWebhookURL: getEnv("WORKFLOW_WEBHOOK_URL", ""),
		WebhookTimeout:     getEnvAsDuration("WEBHOOK_TIMEOUT", 10*time.Second),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		ClinicNotifyEmail: getEnv("CLINIC_NOTIFY_EMAIL", ""),

		CORSOrigins: splitAndTrim(getEnv("CORS_ORIGINS", "*")),

		ClinicOpenHour:       getEnvAsInt("CLINIC_OPEN_HOUR", 9),
		ClinicCloseHour:      getEnvAsInt("CLINIC_CLOSE_HOUR", 20),
		ClinicSlotMinutes:    getEnvAsInt("CLINIC_SLOT_MINUTES", 20),
		ClinicClosedWeekdays: splitAndTrim(getEnv("CLINIC_CLOSED_WEEKDAYS", "Sunday")),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),
	}
}

// UsePostgres reports whether the durable store should be used.
func (c *Config) UsePostgres() bool {
	return c.StorageDriver == "postgres" && c.DatabaseURL != ""
}

// PaymentsConfigured reports whether real Razorpay credentials are present.
// Placeholder credentials keep the mock gateway active so the service runs
// end to end without an account.
func (c *Config) PaymentsConfigured() bool {
	if c.RazorpayKeyID == "" || c.RazorpayKeySecret == "" {
		return false
	}
	return !strings.HasPrefix(c.RazorpayKeyID, "placeholder")
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
