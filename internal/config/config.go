package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment or a .env file.
type Config struct {
	Env       string `mapstructure:"NODE_ENV" validate:"required,oneof=development staging production test"`
	Port      string `mapstructure:"PORT" validate:"required,numeric"`
	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error dpanic panic fatal"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`

	DBDriver    string `mapstructure:"DB_DRIVER" validate:"required,oneof=mysql postgres"`
	DatabaseDSN string `mapstructure:"DATABASE_DSN" validate:"required"`

	RedisAddr     string `mapstructure:"REDIS_ADDR" validate:"required,hostname_port"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB" validate:"gte=0,lte=15"`

	CORSOrigins     []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitWindow time.Duration `mapstructure:"RATE_LIMIT_WINDOW" validate:"required"`
	RateLimitMax    int           `mapstructure:"RATE_LIMIT_MAX" validate:"gte=1"`

	JWTSecret string `mapstructure:"JWT_SECRET"`
	AdminKey  string `mapstructure:"ADMIN_KEY"`

	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseAPIKey          string `mapstructure:"FIREBASE_API_KEY"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseEmulatorHost    string `mapstructure:"FIREBASE_EMULATOR_HOST"`
	UseMocks                string `mapstructure:"USE_MOCKS"`

	StripeSecretKey                string `mapstructure:"STRIPE_SECRET_KEY"`
	StripePublishableKey           string `mapstructure:"STRIPE_PUBLISHABLE_KEY"`
	StripeWebhookSecret            string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripeGuruPassPriceID          string `mapstructure:"STRIPE_GURU_PASS_PRICE_ID"`
	StripeSkillVerificationPriceID string `mapstructure:"STRIPE_SKILL_VERIFICATION_PRICE_ID"`
	StripeTrustSafetyPriceID       string `mapstructure:"STRIPE_TRUST_SAFETY_PRICE_ID"`
	PublicBaseURL                  string `mapstructure:"PUBLIC_BASE_URL" validate:"required,url"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET" validate:"required"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SenderEmail  string `mapstructure:"SENDER_EMAIL"`

	ExchangePendingTTL time.Duration `mapstructure:"EXCHANGE_PENDING_TTL" validate:"required"`
	JobsEnabled        bool          `mapstructure:"JOBS_ENABLED"`

	SwaggerHost string `mapstructure:"SWAGGER_HOST"`
}

var (
	validate = validator.New(validator.WithRequiredStructEnabled())

	keys = []string{
		"NODE_ENV", "PORT", "LOG_LEVEL", "LOG_FORMAT",
		"DB_DRIVER", "DATABASE_DSN",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"CORS_ORIGINS", "RATE_LIMIT_WINDOW", "RATE_LIMIT_MAX",
		"JWT_SECRET", "ADMIN_KEY",
		"FIREBASE_PROJECT_ID", "FIREBASE_API_KEY", "FIREBASE_CREDENTIALS_FILE", "FIREBASE_EMULATOR_HOST", "USE_MOCKS",
		"STRIPE_SECRET_KEY", "STRIPE_PUBLISHABLE_KEY", "STRIPE_WEBHOOK_SECRET",
		"STRIPE_GURU_PASS_PRICE_ID", "STRIPE_SKILL_VERIFICATION_PRICE_ID", "STRIPE_TRUST_SAFETY_PRICE_ID",
		"PUBLIC_BASE_URL",
		"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET", "MINIO_USE_SSL",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "SENDER_EMAIL",
		"EXCHANGE_PENDING_TTL", "JOBS_ENABLED",
		"SWAGGER_HOST",
	}
)

// Load reads .env files when present, applies defaults, binds environment
// variables and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("NODE_ENV", "development")
	v.SetDefault("PORT", "3001")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DATABASE_DSN", "user:password@tcp(localhost:3306)/yoohoo?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("RATE_LIMIT_MAX", 100)
	v.SetDefault("PUBLIC_BASE_URL", "https://yoohoo.guru")
	v.SetDefault("MINIO_BUCKET", "compliance-documents")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("EXCHANGE_PENDING_TTL", "336h")
	v.SetDefault("JOBS_ENABLED", true)

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	c.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := c.validateEnvironment(); err != nil {
		return nil, err
	}
	return &c, nil
}

// MustLoad loads configuration or exits the process on failure.
func MustLoad() *Config {
	c, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return c
}

func (c *Config) validateEnvironment() error {
	if c.IsProduction() {
		missing := make([]string, 0, 3)
		if c.JWTSecret == "" {
			missing = append(missing, "JWT_SECRET")
		}
		if c.FirebaseProjectID == "" {
			missing = append(missing, "FIREBASE_PROJECT_ID")
		}
		if c.FirebaseAPIKey == "" {
			missing = append(missing, "FIREBASE_API_KEY")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
		}
	}
	return ValidateFirebase(c.Env, c.FirebaseProjectID, c.FirebaseEmulatorHost, c.UseMocks)
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// IsDevelopment reports whether the service runs locally.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// StripeEnabled reports whether a Stripe secret key is configured.
func (c *Config) StripeEnabled() bool { return c.StripeSecretKey != "" }

// StorageEnabled reports whether MinIO credentials are configured.
func (c *Config) StorageEnabled() bool {
	return c.MinioEndpoint != "" && c.MinioAccessKey != "" && c.MinioSecretKey != ""
}

// MailEnabled reports whether outbound SMTP is configured.
func (c *Config) MailEnabled() bool { return c.SMTPHost != "" && c.SenderEmail != "" }

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
