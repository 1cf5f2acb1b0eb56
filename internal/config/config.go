package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	GRPCAddr string

	DBDSN string

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	AvatarDir      string
	AvatarMaxBytes int64

	AMQPURL        string
	EventsExchange string
	LogsExchange   string

	ServiceName string
	Environment string
	AppEnv      string
	LogLevel    string

	CORSOrigins []string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GRPC_ADDR", ":8085")
	v.SetDefault("JWT_TTL", "72h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("AVATAR_DIR", "./uploads/avatars")
	v.SetDefault("AVATAR_MAX_BYTES", 5<<20)
	v.SetDefault("EVENTS_EXCHANGE", "app.events")
	v.SetDefault("LOGS_EXCHANGE", "logs.events")
	v.SetDefault("SERVICE_NAME", "social-service")
	v.SetDefault("ENVIRONMENT", "local")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:5174")

	cfg := &Config{
		Port:           v.GetString("PORT"),
		GRPCAddr:       v.GetString("GRPC_ADDR"),
		DBDSN:          v.GetString("DB_DSN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTTTL:         v.GetDuration("JWT_TTL"),
		BcryptCost:     v.GetInt("BCRYPT_COST"),
		AvatarDir:      v.GetString("AVATAR_DIR"),
		AvatarMaxBytes: v.GetInt64("AVATAR_MAX_BYTES"),
		AMQPURL:        v.GetString("AMQP_URL"),
		EventsExchange: v.GetString("EVENTS_EXCHANGE"),
		LogsExchange:   v.GetString("LOGS_EXCHANGE"),
		ServiceName:    v.GetString("SERVICE_NAME"),
		Environment:    v.GetString("ENVIRONMENT"),
		AppEnv:         v.GetString("APP_ENV"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if c.AvatarMaxBytes <= 0 {
		return fmt.Errorf("AVATAR_MAX_BYTES must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
