package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/siamroads/service-trip/internal/platform/database"
)

// envPrefix namespaces every variable, e.g. TRIP_SERVICE_PORT.
const envPrefix = "TRIP"

// JWTConfig holds token settings.
type JWTConfig struct {
	Secret string
}

// KafkaConfig holds broker settings. An empty broker list disables messaging.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// RateLimitConfig bounds public write endpoints per client IP.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// ServiceConfig holds all configuration for the trip service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	DBConfig    database.PostgresConfig
	JWTConfig   JWTConfig
	KafkaConfig KafkaConfig
	RateLimit   RateLimitConfig
	SeedCatalog bool
}

// IsDevelopment reports whether the service runs in development mode.
func (c *ServiceConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads configuration from environment variables, after loading a .env
// file from the working directory if one exists.
func Load() (*ServiceConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", ":8004")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "trip_db")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "")
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("SEED_CATALOG", true)
	return v
}

// FromViper builds a ServiceConfig from v and validates it.
func FromViper(v *viper.Viper) (*ServiceConfig, error) {
	cfg := &ServiceConfig{
		Port:   normalizePort(v.GetString("SERVICE_PORT")),
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWTConfig: JWTConfig{Secret: v.GetString("JWT_SECRET")},
		KafkaConfig: KafkaConfig{
			Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		SeedCatalog: v.GetBool("SEED_CATALOG"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ServiceConfig) validate() error {
	var errs []error
	if c.JWTConfig.Secret == "" {
		if !c.IsDevelopment() {
			errs = append(errs, errors.New("TRIP_JWT_SECRET is required outside development"))
		} else {
			c.JWTConfig.Secret = "dev-secret-change-me"
		}
	}
	if c.RateLimit.RPS <= 0 {
		errs = append(errs, fmt.Errorf("TRIP_RATE_LIMIT_RPS must be positive, got %v", c.RateLimit.RPS))
	}
	if c.RateLimit.Burst < 1 {
		errs = append(errs, fmt.Errorf("TRIP_RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimit.Burst))
	}
	return errors.Join(errs...)
}

func normalizePort(port string) string {
	if port != "" && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
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
