package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	PublicBaseURL     string `mapstructure:"PUBLIC_BASE_URL"`
	StaticDir         string `mapstructure:"STATIC_DIR"`

	// Payment gateway (Stripe Checkout).
	StripeSecretKey      string        `mapstructure:"STRIPE_SECRET_KEY"`
	StripePublishableKey string        `mapstructure:"STRIPE_PUBLISHABLE_KEY"`
	StripeAPIURL         string        `mapstructure:"STRIPE_API_URL"`
	Currency             string        `mapstructure:"CURRENCY"`
	GatewayTimeout       time.Duration `mapstructure:"GATEWAY_TIMEOUT"`

	// Scheduling system (Connecteam).
	SchedulingBaseURL    string        `mapstructure:"SCHEDULING_BASE_URL"`
	SchedulingAPIKey     string        `mapstructure:"SCHEDULING_API_KEY"`
	SchedulingInstanceID int64         `mapstructure:"SCHEDULING_INSTANCE_ID"`
	SchedulingGroupID    int64         `mapstructure:"SCHEDULING_GROUP_ID"`
	SchedulingAttempts   []string      `mapstructure:"SCHEDULING_ATTEMPTS"`
	SchedulingTimeout    time.Duration `mapstructure:"SCHEDULING_TIMEOUT"`
	AutoRegisterJobs     bool          `mapstructure:"AUTO_REGISTER_JOBS"`

	// Hours of day treated as night work. The window wraps midnight.
	NightHoursStart int `mapstructure:"NIGHT_HOURS_START"`
	NightHoursEnd   int `mapstructure:"NIGHT_HOURS_END"`

	// Redis configuration.
	RedisAddr            string        `mapstructure:"REDIS_ADDR"`
	RedisPassword        string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int           `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB         int           `mapstructure:"REDIS_QUEUE_DB"`
	VerifyCacheTTL       time.Duration `mapstructure:"VERIFY_CACHE_TTL"`
	FollowUpQueueEnabled bool          `mapstructure:"FOLLOWUP_QUEUE_ENABLED"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig.SchedulingAttempts = splitList(AppConfig.SchedulingAttempts)
}

// Every key needs a default, otherwise viper.Unmarshal never sees the env override.
func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("PUBLIC_BASE_URL", "")
	v.SetDefault("STATIC_DIR", "")

	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("STRIPE_PUBLISHABLE_KEY", "")
	v.SetDefault("STRIPE_API_URL", "")
	v.SetDefault("CURRENCY", "gbp")
	v.SetDefault("GATEWAY_TIMEOUT", 10*time.Second)

	v.SetDefault("SCHEDULING_BASE_URL", "https://api.connecteam.com")
	v.SetDefault("SCHEDULING_API_KEY", "")
	v.SetDefault("SCHEDULING_INSTANCE_ID", 13184053)
	v.SetDefault("SCHEDULING_GROUP_ID", 15044517)
	v.SetDefault("SCHEDULING_ATTEMPTS", []string{"jobs-v1-full", "jobs-v1-simple", "jobs-v2", "tasks-v1"})
	v.SetDefault("SCHEDULING_TIMEOUT", 10*time.Second)
	v.SetDefault("AUTO_REGISTER_JOBS", true)

	v.SetDefault("NIGHT_HOURS_START", 22)
	v.SetDefault("NIGHT_HOURS_END", 6)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("VERIFY_CACHE_TTL", 15*time.Minute)
	v.SetDefault("FOLLOWUP_QUEUE_ENABLED", false)
}

// Validate reports configuration that would make the server unusable.
func (c Config) Validate() error {
	var problems []string
	if c.StripeSecretKey == "" {
		problems = append(problems, "STRIPE_SECRET_KEY is required")
	}
	if c.Currency == "" {
		problems = append(problems, "CURRENCY is required")
	}
	if c.GatewayTimeout <= 0 {
		problems = append(problems, "GATEWAY_TIMEOUT must be positive")
	}
	if c.SchedulingTimeout <= 0 {
		problems = append(problems, "SCHEDULING_TIMEOUT must be positive")
	}
	if c.NightHoursStart < 0 || c.NightHoursStart > 23 || c.NightHoursEnd < 0 || c.NightHoursEnd > 23 {
		problems = append(problems, "NIGHT_HOURS_START and NIGHT_HOURS_END must be within 0..23")
	}
	if c.FollowUpQueueEnabled && c.RedisAddr == "" {
		problems = append(problems, "FOLLOWUP_QUEUE_ENABLED requires REDIS_ADDR")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %w", errors.New(strings.Join(problems, "; ")))
	}
	return nil
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// splitList accepts both a YAML list and a single comma separated env value.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
