package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env         string `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`
	RedisAddr   string `yaml:"redis_addr" env:"REDIS_ADDR"`
	HTTPServer  `yaml:"http_server"`
	Calendar    Calendar `yaml:"calendar"`
	Auth        Auth     `yaml:"auth"`
	Billing     Billing  `yaml:"billing"`
	Booking     Booking  `yaml:"booking"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

// Calendar configures the Google Calendar mirror. An empty CalendarID disables it.
type Calendar struct {
	CalendarID      string        `yaml:"calendar_id" env:"CALENDAR_ID"`
	CredentialsFile string        `yaml:"credentials_file" env:"GOOGLE_APPLICATION_CREDENTIALS"`
	CredentialsJSON string        `yaml:"credentials_json" env:"GOOGLE_CREDENTIALS_JSON"`
	TimeZone        string        `yaml:"time_zone" env:"CALENDAR_TIME_ZONE" env-default:"America/New_York"`
	Timeout         time.Duration `yaml:"timeout" env-default:"10s"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
}

type Billing struct {
	StripeWebhookSecret string `yaml:"stripe_webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	// SingleCreditPrice is the amount, in cents, of a one-credit purchase.
	SingleCreditPrice int64 `yaml:"single_credit_price" env:"STRIPE_CREDITS_PRODUCT_PRICE" env-default:"10000"`
	BundleCredits     int   `yaml:"bundle_credits" env-default:"5"`
}

type Booking struct {
	LockTTL         time.Duration `yaml:"lock_ttl" env-default:"10s"`
	RatePerMinute   int           `yaml:"rate_per_minute" env-default:"10"`
	RateBurst       int           `yaml:"rate_burst" env-default:"5"`
	EnforceLeadTime bool          `yaml:"enforce_lead_time" env-default:"true"`
}

// MustLoad reads the YAML file named by CONFIG_PATH (default config/config.yaml)
// and applies environment overrides. A .env file is loaded first when present.
func MustLoad() *Config {
	cfg, err := Load(configPath())
	if err != nil {
		log.Fatalf("Failed to read config: %v", err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Location resolves the calendar time zone, UTC when it is unknown.
func (c Calendar) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}

	return "config/config.yaml"
}
