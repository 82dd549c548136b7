package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		Env         string   `yaml:"env"`
		PublicURL   string   `yaml:"public_url"`   // внешний адрес API (для ссылок Stripe)
		FrontendURL string   `yaml:"frontend_url"` // куда редиректим после логина
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Database struct {
		DSN         string `yaml:"url"`
		AutoMigrate bool   `yaml:"auto_migrate"`
		MaxOpen     int    `yaml:"max_open_conns"`
		MaxIdle     int    `yaml:"max_idle_conns"`
	} `yaml:"database"`

	JWT struct {
		Secret   string `yaml:"secret"`
		TTLHours int    `yaml:"ttl_hours"`
	} `yaml:"jwt"`

	Telegram struct {
		BotToken    string `yaml:"bot_token"`
		BotUsername string `yaml:"bot_username"`
		BotSecret   string `yaml:"bot_secret"` // X-Bot-Secret для служебных роутов
		Enabled     bool   `yaml:"enabled"`
	} `yaml:"telegram"`

	Stripe struct {
		SecretKey     string `yaml:"secret_key"`
		WebhookSecret string `yaml:"webhook_secret"`
		SuccessURL    string `yaml:"success_url"`
		CancelURL     string `yaml:"cancel_url"`
	} `yaml:"stripe"`

	Billing struct {
		PlatformFeePercent int64  `yaml:"platform_fee_percent"`
		MinPayoutCents     int64  `yaml:"min_payout_cents"`
		Currency           string `yaml:"currency"`
	} `yaml:"billing"`

	Admin struct {
		TelegramIDs []int64 `yaml:"telegram_ids"`
	} `yaml:"admin"`

	Workers struct {
		ExpiryIntervalMinutes int `yaml:"expiry_interval_minutes"`
	} `yaml:"workers"`
}

var AppConfig *Config

var ErrMissingSecrets = errors.New("required secrets are not configured")

func LoadConfig() {
	// .env необязателен: в контейнере всё приходит через окружение
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded variables from .env")
	}

	var cfg Config

	if os.Getenv("DATABASE_URL") == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}
		log.Printf("Loading configuration from %s", configPath)

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}
	} else {
		log.Println("Loading configuration from environment variables")
		loadFromEnv(&cfg)
	}

	cfg.applyDefaults()
	AppConfig = &cfg
}

func loadFromEnv(cfg *Config) {
	cfg.Server.Host = os.Getenv("SERVER_HOST")
	cfg.Server.Port = envInt("SERVER_PORT", 0)
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.PublicURL = os.Getenv("PUBLIC_URL")
	cfg.Server.FrontendURL = os.Getenv("FRONTEND_URL")
	cfg.Server.CORSOrigins = envList("CORS_ORIGINS")

	cfg.Database.DSN = os.Getenv("DATABASE_URL")
	cfg.Database.AutoMigrate = os.Getenv("DB_AUTO_MIGRATE") == "true"

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTLHours = envInt("JWT_TTL_HOURS", 0)

	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.Telegram.BotUsername = os.Getenv("TELEGRAM_BOT_USERNAME")
	cfg.Telegram.BotSecret = os.Getenv("BOT_SECRET")
	cfg.Telegram.Enabled = cfg.Telegram.BotToken != ""

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.Stripe.SuccessURL = os.Getenv("STRIPE_SUCCESS_URL")
	cfg.Stripe.CancelURL = os.Getenv("STRIPE_CANCEL_URL")

	cfg.Billing.PlatformFeePercent = int64(envInt("PLATFORM_FEE_PERCENT", 0))
	cfg.Billing.MinPayoutCents = int64(envInt("MIN_PAYOUT_CENTS", 0))
	cfg.Billing.Currency = os.Getenv("BILLING_CURRENCY")

	for _, raw := range envList("ADMIN_TELEGRAM_IDS") {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			cfg.Admin.TelegramIDs = append(cfg.Admin.TelegramIDs, id)
		}
	}

	cfg.Workers.ExpiryIntervalMinutes = envInt("EXPIRY_INTERVAL_MINUTES", 0)
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Server.PublicURL == "" {
		c.Server.PublicURL = "http://localhost:8000"
	}
	if c.Server.FrontendURL == "" {
		c.Server.FrontendURL = "http://localhost:5173"
	}
	if c.Database.MaxOpen == 0 {
		c.Database.MaxOpen = 20
	}
	if c.Database.MaxIdle == 0 {
		c.Database.MaxIdle = 5
	}
	if c.JWT.TTLHours == 0 {
		c.JWT.TTLHours = 24 * 30
	}
	if c.Stripe.SuccessURL == "" {
		c.Stripe.SuccessURL = c.Server.PublicURL + "/api/v1/payments/stripe/success?session_id={CHECKOUT_SESSION_ID}"
	}
	if c.Stripe.CancelURL == "" {
		c.Stripe.CancelURL = c.Server.PublicURL + "/api/v1/payments/stripe/cancel"
	}
	if c.Billing.PlatformFeePercent == 0 {
		c.Billing.PlatformFeePercent = 10
	}
	if c.Billing.MinPayoutCents == 0 {
		c.Billing.MinPayoutCents = 2000
	}
	if c.Billing.Currency == "" {
		c.Billing.Currency = "EUR"
	}
	if c.Workers.ExpiryIntervalMinutes == 0 {
		c.Workers.ExpiryIntervalMinutes = 10
	}
}

// Defaults - конфиг только со значениями по умолчанию (тесты, локальный запуск)
func Defaults() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// IsProduction - боевое окружение: моки и пустые секреты запрещены
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate проверяет секреты. Пустой JWT секрет не допускается нигде,
// в production обязательны ключи Stripe и секрет служебных роутов бота
func (c *Config) Validate() error {
	var missing []string
	if c.JWT.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.IsProduction() {
		if c.Stripe.SecretKey == "" {
			missing = append(missing, "STRIPE_SECRET_KEY")
		}
		if c.Stripe.WebhookSecret == "" {
			missing = append(missing, "STRIPE_WEBHOOK_SECRET")
		}
		if c.Telegram.BotSecret == "" {
			missing = append(missing, "BOT_SECRET")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSecrets, strings.Join(missing, ", "))
	}
	return nil
}

// IsAdmin - telegram id из списка администраторов платформы
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.Admin.TelegramIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
