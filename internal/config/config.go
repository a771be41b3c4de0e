package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata" // imagens mínimas sem /usr/share/zoneinfo

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App               App               `mapstructure:",squash"`
	Server            Server            `mapstructure:",squash"`
	Database          Database          `mapstructure:",squash"`
	Auth              Auth              `mapstructure:",squash"`
	Loyalty           Loyalty           `mapstructure:",squash"`
	Notifier          Notifier          `mapstructure:",squash"`
	LowStockAlert     LowStockAlert     `mapstructure:",squash"`
	DailySalesSummary DailySalesSummary `mapstructure:",squash"`
	SecretKey         string            `mapstructure:"secret_key"`
}

type Server struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"server_request_timeout"`
	AllowedOrigin  string        `mapstructure:"server_allowed_origin"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	// Timezone define o calendário dos resumos diários e das crons (nome IANA, ex.: America/Sao_Paulo)
	Timezone string         `mapstructure:"app_timezone"`
	Location *time.Location `mapstructure:"-"`
}

type Auth struct {
	Secret        string        `mapstructure:"auth_secret"`
	TokenDuration time.Duration `mapstructure:"auth_token_duration"`
}

// Loyalty define a regra de pontos do Quick Sale
type Loyalty struct {
	WindowDays          int `mapstructure:"loyalty_window_days"`
	NewProductPoints    int `mapstructure:"loyalty_new_product_points"`
	RepeatProductPoints int `mapstructure:"loyalty_repeat_product_points"`
}

func (l Loyalty) Window() time.Duration {
	return time.Duration(l.WindowDays) * 24 * time.Hour
}

type Notifier struct {
	WebhookURL     string        `mapstructure:"notifier_webhook_url"`
	WebhookTimeout time.Duration `mapstructure:"notifier_webhook_timeout"`
	QueueSize      int           `mapstructure:"notifier_queue_size"`
}

type LowStockAlert struct {
	CronSchedule string `mapstructure:"low_stock_alert_cron"`
	Enabled      bool   `mapstructure:"low_stock_alert_enabled"`
}

type DailySalesSummary struct {
	CronSchedule  string `mapstructure:"daily_sales_summary_cron"`
	LookbackDays  int    `mapstructure:"daily_sales_summary_lookback_days"`
	RetentionDays int    `mapstructure:"daily_sales_summary_retention_days"`
	Enabled       bool   `mapstructure:"daily_sales_summary_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("SERVER_REQUEST_TIMEOUT", "15s")
	viper.SetDefault("SERVER_ALLOWED_ORIGIN", "*")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/shop?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("AUTH_TOKEN_DURATION", "24h")

	viper.SetDefault("LOYALTY_WINDOW_DAYS", 30)
	viper.SetDefault("LOYALTY_NEW_PRODUCT_POINTS", 2)
	viper.SetDefault("LOYALTY_REPEAT_PRODUCT_POINTS", 1)

	// Sem URL as notificações são apenas registradas em log
	viper.SetDefault("NOTIFIER_WEBHOOK_URL", "")
	viper.SetDefault("NOTIFIER_WEBHOOK_TIMEOUT", "5s")
	viper.SetDefault("NOTIFIER_QUEUE_SIZE", 256)

	viper.SetDefault("LOW_STOCK_ALERT_CRON", "0 8 * * *") // Todos os dias às 8h da manhã
	viper.SetDefault("LOW_STOCK_ALERT_ENABLED", true)

	viper.SetDefault("DAILY_SALES_SUMMARY_CRON", "30 0 * * *") // Todos os dias às 0h30
	viper.SetDefault("DAILY_SALES_SUMMARY_LOOKBACK_DAYS", 1)
	viper.SetDefault("DAILY_SALES_SUMMARY_RETENTION_DAYS", 730)
	viper.SetDefault("DAILY_SALES_SUMMARY_ENABLED", true)

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("APP_TIMEZONE", "UTC")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if config.Auth.Secret == "" {
		config.Auth.Secret = config.SecretKey
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	location, err := time.LoadLocation(config.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE inválido %q: %w", config.App.Timezone, err)
	}
	config.App.Location = location

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

func (c *Config) validate() error {
	if c.Loyalty.WindowDays <= 0 {
		return fmt.Errorf("LOYALTY_WINDOW_DAYS deve ser maior que zero, recebido %d", c.Loyalty.WindowDays)
	}
	if c.Loyalty.NewProductPoints < 0 || c.Loyalty.RepeatProductPoints < 0 {
		return fmt.Errorf("pontos de fidelidade não podem ser negativos")
	}
	if c.Notifier.QueueSize <= 0 {
		return fmt.Errorf("NOTIFIER_QUEUE_SIZE deve ser maior que zero, recebido %d", c.Notifier.QueueSize)
	}
	return nil
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
