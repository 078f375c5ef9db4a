package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vfg2006/venue-analytics-api/internal/analytics"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Auth           Auth           `mapstructure:",squash"`
	Redis          Redis          `mapstructure:",squash"`
	Analytics      Analytics      `mapstructure:",squash"`
	SnapshotWarmup SnapshotWarmup `mapstructure:",squash"`
}

type App struct {
	Env          string `mapstructure:"app_env"`
	LogLevel     string `mapstructure:"log_level"`
	CurrencyCode string `mapstructure:"currency_code"`
	Locale       string `mapstructure:"locale"`
	Timezone     string `mapstructure:"timezone"`
}

type Server struct {
	Host               string        `mapstructure:"host"`
	Port               string        `mapstructure:"port"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute"`
	AllowedOrigins     []string      `mapstructure:"allowed_origins"`
	ReadTimeout        time.Duration `mapstructure:"server_read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"server_write_timeout"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Auth struct {
	Secret   string        `mapstructure:"auth_secret"`
	TokenTTL time.Duration `mapstructure:"auth_token_ttl"`
}

type Redis struct {
	URL     string        `mapstructure:"redis_url"`
	Enabled bool          `mapstructure:"redis_enabled"`
	TTL     time.Duration `mapstructure:"redis_cache_ttl"`
}

type Analytics struct {
	DailyBookableHours   float64 `mapstructure:"analytics_daily_bookable_hours"`
	HoldExpiryHours      int     `mapstructure:"analytics_hold_expiry_hours"`
	HoldStageAgeHours    int     `mapstructure:"analytics_hold_stage_age_hours"`
	HistoryMonths        int     `mapstructure:"analytics_history_months"`
	ForecastPeriods      int     `mapstructure:"analytics_forecast_periods"`
	OptimisticMultiplier float64 `mapstructure:"analytics_optimistic_multiplier"`
	CautiousMultiplier   float64 `mapstructure:"analytics_cautious_multiplier"`
}

type SnapshotWarmup struct {
	CronSchedule      string `mapstructure:"snapshot_warmup_cron"`
	MaxConcurrentJobs int    `mapstructure:"snapshot_warmup_max_concurrent_jobs"`
	Enabled           bool   `mapstructure:"snapshot_warmup_enabled"`
}

func SetDefaults() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("CURRENCY_CODE", "USD")
	viper.SetDefault("LOCALE", "en-US")
	viper.SetDefault("TIMEZONE", "Local")

	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "30s")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/venues?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("AUTH_SECRET", "your_secret_key")
	viper.SetDefault("AUTH_TOKEN_TTL", "24h")

	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_CACHE_TTL", "10m")

	viper.SetDefault("ANALYTICS_DAILY_BOOKABLE_HOURS", analytics.DefaultDailyBookableHours)
	viper.SetDefault("ANALYTICS_HOLD_EXPIRY_HOURS", 48)
	viper.SetDefault("ANALYTICS_HOLD_STAGE_AGE_HOURS", 48)
	viper.SetDefault("ANALYTICS_HISTORY_MONTHS", analytics.DefaultHistoryMonths)
	viper.SetDefault("ANALYTICS_FORECAST_PERIODS", analytics.DefaultForecastPeriods)
	viper.SetDefault("ANALYTICS_OPTIMISTIC_MULTIPLIER", analytics.DefaultOptimisticMultiplier)
	viper.SetDefault("ANALYTICS_CAUTIOUS_MULTIPLIER", analytics.DefaultCautiousMultiplier)

	viper.SetDefault("SNAPSHOT_WARMUP_CRON", "0 5 * * *") // Todos os dias às 5h da manhã
	viper.SetDefault("SNAPSHOT_WARMUP_MAX_CONCURRENT_JOBS", 3)
	viper.SetDefault("SNAPSHOT_WARMUP_ENABLED", false)
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

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Location resolve o fuso usado para interpretar as datas de calendário das reservas
func (a App) Location() *time.Location {
	if a.Timezone == "" || a.Timezone == "Local" {
		return time.Local
	}

	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		logrus.Warnf("Timezone %q inválido, usando horário local: %v", a.Timezone, err)
		return time.Local
	}

	return loc
}

// Settings converte a configuração nas regras de negócio do motor de relatórios
func (a Analytics) Settings() analytics.Settings {
	s := analytics.DefaultSettings()
	if a.DailyBookableHours > 0 {
		s.DailyBookableHours = a.DailyBookableHours
	}
	if a.HoldExpiryHours > 0 {
		s.HoldExpiry = time.Duration(a.HoldExpiryHours) * time.Hour
	}
	if a.HoldStageAgeHours > 0 {
		s.HoldStageAge = time.Duration(a.HoldStageAgeHours) * time.Hour
	}
	if a.HistoryMonths > 0 {
		s.HistoryMonths = a.HistoryMonths
	}
	if a.ForecastPeriods > 0 {
		s.ForecastPeriods = a.ForecastPeriods
	}
	if a.OptimisticMultiplier > 0 {
		s.OptimisticMultiplier = a.OptimisticMultiplier
	}
	if a.CautiousMultiplier > 0 {
		s.CautiousMultiplier = a.CautiousMultiplier
	}
	return s
}

// Função auxiliar para carregar o arquivo .env usando godotenv
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
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
