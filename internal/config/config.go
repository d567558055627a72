package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"SignalBot/internal/calculator"
)

// Trading modes.
const (
	ModePaper = "paper"
	ModeLive  = "live"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token" validate:"required"`
		ChatID   string `yaml:"chat_id"`
		// AllowedChats may place and list orders. Defaults to ChatID.
		AllowedChats []string `yaml:"allowed_chats"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider      string        `yaml:"provider" validate:"oneof=binance yahoo mock"`
		BaseURL       string        `yaml:"base_url" validate:"omitempty,url"`
		Symbol        string        `yaml:"symbol" validate:"required,alphanum"`
		Interval      string        `yaml:"interval" validate:"required"`
		CandleLimit   int           `yaml:"candle_limit" validate:"gt=0,lte=1500"`
		FetchAttempts int           `yaml:"fetch_attempts" validate:"gte=1,lte=10"`
		FetchBackoff  time.Duration `yaml:"fetch_backoff" validate:"gte=0"`
		Timeout       time.Duration `yaml:"timeout" validate:"gt=0"`
	} `yaml:"data_source"`
	Strategy struct {
		// Lookback is the number of recent signals scored; 0 selects the default.
		Lookback int `yaml:"lookback" validate:"gt=0"`
	} `yaml:"strategy"`
	Exchange struct {
		Mode      string `yaml:"mode" validate:"oneof=paper live"`
		BaseURL   string `yaml:"base_url" validate:"omitempty,url"`
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
	} `yaml:"exchange"`
	News struct {
		Enabled bool   `yaml:"enabled"`
		BaseURL string `yaml:"base_url" validate:"omitempty,url"`
	} `yaml:"news"`
	Schedule struct {
		SignalCron string `yaml:"signal_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Log struct {
		Level string `yaml:"level" validate:"oneof=debug info warn error"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.News.Enabled = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("TELEGRAM_ALLOWED_CHATS"); v != "" {
		cfg.Telegram.AllowedChats = nil
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.Telegram.AllowedChats = append(cfg.Telegram.AllowedChats, id)
			}
		}
	}
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.Exchange.APIKey = v
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		cfg.Exchange.APISecret = v
	}
	if v := os.Getenv("TRADING_MODE"); v != "" {
		cfg.Exchange.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("SYMBOL_DEFAULT"); v != "" {
		cfg.DataSource.Symbol = strings.ToUpper(v)
	}
	if v := os.Getenv("INTERVAL_DEFAULT"); v != "" {
		cfg.DataSource.Interval = v
	}
	if v := os.Getenv("LOOKBACK_SIGNALS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Strategy.Lookback = n
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_SIGNAL"); v != "" {
		cfg.Schedule.SignalCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
}

func applyDefaults(cfg *Config) {
	if len(cfg.Telegram.AllowedChats) == 0 && cfg.Telegram.ChatID != "" {
		cfg.Telegram.AllowedChats = []string{cfg.Telegram.ChatID}
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "binance"
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "BTCUSDT"
	}
	if cfg.DataSource.Interval == "" {
		cfg.DataSource.Interval = "1h"
	}
	if cfg.DataSource.CandleLimit == 0 {
		cfg.DataSource.CandleLimit = 500
	}
	if cfg.DataSource.FetchAttempts == 0 {
		cfg.DataSource.FetchAttempts = 3
	}
	if cfg.DataSource.FetchBackoff == 0 {
		cfg.DataSource.FetchBackoff = time.Second
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 20 * time.Second
	}
	if cfg.Strategy.Lookback == 0 {
		cfg.Strategy.Lookback = 100
	}
	if cfg.Exchange.Mode == "" {
		cfg.Exchange.Mode = ModePaper
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/signalbot.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

var validate = validator.New()

// Validate checks field constraints and the rules that span fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Exchange.Mode == ModeLive && (c.Exchange.APIKey == "" || c.Exchange.APISecret == "") {
		return errors.New("exchange.api_key and exchange.api_secret are required in live mode")
	}
	if c.Exchange.Mode == ModeLive && len(c.Telegram.AllowedChats) == 0 {
		return errors.New("telegram.allowed_chats (or telegram.chat_id) is required in live mode")
	}
	if minCandles := calculator.DefaultParams().MinCandles(); c.DataSource.CandleLimit < minCandles {
		return fmt.Errorf("data_source.candle_limit must be at least %d", minCandles)
	}
	if c.Schedule.SignalCron != "" && c.Telegram.ChatID == "" {
		return errors.New("telegram.chat_id is required when schedule.signal_cron is set")
	}
	return nil
}
