package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "binance", cfg.DataSource.Provider)
	assert.Equal(t, "BTCUSDT", cfg.DataSource.Symbol)
	assert.Equal(t, "1h", cfg.DataSource.Interval)
	assert.Equal(t, 500, cfg.DataSource.CandleLimit)
	assert.Equal(t, 3, cfg.DataSource.FetchAttempts)
	assert.Equal(t, time.Second, cfg.DataSource.FetchBackoff)
	assert.Equal(t, 20*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, 100, cfg.Strategy.Lookback)
	assert.Equal(t, ModePaper, cfg.Exchange.Mode)
	assert.True(t, cfg.News.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: file-token
  chat_id: "42"
data_source:
  symbol: ETHUSDT
  interval: 4h
  candle_limit: 300
  fetch_backoff: 250ms
strategy:
  lookback: 50
news:
  enabled: false
schedule:
  signal_cron: "0 0 * * * *"
`)
	t.Setenv("TELEGRAM_TOKEN", "env-token")
	t.Setenv("LOOKBACK_SIGNALS", "25")
	t.Setenv("SYMBOL_DEFAULT", "solusdt")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
	assert.Equal(t, []string{"42"}, cfg.Telegram.AllowedChats)
	assert.Equal(t, "SOLUSDT", cfg.DataSource.Symbol)
	assert.Equal(t, "4h", cfg.DataSource.Interval)
	assert.Equal(t, 300, cfg.DataSource.CandleLimit)
	assert.Equal(t, 250*time.Millisecond, cfg.DataSource.FetchBackoff)
	assert.Equal(t, 25, cfg.Strategy.Lookback)
	assert.False(t, cfg.News.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_AllowedChatsFromEnv(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: t
  chat_id: "42"
  allowed_chats: ["7"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, cfg.Telegram.AllowedChats)

	t.Setenv("TELEGRAM_ALLOWED_CHATS", " 100, 200 ,")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "200"}, cfg.Telegram.AllowedChats)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "telegram: [oops"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		cfg.Telegram.BotToken = "token"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults with token", func(c *Config) {}, false},
		{"missing token", func(c *Config) { c.Telegram.BotToken = "" }, true},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "kraken" }, true},
		{"live without keys", func(c *Config) { c.Exchange.Mode = ModeLive }, true},
		{"live with keys and chat", func(c *Config) {
			c.Exchange.Mode = ModeLive
			c.Exchange.APIKey = "k"
			c.Exchange.APISecret = "s"
			c.Telegram.AllowedChats = []string{"42"}
		}, false},
		{"live without allowed chats", func(c *Config) {
			c.Exchange.Mode = ModeLive
			c.Exchange.APIKey = "k"
			c.Exchange.APISecret = "s"
		}, true},
		{"limit below warm-up", func(c *Config) { c.DataSource.CandleLimit = 20 }, true},
		{"limit above venue max", func(c *Config) { c.DataSource.CandleLimit = 5000 }, true},
		{"cron without chat", func(c *Config) { c.Schedule.SignalCron = "0 0 * * * *" }, true},
		{"negative lookback", func(c *Config) { c.Strategy.Lookback = -5 }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad proxy", func(c *Config) { c.Proxy = "not a url" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
