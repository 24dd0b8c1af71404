package config

import "os"

// TelegramConfig holds the lead notification bot settings
type TelegramConfig struct {
	BotToken   string `yaml:"-"` // Never serialize
	ChatID     string `yaml:"-"`
	APIBase    string `yaml:"api_base"`
	MaxRetries int    `yaml:"max_retries"`
	TimeoutMS  int    `yaml:"timeout_ms"`
}

// DefaultTelegramConfig returns the Telegram configuration from the environment
func DefaultTelegramConfig() TelegramConfig {
	return TelegramConfig{
		BotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		ChatID:     os.Getenv("TELEGRAM_CHAT_ID"),
		APIBase:    getEnvOrDefault("TELEGRAM_API_BASE", "https://api.telegram.org"),
		MaxRetries: getIntOrDefault("TELEGRAM_MAX_RETRIES", 3),
		TimeoutMS:  10000, // 10 second default timeout
	}
}

// IsEnabled returns true if both the bot token and the chat are configured
func (c TelegramConfig) IsEnabled() bool {
	return c.BotToken != "" && c.ChatID != ""
}

// SendMessageEndpoint returns the full sendMessage URL for the bot
func (c TelegramConfig) SendMessageEndpoint() string {
	return c.APIBase + "/bot" + c.BotToken + "/sendMessage"
}
