package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	AI struct {
		// APIKey may be left empty in the file and supplied via the
		// OPENAI_API_KEY environment variable. An empty key puts the
		// classifier and responder into their disabled state; it is not
		// an error.
		APIKey         string `yaml:"api_key"`
		BaseURL        string `yaml:"base_url"`
		Model          string `yaml:"model"`
		TimeoutSeconds int64  `yaml:"timeout_seconds"`
	} `yaml:"ai"`
	Chat struct {
		HistoryLimit  int     `yaml:"history_limit"`
		RatePerMinute float64 `yaml:"rate_per_minute"`
		RateBurst     int     `yaml:"rate_burst"`
	} `yaml:"chat"`
	Notifications struct {
		Enabled          bool    `yaml:"enabled"`
		TelegramBotToken string  `yaml:"telegram_bot_token"`
		CounselorChatIDs []int64 `yaml:"counselor_chat_ids"`
	} `yaml:"notifications"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.AI.APIKey == "" {
		config.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if config.AI.Model == "" {
		config.AI.Model = "gpt-4o-mini"
	}
	if config.AI.TimeoutSeconds <= 0 {
		config.AI.TimeoutSeconds = 30
	}
	if config.Chat.HistoryLimit <= 0 {
		config.Chat.HistoryLimit = 10
	}
	if config.Chat.RatePerMinute <= 0 {
		config.Chat.RatePerMinute = 20
	}
	if config.Chat.RateBurst <= 0 {
		config.Chat.RateBurst = 5
	}

	return config, nil
}
