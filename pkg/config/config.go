package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram Telegram `mapstructure:"telegram"`
	Redis    Redis    `mapstructure:"redis"`
	Services Services `mapstructure:"services"`
	OpenAI   OpenAI   `mapstructure:"openai"`
	Gateway  Gateway  `mapstructure:"gateway"`
}

type Telegram struct {
	Token      string `mapstructure:"token"`
	WebhookURL string `mapstructure:"webhook_url"`
	ListenAddr string `mapstructure:"listen_addr"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Services holds the base URLs of the deployed Aisyah capability services.
// An empty URL disables that capability: the gateway answers through the
// OpenAI API directly when no agent service is set, degrades voice replies
// to text without sonata, and answers voice messages with a placeholder
// without whisper.
type Services struct {
	AgentURL       string `mapstructure:"agent_url"`
	WhisperURL     string `mapstructure:"whisper_url"`
	SonataURL      string `mapstructure:"sonata_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type OpenAI struct {
	APIKey       string `mapstructure:"api_key"`
	Model        string `mapstructure:"model"`
	SystemPrompt string `mapstructure:"system_prompt"`
}

type Gateway struct {
	ChatHistoryLimit int   `mapstructure:"chat_history_limit"`
	RateLimitPerDay  int64 `mapstructure:"rate_limit_per_day"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("telegram.listen_addr", ":8080")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("services.timeout_seconds", 5)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.system_prompt",
		"You are Aisyah, a warm and playful Indonesian assistant. Keep replies short and conversational.")
	v.SetDefault("gateway.chat_history_limit", 30)
	v.SetDefault("gateway.rate_limit_per_day", 100)

	// Enable environment variable support
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Environment overrides for secrets
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}
	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}
	if addr := v.GetString("REDIS_ADDR"); addr != "" {
		config.Redis.Addr = addr
	}

	if config.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}
	return &config, nil
}
