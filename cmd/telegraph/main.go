package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aisyah-ai/telegraph/internal/bot"
	"github.com/aisyah-ai/telegraph/internal/history"
	"github.com/aisyah-ai/telegraph/internal/interaction"
	"github.com/aisyah-ai/telegraph/internal/kv"
	"github.com/aisyah-ai/telegraph/internal/lock"
	"github.com/aisyah-ai/telegraph/internal/ratelimit"
	"github.com/aisyah-ai/telegraph/internal/settings"
	"github.com/aisyah-ai/telegraph/internal/tools"
	"github.com/aisyah-ai/telegraph/pkg/config"
)

const webhookPath = "/webhooks/telegram"

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "telegraph",
		Short: "Telegram gateway for the Aisyah services",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	root.AddCommand(
		serveCmd(&configPath),
		pollCmd(&configPath),
		webhookSetupCmd(&configPath),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Receive updates over a Telegram webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, cfg, api, gateway, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			updates := api.ListenForWebhook(webhookPath)
			http.Handle("/settings/", gateway.SettingsHandler())
			go gateway.Run(updates)

			logger.Info("Listening for webhooks",
				zap.String("addr", cfg.Telegram.ListenAddr),
				zap.String("path", webhookPath))
			return http.ListenAndServe(cfg.Telegram.ListenAddr, nil)
		},
	}
}

func pollCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Receive updates by long polling (development)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, _, api, gateway, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			u := tgbotapi.NewUpdate(0)
			u.Timeout = 60

			logger.Info("Polling for updates")
			gateway.Run(api.GetUpdatesChan(u))
			return nil
		},
	}
}

func webhookSetupCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "webhook-setup",
		Short: "Register the webhook URL with Telegram",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Telegram.WebhookURL == "" {
				return fmt.Errorf("telegram.webhook_url is required")
			}

			api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
			if err != nil {
				return fmt.Errorf("failed to create bot: %w", err)
			}
			wh, err := tgbotapi.NewWebhook(cfg.Telegram.WebhookURL + webhookPath)
			if err != nil {
				return fmt.Errorf("failed to build webhook config: %w", err)
			}
			if _, err := api.Request(wh); err != nil {
				return fmt.Errorf("failed to register webhook: %w", err)
			}
			fmt.Println("Webhook setup done")
			return nil
		},
	}
}

func setup(configPath string) (*zap.Logger, *config.Config, *tgbotapi.BotAPI, *bot.Bot, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create bot: %w", err)
	}
	logger.Info("Authorized on Telegram",
		zap.String("username", api.Self.UserName))

	store := kv.NewRedisStore(redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}))

	timeout := time.Duration(cfg.Services.TimeoutSeconds) * time.Second

	var agent tools.Agent
	var agentSection settings.SectionStore
	if cfg.Services.AgentURL != "" {
		client := tools.NewAgentClient(cfg.Services.AgentURL, timeout)
		agent, agentSection = client, client
	} else {
		local := tools.NewOpenAIAgent(cfg.OpenAI.APIKey, cfg.OpenAI.Model,
			cfg.OpenAI.SystemPrompt, store, logger)
		agent, agentSection = local, local
	}

	var whisper tools.Whisper = tools.DisabledWhisper{}
	if cfg.Services.WhisperURL != "" {
		whisper = tools.NewWhisperClient(cfg.Services.WhisperURL, timeout)
	}

	var sonata tools.Sonata = tools.DisabledSonata{}
	var sonataSection settings.SectionStore = settings.NewKVSectionStore(store, "sonata_settings")
	if cfg.Services.SonataURL != "" {
		client := tools.NewSonataClient(cfg.Services.SonataURL, timeout)
		sonata, sonataSection = client, client
	}

	gateway := bot.New(api, api.Self, cfg.Telegram.Token, bot.Deps{
		History:      history.NewStore(store, cfg.Gateway.ChatHistoryLimit, logger),
		Locker:       lock.NewLocker(store, logger),
		Limiter:      ratelimit.NewLimiter(store, cfg.Gateway.RateLimitPerDay, logger),
		Interactions: interaction.NewTracker(store, logger),
		Settings:     settings.NewManager(store, agentSection, sonataSection, logger),
		Agent:        agent,
		Whisper:      whisper,
		Sonata:       sonata,
	}, logger)

	return logger, cfg, api, gateway, nil
}
