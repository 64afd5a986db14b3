package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/stability-party/spbot/internal/backend"
	"github.com/stability-party/spbot/internal/bot"
	"github.com/stability-party/spbot/internal/config"
	"github.com/stability-party/spbot/internal/logger"
	"github.com/stability-party/spbot/internal/roll"
	"github.com/stability-party/spbot/internal/version"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and serve the event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			return runApp(cfgPath)
		},
	}
}

func runApp(cfgPath string) error {
	app := fx.New(
		fx.Provide(
			provideConfig(cfgPath),
			provideLogger,
			provideDiscordSession,
			provideBackendClient,
			roll.NewRegistry,
			provideMessenger,
			providePresenter,
			bot.New,
		),
		fx.Invoke(startBot),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	)
	app.Run()
	return nil
}

func provideConfig(cfgPath string) func() (config.Config, error) {
	return func() (config.Config, error) {
		if cfgPath == "" {
			cfgPath = os.Getenv("CONFIG_PATH")
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		// Secrets prefer the environment over the config file.
		if token := os.Getenv("DISCORD_BOT_TOKEN"); token != "" {
			cfg.Discord.BotToken = token
		}
		if url := os.Getenv("BACKEND_BASE_URL"); url != "" {
			cfg.Backend.BaseURL = url
		}
		if token := os.Getenv("BACKEND_BEARER_TOKEN"); token != "" {
			cfg.Backend.BearerToken = token
		}
		return cfg, nil
	}
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDiscordSession(cfg config.Config) (*discordgo.Session, error) {
	if cfg.Discord.BotToken == "" {
		return nil, fmt.Errorf("discord bot token is required (config discord.bot_token or DISCORD_BOT_TOKEN)")
	}
	session, err := discordgo.New("Bot " + cfg.Discord.BotToken)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return session, nil
}

func provideBackendClient(log *slog.Logger, cfg config.Config) (*backend.Client, error) {
	return backend.New(log, cfg.Backend.BaseURL, cfg.Backend.BearerToken, cfg.Backend.Timeout())
}

func provideMessenger(session *discordgo.Session) roll.Messenger {
	return bot.NewChannelMessenger(session)
}

func providePresenter(log *slog.Logger, client *backend.Client, msgr roll.Messenger, registry *roll.Registry) *roll.Presenter {
	return roll.NewPresenter(log, client, msgr, registry)
}

func startBot(lc fx.Lifecycle, logger *slog.Logger, service *bot.Service) {
	fmt.Printf("Starting spbot %s\n", version.GetInfo())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return service.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return service.Stop(ctx)
		},
	})
}
