package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stability-party/spbot/internal/bot"
	"github.com/stability-party/spbot/internal/config"
	"github.com/stability-party/spbot/internal/logger"
)

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register slash commands with Discord and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			if cfgPath == "" {
				cfgPath = os.Getenv("CONFIG_PATH")
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if token := os.Getenv("DISCORD_BOT_TOKEN"); token != "" {
				cfg.Discord.BotToken = token
			}
			logger.Init(cfg.Log.Level, cfg.Log.Format)
			log := logger.Named("register")

			session, err := provideDiscordSession(cfg)
			if err != nil {
				return err
			}
			if err := session.Open(); err != nil {
				return fmt.Errorf("open gateway: %w", err)
			}
			defer session.Close()

			if err := bot.RegisterCommands(session, cfg.Discord.AppID, cfg.Discord.GuildID); err != nil {
				return err
			}
			log.Info("commands registered",
				slog.Int("count", len(bot.Commands)),
				slog.String("guild_id", cfg.Discord.GuildID))
			return nil
		},
	}
}
