package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Commands is the full slash command surface the bot registers.
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "roll",
		Description: "Roll the dice and move your team across the board",
	},
	{
		Name:        "use_item",
		Description: "Use an item from your team's inventory",
	},
	{
		Name:        "event_stats",
		Description: "Show your team's stars, coins, and current standing",
	},
	{
		Name:        "event_progress",
		Description: "Show your team's current tile and its challenge progress",
	},
}

// RegisterCommands overwrites the application's command set for the guild.
// An empty guildID registers globally.
func RegisterCommands(session *discordgo.Session, appID, guildID string) error {
	if appID == "" {
		appID = session.State.User.ID
	}
	if _, err := session.ApplicationCommandBulkOverwrite(appID, guildID, Commands); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	return nil
}
