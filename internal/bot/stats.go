package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// handleEventStats shows the invoking user's team standing: stars, coins,
// location, members, and any active effects.
func (s *Service) handleEventStats(ctx context.Context, i *discordgo.InteractionCreate) {
	if err := s.deferResponse(i, true); err != nil {
		s.logger.Warn("event_stats ack failed", slog.Any("error", err))
		return
	}

	eventID, eventName, teamID, teamName, ok := s.resolveTeam(ctx, i)
	if !ok {
		return
	}

	stats, err := s.client.TeamStats(ctx, eventID, teamID)
	if err != nil {
		s.logger.Error("stats lookup failed",
			slog.String("team_id", teamID),
			slog.Any("error", err))
		s.editResponse(i, "Could not load your team's stats.")
		return
	}

	title := orDefault(strField(stats, "name", "team_name"), teamName)
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 %s", orDefault(title, "Your Team")),
		Color: 0x9b59b6,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "⭐ Stars", Value: fmt.Sprintf("%d", intField(stats, "stars")), Inline: true},
			{Name: "🪙 Coins", Value: fmt.Sprintf("%d", intField(stats, "coins")), Inline: true},
		},
	}
	if eventName != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: eventName}
	}
	if tile := strField(stats, "current_tile_name", "location"); tile != "" {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "📍 Location", Value: tile, Inline: true})
	}
	if members := stringsField(stats, "members"); len(members) > 0 {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Members", Value: strings.Join(members, ", ")})
	}
	if effects := stringsField(stats, "active_effects", "effects"); len(effects) > 0 {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Active Effects", Value: strings.Join(effects, "\n")})
	}
	if items, err := s.inventory(ctx, eventID, teamID); err == nil && len(items) > 0 {
		names := make([]string, 0, len(items))
		for _, item := range items {
			if item.Quantity > 1 {
				names = append(names, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
			} else {
				names = append(names, item.Name)
			}
		}
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "🎒 Inventory", Value: strings.Join(names, ", ")})
	}

	s.editResponseEmbed(i, embed, nil)
}

// handleEventProgress shows the team's current tile and its challenge
// checklist.
func (s *Service) handleEventProgress(ctx context.Context, i *discordgo.InteractionCreate) {
	if err := s.deferResponse(i, true); err != nil {
		s.logger.Warn("event_progress ack failed", slog.Any("error", err))
		return
	}

	eventID, _, teamID, _, ok := s.resolveTeam(ctx, i)
	if !ok {
		return
	}

	progress, err := s.client.TileProgress(ctx, eventID, teamID)
	if err != nil {
		s.logger.Error("progress lookup failed",
			slog.String("team_id", teamID),
			slog.Any("error", err))
		s.editResponse(i, "Could not load your team's tile progress.")
		return
	}

	tile := progress
	if nested, ok := progress["current_tile"].(map[string]any); ok {
		tile = nested
	}
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🗺️ %s", orDefault(strField(tile, "name", "tile_name"), "Current Tile")),
		Description: strField(tile, "description"),
		Color:       0x1abc9c,
	}

	tasks := listField(progress, "tasks", "challenges")
	if len(tasks) > 0 {
		lines := make([]string, 0, len(tasks))
		done := 0
		for _, task := range tasks {
			mark := "⬜"
			if boolField(task, "complete", "completed", "done") {
				mark = "✅"
				done++
			}
			lines = append(lines, fmt.Sprintf("%s %s", mark, orDefault(strField(task, "name", "description"), "Unknown task")))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Challenges (%d/%d)", done, len(tasks)),
			Value: strings.Join(lines, "\n"),
		})
	}
	if boolField(progress, "can_roll") {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Your team is ready to /roll!"}
	}

	s.editResponseEmbed(i, embed, nil)
}

// resolveTeam is the shared event/team lookup for read-only commands.
// Failures are reported to the user; ok is false once that has happened.
func (s *Service) resolveTeam(ctx context.Context, i *discordgo.InteractionCreate) (eventID, eventName, teamID, teamName string, ok bool) {
	var err error
	eventID, eventName, err = s.activeEvent(ctx)
	if err != nil {
		s.editResponse(i, "There is no active event right now.")
		return "", "", "", "", false
	}
	teamID, teamName, err = s.teamFor(ctx, eventID, interactionUserID(i))
	if err != nil {
		s.editResponse(i, "You are not on a team in the active event.")
		return "", "", "", "", false
	}
	return eventID, eventName, teamID, teamName, true
}
