package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// The item flow runs entirely in ephemeral messages: pick an item, confirm
// it, consume it. Items cannot be used while the team's roll is in flight;
// the check runs again at confirmation time because the roll may have
// started between the two clicks.

func (s *Service) handleUseItem(ctx context.Context, i *discordgo.InteractionCreate) {
	if err := s.deferResponse(i, true); err != nil {
		s.logger.Warn("use_item ack failed", slog.Any("error", err))
		return
	}
	userID := interactionUserID(i)

	eventID, _, err := s.activeEvent(ctx)
	if err != nil {
		s.editResponse(i, "There is no active event right now.")
		return
	}
	teamID, _, err := s.teamFor(ctx, eventID, userID)
	if err != nil {
		s.editResponse(i, "You are not on a team in the active event.")
		return
	}
	if _, rolling := s.registry.Lookup(teamID); rolling {
		s.editResponse(i, "Your team is in the middle of a roll. Finish it before using items.")
		return
	}

	items, err := s.inventory(ctx, eventID, teamID)
	if err != nil {
		s.logger.Error("inventory lookup failed",
			slog.String("team_id", teamID),
			slog.Any("error", err))
		s.editResponse(i, "Could not load your team's inventory.")
		return
	}
	if len(items) == 0 {
		s.editResponse(i, "Your team has no items to use.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎒 Team Inventory",
		Description: "Pick an item to use.",
		Color:       0x3498db,
	}
	buttons := make([]discordgo.MessageComponent, 0, len(items))
	for _, item := range items {
		label := item.Name
		if item.Quantity > 1 {
			label = fmt.Sprintf("%s x%d", item.Name, item.Quantity)
		}
		buttons = append(buttons, discordgo.Button{
			Label:    label,
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("item:pick:%s:%s", teamID, item.ID),
		})
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  label,
			Value: orDefault(item.Description, "No description available"),
		})
	}
	s.editResponseEmbed(i, embed, chunkButtons(buttons))
}

func (s *Service) handleItemComponent(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.MessageComponentInteractionData) {
	parts := strings.SplitN(data.CustomID, ":", 4)
	if len(parts) < 2 {
		return
	}
	if err := s.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		s.logger.Warn("item ack failed", slog.Any("error", err))
	}

	switch parts[1] {
	case "cancel":
		s.updateItemMessage(i, "Item use cancelled.", nil)
	case "pick":
		if len(parts) == 4 {
			s.confirmItem(ctx, i, parts[2], parts[3])
		}
	case "confirm":
		if len(parts) == 4 {
			s.consumeItem(ctx, i, parts[2], parts[3])
		}
	}
}

func (s *Service) confirmItem(ctx context.Context, i *discordgo.InteractionCreate, teamID, itemID string) {
	eventID, _, err := s.activeEvent(ctx)
	if err != nil {
		s.updateItemMessage(i, "There is no active event right now.", nil)
		return
	}
	items, err := s.inventory(ctx, eventID, teamID)
	if err != nil {
		s.updateItemMessage(i, "Could not load your team's inventory.", nil)
		return
	}
	var picked *inventoryItem
	for idx := range items {
		if items[idx].ID == itemID {
			picked = &items[idx]
			break
		}
	}
	if picked == nil {
		s.updateItemMessage(i, "That item is no longer in your inventory.", nil)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Use %s?", picked.Name),
		Description: orDefault(picked.Description, "No description available"),
		Color:       0xe67e22,
	}
	components := chunkButtons([]discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Use it",
			Style:    discordgo.SuccessButton,
			CustomID: fmt.Sprintf("item:confirm:%s:%s", teamID, itemID),
		},
		discordgo.Button{
			Label:    "Cancel",
			Style:    discordgo.SecondaryButton,
			CustomID: "item:cancel",
		},
	})
	edit := &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	}
	if _, err := s.session.InteractionResponseEdit(i.Interaction, edit); err != nil {
		s.logger.Warn("item confirm edit failed", slog.Any("error", err))
	}
}

func (s *Service) consumeItem(ctx context.Context, i *discordgo.InteractionCreate, teamID, itemID string) {
	if _, rolling := s.registry.Lookup(teamID); rolling {
		s.updateItemMessage(i, "Your team started a roll. Finish it before using items.", nil)
		return
	}
	eventID, _, err := s.activeEvent(ctx)
	if err != nil {
		s.updateItemMessage(i, "There is no active event right now.", nil)
		return
	}

	envelope, err := s.client.UseItem(ctx, eventID, teamID, itemID)
	if err != nil {
		s.logger.Warn("item use rejected",
			slog.String("team_id", teamID),
			slog.String("item_id", itemID),
			slog.Any("error", err))
		s.updateItemMessage(i, "The item could not be used right now.", nil)
		return
	}
	result := strField(envelope, "message", "result")
	if result == "" {
		result = "Item used!"
	}
	s.updateItemMessage(i, "✨ "+result, nil)
}

// updateItemMessage rewrites the ephemeral item message, clearing its
// controls so a stale button cannot fire twice.
func (s *Service) updateItemMessage(i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) {
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	edit := &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &[]*discordgo.MessageEmbed{},
		Components: &components,
	}
	if _, err := s.session.InteractionResponseEdit(i.Interaction, edit); err != nil {
		s.logger.Warn("item message edit failed", slog.Any("error", err))
	}
}

type inventoryItem struct {
	ID          string
	Name        string
	Description string
	Quantity    int
}

func (s *Service) inventory(ctx context.Context, eventID, teamID string) ([]inventoryItem, error) {
	envelope, err := s.client.Inventory(ctx, eventID, teamID)
	if err != nil {
		return nil, err
	}
	var out []inventoryItem
	for _, entry := range listField(envelope, "items", "inventory") {
		item := inventoryItem{
			ID:          strField(entry, "id", "item_id"),
			Name:        orDefault(strField(entry, "name"), "Unknown"),
			Description: strField(entry, "description"),
			Quantity:    intField(entry, "quantity", "count"),
		}
		if item.ID == "" {
			continue
		}
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		out = append(out, item)
	}
	return out, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// chunkButtons splits buttons into rows of at most five.
func chunkButtons(buttons []discordgo.MessageComponent) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	for len(buttons) > 0 {
		n := len(buttons)
		if n > 5 {
			n = 5
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons[:n]})
		buttons = buttons[n:]
	}
	return rows
}
