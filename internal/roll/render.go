package roll

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Message is the renderable payload of one roll step: the content, embed,
// and interactive components that go into the session's channel message.
type Message struct {
	Content    string
	Embed      *discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// ChoiceKind enumerates every interaction a roll message can emit.
type ChoiceKind string

const (
	ChoiceContinue    ChoiceKind = "cont"
	ChoiceDirection   ChoiceKind = "dir"
	ChoiceViewShop    ChoiceKind = "shop.view"
	ChoiceShopDetail  ChoiceKind = "shop.item"
	ChoiceBuy         ChoiceKind = "shop.buy"
	ChoiceViewDock    ChoiceKind = "dock.view"
	ChoiceDestination ChoiceKind = "dock.pick"
	ChoiceStarBuy     ChoiceKind = "star.buy"
	ChoiceStarSkip    ChoiceKind = "star.skip"
	ChoiceIsland      ChoiceKind = "island"
	ChoiceBack        ChoiceKind = "back"
)

// Choice is one decoded interaction: what the user picked and, where the
// control carries a payload (a direction, an item, an island), its value.
type Choice struct {
	Kind  ChoiceKind
	Value string
}

const customIDPrefix = "sp"

// BuildCustomID encodes a choice into a component custom id. Value may be
// empty for controls that carry no payload, or for select menus whose
// payload arrives in the interaction's value list.
func BuildCustomID(kind ChoiceKind, teamID, value string) string {
	if value == "" {
		return fmt.Sprintf("%s:%s:%s", customIDPrefix, kind, teamID)
	}
	return fmt.Sprintf("%s:%s:%s:%s", customIDPrefix, kind, teamID, value)
}

// ParseCustomID decodes a component custom id back into the team it
// belongs to and the choice it stands for. Select-menu payloads are passed
// in values and override the id-embedded value.
func ParseCustomID(customID string, values []string) (teamID string, choice Choice, ok bool) {
	parts := strings.SplitN(customID, ":", 4)
	if len(parts) < 3 || parts[0] != customIDPrefix {
		return "", Choice{}, false
	}
	choice.Kind = ChoiceKind(parts[1])
	teamID = parts[2]
	if len(parts) == 4 {
		choice.Value = parts[3]
	}
	if len(values) > 0 {
		choice.Value = values[0]
	}
	return teamID, choice, true
}

// maxSelectOptions is Discord's ceiling for a single select menu.
const maxSelectOptions = 25

// render builds the message for a progression step and the requested
// sub-view of it.
func (p *Presenter) render(prog Progression, view View, detailIndex int) Message {
	switch prog.Action {
	case ActionFirstRoll, ActionIslandSelection:
		return p.renderIslands(prog)
	case ActionContinue:
		return renderContinue(prog)
	case ActionCrossroad:
		return renderCrossroad(prog)
	case ActionShop:
		return p.renderShop(prog, view, detailIndex)
	case ActionDock:
		return p.renderDock(prog, view)
	case ActionStar:
		return renderStar(prog)
	case ActionComplete:
		return renderComplete(prog)
	default:
		return Message{
			Content: "The roll reached a step this bot does not understand yet. Ping an event admin.",
		}
	}
}

func (p *Presenter) renderIslands(prog Progression) Message {
	embed := baseEmbed(prog, "🏝️ Choose Your Starting Island",
		"Your adventure begins! Pick the island your team will start on.")

	options := selectOptions(p, prog.TeamID, prog.Islands, func(o Option) string {
		return truncate(o.Description, 100)
	})
	menu := discordgo.SelectMenu{
		CustomID:    BuildCustomID(ChoiceIsland, prog.TeamID, ""),
		Placeholder: "Select a starting island...",
		Options:     options,
	}
	return Message{
		Embed:      embed,
		Components: []discordgo.MessageComponent{discordgo.ActionsRow{Components: []discordgo.MessageComponent{menu}}},
	}
}

func renderContinue(prog Progression) Message {
	embed := baseEmbed(prog, "🎲 Rolling...", stepSummary(prog))
	return Message{Embed: embed}
}

func renderCrossroad(prog Progression) Message {
	embed := baseEmbed(prog, "🔀 Crossroads!",
		"The path splits ahead. Choose a direction to keep moving.")
	if len(prog.Path) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Path so far",
			Value: strings.Join(prog.Path, " → "),
		})
	}

	buttons := make([]discordgo.MessageComponent, 0, len(prog.Directions))
	for _, dir := range prog.Directions {
		buttons = append(buttons, discordgo.Button{
			Label:    dir.Name,
			Style:    discordgo.PrimaryButton,
			CustomID: BuildCustomID(ChoiceDirection, prog.TeamID, dir.ID),
		})
	}
	return Message{Embed: embed, Components: buttonRows(buttons)}
}

func (p *Presenter) renderShop(prog Progression, view View, detailIndex int) Message {
	switch view {
	case ViewList:
		return p.renderShopList(prog)
	case ViewDetail:
		return renderShopDetail(prog, detailIndex)
	default:
		return renderShopPrompt(prog)
	}
}

func renderShopPrompt(prog Progression) Message {
	embed := baseEmbed(prog, "🏪 You passed a shop!",
		fmt.Sprintf("The shopkeeper waves you over. You have **%d** coins and **%d** moves left.",
			prog.Coins, prog.MovesRemaining))
	components := buttonRows([]discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Browse wares",
			Style:    discordgo.PrimaryButton,
			CustomID: BuildCustomID(ChoiceViewShop, prog.TeamID, ""),
		},
		discordgo.Button{
			Label:    "Keep moving",
			Style:    discordgo.SecondaryButton,
			CustomID: BuildCustomID(ChoiceContinue, prog.TeamID, ""),
		},
	})
	return Message{Embed: embed, Components: components}
}

func (p *Presenter) renderShopList(prog Progression) Message {
	embed := baseEmbed(prog, "🏪 Shop Inventory",
		fmt.Sprintf("You have **%d** coins. Pick an item to inspect it.", prog.Coins))

	items := prog.ShopItems
	if len(items) > maxSelectOptions {
		p.logger.Warn("shop list truncated",
			"team_id", prog.TeamID,
			"items", len(items))
		items = items[:maxSelectOptions]
	}

	buttons := make([]discordgo.MessageComponent, 0, len(items)+1)
	for i, item := range items {
		style := discordgo.SecondaryButton
		if prog.Coins >= item.Price {
			style = discordgo.PrimaryButton
		}
		buttons = append(buttons, discordgo.Button{
			Label:    fmt.Sprintf("%s (%d)", truncate(item.Name, 70), item.Price),
			Style:    style,
			CustomID: BuildCustomID(ChoiceShopDetail, prog.TeamID, fmt.Sprintf("%d", i)),
		})
	}
	buttons = append(buttons, discordgo.Button{
		Label:    "Keep moving",
		Style:    discordgo.DangerButton,
		CustomID: BuildCustomID(ChoiceContinue, prog.TeamID, ""),
	})
	return Message{Embed: embed, Components: buttonRows(buttons)}
}

func renderShopDetail(prog Progression, idx int) Message {
	if idx < 0 || idx >= len(prog.ShopItems) {
		return renderShopPrompt(prog)
	}
	item := prog.ShopItems[idx]

	embed := baseEmbed(prog, fmt.Sprintf("🏪 %s", item.Name), item.Description)
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Price", Value: fmt.Sprintf("%d coins", item.Price), Inline: true},
		&discordgo.MessageEmbedField{Name: "Your coins", Value: fmt.Sprintf("%d", prog.Coins), Inline: true},
	)
	if item.Rarity != "" {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Rarity", Value: item.Rarity, Inline: true})
	}

	buy := discordgo.Button{
		Label:    fmt.Sprintf("Buy for %d", item.Price),
		Style:    discordgo.SuccessButton,
		CustomID: BuildCustomID(ChoiceBuy, prog.TeamID, item.ID),
		Disabled: prog.Coins < item.Price,
	}
	back := discordgo.Button{
		Label:    "Back",
		Style:    discordgo.SecondaryButton,
		CustomID: BuildCustomID(ChoiceBack, prog.TeamID, ""),
	}
	return Message{Embed: embed, Components: buttonRows([]discordgo.MessageComponent{buy, back})}
}

func (p *Presenter) renderDock(prog Progression, view View) Message {
	if view == ViewList {
		return p.renderDockList(prog)
	}

	embed := baseEmbed(prog, "⚓ You reached a dock!",
		fmt.Sprintf("Ships can carry you to another island for **%d** coins. You have **%d** coins and **%d** moves left.",
			prog.CharterCost, prog.Coins, prog.MovesRemaining))
	components := buttonRows([]discordgo.MessageComponent{
		discordgo.Button{
			Label:    "View destinations",
			Style:    discordgo.PrimaryButton,
			CustomID: BuildCustomID(ChoiceViewDock, prog.TeamID, ""),
			Disabled: prog.Coins < prog.CharterCost,
		},
		discordgo.Button{
			Label:    "Keep moving",
			Style:    discordgo.SecondaryButton,
			CustomID: BuildCustomID(ChoiceContinue, prog.TeamID, ""),
		},
	})
	return Message{Embed: embed, Components: components}
}

func (p *Presenter) renderDockList(prog Progression) Message {
	embed := baseEmbed(prog, "⚓ Charter a Ship",
		fmt.Sprintf("A voyage costs **%d** coins. Choose your destination.", prog.CharterCost))

	options := selectOptions(p, prog.TeamID, prog.Destinations, func(o Option) string {
		return truncate(o.Description, 100)
	})
	menu := discordgo.SelectMenu{
		CustomID:    BuildCustomID(ChoiceDestination, prog.TeamID, ""),
		Placeholder: "Select a destination island...",
		Options:     options,
	}
	back := discordgo.Button{
		Label:    "Back",
		Style:    discordgo.SecondaryButton,
		CustomID: BuildCustomID(ChoiceBack, prog.TeamID, ""),
	}
	return Message{
		Embed: embed,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{menu}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{back}},
		},
	}
}

func renderStar(prog Progression) Message {
	embed := baseEmbed(prog, "⭐ A star is within reach!",
		fmt.Sprintf("Buy it for **%d** coins? You have **%d**.", prog.StarCost, prog.Coins))
	components := buttonRows([]discordgo.MessageComponent{
		discordgo.Button{
			Label:    fmt.Sprintf("Buy star (%d)", prog.StarCost),
			Style:    discordgo.SuccessButton,
			CustomID: BuildCustomID(ChoiceStarBuy, prog.TeamID, ""),
			Disabled: prog.Coins < prog.StarCost,
		},
		discordgo.Button{
			Label:    "Pass",
			Style:    discordgo.SecondaryButton,
			CustomID: BuildCustomID(ChoiceStarSkip, prog.TeamID, ""),
		},
	})
	return Message{Embed: embed, Components: components}
}

func renderComplete(prog Progression) Message {
	embed := baseEmbed(prog, "🏁 Roll complete!",
		fmt.Sprintf("Your team landed on **%s**.\n\n%s", prog.LandedTile.Name, prog.LandedTile.Description))
	if len(prog.Path) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Path taken",
			Value: strings.Join(prog.Path, " → "),
		})
	}
	// Terminal step: no components, nothing left to click.
	return Message{Embed: embed, Components: []discordgo.MessageComponent{}}
}

// baseEmbed builds the shared embed shell: title, description, and the
// dice summary footer when the step carries roll detail.
func baseEmbed(prog Progression, title, description string) *discordgo.MessageEmbed {
	if prog.Message != "" {
		description = prog.Message + "\n\n" + description
	}
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       0x2ecc71,
	}
	if footer := diceFooter(prog); footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: footer}
	}
	return embed
}

func diceFooter(prog Progression) string {
	if prog.RollTotal == 0 && len(prog.DiceResults) == 0 {
		return ""
	}
	parts := make([]string, 0, 3)
	if len(prog.DiceResults) > 0 {
		dice := make([]string, len(prog.DiceResults))
		for i, d := range prog.DiceResults {
			dice[i] = fmt.Sprintf("%d", d)
		}
		parts = append(parts, "Dice: "+strings.Join(dice, ", "))
	}
	if prog.Modifier != 0 {
		parts = append(parts, fmt.Sprintf("Modifier: %+d", prog.Modifier))
	}
	if prog.RollTotal > 0 {
		parts = append(parts, fmt.Sprintf("Total: %d", prog.RollTotal))
	}
	if prog.RollRemaining > 0 {
		parts = append(parts, fmt.Sprintf("Remaining: %d", prog.RollRemaining))
	}
	return strings.Join(parts, " | ")
}

func stepSummary(prog Progression) string {
	if prog.Message != "" {
		return prog.Message
	}
	if prog.RollRemaining > 0 {
		return fmt.Sprintf("Moving along... **%d** tiles to go.", prog.RollRemaining)
	}
	return "Moving along..."
}

// selectOptions maps backend options onto a Discord select menu,
// truncating past the menu ceiling with a log so oversized boards are
// visible in ops instead of failing the interaction.
func selectOptions(p *Presenter, teamID string, opts []Option, describe func(Option) string) []discordgo.SelectMenuOption {
	if len(opts) > maxSelectOptions {
		p.logger.Warn("select menu truncated",
			"team_id", teamID,
			"options", len(opts))
		opts = opts[:maxSelectOptions]
	}
	out := make([]discordgo.SelectMenuOption, 0, len(opts))
	for _, o := range opts {
		out = append(out, discordgo.SelectMenuOption{
			Label:       truncate(o.Name, 100),
			Value:       o.ID,
			Description: describe(o),
		})
	}
	return out
}

// buttonRows chunks buttons into action rows of at most five.
func buttonRows(buttons []discordgo.MessageComponent) []discordgo.MessageComponent {
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

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
