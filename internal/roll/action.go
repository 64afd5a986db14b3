// Package roll implements the server-authoritative roll progression:
// decoding backend progression envelopes, tracking per-team roll sessions,
// and driving the interactive message that walks the initiating player
// through each decision until the roll lands.
package roll

import "strings"

// Action is the decoded category of what the current roll step requires.
type Action string

const (
	// ActionFirstRoll is the very first roll of a team with no current
	// tile; the team picks a starting island.
	ActionFirstRoll Action = "first_roll"
	// ActionIslandSelection is the standalone island pick when the backend
	// separates "you rolled" from "choose where to start".
	ActionIslandSelection Action = "island_selection"
	// ActionContinue is pure movement; no decision required.
	ActionContinue Action = "continue"
	// ActionCrossroad offers two or more branch directions.
	ActionCrossroad Action = "crossroad"
	// ActionShop offers items for purchase.
	ActionShop Action = "shop"
	// ActionDock offers chartered travel to other islands.
	ActionDock Action = "dock"
	// ActionStar offers a star purchase at a fixed cost.
	ActionStar Action = "star"
	// ActionComplete is terminal: the roll has finished.
	ActionComplete Action = "complete"
	// ActionUnknown is any tag this bot does not recognize. The presenter
	// degrades to a generic message instead of failing the session.
	ActionUnknown Action = "unknown"
)

// ParseAction maps a backend action_required tag to an Action.
func ParseAction(tag string) Action {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "first_roll", "firstroll":
		return ActionFirstRoll
	case "island_selection", "islandselection":
		return ActionIslandSelection
	case "continue", "move":
		return ActionContinue
	case "crossroad", "crossroads":
		return ActionCrossroad
	case "shop":
		return ActionShop
	case "dock":
		return ActionDock
	case "star":
		return ActionStar
	case "complete", "end":
		return ActionComplete
	default:
		return ActionUnknown
	}
}

// Option is one backend-supplied choice at an intermediate step: a shop
// item, a dock destination, a crossroad direction, or a starting island.
// Price is zero when the option has no cost attached.
type Option struct {
	ID          string
	Name        string
	Description string
	Price       int
	Rarity      string
}

// Tile identifies a board tile by name and description.
type Tile struct {
	Name        string
	Description string
}

// Progression is one decoded roll-progression envelope. Exactly one is
// produced per backend call during a roll; its Action tag decides which of
// the step-specific fields are meaningful.
type Progression struct {
	Action         Action
	EventID        string
	TeamID         string
	StartingTileID string
	CurrentTileID  string
	RollTotal      int
	RollRemaining  int
	DiceResults    []int
	Modifier       int
	Path           []string

	// Step-specific detail, populated per Action.
	Islands        []Option // first roll / island selection
	Directions     []Option // crossroad
	ShopItems      []Option // shop
	Destinations   []Option // dock
	CharterCost    int      // dock
	StarCost       int      // star
	Coins          int      // shop, dock, star
	MovesRemaining int      // shop, dock
	LandedTile     Tile     // complete
	Message        string   // backend-authored step summary
}

// DecodeProgression turns a raw backend envelope into a Progression.
// Missing fields decode to zero values, never to a failure: the backend
// contract leaves most action_data keys optional. Dice fields are read from
// action_data first with a top-level fallback, because legacy payloads
// place them at the top level.
func DecodeProgression(raw map[string]any) Progression {
	data := asObject(raw["action_data"])

	p := Progression{
		Action:         ParseAction(readString(raw, "action_required")),
		EventID:        readString(raw, "event_id"),
		TeamID:         readString(raw, "team_id"),
		StartingTileID: readString(raw, "starting_tile_id"),
		CurrentTileID:  readString(raw, "current_tile_id"),
		RollTotal:      readIntFallback(data, raw, "roll_total", "roll_total_for_turn"),
		RollRemaining:  readIntFallback(data, raw, "roll_remaining"),
		DiceResults:    readIntList(firstPresent(data, raw, "dice_results", "dice_results_for_roll")),
		Modifier:       readIntFallback(data, raw, "modifier", "modifier_for_roll"),
		Path:           readStringList(firstPresent(data, raw, "path", "path_taken_this_turn")),
		Message:        readString(data, "message"),
	}

	switch p.Action {
	case ActionFirstRoll, ActionIslandSelection:
		p.Islands = readOptions(data["islands"])
	case ActionCrossroad:
		p.Directions = readOptions(data["directions"])
	case ActionShop:
		p.ShopItems = readOptions(data["available_items"])
		p.Coins = readInt(data, "coins")
		p.MovesRemaining = readInt(data, "moves_remaining")
	case ActionDock:
		p.Destinations = readOptions(data["destinations"])
		p.CharterCost = readInt(data, "charter_price")
		p.Coins = readInt(data, "coins")
		p.MovesRemaining = readInt(data, "moves_remaining")
	case ActionStar:
		p.StarCost = readInt(data, "star_price")
		p.Coins = readInt(data, "coins")
	case ActionComplete:
		p.LandedTile = readTile(data["current_tile"])
	}

	return p
}

func readTile(v any) Tile {
	obj := asObject(v)
	t := Tile{
		Name:        readString(obj, "name"),
		Description: readString(obj, "description"),
	}
	if t.Name == "" {
		t.Name = "Unknown"
	}
	if t.Description == "" {
		t.Description = "No description available"
	}
	return t
}

func readOptions(v any) []Option {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	options := make([]Option, 0, len(list))
	for _, entry := range list {
		obj := asObject(entry)
		if len(obj) == 0 {
			continue
		}
		opt := Option{
			ID:          readString(obj, "id"),
			Name:        readString(obj, "name"),
			Description: readString(obj, "description"),
			Rarity:      readString(obj, "rarity"),
			Price:       readInt(obj, "price"),
		}
		if opt.Price == 0 {
			opt.Price = readInt(obj, "cost")
		}
		if opt.Name == "" {
			opt.Name = "Unknown"
		}
		options = append(options, opt)
	}
	return options
}

func asObject(v any) map[string]any {
	if obj, ok := v.(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}

func readString(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

func readInt(obj map[string]any, key string) int {
	switch v := obj[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// readIntFallback reads the first present key from action_data, then from
// the top-level envelope. Newer payloads nest roll detail under
// action_data; legacy ones keep it at the top level under either spelling.
func readIntFallback(data, top map[string]any, keys ...string) int {
	for _, obj := range []map[string]any{data, top} {
		for _, key := range keys {
			if _, ok := obj[key]; ok {
				return readInt(obj, key)
			}
		}
	}
	return 0
}

func firstPresent(data, top map[string]any, keys ...string) any {
	for _, obj := range []map[string]any{data, top} {
		for _, key := range keys {
			if v, ok := obj[key]; ok {
				return v
			}
		}
	}
	return nil
}

func readIntList(v any) []int {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(list))
	for _, entry := range list {
		switch n := entry.(type) {
		case float64:
			out = append(out, int(n))
		case int:
			out = append(out, n)
		}
	}
	return out
}

func readStringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, entry := range list {
		if s, ok := entry.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
