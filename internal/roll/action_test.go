package roll

import "testing"

func TestParseAction(t *testing.T) {
	t.Parallel()

	cases := map[string]Action{
		"first_roll":       ActionFirstRoll,
		"island_selection": ActionIslandSelection,
		"continue":         ActionContinue,
		"crossroad":        ActionCrossroad,
		"crossroads":       ActionCrossroad,
		"shop":             ActionShop,
		"dock":             ActionDock,
		"star":             ActionStar,
		"complete":         ActionComplete,
		" Complete ":       ActionComplete,
		"mystery_portal":   ActionUnknown,
		"":                 ActionUnknown,
	}
	for tag, want := range cases {
		if got := ParseAction(tag); got != want {
			t.Fatalf("ParseAction(%q) = %q, want %q", tag, got, want)
		}
	}
}

func TestDecodeProgressionShop(t *testing.T) {
	t.Parallel()

	prog := DecodeProgression(map[string]any{
		"action_required": "shop",
		"event_id":        "ev1",
		"team_id":         "t1",
		"action_data": map[string]any{
			"coins":           float64(120),
			"moves_remaining": float64(3),
			"roll_total":      float64(7),
			"dice_results":    []any{float64(3), float64(4)},
			"available_items": []any{
				map[string]any{"id": "torch", "name": "Torch", "price": float64(50), "rarity": "common"},
				map[string]any{"id": "map", "description": "A weathered map", "cost": float64(80)},
			},
		},
	})

	if prog.Action != ActionShop {
		t.Fatalf("unexpected action: %q", prog.Action)
	}
	if prog.Coins != 120 || prog.MovesRemaining != 3 || prog.RollTotal != 7 {
		t.Fatalf("unexpected numbers: %+v", prog)
	}
	if len(prog.DiceResults) != 2 || prog.DiceResults[0] != 3 {
		t.Fatalf("unexpected dice: %v", prog.DiceResults)
	}
	if len(prog.ShopItems) != 2 {
		t.Fatalf("unexpected items: %+v", prog.ShopItems)
	}
	if prog.ShopItems[0].Price != 50 {
		t.Fatalf("price not read: %+v", prog.ShopItems[0])
	}
	if prog.ShopItems[1].Price != 80 {
		t.Fatalf("cost alias not read: %+v", prog.ShopItems[1])
	}
	if prog.ShopItems[1].Name != "Unknown" {
		t.Fatalf("missing name should default: %+v", prog.ShopItems[1])
	}
}

func TestDecodeProgressionLegacyTopLevelDice(t *testing.T) {
	t.Parallel()

	prog := DecodeProgression(map[string]any{
		"action_required":       "continue",
		"roll_total_for_turn":   float64(9),
		"dice_results_for_roll": []any{float64(4), float64(5)},
		"modifier_for_roll":     float64(1),
		"path_taken_this_turn":  []any{"A1", "A2"},
	})

	if prog.Action != ActionContinue {
		t.Fatalf("unexpected action: %q", prog.Action)
	}
	if prog.RollTotal != 9 || prog.Modifier != 1 {
		t.Fatalf("legacy fields not read: %+v", prog)
	}
	if len(prog.DiceResults) != 2 || len(prog.Path) != 2 {
		t.Fatalf("legacy lists not read: %+v", prog)
	}
}

func TestDecodeProgressionDock(t *testing.T) {
	t.Parallel()

	prog := DecodeProgression(map[string]any{
		"action_required": "dock",
		"action_data": map[string]any{
			"charter_price": float64(100),
			"coins":         float64(150),
			"destinations": []any{
				map[string]any{"id": "isle-2", "name": "Frozen Isle"},
			},
		},
	})

	if prog.Action != ActionDock || prog.CharterCost != 100 || prog.Coins != 150 {
		t.Fatalf("unexpected dock step: %+v", prog)
	}
	if len(prog.Destinations) != 1 || prog.Destinations[0].ID != "isle-2" {
		t.Fatalf("destinations not read: %+v", prog.Destinations)
	}
}

func TestDecodeProgressionComplete(t *testing.T) {
	t.Parallel()

	prog := DecodeProgression(map[string]any{
		"action_required": "complete",
		"action_data": map[string]any{
			"current_tile": map[string]any{"name": "Wintertodt", "description": "Subdue the Wintertodt"},
		},
	})
	if prog.Action != ActionComplete {
		t.Fatalf("unexpected action: %q", prog.Action)
	}
	if prog.LandedTile.Name != "Wintertodt" {
		t.Fatalf("tile not read: %+v", prog.LandedTile)
	}

	empty := DecodeProgression(map[string]any{"action_required": "complete"})
	if empty.LandedTile.Name != "Unknown" || empty.LandedTile.Description != "No description available" {
		t.Fatalf("missing tile should default: %+v", empty.LandedTile)
	}
}

func TestDecodeProgressionStar(t *testing.T) {
	t.Parallel()

	prog := DecodeProgression(map[string]any{
		"action_required": "star",
		"action_data": map[string]any{
			"star_price": float64(200),
			"coins":      float64(180),
		},
	})
	if prog.Action != ActionStar || prog.StarCost != 200 || prog.Coins != 180 {
		t.Fatalf("unexpected star step: %+v", prog)
	}
}

func TestDecodeProgressionMalformed(t *testing.T) {
	t.Parallel()

	prog := DecodeProgression(map[string]any{
		"action_required": "crossroad",
		"action_data":     "not an object",
	})
	if prog.Action != ActionCrossroad {
		t.Fatalf("unexpected action: %q", prog.Action)
	}
	if len(prog.Directions) != 0 {
		t.Fatalf("expected no directions: %+v", prog.Directions)
	}
}
