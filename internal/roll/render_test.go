package roll

import (
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestCustomIDRoundTrip(t *testing.T) {
	t.Parallel()

	id := BuildCustomID(ChoiceDirection, "team1", "north")
	teamID, choice, ok := ParseCustomID(id, nil)
	if !ok {
		t.Fatalf("parse failed for %q", id)
	}
	if teamID != "team1" || choice.Kind != ChoiceDirection || choice.Value != "north" {
		t.Fatalf("unexpected parse: team=%s choice=%+v", teamID, choice)
	}

	// Select menus carry the payload in the values list.
	id = BuildCustomID(ChoiceIsland, "team2", "")
	teamID, choice, ok = ParseCustomID(id, []string{"isle-3"})
	if !ok {
		t.Fatalf("parse failed for %q", id)
	}
	if teamID != "team2" || choice.Value != "isle-3" {
		t.Fatalf("unexpected parse: team=%s choice=%+v", teamID, choice)
	}
}

func TestParseCustomIDForeign(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"", "item:pick:t1:x", "sp:cont", "nonsense"} {
		if _, _, ok := ParseCustomID(id, nil); ok {
			t.Fatalf("expected %q to be rejected", id)
		}
	}
}

func TestRenderIslandsTruncates(t *testing.T) {
	t.Parallel()

	p := NewPresenter(nil, nil, nil, NewRegistry())
	prog := Progression{Action: ActionFirstRoll, TeamID: "team1"}
	for i := 0; i < 30; i++ {
		prog.Islands = append(prog.Islands, Option{ID: fmt.Sprintf("isle-%d", i), Name: fmt.Sprintf("Isle %d", i)})
	}

	msg := p.render(prog, ViewInitial, 0)
	row, ok := msg.Components[0].(discordgo.ActionsRow)
	if !ok {
		t.Fatalf("expected an actions row, got %T", msg.Components[0])
	}
	menu, ok := row.Components[0].(discordgo.SelectMenu)
	if !ok {
		t.Fatalf("expected a select menu, got %T", row.Components[0])
	}
	if len(menu.Options) != maxSelectOptions {
		t.Fatalf("expected %d options, got %d", maxSelectOptions, len(menu.Options))
	}
}

func TestRenderUnknownAction(t *testing.T) {
	t.Parallel()

	p := NewPresenter(nil, nil, nil, NewRegistry())
	msg := p.render(Progression{Action: ActionUnknown}, ViewInitial, 0)
	if msg.Content == "" {
		t.Fatalf("unknown action should degrade to a plain message")
	}
	if len(msg.Components) != 0 {
		t.Fatalf("unknown action must not offer controls")
	}
}

func TestRenderCrossroadButtons(t *testing.T) {
	t.Parallel()

	p := NewPresenter(nil, nil, nil, NewRegistry())
	msg := p.render(Progression{
		Action: ActionCrossroad,
		TeamID: "team1",
		Directions: []Option{
			{ID: "n", Name: "North"},
			{ID: "s", Name: "South"},
		},
	}, ViewInitial, 0)

	row, ok := msg.Components[0].(discordgo.ActionsRow)
	if !ok {
		t.Fatalf("expected an actions row, got %T", msg.Components[0])
	}
	if len(row.Components) != 2 {
		t.Fatalf("expected 2 direction buttons, got %d", len(row.Components))
	}
	btn := row.Components[0].(discordgo.Button)
	if btn.CustomID != "sp:dir:team1:n" {
		t.Fatalf("unexpected custom id: %s", btn.CustomID)
	}
}
