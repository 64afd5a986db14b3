package bot

import (
	"fmt"
	"testing"

	"github.com/stability-party/spbot/internal/roll"
)

func TestComponentNotice(t *testing.T) {
	t.Parallel()

	text, ok := componentNotice("", roll.ErrNotInitiator)
	if !ok || text == "" {
		t.Fatalf("initiator rejection must reach the user: ok=%v text=%q", ok, text)
	}

	text, ok = componentNotice("", roll.ErrNoSession)
	if !ok || text == "" {
		t.Fatalf("dead session must reach the user: ok=%v text=%q", ok, text)
	}

	// A rejected pick's notice is forwarded, not dropped.
	text, ok = componentNotice("That direction is not available.", nil)
	if !ok || text != "That direction is not available." {
		t.Fatalf("notice should be forwarded: ok=%v text=%q", ok, text)
	}

	// Internal failures are logged, never echoed to the user.
	if _, ok := componentNotice("", fmt.Errorf("boom")); ok {
		t.Fatalf("internal errors must not be echoed")
	}

	// A silent success needs no followup.
	if _, ok := componentNotice("", nil); ok {
		t.Fatalf("empty notice should produce no followup")
	}
}
