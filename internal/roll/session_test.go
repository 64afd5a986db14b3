package roll

import (
	"testing"
	"time"
)

func TestRegistryTryAcquire(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	ok, holder := r.TryAcquire("team1", "alice")
	if !ok || holder != "alice" {
		t.Fatalf("first acquire should succeed: ok=%v holder=%s", ok, holder)
	}

	ok, holder = r.TryAcquire("team1", "bob")
	if ok {
		t.Fatalf("second roller must be denied")
	}
	if holder != "alice" {
		t.Fatalf("denial should name the holder, got %s", holder)
	}

	// The initiator re-entering their own roll is not a conflict.
	ok, _ = r.TryAcquire("team1", "alice")
	if !ok {
		t.Fatalf("initiator re-entry should succeed")
	}

	// A different team is unaffected.
	ok, _ = r.TryAcquire("team2", "bob")
	if !ok {
		t.Fatalf("other team should acquire freely")
	}
}

func TestRegistryRelease(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.TryAcquire("team1", "alice")
	r.Release("team1")

	if ok, _ := r.TryAcquire("team1", "bob"); !ok {
		t.Fatalf("released slot should be acquirable")
	}

	// Releasing an absent team is a no-op.
	r.Release("ghost")
	r.Release("team1")
	r.Release("team1")
}

func TestRegistryLookupSnapshot(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.TryAcquire("team1", "alice")
	r.SetEvent("team1", "ev1")
	r.SetMessage("team1", "chan1", "msg1")

	sess, ok := r.Lookup("team1")
	if !ok {
		t.Fatalf("expected session")
	}
	if sess.EventID != "ev1" || sess.ChannelID != "chan1" || sess.MessageID != "msg1" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	// Mutating the snapshot must not leak back into the registry.
	sess.MessageID = "tampered"
	again, _ := r.Lookup("team1")
	if again.MessageID != "msg1" {
		t.Fatalf("lookup returned live state: %+v", again)
	}

	if _, ok := r.Lookup("ghost"); ok {
		t.Fatalf("absent team should not resolve")
	}
}

func TestRegistryInteractionClaim(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	if acquired, exists := r.beginInteraction("ghost"); acquired || exists {
		t.Fatalf("absent team must not be claimable: acquired=%v exists=%v", acquired, exists)
	}

	r.TryAcquire("team1", "alice")
	acquired, exists := r.beginInteraction("team1")
	if !acquired || !exists {
		t.Fatalf("first claim should succeed: acquired=%v exists=%v", acquired, exists)
	}

	// A second claim while the first is held is rejected, but the
	// session itself still exists.
	acquired, exists = r.beginInteraction("team1")
	if acquired || !exists {
		t.Fatalf("held claim must reject: acquired=%v exists=%v", acquired, exists)
	}

	r.endInteraction("team1")
	if acquired, _ := r.beginInteraction("team1"); !acquired {
		t.Fatalf("released claim should be acquirable again")
	}

	// Releasing the session mid-claim makes endInteraction a no-op.
	r.Release("team1")
	r.endInteraction("team1")
}

func TestRegistrySetStepResetsView(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.TryAcquire("team1", "alice")
	r.SetView("team1", ViewDetail, 3)

	r.SetStep("team1", Progression{Action: ActionShop})
	sess, _ := r.Lookup("team1")
	if sess.CurrentView != ViewInitial || sess.DetailIndex != 0 {
		t.Fatalf("new step should reset the view: %+v", sess)
	}
	if sess.Step.Action != ActionShop {
		t.Fatalf("step not stored: %+v", sess.Step)
	}
}

func TestRegistryExpireStale(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.TryAcquire("team1", "alice")
	r.TryAcquire("team2", "bob")
	r.Touch("team2")

	// Nothing is stale under a generous TTL.
	if expired := r.ExpireStale(time.Hour); len(expired) != 0 {
		t.Fatalf("nothing should expire: %+v", expired)
	}

	// A zero TTL makes everything stale.
	expired := r.ExpireStale(0)
	if len(expired) != 2 {
		t.Fatalf("expected both sessions expired, got %d", len(expired))
	}
	if r.Len() != 0 {
		t.Fatalf("registry should be empty, has %d", r.Len())
	}

	// Expired slots are acquirable again.
	if ok, _ := r.TryAcquire("team1", "carol"); !ok {
		t.Fatalf("expired slot should be acquirable")
	}
}
