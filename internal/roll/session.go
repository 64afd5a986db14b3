package roll

import (
	"sync"
	"time"
)

// View names the sub-surface currently rendered within a step, e.g. the
// shop's initial prompt versus its expanded item list.
type View string

const (
	ViewInitial View = "initial"
	ViewList    View = "list"
	ViewDetail  View = "detail"
)

// Session tracks one in-flight roll for a team: who started it, which
// message displays it, and the last decoded step. Sessions live in process
// only; a restart loses the conversation, not the team's position.
type Session struct {
	TeamID    string
	EventID   string
	Initiator string
	ChannelID string
	MessageID string

	// Step is the last decoded progression; sub-flow handlers read option
	// lists and prices from here instead of trusting client-supplied data.
	Step Progression
	// CurrentView tracks which sub-surface of the step is on screen.
	CurrentView View
	// DetailIndex is the option under detail view, when CurrentView is ViewDetail.
	DetailIndex int

	acquiredAt time.Time
	touchedAt  time.Time

	// busy marks an interaction being processed for this session. Set and
	// cleared under the registry mutex; a second interaction arriving
	// while it is held gets rejected instead of racing the first.
	busy bool
}

// Registry is the per-team roll session table. discordgo dispatches
// handlers on separate goroutines, so every access is mutex-guarded; the
// at-most-one-active-roller invariant depends on it.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry returns an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// TryAcquire claims the team's roll slot for userID. It succeeds when the
// team has no active session, or when userID already holds it (the same
// player advancing their own roll). On denial it returns the current
// holder's user id.
func (r *Registry) TryAcquire(teamID, userID string) (bool, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, ok := r.sessions[teamID]; ok {
		if sess.Initiator == userID {
			sess.touchedAt = time.Now()
			return true, userID
		}
		return false, sess.Initiator
	}

	now := time.Now()
	r.sessions[teamID] = &Session{
		TeamID:     teamID,
		Initiator:  userID,
		acquiredAt: now,
		touchedAt:  now,
	}
	return true, userID
}

// Release removes the team's session. Releasing an absent team is a no-op.
func (r *Registry) Release(teamID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, teamID)
}

// Lookup returns a snapshot of the team's active session. Handlers run on
// separate goroutines, so callers get a copy rather than the live pointer.
func (r *Registry) Lookup(teamID string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[teamID]; ok {
		return *sess, true
	}
	return Session{}, false
}

// beginInteraction claims the team's session for one interaction.
// discordgo dispatches each interaction on its own goroutine, so without
// this gate a double-click would read the same step twice and submit the
// same choice twice.
func (r *Registry) beginInteraction(teamID string) (acquired, exists bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[teamID]
	if !ok {
		return false, false
	}
	if sess.busy {
		return false, true
	}
	sess.busy = true
	return true, true
}

// endInteraction releases the interaction claim. A session released or
// expired mid-interaction is a no-op.
func (r *Registry) endInteraction(teamID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[teamID]; ok {
		sess.busy = false
	}
}

// SetEvent records which event the roll belongs to.
func (r *Registry) SetEvent(teamID, eventID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[teamID]; ok {
		sess.EventID = eventID
	}
}

// SetMessage records the message currently displaying the roll.
func (r *Registry) SetMessage(teamID, channelID, messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[teamID]; ok {
		sess.ChannelID = channelID
		sess.MessageID = messageID
	}
}

// SetStep records the last decoded progression and resets the sub-view.
func (r *Registry) SetStep(teamID string, prog Progression) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[teamID]; ok {
		sess.Step = prog
		sess.CurrentView = ViewInitial
		sess.DetailIndex = 0
		sess.touchedAt = time.Now()
	}
}

// SetView records the sub-surface currently rendered for the step.
func (r *Registry) SetView(teamID string, view View, detailIndex int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[teamID]; ok {
		sess.CurrentView = view
		sess.DetailIndex = detailIndex
		sess.touchedAt = time.Now()
	}
}

// Touch refreshes the session's idle timer.
func (r *Registry) Touch(teamID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[teamID]; ok {
		sess.touchedAt = time.Now()
	}
}

// ExpireStale removes and returns sessions idle for longer than ttl. The
// sweep keeps an abandoned roll from locking a team out indefinitely;
// callers note the lapsed turn on each returned session's message.
func (r *Registry) ExpireStale(ttl time.Duration) []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	var expired []*Session
	for teamID, sess := range r.sessions {
		if sess.touchedAt.Before(cutoff) {
			expired = append(expired, sess)
			delete(r.sessions, teamID)
		}
	}
	return expired
}

// Len reports the number of active sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
