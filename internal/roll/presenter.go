package roll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/stability-party/spbot/internal/backend"
)

// TurnAPI is the slice of the backend client the presenter drives a roll
// with. Every call returns the next raw progression envelope.
type TurnAPI interface {
	ContinueRoll(ctx context.Context, eventID, teamID string) (map[string]any, error)
	ChooseDirection(ctx context.Context, eventID, teamID, directionID string) (map[string]any, error)
	BuyShopItem(ctx context.Context, eventID, teamID, itemID string, price int) (map[string]any, error)
	CharterShip(ctx context.Context, eventID, teamID, destinationID string, cost int) (map[string]any, error)
	StarAction(ctx context.Context, eventID, teamID, action string, cost int) (map[string]any, error)
	ChooseIsland(ctx context.Context, eventID, teamID, islandID string) (map[string]any, error)
}

// Messenger sends and edits the channel message a roll session lives in.
// It abstracts the Discord session so the presenter can recover from a
// stale message reference and so tests can run without a gateway.
type Messenger interface {
	Send(channelID string, msg Message) (messageID string, err error)
	Edit(channelID, messageID string, msg Message) error
}

// Sentinel errors surfaced to the command layer.
var (
	// ErrNotInitiator rejects an interaction from anyone but the player
	// who started the roll. No backend call is made in this case.
	ErrNotInitiator = errors.New("only the player who started the roll can make decisions during it")
	// ErrNoSession rejects an interaction against a roll that is no
	// longer active (completed, errored, or expired).
	ErrNoSession = errors.New("no active roll for this team")
)

// Presenter drives a roll session: it renders each decoded progression
// into the session's message and maps the initiator's choices back into
// backend calls until the roll completes. It is event-driven; each
// HandleChoice call is one iteration of the turn loop, triggered by a
// Discord interaction.
type Presenter struct {
	api      TurnAPI
	msgr     Messenger
	registry *Registry
	logger   *slog.Logger
	limiter  *rate.Limiter

	// OnComplete, when set, is invoked after a terminal step has been
	// rendered and the session released (e.g. to broadcast the landing).
	OnComplete func(sess Session, prog Progression)
}

// NewPresenter builds a Presenter. The edit limiter stays under Discord's
// per-channel message-edit budget.
func NewPresenter(log *slog.Logger, api TurnAPI, msgr Messenger, registry *Registry) *Presenter {
	if log == nil {
		log = slog.Default()
	}
	return &Presenter{
		api:      api,
		msgr:     msgr,
		registry: registry,
		logger:   log.With(slog.String("service", "presenter")),
		limiter:  rate.NewLimiter(rate.Limit(2), 4),
	}
}

// Begin renders the first progression of a freshly started roll. The
// caller has already acquired the session and registered the message the
// roll will live in.
func (p *Presenter) Begin(ctx context.Context, teamID string, envelope map[string]any) error {
	acquired, exists := p.registry.beginInteraction(teamID)
	if !exists {
		return ErrNoSession
	}
	if !acquired {
		return nil
	}
	defer p.registry.endInteraction(teamID)

	sess, ok := p.registry.Lookup(teamID)
	if !ok {
		return ErrNoSession
	}
	return p.present(ctx, sess, DecodeProgression(envelope))
}

// HandleChoice applies one user choice to the team's session. It returns
// an ephemeral notice for the interacting user. The initiator check runs
// before anything touches the backend.
func (p *Presenter) HandleChoice(ctx context.Context, teamID, userID string, choice Choice) (string, error) {
	sess, ok := p.registry.Lookup(teamID)
	if !ok {
		return "", ErrNoSession
	}
	if sess.Initiator != userID {
		p.logger.Warn("interaction blocked",
			slog.String("team_id", teamID),
			slog.String("user_id", userID),
			slog.String("initiator", sess.Initiator))
		return "", ErrNotInitiator
	}

	// One interaction at a time per session: a double-click must not
	// submit the same choice twice.
	acquired, exists := p.registry.beginInteraction(teamID)
	if !exists {
		return "", ErrNoSession
	}
	if !acquired {
		return "Your last action is still being processed.", nil
	}
	defer p.registry.endInteraction(teamID)

	// Re-read the session: the step may have advanced while the previous
	// interaction held the claim.
	sess, ok = p.registry.Lookup(teamID)
	if !ok {
		return "", ErrNoSession
	}

	switch choice.Kind {
	case ChoiceViewShop:
		return p.showList(ctx, sess, "Viewing shop items.")
	case ChoiceViewDock:
		return p.showList(ctx, sess, "Viewing available islands.")
	case ChoiceShopDetail:
		return p.showDetail(ctx, sess, choice.Value)
	case ChoiceBack:
		return p.showInitial(ctx, sess)
	}

	envelope, notice, err := p.submit(ctx, sess, choice)
	var rejected *choiceError
	if errors.As(err, &rejected) {
		// A stale or forged control, or an unaffordable pick. The session
		// stays alive; only the clicking user hears about it.
		return rejected.notice, nil
	}
	if err != nil {
		return p.failSession(ctx, sess, err)
	}
	if err := p.present(ctx, sess, DecodeProgression(envelope)); err != nil {
		return "", err
	}
	return notice, nil
}

// choiceError rejects a single choice without ending the session: the
// control was stale, forged, or the team cannot afford the pick.
type choiceError struct {
	notice string
}

func (e *choiceError) Error() string {
	return e.notice
}

// submit maps a choice to the backend call it stands for.
func (p *Presenter) submit(ctx context.Context, sess Session, choice Choice) (map[string]any, string, error) {
	step := sess.Step
	switch choice.Kind {
	case ChoiceContinue:
		envelope, err := p.api.ContinueRoll(ctx, sess.EventID, sess.TeamID)
		return envelope, "Continuing your journey.", err

	case ChoiceDirection:
		if findOption(step.Directions, choice.Value) == nil {
			return nil, "", &choiceError{notice: "That direction is not available."}
		}
		envelope, err := p.api.ChooseDirection(ctx, sess.EventID, sess.TeamID, choice.Value)
		return envelope, "Direction chosen.", err

	case ChoiceBuy:
		item := findOption(step.ShopItems, choice.Value)
		if item == nil {
			return nil, "", &choiceError{notice: "That item is not on sale here."}
		}
		if step.Coins < item.Price {
			return nil, "", &choiceError{notice: fmt.Sprintf("You cannot afford %s.", item.Name)}
		}
		envelope, err := p.api.BuyShopItem(ctx, sess.EventID, sess.TeamID, item.ID, item.Price)
		return envelope, fmt.Sprintf("You purchased %s.", item.Name), err

	case ChoiceDestination:
		dest := findOption(step.Destinations, choice.Value)
		if dest == nil {
			return nil, "", &choiceError{notice: "That destination is not available."}
		}
		if step.Coins < step.CharterCost {
			return nil, "", &choiceError{notice: fmt.Sprintf("You cannot afford the voyage to %s.", dest.Name)}
		}
		envelope, err := p.api.CharterShip(ctx, sess.EventID, sess.TeamID, dest.ID, step.CharterCost)
		return envelope, fmt.Sprintf("Ship chartered to %s.", dest.Name), err

	case ChoiceStarBuy:
		if step.Coins < step.StarCost {
			return nil, "", &choiceError{notice: "You cannot afford the star."}
		}
		envelope, err := p.api.StarAction(ctx, sess.EventID, sess.TeamID, "buy", step.StarCost)
		return envelope, "Star purchased!", err

	case ChoiceStarSkip:
		envelope, err := p.api.StarAction(ctx, sess.EventID, sess.TeamID, "skip", step.StarCost)
		return envelope, "Continuing without the star.", err

	case ChoiceIsland:
		if findOption(step.Islands, choice.Value) == nil {
			return nil, "", &choiceError{notice: "That island is not available."}
		}
		envelope, err := p.api.ChooseIsland(ctx, sess.EventID, sess.TeamID, choice.Value)
		return envelope, "Starting island chosen.", err

	default:
		return nil, "", &choiceError{notice: "That control is no longer active."}
	}
}

// present renders a progression and automatically advances movement-only
// steps: each continue step is rendered before the next backend call so no
// visible state is skipped. Terminal steps release the session.
func (p *Presenter) present(ctx context.Context, sess Session, prog Progression) error {
	for {
		p.registry.SetStep(sess.TeamID, prog)
		sess.Step = prog
		sess = p.update(ctx, sess, p.render(prog, ViewInitial, 0))

		switch prog.Action {
		case ActionComplete:
			p.registry.Release(sess.TeamID)
			p.logger.Info("roll complete",
				slog.String("team_id", sess.TeamID),
				slog.String("tile", prog.LandedTile.Name))
			if p.OnComplete != nil {
				p.OnComplete(sess, prog)
			}
			return nil

		case ActionContinue:
			envelope, err := p.api.ContinueRoll(ctx, sess.EventID, sess.TeamID)
			if err != nil {
				_, ferr := p.failSession(ctx, sess, err)
				return ferr
			}
			prog = DecodeProgression(envelope)

		default:
			// Awaiting the initiator's next interaction.
			return nil
		}
	}
}

// failSession reports a backend failure on the roll message and releases
// the session so the team is not locked out. Connection failures get their
// own wording so players know to keep manual proof of progress.
func (p *Presenter) failSession(ctx context.Context, sess Session, cause error) (string, error) {
	p.registry.Release(sess.TeamID)

	var text string
	switch {
	case errors.Is(cause, backend.ErrConnection):
		text = "⚠️ Connection error: could not reach the event backend. " +
			"Start screenshotting your progress so staff can verify it manually."
	default:
		text = fmt.Sprintf("⚠️ Roll stopped: %v", cause)
	}

	p.logger.Error("roll session failed",
		slog.String("team_id", sess.TeamID),
		slog.Any("error", cause))
	p.update(ctx, sess, Message{Content: text})
	return text, nil
}

// showList expands the shop/dock step into its full option list.
func (p *Presenter) showList(ctx context.Context, sess Session, notice string) (string, error) {
	p.registry.SetView(sess.TeamID, ViewList, 0)
	p.update(ctx, sess, p.render(sess.Step, ViewList, 0))
	return notice, nil
}

// showDetail renders a single shop item with a buy control.
func (p *Presenter) showDetail(ctx context.Context, sess Session, value string) (string, error) {
	idx, err := strconv.Atoi(value)
	if err != nil || idx < 0 || idx >= len(sess.Step.ShopItems) {
		return "That item is no longer available.", nil
	}
	p.registry.SetView(sess.TeamID, ViewDetail, idx)
	p.update(ctx, sess, p.render(sess.Step, ViewDetail, idx))
	return fmt.Sprintf("Viewing %s.", sess.Step.ShopItems[idx].Name), nil
}

// showInitial returns to the step's initial prompt.
func (p *Presenter) showInitial(ctx context.Context, sess Session) (string, error) {
	p.registry.SetView(sess.TeamID, ViewInitial, 0)
	p.update(ctx, sess, p.render(sess.Step, ViewInitial, 0))
	return "Returning to the previous menu.", nil
}

// update edits the session's message in place. A failed edit (deleted
// message, expired delivery token) falls back to sending a fresh message
// to the session channel and re-registering it; the session survives.
func (p *Presenter) update(ctx context.Context, sess Session, msg Message) Session {
	if err := p.limiter.Wait(ctx); err != nil {
		return sess
	}

	if sess.MessageID != "" {
		if err := p.msgr.Edit(sess.ChannelID, sess.MessageID, msg); err == nil {
			return sess
		} else {
			p.logger.Warn("roll message edit failed, sending a fresh message",
				slog.String("team_id", sess.TeamID),
				slog.String("message_id", sess.MessageID),
				slog.Any("error", err))
		}
	}

	id, err := p.msgr.Send(sess.ChannelID, msg)
	if err != nil {
		p.logger.Error("roll message send failed",
			slog.String("team_id", sess.TeamID),
			slog.Any("error", err))
		return sess
	}
	p.registry.SetMessage(sess.TeamID, sess.ChannelID, id)
	sess.MessageID = id
	return sess
}

func findOption(options []Option, id string) *Option {
	for i := range options {
		if options[i].ID == id {
			return &options[i]
		}
	}
	return nil
}
