// Package bot wires the Discord gateway to the roll engine: slash command
// entry points, component interaction routing, the completion announcer,
// and the stale-session sweep.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"

	"github.com/stability-party/spbot/internal/backend"
	"github.com/stability-party/spbot/internal/config"
	"github.com/stability-party/spbot/internal/roll"
)

const interactionTimeout = 30 * time.Second

// Service owns the gateway connection and routes interactions.
type Service struct {
	session   *discordgo.Session
	client    *backend.Client
	registry  *roll.Registry
	presenter *roll.Presenter
	logger    *slog.Logger
	cfg       config.Config
	cron      *cron.Cron
	messenger roll.Messenger
}

// New builds the bot service. The presenter's completion hook is bound
// here so landings are announced through the same session.
func New(log *slog.Logger, cfg config.Config, session *discordgo.Session, client *backend.Client, registry *roll.Registry, presenter *roll.Presenter, messenger roll.Messenger) *Service {
	s := &Service{
		session:   session,
		client:    client,
		registry:  registry,
		presenter: presenter,
		logger:    log.With(slog.String("service", "bot")),
		cfg:       cfg,
		cron:      cron.New(),
		messenger: messenger,
	}
	presenter.OnComplete = s.announceLanding
	return s
}

// Start opens the gateway connection and begins the session sweep.
func (s *Service) Start(ctx context.Context) error {
	s.session.AddHandler(func(sess *discordgo.Session, r *discordgo.Ready) {
		s.logger.Info("gateway ready",
			slog.String("username", r.User.Username),
			slog.Int("guilds", len(r.Guilds)))
	})
	s.session.AddHandler(s.onInteraction)
	s.session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	if err := s.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.Session.SweepSpec, s.sweepSessions); err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}
	s.cron.Start()
	s.logger.Info("bot started", slog.String("sweep", s.cfg.Session.SweepSpec))
	return nil
}

// Stop halts the sweep and closes the gateway connection.
func (s *Service) Stop(ctx context.Context) error {
	s.cron.Stop()
	return s.session.Close()
}

func (s *Service) onInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		s.logger.Info("command received",
			slog.String("command", name),
			slog.String("user_id", interactionUserID(i)))
		switch name {
		case "roll":
			s.handleRoll(ctx, i)
		case "use_item":
			s.handleUseItem(ctx, i)
		case "event_stats":
			s.handleEventStats(ctx, i)
		case "event_progress":
			s.handleEventProgress(ctx, i)
		}

	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		switch {
		case strings.HasPrefix(data.CustomID, "sp:"):
			s.handleRollComponent(ctx, i, data)
		case strings.HasPrefix(data.CustomID, "item:"):
			s.handleItemComponent(ctx, i, data)
		}
	}
}

// handleRollComponent routes a roll message interaction into the
// presenter. Errors reach only the clicking user, never the shared message.
func (s *Service) handleRollComponent(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.MessageComponentInteractionData) {
	teamID, choice, ok := roll.ParseCustomID(data.CustomID, data.Values)
	if !ok {
		return
	}
	if err := s.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		s.logger.Warn("component ack failed", slog.Any("error", err))
	}

	notice, err := s.presenter.HandleChoice(ctx, teamID, interactionUserID(i), choice)
	if err != nil && !errors.Is(err, roll.ErrNotInitiator) && !errors.Is(err, roll.ErrNoSession) {
		s.logger.Error("choice failed",
			slog.String("team_id", teamID),
			slog.Any("error", err))
	}
	if text, ok := componentNotice(notice, err); ok {
		s.ephemeralFollowup(i, text)
	}
}

// componentNotice maps a choice result to the ephemeral reply for the
// clicking user. Sentinel rejections get canned wording; other errors are
// logged by the caller, not echoed.
func componentNotice(notice string, err error) (string, bool) {
	switch {
	case errors.Is(err, roll.ErrNotInitiator):
		return "Only the player who started this roll can make decisions during it.", true
	case errors.Is(err, roll.ErrNoSession):
		return "This roll is no longer active.", true
	case err != nil:
		return "", false
	case notice != "":
		return notice, true
	default:
		return "", false
	}
}

// announceLanding posts the landed tile to the configured channel once a
// roll completes. A missing channel disables the broadcast.
func (s *Service) announceLanding(sess roll.Session, prog roll.Progression) {
	if s.cfg.Announce.ChannelID == "" {
		return
	}
	embed := &discordgo.MessageEmbed{
		Title:       "🏁 A team has landed!",
		Description: fmt.Sprintf("Team finished their roll on **%s**.\n%s", prog.LandedTile.Name, prog.LandedTile.Description),
		Color:       0xf1c40f,
	}
	if _, err := s.session.ChannelMessageSendEmbed(s.cfg.Announce.ChannelID, embed); err != nil {
		s.logger.Warn("landing announcement failed",
			slog.String("channel_id", s.cfg.Announce.ChannelID),
			slog.Any("error", err))
	}
}

// sweepSessions releases rolls idle past the configured TTL and notes the
// lapsed turn on each orphaned message.
func (s *Service) sweepSessions() {
	expired := s.registry.ExpireStale(s.cfg.Session.TTL())
	for _, sess := range expired {
		s.logger.Info("expired stale roll session",
			slog.String("team_id", sess.TeamID),
			slog.String("initiator", sess.Initiator))
		if sess.MessageID == "" {
			continue
		}
		err := s.messenger.Edit(sess.ChannelID, sess.MessageID, roll.Message{
			Content: "⏰ This roll went quiet for too long and was closed. Use /roll to start again.",
		})
		if err != nil {
			s.logger.Warn("lapsed-turn notice failed",
				slog.String("team_id", sess.TeamID),
				slog.Any("error", err))
		}
	}
}

// activeEvent returns the id and name of the event the bot should act in.
// The first active event wins; with none flagged active, the first listed.
func (s *Service) activeEvent(ctx context.Context) (string, string, error) {
	envelope, err := s.client.ActiveEvents(ctx)
	if err != nil {
		return "", "", err
	}
	events := listField(envelope, "items", "events")
	if len(events) == 0 {
		return "", "", fmt.Errorf("no events configured")
	}

	pick := events[0]
	for _, ev := range events {
		if strField(ev, "status") == "active" || boolField(ev, "is_active") {
			pick = ev
			break
		}
	}
	id := strField(pick, "id", "event_id")
	if id == "" {
		return "", "", fmt.Errorf("event entry has no id")
	}
	return id, strField(pick, "name"), nil
}

// teamFor resolves a Discord user to their team in the event.
func (s *Service) teamFor(ctx context.Context, eventID, userID string) (string, string, error) {
	envelope, err := s.client.UserTeam(ctx, eventID, userID)
	if err != nil {
		return "", "", err
	}
	id := strField(envelope, "team_id", "id")
	if id == "" {
		return "", "", fmt.Errorf("user %s has no team in event %s", userID, eventID)
	}
	return id, strField(envelope, "name", "team_name"), nil
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func (s *Service) deferResponse(i *discordgo.InteractionCreate, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

func (s *Service) editResponse(i *discordgo.InteractionCreate, content string) *discordgo.Message {
	msg, err := s.session.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	if err != nil {
		s.logger.Warn("response edit failed", slog.Any("error", err))
		return nil
	}
	return msg
}

func (s *Service) editResponseEmbed(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	edit := &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}
	if components != nil {
		edit.Components = &components
	}
	if _, err := s.session.InteractionResponseEdit(i.Interaction, edit); err != nil {
		s.logger.Warn("response edit failed", slog.Any("error", err))
	}
}

func (s *Service) ephemeralFollowup(i *discordgo.InteractionCreate, content string) {
	_, err := s.session.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		s.logger.Warn("followup failed", slog.Any("error", err))
	}
}
