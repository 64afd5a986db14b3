package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/stability-party/spbot/internal/backend"
)

// handleRoll starts a roll for the invoking user's team. The session slot
// is claimed before the backend is called; every failure path after the
// claim releases it again.
func (s *Service) handleRoll(ctx context.Context, i *discordgo.InteractionCreate) {
	if err := s.deferResponse(i, false); err != nil {
		s.logger.Warn("roll ack failed", slog.Any("error", err))
		return
	}
	userID := interactionUserID(i)

	eventID, _, err := s.activeEvent(ctx)
	if err != nil {
		s.logger.Error("event lookup failed", slog.Any("error", err))
		s.editResponse(i, "There is no active event right now.")
		return
	}
	teamID, teamName, err := s.teamFor(ctx, eventID, userID)
	if err != nil {
		s.logger.Warn("team lookup failed",
			slog.String("user_id", userID),
			slog.Any("error", err))
		s.editResponse(i, "You are not on a team in the active event.")
		return
	}

	ok, holder := s.registry.TryAcquire(teamID, userID)
	if !ok {
		s.editResponse(i, fmt.Sprintf("🎲 <@%s> is already rolling for your team. Wait for their turn to finish.", holder))
		return
	}
	s.registry.SetEvent(teamID, eventID)

	envelope, err := s.client.StartRoll(ctx, eventID, teamID)
	if err != nil {
		s.registry.Release(teamID)
		if errors.Is(err, backend.ErrConnection) {
			s.editResponse(i, "⚠️ Connection error: could not reach the event backend. Try again in a moment.")
		} else {
			s.logger.Warn("start roll rejected",
				slog.String("team_id", teamID),
				slog.Any("error", err))
			s.editResponse(i, "Your team is not able to roll right now.")
		}
		return
	}

	label := teamName
	if label == "" {
		label = "your team"
	}
	msg := s.editResponse(i, fmt.Sprintf("🎲 Rolling the dice for **%s**...", label))
	if msg != nil {
		s.registry.SetMessage(teamID, msg.ChannelID, msg.ID)
	} else {
		// The deferred response could not be resolved; the presenter will
		// fall back to sending a fresh message in the command channel.
		s.registry.SetMessage(teamID, i.ChannelID, "")
	}

	if err := s.presenter.Begin(ctx, teamID, envelope); err != nil {
		s.logger.Error("roll presentation failed",
			slog.String("team_id", teamID),
			slog.Any("error", err))
	}
}
