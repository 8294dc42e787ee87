package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/jmoiron/sqlx"
	"github.com/palmithor/scorebrawl/internal/apperror"
	"github.com/palmithor/scorebrawl/internal/league"
	"github.com/palmithor/scorebrawl/internal/standing"
	"github.com/palmithor/scorebrawl/internal/store"
)

type StandingService struct {
	db     *sqlx.DB
	stores *store.Stores
	clock  clock.Clock
}

func NewStandingService(db *sqlx.DB, stores *store.Stores, clock clock.Clock) *StandingService {
	return &StandingService{db: db, stores: stores, clock: clock}
}

// Standing ranks the enabled season players of a season.
func (s *StandingService) Standing(ctx context.Context, seasonID, userID uuid.UUID) ([]standing.Row, error) {
	if _, _, _, err := seasonAccess(ctx, s.db, s.stores, seasonID, userID); err != nil {
		return nil, err
	}

	players, err := s.stores.Seasons.ListSeasonPlayers(ctx, s.db, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list season players: %w", err)
	}
	history, err := s.stores.Matches.SeasonPlayerHistory(ctx, s.db, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get season history: %w", err)
	}

	entries := make([]standing.Entry, 0, len(players))
	for _, p := range players {
		if p.Disabled {
			continue
		}
		entries = append(entries, standing.Entry{ID: p.ID, Name: p.Name, Score: p.Score})
	}

	return standing.Build(entries, standing.Group(history), standing.Group(s.since(history, s.startOfDay()))), nil
}

// TeamStanding ranks the season teams of a season.
func (s *StandingService) TeamStanding(ctx context.Context, seasonID, userID uuid.UUID) ([]standing.Row, error) {
	if _, _, _, err := seasonAccess(ctx, s.db, s.stores, seasonID, userID); err != nil {
		return nil, err
	}

	teams, err := s.stores.Teams.ListSeasonTeams(ctx, s.db, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list season teams: %w", err)
	}
	history, err := s.stores.Matches.SeasonTeamHistory(ctx, s.db, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get season team history: %w", err)
	}

	entries := make([]standing.Entry, 0, len(teams))
	for _, t := range teams {
		entries = append(entries, standing.Entry{ID: t.ID, Name: t.Name, Score: t.Score})
	}

	return standing.Build(entries, standing.Group(history), standing.Group(s.since(history, s.startOfDay()))), nil
}

// PointDiff is a season player's rating movement over matches created in
// [from, to). A zero from means the start of today and a zero to means now.
func (s *StandingService) PointDiff(ctx context.Context, seasonPlayerID, userID uuid.UUID, from, to time.Time) (int, error) {
	if from.IsZero() {
		from = s.startOfDay()
	}
	if to.IsZero() {
		// strictly after anything created so far
		to = s.clock.Now().UTC().Add(time.Nanosecond)
	}
	if to.Before(from) {
		return 0, apperror.BadRequest("from must not be after to")
	}

	sp, err := s.stores.Seasons.GetSeasonPlayer(ctx, s.db, seasonPlayerID)
	if err != nil {
		return 0, notFound(err, "season player")
	}
	if _, _, _, err := seasonAccess(ctx, s.db, s.stores, sp.SeasonID, userID); err != nil {
		return 0, err
	}

	history, err := s.stores.Matches.SeasonPlayerHistoryBetween(ctx, s.db, seasonPlayerID, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to get season player history: %w", err)
	}
	return standing.PointDiff(history), nil
}

func (s *StandingService) startOfDay() time.Time {
	return s.clock.Now().UTC().Truncate(24 * time.Hour)
}

func (s *StandingService) since(history []league.ParticipantMatch, t time.Time) []league.ParticipantMatch {
	var out []league.ParticipantMatch
	for _, m := range history {
		if !m.MatchCreatedAt.Before(t) {
			out = append(out, m)
		}
	}
	return out
}
