package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/jmoiron/sqlx"
	"github.com/palmithor/scorebrawl/internal/apperror"
	"github.com/palmithor/scorebrawl/internal/events"
	"github.com/palmithor/scorebrawl/internal/league"
	"github.com/palmithor/scorebrawl/internal/metrics"
	"github.com/palmithor/scorebrawl/internal/rating"
	"github.com/palmithor/scorebrawl/internal/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type MatchService struct {
	db        *sqlx.DB
	stores    *store.Stores
	teams     *TeamService
	clock     clock.Clock
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewMatchService(db *sqlx.DB, stores *store.Stores, teams *TeamService, clock clock.Clock, publisher events.Publisher, metrics *metrics.Metrics, logger *slog.Logger) *MatchService {
	return &MatchService{
		db:        db,
		stores:    stores,
		teams:     teams,
		clock:     clock,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

type CreateMatchInput struct {
	SeasonID                uuid.UUID   `json:"-"`
	HomeTeamSeasonPlayerIDs []uuid.UUID `json:"homeTeamSeasonPlayerIds"`
	AwayTeamSeasonPlayerIDs []uuid.UUID `json:"awayTeamSeasonPlayerIds"`
	HomeScore               int         `json:"homeScore"`
	AwayScore               int         `json:"awayScore"`
	UserID                  uuid.UUID   `json:"-"`
}

func (in CreateMatchInput) validate() error {
	home, away := in.HomeTeamSeasonPlayerIDs, in.AwayTeamSeasonPlayerIDs
	if len(home) == 0 || len(away) == 0 {
		return apperror.BadRequest("both teams need at least one player")
	}
	if len(home) != len(away) {
		return apperror.BadRequest("teams must have the same number of players")
	}
	if in.HomeScore < 0 || in.AwayScore < 0 {
		return apperror.BadRequest("scores must not be negative")
	}

	seen := make(map[uuid.UUID]struct{}, len(home)+len(away))
	for _, id := range append(append([]uuid.UUID{}, home...), away...) {
		if _, ok := seen[id]; ok {
			return apperror.BadRequest(fmt.Sprintf("player %s appears more than once", id))
		}
		seen[id] = struct{}{}
	}
	return nil
}

// CreateMatch records a match and applies its rating changes to every
// participating season player, and to both season teams when each side has
// more than one player. Everything is written in a single transaction.
func (s *MatchService) CreateMatch(ctx context.Context, in CreateMatchInput) (m *league.Match, err error) {
	ctx, span := tracer.Start(ctx, "MatchService.CreateMatch", trace.WithAttributes(
		attribute.String("season.id", in.SeasonID.String()),
		attribute.Int("home.players", len(in.HomeTeamSeasonPlayerIDs)),
		attribute.Int("away.players", len(in.AwayTeamSeasonPlayerIDs)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	season, lg, member, err := seasonAccess(ctx, tx, s.stores, in.SeasonID, in.UserID)
	if err != nil {
		return nil, err
	}
	if member == nil || !member.Role.CanSubmitMatches() {
		return nil, apperror.Forbidden("not allowed to create matches in this league")
	}
	if lg.Archived {
		return nil, apperror.Conflict("league is archived")
	}
	if season.Archived {
		return nil, apperror.Conflict("season is archived")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	homePlayers, awayPlayers, err := s.loadSides(ctx, tx, season.ID, in.HomeTeamSeasonPlayerIDs, in.AwayTeamSeasonPlayerIDs)
	if err != nil {
		return nil, err
	}

	outcome, err := rating.Compute(season.ScoreType,
		playerSide(homePlayers, in.HomeScore),
		playerSide(awayPlayers, in.AwayScore),
		season.KFactor,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute ratings: %w", err)
	}

	now := s.clock.Now().UTC()
	m = &league.Match{
		ID:              uuid.New(),
		SeasonID:        season.ID,
		HomeScore:       in.HomeScore,
		AwayScore:       in.AwayScore,
		HomeExpectedElo: outcome.HomeExpected,
		AwayExpectedElo: outcome.AwayExpected,
		CreatedBy:       in.UserID,
		UpdatedBy:       in.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.stores.Matches.CreateMatch(ctx, tx, m); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	for _, side := range []struct {
		home    bool
		result  rating.Result
		changes []rating.Change
	}{
		{true, outcome.HomeResult, outcome.Home},
		{false, outcome.AwayResult, outcome.Away},
	} {
		for _, c := range side.changes {
			mp := league.MatchPlayer{
				ID:             uuid.New(),
				MatchID:        m.ID,
				SeasonPlayerID: uuid.MustParse(c.ID),
				HomeTeam:       side.home,
				ScoreBefore:    c.Before,
				ScoreAfter:     c.After,
				Result:         side.result,
				CreatedAt:      now,
			}
			if err := s.stores.Matches.CreateMatchPlayer(ctx, tx, &mp); err != nil {
				return nil, fmt.Errorf("failed to create match player: %w", err)
			}
			if err := s.stores.Seasons.UpdateSeasonPlayerScore(ctx, tx, mp.SeasonPlayerID, c.After); err != nil {
				return nil, fmt.Errorf("failed to update season player score: %w", err)
			}
			m.Players = append(m.Players, mp)
		}
	}

	if len(homePlayers) > 1 && len(awayPlayers) > 1 {
		if m.Teams, err = s.applyTeamRatings(ctx, tx, season, m, homePlayers, awayPlayers); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.metrics.MatchesCreated.WithLabelValues(string(season.ScoreType)).Inc()
	s.publishMatchCreated(ctx, m)

	return m, nil
}

// loadSides resolves the submitted ids to season players of the season,
// keeping the submitted order.
func (s *MatchService) loadSides(ctx context.Context, tx *sqlx.Tx, seasonID uuid.UUID, homeIDs, awayIDs []uuid.UUID) ([]league.SeasonPlayerInfo, []league.SeasonPlayerInfo, error) {
	ids := append(append([]uuid.UUID{}, homeIDs...), awayIDs...)
	players, err := s.stores.Seasons.GetSeasonPlayers(ctx, tx, seasonID, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get season players: %w", err)
	}

	byID := make(map[uuid.UUID]league.SeasonPlayerInfo, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	pick := func(ids []uuid.UUID) ([]league.SeasonPlayerInfo, error) {
		out := make([]league.SeasonPlayerInfo, 0, len(ids))
		for _, id := range ids {
			p, ok := byID[id]
			if !ok {
				return nil, apperror.BadRequest(fmt.Sprintf("player %s is not part of this season", id))
			}
			out = append(out, p)
		}
		return out, nil
	}

	home, err := pick(homeIDs)
	if err != nil {
		return nil, nil, err
	}
	away, err := pick(awayIDs)
	if err != nil {
		return nil, nil, err
	}
	return home, away, nil
}

func playerSide(players []league.SeasonPlayerInfo, score int) rating.Side {
	side := rating.Side{Score: score, Participants: make([]rating.Participant, 0, len(players))}
	for _, p := range players {
		side.Participants = append(side.Participants, rating.Participant{ID: p.ID.String(), Rating: p.Score})
	}
	return side
}

// applyTeamRatings rates the two season teams against each other, each team
// being a single participant carrying its own score.
func (s *MatchService) applyTeamRatings(ctx context.Context, tx *sqlx.Tx, season *league.Season, m *league.Match, homePlayers, awayPlayers []league.SeasonPlayerInfo) ([]league.SeasonTeamMatch, error) {
	homeTeam, err := s.teams.GetOrCreateTeam(ctx, tx, season, homePlayers)
	if err != nil {
		return nil, err
	}
	awayTeam, err := s.teams.GetOrCreateTeam(ctx, tx, season, awayPlayers)
	if err != nil {
		return nil, err
	}

	outcome, err := rating.Compute(rating.TeamScoreType(season.ScoreType),
		rating.Side{Participants: []rating.Participant{{ID: homeTeam.ID.String(), Rating: homeTeam.Score}}, Score: m.HomeScore},
		rating.Side{Participants: []rating.Participant{{ID: awayTeam.ID.String(), Rating: awayTeam.Score}}, Score: m.AwayScore},
		season.KFactor,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute team ratings: %w", err)
	}

	teamMatches := []league.SeasonTeamMatch{
		{SeasonTeamID: homeTeam.ID, HomeTeam: true, ScoreBefore: outcome.Home[0].Before, ScoreAfter: outcome.Home[0].After, Result: outcome.HomeResult},
		{SeasonTeamID: awayTeam.ID, HomeTeam: false, ScoreBefore: outcome.Away[0].Before, ScoreAfter: outcome.Away[0].After, Result: outcome.AwayResult},
	}
	for i := range teamMatches {
		stm := &teamMatches[i]
		stm.ID = uuid.New()
		stm.MatchID = m.ID
		stm.CreatedAt = m.CreatedAt
		if err := s.stores.Matches.CreateSeasonTeamMatch(ctx, tx, stm); err != nil {
			return nil, fmt.Errorf("failed to create season team match: %w", err)
		}
		if err := s.stores.Teams.UpdateSeasonTeamScore(ctx, tx, stm.SeasonTeamID, stm.ScoreAfter); err != nil {
			return nil, fmt.Errorf("failed to update season team score: %w", err)
		}
	}
	return teamMatches, nil
}

func (s *MatchService) publishMatchCreated(ctx context.Context, m *league.Match) {
	if s.publisher == nil {
		return
	}
	event := events.MatchCreated{MatchID: m.ID, SeasonID: m.SeasonID}
	for _, p := range m.Players {
		event.SeasonPlayerIDs = append(event.SeasonPlayerIDs, p.SeasonPlayerID)
	}
	// the match is committed; a lost event only delays achievements
	if err := s.publisher.PublishMatchCreated(ctx, event); err != nil {
		s.logger.Error("failed to publish match created", "match_id", m.ID, "error", err)
	}
}

// DeleteMatch reverts the latest match of a season, restoring every season
// player and season team to its score before the match.
func (s *MatchService) DeleteMatch(ctx context.Context, matchID, userID uuid.UUID) (err error) {
	ctx, span := tracer.Start(ctx, "MatchService.DeleteMatch", trace.WithAttributes(
		attribute.String("match.id", matchID.String()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	m, err := s.stores.Matches.GetMatch(ctx, tx, matchID)
	if err != nil {
		return notFound(err, "match")
	}

	season, lg, _, err := seasonAccess(ctx, tx, s.stores, m.SeasonID, userID)
	if err != nil {
		return err
	}

	player, err := s.stores.Leagues.GetPlayerByUser(ctx, tx, lg.ID, userID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && player.Disabled) {
		return apperror.Forbidden("only league players can delete matches")
	}
	if err != nil {
		return fmt.Errorf("failed to get league player: %w", err)
	}

	latest, err := s.stores.Matches.GetLatestMatch(ctx, tx, season.ID)
	if err != nil {
		return fmt.Errorf("failed to get latest match: %w", err)
	}
	if latest.ID != m.ID {
		return apperror.Forbidden("only the last match can be deleted")
	}

	players, err := s.stores.Matches.ListMatchPlayers(ctx, tx, m.ID)
	if err != nil {
		return fmt.Errorf("failed to get match players: %w", err)
	}
	for _, mp := range players {
		if err := s.stores.Seasons.UpdateSeasonPlayerScore(ctx, tx, mp.SeasonPlayerID, mp.ScoreBefore); err != nil {
			return fmt.Errorf("failed to restore season player score: %w", err)
		}
	}

	teams, err := s.stores.Matches.ListSeasonTeamMatches(ctx, tx, m.ID)
	if err != nil {
		return fmt.Errorf("failed to get season team matches: %w", err)
	}
	for _, stm := range teams {
		if err := s.stores.Teams.UpdateSeasonTeamScore(ctx, tx, stm.SeasonTeamID, stm.ScoreBefore); err != nil {
			return fmt.Errorf("failed to restore season team score: %w", err)
		}
	}

	if err := s.stores.Matches.DeleteMatch(ctx, tx, m.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.metrics.MatchesReverted.Inc()
	return nil
}

// ListMatches returns a page of the season's matches, newest first, with
// their players and team rows.
func (s *MatchService) ListMatches(ctx context.Context, seasonID, userID uuid.UUID, limit, offset int) ([]league.Match, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}

	if _, _, _, err := seasonAccess(ctx, s.db, s.stores, seasonID, userID); err != nil {
		return nil, err
	}

	matches, err := s.stores.Matches.ListSeasonMatches(ctx, s.db, seasonID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	for i := range matches {
		if matches[i].Players, err = s.stores.Matches.ListMatchPlayers(ctx, s.db, matches[i].ID); err != nil {
			return nil, fmt.Errorf("failed to get match players: %w", err)
		}
		if matches[i].Teams, err = s.stores.Matches.ListSeasonTeamMatches(ctx, s.db, matches[i].ID); err != nil {
			return nil, fmt.Errorf("failed to get season team matches: %w", err)
		}
	}
	return matches, nil
}
