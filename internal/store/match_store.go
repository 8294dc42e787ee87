package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/palmithor/scorebrawl/internal/league"
)

type MatchStore struct{}

const (
	createMatchQuery = `
		INSERT INTO matches (id, season_id, home_score, away_score, home_expected_elo, away_expected_elo, created_by, updated_by, created_at, updated_at) VALUES
		(:id, :season_id, :home_score, :away_score, :home_expected_elo, :away_expected_elo, :created_by, :updated_by, :created_at, :updated_at)
	`
	createMatchPlayerQuery = `
		INSERT INTO match_players (id, match_id, season_player_id, home_team, score_before, score_after, result, created_at) VALUES
		(:id, :match_id, :season_player_id, :home_team, :score_before, :score_after, :result, :created_at)
	`
	createSeasonTeamMatchQuery = `
		INSERT INTO season_team_matches (id, match_id, season_team_id, home_team, score_before, score_after, result, created_at) VALUES
		(:id, :match_id, :season_team_id, :home_team, :score_before, :score_after, :result, :created_at)
	`
	getMatchQuery = "SELECT * FROM matches WHERE id = ?"
	// Insertion order breaks ties between matches created in the same instant.
	getLatestMatchQuery = `
		SELECT * FROM matches
		WHERE season_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`
	listSeasonMatchesQuery = `
		SELECT * FROM matches
		WHERE season_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`
	listMatchPlayersQuery        = "SELECT * FROM match_players WHERE match_id = ? ORDER BY home_team DESC, rowid"
	listSeasonTeamMatchesQuery   = "SELECT * FROM season_team_matches WHERE match_id = ? ORDER BY home_team DESC, rowid"
	deleteMatchPlayersQuery      = "DELETE FROM match_players WHERE match_id = ?"
	deleteSeasonTeamMatchesQuery = "DELETE FROM season_team_matches WHERE match_id = ?"
	deleteMatchQuery             = "DELETE FROM matches WHERE id = ?"

	playerHistorySelect = `
		SELECT mp.match_id, mp.season_player_id AS participant_id, mp.home_team,
			m.home_score, m.away_score, mp.score_before, mp.score_after, mp.result, m.created_at
		FROM match_players mp
		JOIN matches m ON m.id = mp.match_id
	`
	seasonPlayerHistoryQuery = playerHistorySelect + `
		WHERE m.season_id = ?
		ORDER BY m.created_at, m.rowid
	`
	seasonPlayerRangeQuery = playerHistorySelect + `
		WHERE mp.season_player_id = ? AND m.created_at >= ? AND m.created_at < ?
		ORDER BY m.created_at, m.rowid
	`
	seasonTeamHistoryQuery = `
		SELECT stm.match_id, stm.season_team_id AS participant_id, stm.home_team,
			m.home_score, m.away_score, stm.score_before, stm.score_after, stm.result, m.created_at
		FROM season_team_matches stm
		JOIN matches m ON m.id = stm.match_id
		WHERE m.season_id = ?
		ORDER BY m.created_at, m.rowid
	`
)

func NewMatchStore() *MatchStore {
	return &MatchStore{}
}

func (s *MatchStore) CreateMatch(ctx context.Context, e sqlx.ExtContext, m *league.Match) error {
	_, err := sqlx.NamedExecContext(ctx, e, createMatchQuery, m)
	return err
}

func (s *MatchStore) CreateMatchPlayer(ctx context.Context, e sqlx.ExtContext, mp *league.MatchPlayer) error {
	_, err := sqlx.NamedExecContext(ctx, e, createMatchPlayerQuery, mp)
	return err
}

func (s *MatchStore) CreateSeasonTeamMatch(ctx context.Context, e sqlx.ExtContext, stm *league.SeasonTeamMatch) error {
	_, err := sqlx.NamedExecContext(ctx, e, createSeasonTeamMatchQuery, stm)
	return err
}

func (s *MatchStore) GetMatch(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*league.Match, error) {
	var m league.Match
	if err := sqlx.GetContext(ctx, q, &m, getMatchQuery, id); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MatchStore) GetLatestMatch(ctx context.Context, q sqlx.QueryerContext, seasonID uuid.UUID) (*league.Match, error) {
	var m league.Match
	if err := sqlx.GetContext(ctx, q, &m, getLatestMatchQuery, seasonID); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MatchStore) ListSeasonMatches(ctx context.Context, q sqlx.QueryerContext, seasonID uuid.UUID, limit, offset int) ([]league.Match, error) {
	var matches []league.Match
	if err := sqlx.SelectContext(ctx, q, &matches, listSeasonMatchesQuery, seasonID, limit, offset); err != nil {
		return nil, err
	}
	return matches, nil
}

func (s *MatchStore) ListMatchPlayers(ctx context.Context, q sqlx.QueryerContext, matchID uuid.UUID) ([]league.MatchPlayer, error) {
	var players []league.MatchPlayer
	if err := sqlx.SelectContext(ctx, q, &players, listMatchPlayersQuery, matchID); err != nil {
		return nil, err
	}
	return players, nil
}

func (s *MatchStore) ListSeasonTeamMatches(ctx context.Context, q sqlx.QueryerContext, matchID uuid.UUID) ([]league.SeasonTeamMatch, error) {
	var teams []league.SeasonTeamMatch
	if err := sqlx.SelectContext(ctx, q, &teams, listSeasonTeamMatchesQuery, matchID); err != nil {
		return nil, err
	}
	return teams, nil
}

func (s *MatchStore) DeleteMatch(ctx context.Context, e sqlx.ExtContext, id uuid.UUID) error {
	for _, query := range []string{deleteMatchPlayersQuery, deleteSeasonTeamMatchesQuery, deleteMatchQuery} {
		if _, err := e.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("failed to delete match %s: %w", id, err)
		}
	}
	return nil
}

// SeasonPlayerHistory returns every season player's matches in the season, oldest first.
func (s *MatchStore) SeasonPlayerHistory(ctx context.Context, q sqlx.QueryerContext, seasonID uuid.UUID) ([]league.ParticipantMatch, error) {
	var history []league.ParticipantMatch
	if err := sqlx.SelectContext(ctx, q, &history, seasonPlayerHistoryQuery, seasonID); err != nil {
		return nil, err
	}
	return history, nil
}

// SeasonPlayerHistoryBetween returns one season player's matches created in [from, to), oldest first.
func (s *MatchStore) SeasonPlayerHistoryBetween(ctx context.Context, q sqlx.QueryerContext, seasonPlayerID uuid.UUID, from, to time.Time) ([]league.ParticipantMatch, error) {
	var history []league.ParticipantMatch
	if err := sqlx.SelectContext(ctx, q, &history, seasonPlayerRangeQuery, seasonPlayerID, from.UTC(), to.UTC()); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *MatchStore) SeasonTeamHistory(ctx context.Context, q sqlx.QueryerContext, seasonID uuid.UUID) ([]league.ParticipantMatch, error) {
	var history []league.ParticipantMatch
	if err := sqlx.SelectContext(ctx, q, &history, seasonTeamHistoryQuery, seasonID); err != nil {
		return nil, err
	}
	return history, nil
}
