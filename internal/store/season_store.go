package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/palmithor/scorebrawl/internal/league"
)

type SeasonStore struct{}

const (
	createSeasonQuery = `
		INSERT INTO seasons (id, league_id, name, score_type, initial_score, k_factor, start_date, end_date, archived, created_by, created_at) VALUES
		(:id, :league_id, :name, :score_type, :initial_score, :k_factor, :start_date, :end_date, :archived, :created_by, :created_at)
	`
	getSeasonQuery         = "SELECT * FROM seasons WHERE id = ?"
	listLeagueSeasonsQuery = "SELECT * FROM seasons WHERE league_id = ? ORDER BY start_date"

	createSeasonPlayerQuery = `
		INSERT INTO season_players (id, season_id, league_player_id, score, disabled, created_at) VALUES
		(:id, :season_id, :league_player_id, :score, :disabled, :created_at)
	`
	seasonPlayerInfoSelect = `
		SELECT sp.*, lp.user_id, u.name, u.image
		FROM season_players sp
		JOIN league_players lp ON lp.id = sp.league_player_id
		JOIN users u ON u.id = lp.user_id
	`
	getSeasonPlayerQuery    = seasonPlayerInfoSelect + " WHERE sp.id = ?"
	getSeasonPlayersQuery   = seasonPlayerInfoSelect + " WHERE sp.season_id = ? AND sp.id IN (?)"
	listSeasonPlayersQuery  = seasonPlayerInfoSelect + " WHERE sp.season_id = ? ORDER BY sp.created_at, sp.id"
	updateSeasonPlayerScore = "UPDATE season_players SET score = ? WHERE id = ?"
)

func NewSeasonStore() *SeasonStore {
	return &SeasonStore{}
}

func (s *SeasonStore) CreateSeason(ctx context.Context, e sqlx.ExtContext, season *league.Season) error {
	_, err := sqlx.NamedExecContext(ctx, e, createSeasonQuery, season)
	return err
}

func (s *SeasonStore) GetSeason(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*league.Season, error) {
	var season league.Season
	if err := sqlx.GetContext(ctx, q, &season, getSeasonQuery, id); err != nil {
		return nil, err
	}
	return &season, nil
}

func (s *SeasonStore) ListLeagueSeasons(ctx context.Context, q sqlx.QueryerContext, leagueID uuid.UUID) ([]league.Season, error) {
	var seasons []league.Season
	if err := sqlx.SelectContext(ctx, q, &seasons, listLeagueSeasonsQuery, leagueID); err != nil {
		return nil, err
	}
	return seasons, nil
}

func (s *SeasonStore) CreateSeasonPlayer(ctx context.Context, e sqlx.ExtContext, sp *league.SeasonPlayer) error {
	_, err := sqlx.NamedExecContext(ctx, e, createSeasonPlayerQuery, sp)
	return err
}

func (s *SeasonStore) GetSeasonPlayer(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*league.SeasonPlayerInfo, error) {
	var sp league.SeasonPlayerInfo
	if err := sqlx.GetContext(ctx, q, &sp, getSeasonPlayerQuery, id); err != nil {
		return nil, err
	}
	return &sp, nil
}

// GetSeasonPlayers returns the season players of seasonID among ids. Ids that
// are not part of the season are silently absent from the result.
func (s *SeasonStore) GetSeasonPlayers(ctx context.Context, q sqlx.QueryerContext, seasonID uuid.UUID, ids []uuid.UUID) ([]league.SeasonPlayerInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(getSeasonPlayersQuery, seasonID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build season players query: %w", err)
	}

	var players []league.SeasonPlayerInfo
	if err := sqlx.SelectContext(ctx, q, &players, query, args...); err != nil {
		return nil, err
	}
	return players, nil
}

func (s *SeasonStore) ListSeasonPlayers(ctx context.Context, q sqlx.QueryerContext, seasonID uuid.UUID) ([]league.SeasonPlayerInfo, error) {
	var players []league.SeasonPlayerInfo
	if err := sqlx.SelectContext(ctx, q, &players, listSeasonPlayersQuery, seasonID); err != nil {
		return nil, err
	}
	return players, nil
}

func (s *SeasonStore) UpdateSeasonPlayerScore(ctx context.Context, e sqlx.ExtContext, id uuid.UUID, score int) error {
	_, err := e.ExecContext(ctx, updateSeasonPlayerScore, score, id)
	return err
}
