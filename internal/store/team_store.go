package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/palmithor/scorebrawl/internal/league"
)

type TeamStore struct{}

const (
	getTeamByPlayerKeyQuery = "SELECT * FROM league_teams WHERE league_id = ? AND player_key = ?"
	createTeamQuery         = `
		INSERT INTO league_teams (id, league_id, name, player_key, created_at) VALUES
		(:id, :league_id, :name, :player_key, :created_at)
	`
	createTeamPlayerQuery = `
		INSERT INTO league_team_players (id, team_id, league_player_id) VALUES
		(:id, :team_id, :league_player_id)
	`

	getSeasonTeamQuery    = "SELECT * FROM season_teams WHERE season_id = ? AND team_id = ?"
	createSeasonTeamQuery = `
		INSERT INTO season_teams (id, season_id, team_id, score, created_at) VALUES
		(:id, :season_id, :team_id, :score, :created_at)
	`
	updateSeasonTeamScoreQuery = "UPDATE season_teams SET score = ? WHERE id = ?"
	listSeasonTeamsQuery       = `
		SELECT st.*, t.name
		FROM season_teams st
		JOIN league_teams t ON t.id = st.team_id
		WHERE st.season_id = ?
		ORDER BY st.created_at, st.id
	`
)

func NewTeamStore() *TeamStore {
	return &TeamStore{}
}

func (s *TeamStore) GetTeamByPlayerKey(ctx context.Context, q sqlx.QueryerContext, leagueID uuid.UUID, playerKey string) (*league.Team, error) {
	var t league.Team
	if err := sqlx.GetContext(ctx, q, &t, getTeamByPlayerKeyQuery, leagueID, playerKey); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TeamStore) CreateTeam(ctx context.Context, e sqlx.ExtContext, t *league.Team) error {
	_, err := sqlx.NamedExecContext(ctx, e, createTeamQuery, t)
	return err
}

func (s *TeamStore) CreateTeamPlayer(ctx context.Context, e sqlx.ExtContext, tp *league.TeamPlayer) error {
	_, err := sqlx.NamedExecContext(ctx, e, createTeamPlayerQuery, tp)
	return err
}

func (s *TeamStore) GetSeasonTeam(ctx context.Context, q sqlx.QueryerContext, seasonID, teamID uuid.UUID) (*league.SeasonTeam, error) {
	var st league.SeasonTeam
	if err := sqlx.GetContext(ctx, q, &st, getSeasonTeamQuery, seasonID, teamID); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *TeamStore) CreateSeasonTeam(ctx context.Context, e sqlx.ExtContext, st *league.SeasonTeam) error {
	_, err := sqlx.NamedExecContext(ctx, e, createSeasonTeamQuery, st)
	return err
}

func (s *TeamStore) UpdateSeasonTeamScore(ctx context.Context, e sqlx.ExtContext, id uuid.UUID, score int) error {
	_, err := e.ExecContext(ctx, updateSeasonTeamScoreQuery, score, id)
	return err
}

func (s *TeamStore) ListSeasonTeams(ctx context.Context, q sqlx.QueryerContext, seasonID uuid.UUID) ([]league.SeasonTeamInfo, error) {
	var teams []league.SeasonTeamInfo
	if err := sqlx.SelectContext(ctx, q, &teams, listSeasonTeamsQuery, seasonID); err != nil {
		return nil, err
	}
	return teams, nil
}
