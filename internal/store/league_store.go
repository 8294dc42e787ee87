package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/palmithor/scorebrawl/internal/league"
)

type LeagueStore struct{}

const (
	createLeagueQuery = `
		INSERT INTO leagues (id, name, slug, visibility, code, archived, created_by, created_at) VALUES
		(:id, :name, :slug, :visibility, :code, :archived, :created_by, :created_at)
	`
	getLeagueQuery       = "SELECT * FROM leagues WHERE id = ?"
	getLeagueByCodeQuery = "SELECT * FROM leagues WHERE code = ?"
	slugExistsQuery      = "SELECT COUNT(*) FROM leagues WHERE slug = ?"
	archiveLeagueQuery   = "UPDATE leagues SET archived = TRUE WHERE id = ?"

	createMemberQuery = `
		INSERT INTO league_members (id, league_id, user_id, role, created_at) VALUES
		(:id, :league_id, :user_id, :role, :created_at)
	`
	getMemberQuery = "SELECT * FROM league_members WHERE league_id = ? AND user_id = ?"

	createPlayerQuery = `
		INSERT INTO league_players (id, league_id, user_id, disabled, created_at) VALUES
		(:id, :league_id, :user_id, :disabled, :created_at)
	`
	getPlayerQuery          = "SELECT * FROM league_players WHERE id = ?"
	getPlayerByUserQuery    = "SELECT * FROM league_players WHERE league_id = ? AND user_id = ?"
	setPlayerDisabledQuery  = "UPDATE league_players SET disabled = ? WHERE id = ?"
	listEnabledPlayersQuery = `
		SELECT * FROM league_players
		WHERE league_id = ? AND disabled = FALSE
		ORDER BY created_at, id
	`
)

func NewLeagueStore() *LeagueStore {
	return &LeagueStore{}
}

func (s *LeagueStore) CreateLeague(ctx context.Context, e sqlx.ExtContext, l *league.League) error {
	_, err := sqlx.NamedExecContext(ctx, e, createLeagueQuery, l)
	return err
}

func (s *LeagueStore) GetLeague(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*league.League, error) {
	var l league.League
	if err := sqlx.GetContext(ctx, q, &l, getLeagueQuery, id); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *LeagueStore) GetLeagueByCode(ctx context.Context, q sqlx.QueryerContext, code string) (*league.League, error) {
	var l league.League
	if err := sqlx.GetContext(ctx, q, &l, getLeagueByCodeQuery, code); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *LeagueStore) SlugExists(ctx context.Context, q sqlx.QueryerContext, slug string) (bool, error) {
	var count int
	if err := sqlx.GetContext(ctx, q, &count, slugExistsQuery, slug); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *LeagueStore) ArchiveLeague(ctx context.Context, e sqlx.ExtContext, id uuid.UUID) error {
	_, err := e.ExecContext(ctx, archiveLeagueQuery, id)
	return err
}

func (s *LeagueStore) CreateMember(ctx context.Context, e sqlx.ExtContext, m *league.Member) error {
	_, err := sqlx.NamedExecContext(ctx, e, createMemberQuery, m)
	return err
}

func (s *LeagueStore) GetMember(ctx context.Context, q sqlx.QueryerContext, leagueID, userID uuid.UUID) (*league.Member, error) {
	var m league.Member
	if err := sqlx.GetContext(ctx, q, &m, getMemberQuery, leagueID, userID); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *LeagueStore) CreatePlayer(ctx context.Context, e sqlx.ExtContext, p *league.Player) error {
	_, err := sqlx.NamedExecContext(ctx, e, createPlayerQuery, p)
	return err
}

func (s *LeagueStore) GetPlayer(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*league.Player, error) {
	var p league.Player
	if err := sqlx.GetContext(ctx, q, &p, getPlayerQuery, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *LeagueStore) GetPlayerByUser(ctx context.Context, q sqlx.QueryerContext, leagueID, userID uuid.UUID) (*league.Player, error) {
	var p league.Player
	if err := sqlx.GetContext(ctx, q, &p, getPlayerByUserQuery, leagueID, userID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *LeagueStore) SetPlayerDisabled(ctx context.Context, e sqlx.ExtContext, id uuid.UUID, disabled bool) error {
	_, err := e.ExecContext(ctx, setPlayerDisabledQuery, disabled, id)
	return err
}

func (s *LeagueStore) ListEnabledPlayers(ctx context.Context, q sqlx.QueryerContext, leagueID uuid.UUID) ([]league.Player, error) {
	var players []league.Player
	if err := sqlx.SelectContext(ctx, q, &players, listEnabledPlayersQuery, leagueID); err != nil {
		return nil, err
	}
	return players, nil
}
