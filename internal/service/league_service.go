package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/jmoiron/sqlx"
	"github.com/palmithor/scorebrawl/internal/apperror"
	"github.com/palmithor/scorebrawl/internal/league"
	"github.com/palmithor/scorebrawl/internal/store"
)

const joinCodeLength = 8

type LeagueService struct {
	db     *sqlx.DB
	stores *store.Stores
	clock  clock.Clock
}

func NewLeagueService(db *sqlx.DB, stores *store.Stores, clock clock.Clock) *LeagueService {
	return &LeagueService{db: db, stores: stores, clock: clock}
}

type CreateLeagueInput struct {
	Name       string            `json:"name"`
	Visibility league.Visibility `json:"visibility"`
	UserID     uuid.UUID         `json:"-"`
}

// CreateLeague creates a league owned by the creator, who also becomes its first player.
func (s *LeagueService) CreateLeague(ctx context.Context, in CreateLeagueInput) (*league.League, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.BadRequest("league name is required")
	}
	if len(name) > 100 {
		return nil, apperror.BadRequest("league name exceeds 100 characters")
	}
	visibility := in.Visibility
	if visibility == "" {
		visibility = league.Private
	}
	if visibility != league.Public && visibility != league.Private {
		return nil, apperror.BadRequest(fmt.Sprintf("unknown visibility %q", visibility))
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	slug, err := s.uniqueSlug(ctx, tx, name)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	lg := &league.League{
		ID:         uuid.New(),
		Name:       name,
		Slug:       slug,
		Visibility: visibility,
		Code:       newJoinCode(),
		CreatedBy:  in.UserID,
		CreatedAt:  now,
	}
	if err := s.stores.Leagues.CreateLeague(ctx, tx, lg); err != nil {
		return nil, fmt.Errorf("failed to create league: %w", err)
	}

	member := &league.Member{ID: uuid.New(), LeagueID: lg.ID, UserID: in.UserID, Role: league.RoleOwner, CreatedAt: now}
	if err := s.stores.Leagues.CreateMember(ctx, tx, member); err != nil {
		return nil, fmt.Errorf("failed to create league member: %w", err)
	}
	player := &league.Player{ID: uuid.New(), LeagueID: lg.ID, UserID: in.UserID, CreatedAt: now}
	if err := s.stores.Leagues.CreatePlayer(ctx, tx, player); err != nil {
		return nil, fmt.Errorf("failed to create league player: %w", err)
	}

	return lg, tx.Commit()
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID, userID uuid.UUID) (*league.League, error) {
	lg, _, err := leagueAccess(ctx, s.db, s.stores, leagueID, userID)
	return lg, err
}

// JoinLeague adds the user as a member and player of the league with the
// given join code and enters them into every running season. Joining twice
// returns the existing membership.
func (s *LeagueService) JoinLeague(ctx context.Context, code string, userID uuid.UUID) (*league.Member, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	lg, err := s.stores.Leagues.GetLeagueByCode(ctx, tx, strings.TrimSpace(code))
	if err != nil {
		return nil, notFound(err, "league")
	}
	if lg.Archived {
		return nil, apperror.Conflict("league is archived")
	}

	member, err := s.stores.Leagues.GetMember(ctx, tx, lg.ID, userID)
	if err == nil {
		return member, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get league member: %w", err)
	}

	now := s.clock.Now().UTC()
	member = &league.Member{ID: uuid.New(), LeagueID: lg.ID, UserID: userID, Role: league.RoleMember, CreatedAt: now}
	if err := s.stores.Leagues.CreateMember(ctx, tx, member); err != nil {
		return nil, fmt.Errorf("failed to create league member: %w", err)
	}

	// a returning player keeps their league player and season entries
	_, err = s.stores.Leagues.GetPlayerByUser(ctx, tx, lg.ID, userID)
	if err == nil {
		return member, tx.Commit()
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get league player: %w", err)
	}
	player := &league.Player{ID: uuid.New(), LeagueID: lg.ID, UserID: userID, CreatedAt: now}
	if err := s.stores.Leagues.CreatePlayer(ctx, tx, player); err != nil {
		return nil, fmt.Errorf("failed to create league player: %w", err)
	}

	seasons, err := s.stores.Seasons.ListLeagueSeasons(ctx, tx, lg.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	for _, season := range seasons {
		if season.Archived || (season.EndDate != nil && season.EndDate.Before(now)) {
			continue
		}
		sp := &league.SeasonPlayer{
			ID:             uuid.New(),
			SeasonID:       season.ID,
			LeaguePlayerID: player.ID,
			Score:          season.InitialScore,
			CreatedAt:      now,
		}
		if err := s.stores.Seasons.CreateSeasonPlayer(ctx, tx, sp); err != nil {
			return nil, fmt.Errorf("failed to create season player: %w", err)
		}
	}

	return member, tx.Commit()
}

// ArchiveLeague makes a league read-only. Archiving an archived league is a no-op.
func (s *LeagueService) ArchiveLeague(ctx context.Context, leagueID, userID uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	lg, member, err := leagueAccess(ctx, tx, s.stores, leagueID, userID)
	if err != nil {
		return err
	}
	if member == nil || !member.Role.CanManage() {
		return apperror.Forbidden("not allowed to archive this league")
	}
	if lg.Archived {
		return nil
	}

	if err := s.stores.Leagues.ArchiveLeague(ctx, tx, lg.ID); err != nil {
		return fmt.Errorf("failed to archive league: %w", err)
	}
	return tx.Commit()
}

// SetPlayerDisabled enables or disables a league player. A disabled player
// keeps their history but is left out of new seasons and cannot delete matches.
func (s *LeagueService) SetPlayerDisabled(ctx context.Context, leaguePlayerID uuid.UUID, disabled bool, userID uuid.UUID) (*league.Player, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	player, err := s.stores.Leagues.GetPlayer(ctx, tx, leaguePlayerID)
	if err != nil {
		return nil, notFound(err, "league player")
	}
	_, member, err := leagueAccess(ctx, tx, s.stores, player.LeagueID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil || !member.Role.CanManage() {
		return nil, apperror.Forbidden("not allowed to manage players of this league")
	}

	if err := s.stores.Leagues.SetPlayerDisabled(ctx, tx, player.ID, disabled); err != nil {
		return nil, fmt.Errorf("failed to update league player: %w", err)
	}
	player.Disabled = disabled
	return player, tx.Commit()
}

func (s *LeagueService) uniqueSlug(ctx context.Context, q sqlx.QueryerContext, name string) (string, error) {
	base := slugify(name)
	if base == "" {
		base = "league"
	}
	slug := base
	for i := 2; ; i++ {
		exists, err := s.stores.Leagues.SlugExists(ctx, q, slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func newJoinCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:joinCodeLength]
}
