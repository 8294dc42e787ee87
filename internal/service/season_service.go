package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/jmoiron/sqlx"
	"github.com/palmithor/scorebrawl/internal/apperror"
	"github.com/palmithor/scorebrawl/internal/league"
	"github.com/palmithor/scorebrawl/internal/rating"
	"github.com/palmithor/scorebrawl/internal/store"
)

const (
	defaultEloInitialScore = 1200
	defaultKFactor         = 32
)

type SeasonService struct {
	db     *sqlx.DB
	stores *store.Stores
	clock  clock.Clock
}

func NewSeasonService(db *sqlx.DB, stores *store.Stores, clock clock.Clock) *SeasonService {
	return &SeasonService{db: db, stores: stores, clock: clock}
}

type CreateSeasonInput struct {
	LeagueID     uuid.UUID        `json:"-"`
	Name         string           `json:"name"`
	ScoreType    rating.ScoreType `json:"scoreType"`
	InitialScore *int             `json:"initialScore"`
	KFactor      *int             `json:"kFactor"`
	StartDate    time.Time        `json:"startDate"`
	EndDate      *time.Time       `json:"endDate"`
	UserID       uuid.UUID        `json:"-"`
}

func (in *CreateSeasonInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperror.BadRequest("season name is required")
	}
	if in.ScoreType == "" {
		in.ScoreType = rating.ScoreTypeElo
	}
	if !in.ScoreType.Valid() {
		return apperror.BadRequest(fmt.Sprintf("unknown score type %q", in.ScoreType))
	}
	if in.InitialScore == nil {
		initial := defaultEloInitialScore
		if in.ScoreType == rating.ScoreTypePoints {
			initial = 0
		}
		in.InitialScore = &initial
	}
	if in.KFactor == nil {
		k := defaultKFactor
		in.KFactor = &k
	}
	if *in.KFactor <= 0 {
		return apperror.BadRequest("k factor must be positive")
	}
	if in.StartDate.IsZero() {
		return apperror.BadRequest("start date is required")
	}
	in.StartDate = in.StartDate.UTC()
	if in.EndDate != nil {
		end := in.EndDate.UTC()
		if end.Before(in.StartDate) {
			return apperror.BadRequest("end date must not be before start date")
		}
		in.EndDate = &end
	}
	return nil
}

// CreateSeason creates a season that does not overlap any other season of the
// league and enters every enabled league player at the initial score.
func (s *SeasonService) CreateSeason(ctx context.Context, in CreateSeasonInput) (*league.Season, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	lg, member, err := leagueAccess(ctx, tx, s.stores, in.LeagueID, in.UserID)
	if err != nil {
		return nil, err
	}
	if member == nil || !member.Role.CanManage() {
		return nil, apperror.Forbidden("not allowed to create seasons in this league")
	}
	if lg.Archived {
		return nil, apperror.Conflict("league is archived")
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	existing, err := s.stores.Seasons.ListLeagueSeasons(ctx, tx, lg.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	for _, other := range existing {
		if other.Overlaps(in.StartDate, in.EndDate) {
			return nil, apperror.Conflict(fmt.Sprintf("season overlaps with %q", other.Name))
		}
	}

	now := s.clock.Now().UTC()
	season := &league.Season{
		ID:           uuid.New(),
		LeagueID:     lg.ID,
		Name:         in.Name,
		ScoreType:    in.ScoreType,
		InitialScore: *in.InitialScore,
		KFactor:      *in.KFactor,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		CreatedBy:    in.UserID,
		CreatedAt:    now,
	}
	if err := s.stores.Seasons.CreateSeason(ctx, tx, season); err != nil {
		return nil, fmt.Errorf("failed to create season: %w", err)
	}

	players, err := s.stores.Leagues.ListEnabledPlayers(ctx, tx, lg.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list league players: %w", err)
	}
	for _, p := range players {
		sp := &league.SeasonPlayer{
			ID:             uuid.New(),
			SeasonID:       season.ID,
			LeaguePlayerID: p.ID,
			Score:          season.InitialScore,
			CreatedAt:      now,
		}
		if err := s.stores.Seasons.CreateSeasonPlayer(ctx, tx, sp); err != nil {
			return nil, fmt.Errorf("failed to create season player: %w", err)
		}
	}

	return season, tx.Commit()
}

func (s *SeasonService) GetSeason(ctx context.Context, seasonID, userID uuid.UUID) (*league.Season, error) {
	season, _, _, err := seasonAccess(ctx, s.db, s.stores, seasonID, userID)
	return season, err
}

func (s *SeasonService) ListSeasonPlayers(ctx context.Context, seasonID, userID uuid.UUID) ([]league.SeasonPlayerInfo, error) {
	if _, _, _, err := seasonAccess(ctx, s.db, s.stores, seasonID, userID); err != nil {
		return nil, err
	}
	players, err := s.stores.Seasons.ListSeasonPlayers(ctx, s.db, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list season players: %w", err)
	}
	return players, nil
}
