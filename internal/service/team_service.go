package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/jmoiron/sqlx"
	"github.com/palmithor/scorebrawl/internal/league"
	"github.com/palmithor/scorebrawl/internal/store"
)

// TeamNamer names a newly formed team from its members' display names.
type TeamNamer interface {
	TeamName(memberNames []string) string
}

// FirstNamesNamer joins the members' first names in alphabetical order, "Ann & Bob".
type FirstNamesNamer struct{}

func (FirstNamesNamer) TeamName(memberNames []string) string {
	firstNames := make([]string, 0, len(memberNames))
	for _, name := range memberNames {
		if fields := strings.Fields(name); len(fields) > 0 {
			firstNames = append(firstNames, fields[0])
		}
	}
	slices.Sort(firstNames)
	return strings.Join(firstNames, " & ")
}

type TeamService struct {
	stores *store.Stores
	namer  TeamNamer
	clock  clock.Clock
}

func NewTeamService(stores *store.Stores, namer TeamNamer, clock clock.Clock) *TeamService {
	if namer == nil {
		namer = FirstNamesNamer{}
	}
	return &TeamService{stores: stores, namer: namer, clock: clock}
}

// GetOrCreateTeam returns the season team made up of exactly the given players,
// creating the league team and its season entry as needed. It must run inside
// the caller's transaction.
func (s *TeamService) GetOrCreateTeam(ctx context.Context, tx sqlx.ExtContext, season *league.Season, players []league.SeasonPlayerInfo) (*league.SeasonTeam, error) {
	leaguePlayerIDs := make([]uuid.UUID, 0, len(players))
	names := make([]string, 0, len(players))
	for _, p := range players {
		leaguePlayerIDs = append(leaguePlayerIDs, p.LeaguePlayerID)
		names = append(names, p.Name)
	}
	key := league.PlayerKey(leaguePlayerIDs)
	now := s.clock.Now().UTC()

	team, err := s.stores.Teams.GetTeamByPlayerKey(ctx, tx, season.LeagueID, key)
	if errors.Is(err, sql.ErrNoRows) {
		team = &league.Team{
			ID:        uuid.New(),
			LeagueID:  season.LeagueID,
			Name:      s.namer.TeamName(names),
			PlayerKey: key,
			CreatedAt: now,
		}
		if err := s.stores.Teams.CreateTeam(ctx, tx, team); err != nil {
			return nil, fmt.Errorf("failed to create team: %w", err)
		}
		for _, id := range leaguePlayerIDs {
			tp := &league.TeamPlayer{ID: uuid.New(), TeamID: team.ID, LeaguePlayerID: id}
			if err := s.stores.Teams.CreateTeamPlayer(ctx, tx, tp); err != nil {
				return nil, fmt.Errorf("failed to create team player: %w", err)
			}
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	seasonTeam, err := s.stores.Teams.GetSeasonTeam(ctx, tx, season.ID, team.ID)
	if errors.Is(err, sql.ErrNoRows) {
		seasonTeam = &league.SeasonTeam{
			ID:        uuid.New(),
			SeasonID:  season.ID,
			TeamID:    team.ID,
			Score:     season.InitialScore,
			CreatedAt: now,
		}
		if err := s.stores.Teams.CreateSeasonTeam(ctx, tx, seasonTeam); err != nil {
			return nil, fmt.Errorf("failed to create season team: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to get season team: %w", err)
	}

	return seasonTeam, nil
}
