package league

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID        uuid.UUID `db:"id" json:"id"`
	LeagueID  uuid.UUID `db:"league_id" json:"leagueId"`
	Name      string    `db:"name" json:"name"`
	PlayerKey string    `db:"player_key" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type TeamPlayer struct {
	ID             uuid.UUID `db:"id"`
	TeamID         uuid.UUID `db:"team_id"`
	LeaguePlayerID uuid.UUID `db:"league_player_id"`
}

type SeasonTeam struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SeasonID  uuid.UUID `db:"season_id" json:"seasonId"`
	TeamID    uuid.UUID `db:"team_id" json:"teamId"`
	Score     int       `db:"score" json:"score"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type SeasonTeamInfo struct {
	SeasonTeam
	Name string `db:"name" json:"name"`
}

// PlayerKey is the canonical identity of an unordered set of league players.
// Duplicates collapse, so the same set always yields the same key.
func PlayerKey(leaguePlayerIDs []uuid.UUID) string {
	ids := make([]string, 0, len(leaguePlayerIDs))
	for _, id := range leaguePlayerIDs {
		ids = append(ids, id.String())
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)
	return strings.Join(ids, ",")
}
