package league

import (
	"time"

	"github.com/google/uuid"
	"github.com/palmithor/scorebrawl/internal/rating"
)

type Season struct {
	ID           uuid.UUID        `db:"id" json:"id"`
	LeagueID     uuid.UUID        `db:"league_id" json:"leagueId"`
	Name         string           `db:"name" json:"name"`
	ScoreType    rating.ScoreType `db:"score_type" json:"scoreType"`
	InitialScore int              `db:"initial_score" json:"initialScore"`
	KFactor      int              `db:"k_factor" json:"kFactor"`
	StartDate    time.Time        `db:"start_date" json:"startDate"`
	EndDate      *time.Time       `db:"end_date" json:"endDate,omitempty"`
	Archived     bool             `db:"archived" json:"archived"`
	CreatedBy    uuid.UUID        `db:"created_by" json:"createdBy"`
	CreatedAt    time.Time        `db:"created_at" json:"createdAt"`
}

// Overlaps reports whether two seasons share at least one instant.
// A nil end date is open-ended.
func (s *Season) Overlaps(start time.Time, end *time.Time) bool {
	if s.EndDate != nil && s.EndDate.Before(start) {
		return false
	}
	if end != nil && end.Before(s.StartDate) {
		return false
	}
	return true
}

type SeasonPlayer struct {
	ID             uuid.UUID `db:"id" json:"id"`
	SeasonID       uuid.UUID `db:"season_id" json:"seasonId"`
	LeaguePlayerID uuid.UUID `db:"league_player_id" json:"leaguePlayerId"`
	Score          int       `db:"score" json:"score"`
	Disabled       bool      `db:"disabled" json:"disabled"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// SeasonPlayerInfo is a season player joined with its league player and user.
type SeasonPlayerInfo struct {
	SeasonPlayer
	UserID uuid.UUID `db:"user_id" json:"userId"`
	Name   string    `db:"name" json:"name"`
	Image  *string   `db:"image" json:"image,omitempty"`
}
