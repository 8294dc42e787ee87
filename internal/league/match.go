package league

import (
	"time"

	"github.com/google/uuid"
	"github.com/palmithor/scorebrawl/internal/rating"
)

type Match struct {
	ID              uuid.UUID `db:"id" json:"id"`
	SeasonID        uuid.UUID `db:"season_id" json:"seasonId"`
	HomeScore       int       `db:"home_score" json:"homeScore"`
	AwayScore       int       `db:"away_score" json:"awayScore"`
	HomeExpectedElo float64   `db:"home_expected_elo" json:"homeExpectedElo"`
	AwayExpectedElo float64   `db:"away_expected_elo" json:"awayExpectedElo"`
	CreatedBy       uuid.UUID `db:"created_by" json:"createdBy"`
	UpdatedBy       uuid.UUID `db:"updated_by" json:"updatedBy"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`

	Players []MatchPlayer     `db:"-" json:"players,omitempty"`
	Teams   []SeasonTeamMatch `db:"-" json:"teams,omitempty"`
}

type MatchPlayer struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	MatchID        uuid.UUID     `db:"match_id" json:"matchId"`
	SeasonPlayerID uuid.UUID     `db:"season_player_id" json:"seasonPlayerId"`
	HomeTeam       bool          `db:"home_team" json:"homeTeam"`
	ScoreBefore    int           `db:"score_before" json:"scoreBefore"`
	ScoreAfter     int           `db:"score_after" json:"scoreAfter"`
	Result         rating.Result `db:"result" json:"result"`
	CreatedAt      time.Time     `db:"created_at" json:"createdAt"`
}

type SeasonTeamMatch struct {
	ID           uuid.UUID     `db:"id" json:"id"`
	MatchID      uuid.UUID     `db:"match_id" json:"matchId"`
	SeasonTeamID uuid.UUID     `db:"season_team_id" json:"seasonTeamId"`
	HomeTeam     bool          `db:"home_team" json:"homeTeam"`
	ScoreBefore  int           `db:"score_before" json:"scoreBefore"`
	ScoreAfter   int           `db:"score_after" json:"scoreAfter"`
	Result       rating.Result `db:"result" json:"result"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
}

// ParticipantMatch is one participant's view of a match, used for
// standings, form and achievement scans.
type ParticipantMatch struct {
	MatchID        uuid.UUID     `db:"match_id"`
	ParticipantID  uuid.UUID     `db:"participant_id"`
	HomeTeam       bool          `db:"home_team"`
	HomeScore      int           `db:"home_score"`
	AwayScore      int           `db:"away_score"`
	ScoreBefore    int           `db:"score_before"`
	ScoreAfter     int           `db:"score_after"`
	Result         rating.Result `db:"result"`
	MatchCreatedAt time.Time     `db:"created_at"`
}

func (m ParticipantMatch) GoalsFor() int {
	if m.HomeTeam {
		return m.HomeScore
	}
	return m.AwayScore
}

func (m ParticipantMatch) GoalsAgainst() int {
	if m.HomeTeam {
		return m.AwayScore
	}
	return m.HomeScore
}
