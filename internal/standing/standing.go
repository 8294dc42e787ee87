// Package standing derives read-only leaderboard views from season
// participants and their match history.
package standing

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"github.com/palmithor/scorebrawl/internal/league"
	"github.com/palmithor/scorebrawl/internal/rating"
)

// FormLength is the number of trailing results shown in a standing row.
const FormLength = 5

// Entry is a season player or season team with its current score.
type Entry struct {
	ID    uuid.UUID
	Name  string
	Score int
}

type Row struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Score      int             `json:"score"`
	MatchCount int             `json:"matchCount"`
	WinCount   int             `json:"winCount"`
	LossCount  int             `json:"lossCount"`
	DrawCount  int             `json:"drawCount"`
	Form       []rating.Result `json:"form"`
	PointDiff  int             `json:"pointDiff"`
}

// Build ranks entries by score. history holds every participant's matches in
// chronological order; today holds the subset used for the point diff column.
func Build(entries []Entry, history, today map[uuid.UUID][]league.ParticipantMatch) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		row := Row{ID: e.ID, Name: e.Name, Score: e.Score}
		matches := history[e.ID]
		row.MatchCount = len(matches)
		results := make([]rating.Result, 0, len(matches))
		for _, m := range matches {
			switch m.Result {
			case rating.Win:
				row.WinCount++
			case rating.Loss:
				row.LossCount++
			case rating.Draw:
				row.DrawCount++
			}
			results = append(results, m.Result)
		}
		row.Form = Form(results, FormLength)
		row.PointDiff = PointDiff(today[e.ID])
		rows = append(rows, row)
	}

	slices.SortStableFunc(rows, func(a, b Row) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(b.MatchCount, a.MatchCount); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return rows
}

// Form returns the last n results of a chronological sequence, oldest first.
func Form(chronological []rating.Result, n int) []rating.Result {
	if n <= 0 {
		return []rating.Result{}
	}
	start := max(len(chronological)-n, 0)
	return slices.Clone(chronological[start:])
}

// PointDiff is the rating movement across chronologically ordered matches:
// the last known score after minus the first known score before.
func PointDiff(chronological []league.ParticipantMatch) int {
	if len(chronological) == 0 {
		return 0
	}
	return chronological[len(chronological)-1].ScoreAfter - chronological[0].ScoreBefore
}

// Group splits a flat, chronologically ordered history by participant.
func Group(history []league.ParticipantMatch) map[uuid.UUID][]league.ParticipantMatch {
	grouped := make(map[uuid.UUID][]league.ParticipantMatch)
	for _, m := range history {
		grouped[m.ParticipantID] = append(grouped[m.ParticipantID], m)
	}
	return grouped
}
