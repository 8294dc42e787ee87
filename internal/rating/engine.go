// Package rating computes post-match ratings for two competing sides.
// Everything in here is pure: no I/O and deterministic for equal inputs.
package rating

import (
	"errors"
	"fmt"
	"math"

	elogo "github.com/kortemy/elo-go"
)

// Deviation is the Elo rating difference at which the stronger side is
// expected to win ten times out of eleven.
const Deviation = 400

type ScoreType string

const (
	ScoreTypeElo                 ScoreType = "elo"
	ScoreTypePoints              ScoreType = "3-1-0"
	ScoreTypeEloIndividualVsTeam ScoreType = "elo-individual-vs-team"
)

func (t ScoreType) Valid() bool {
	switch t {
	case ScoreTypeElo, ScoreTypePoints, ScoreTypeEloIndividualVsTeam:
		return true
	}
	return false
}

var (
	ErrUnknownScoreType = errors.New("unknown score type")
	ErrEmptySide        = errors.New("side has no participants")
)

type Participant struct {
	ID     string
	Rating int
}

type Side struct {
	Participants []Participant
	Score        int
}

type Change struct {
	ID     string
	Before int
	After  int
}

func (c Change) Delta() int {
	return c.After - c.Before
}

type Outcome struct {
	HomeResult Result
	AwayResult Result
	// Pre-match expected score (win probability) of each side.
	HomeExpected float64
	AwayExpected float64
	Home         []Change
	Away         []Change
}

// ExpectedScore is the logistic Elo expectation of a fractional side rating
// against an opponent rating. Whole-number ratings go through elo-go.
func ExpectedScore(rating, opponent float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (opponent-rating)/Deviation))
}

// Average is the effective rating of a side.
func Average(participants []Participant) float64 {
	if len(participants) == 0 {
		return 0
	}
	total := 0
	for _, p := range participants {
		total += p.Rating
	}
	return float64(total) / float64(len(participants))
}

// Compute produces the post-match rating of every participant on both sides.
//
// A one-against-one update (single players or two team ratings) is plain Elo
// on whole numbers and delegates to elo-go, which truncates the delta. Larger
// sides are rated from their fractional average: Elo applies one rounded
// side-average update to every participant on a side, so teammates always
// move by the same amount, and the individual-vs-team variant rates each
// participant against the opposing side's average instead.
func Compute(scoreType ScoreType, home, away Side, kFactor int) (Outcome, error) {
	if len(home.Participants) == 0 || len(away.Participants) == 0 {
		return Outcome{}, ErrEmptySide
	}

	homeResult, awayResult := Resolve(home.Score, away.Score)
	homeAvg, awayAvg := Average(home.Participants), Average(away.Participants)
	homeExpected := ExpectedScore(homeAvg, awayAvg)

	headToHead := len(home.Participants) == 1 && len(away.Participants) == 1
	elo := elogo.NewEloWithFactors(kFactor, Deviation)
	if headToHead {
		homeExpected = elo.ExpectedScore(home.Participants[0].Rating, away.Participants[0].Rating)
	}

	out := Outcome{
		HomeResult:   homeResult,
		AwayResult:   awayResult,
		HomeExpected: homeExpected,
		AwayExpected: 1 - homeExpected,
	}

	k := float64(kFactor)
	switch scoreType {
	case ScoreTypeElo, ScoreTypeEloIndividualVsTeam:
		if headToHead {
			out.Home, out.Away = eloOutcome(elo, home.Participants[0], away.Participants[0], homeResult)
			break
		}
		if scoreType == ScoreTypeEloIndividualVsTeam {
			out.Home = individualVsTeam(k, home.Participants, awayAvg, homeResult)
			out.Away = individualVsTeam(k, away.Participants, homeAvg, awayResult)
			break
		}
		homeDelta := eloDelta(k, homeResult, homeExpected)
		awayDelta := eloDelta(k, awayResult, 1-homeExpected)
		out.Home = applyDelta(home.Participants, homeDelta)
		out.Away = applyDelta(away.Participants, awayDelta)
	case ScoreTypePoints:
		out.Home = applyDelta(home.Participants, homeResult.Points())
		out.Away = applyDelta(away.Participants, awayResult.Points())
	default:
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownScoreType, scoreType)
	}

	return out, nil
}

// TeamScoreType is the score type used for the team-vs-team update of a season.
// Team ratings are always a single participant per side, so the
// individual-vs-team variant degenerates to plain Elo.
func TeamScoreType(seasonType ScoreType) ScoreType {
	if seasonType == ScoreTypeEloIndividualVsTeam {
		return ScoreTypeElo
	}
	return seasonType
}

// math.Round is symmetric around zero, so the two sides of an Elo update are
// exact negatives of each other.
func eloDelta(k float64, result Result, expected float64) int {
	return int(math.Round(k * (result.Actual() - expected)))
}

// elo-go hands the away side the negated home delta, so the update is
// conserved.
func eloOutcome(elo *elogo.Elo, home, away Participant, homeResult Result) ([]Change, []Change) {
	h, a := elo.Outcome(home.Rating, away.Rating, homeResult.Actual())
	return []Change{{ID: home.ID, Before: home.Rating, After: h.Rating}},
		[]Change{{ID: away.ID, Before: away.Rating, After: a.Rating}}
}

func applyDelta(participants []Participant, delta int) []Change {
	changes := make([]Change, len(participants))
	for i, p := range participants {
		changes[i] = Change{ID: p.ID, Before: p.Rating, After: p.Rating + delta}
	}
	return changes
}

func individualVsTeam(k float64, participants []Participant, opponentAvg float64, result Result) []Change {
	changes := make([]Change, len(participants))
	for i, p := range participants {
		delta := eloDelta(k, result, ExpectedScore(float64(p.Rating), opponentAvg))
		changes[i] = Change{ID: p.ID, Before: p.Rating, After: p.Rating + delta}
	}
	return changes
}
