package rating

type Result string

const (
	Win  Result = "W"
	Loss Result = "L"
	Draw Result = "D"
)

// Actual is the Elo "actual score" of a result.
func (r Result) Actual() float64 {
	switch r {
	case Win:
		return 1
	case Draw:
		return 0.5
	default:
		return 0
	}
}

// Points is the 3-1-0 award of a result.
func (r Result) Points() int {
	switch r {
	case Win:
		return 3
	case Draw:
		return 1
	default:
		return 0
	}
}

// Resolve classifies a finished match into per-side results.
// Scores are validated upstream.
func Resolve(homeScore, awayScore int) (home Result, away Result) {
	switch {
	case homeScore > awayScore:
		return Win, Loss
	case homeScore < awayScore:
		return Loss, Win
	default:
		return Draw, Draw
	}
}
