// Package achievement scans a player's match history for streak milestones.
package achievement

import (
	"fmt"
	"slices"

	"github.com/palmithor/scorebrawl/internal/league"
	"github.com/palmithor/scorebrawl/internal/rating"
)

type Type string

var (
	WinStreakThresholds        = []int{3, 5, 7, 10, 15}
	CleanSheetStreakThresholds = []int{2, 3, 5, 10}
	GoalsLastFiveThresholds    = []int{10, 15, 20}
)

const goalsWindow = 5

func WinStreak(n int) Type        { return Type(fmt.Sprintf("%d_win_streak", n)) }
func CleanSheetStreak(n int) Type { return Type(fmt.Sprintf("%d_clean_sheet_streak", n)) }
func GoalsLastFive(n int) Type    { return Type(fmt.Sprintf("%d_goals_last_5_games", n)) }

// Detect walks a chronological match history and returns every achievement
// reached at least once, in the order first reached.
func Detect(history []league.ParticipantMatch) []Type {
	var (
		reached    []Type
		seen       = make(map[Type]bool)
		winStreak  int
		cleanSheet int
		goals      []int
	)

	add := func(t Type) {
		if !seen[t] {
			seen[t] = true
			reached = append(reached, t)
		}
	}

	for _, m := range history {
		if m.Result == rating.Win {
			winStreak++
		} else {
			winStreak = 0
		}
		for _, n := range WinStreakThresholds {
			if winStreak == n {
				add(WinStreak(n))
			}
		}

		if m.GoalsAgainst() == 0 {
			cleanSheet++
		} else {
			cleanSheet = 0
		}
		for _, n := range CleanSheetStreakThresholds {
			if cleanSheet == n {
				add(CleanSheetStreak(n))
			}
		}

		goals = append(goals, m.GoalsFor())
		if len(goals) > goalsWindow {
			goals = goals[1:]
		}
		if len(goals) == goalsWindow {
			total := 0
			for _, g := range goals {
				total += g
			}
			for _, n := range GoalsLastFiveThresholds {
				if total >= n {
					add(GoalsLastFive(n))
				}
			}
		}
	}

	return reached
}

// Missing filters out achievements that have already been recorded.
func Missing(reached []Type, recorded []string) []Type {
	var out []Type
	for _, t := range reached {
		if !slices.Contains(recorded, string(t)) {
			out = append(out, t)
		}
	}
	return out
}
