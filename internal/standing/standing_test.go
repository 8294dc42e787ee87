package standing

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/palmithor/scorebrawl/internal/league"
	"github.com/palmithor/scorebrawl/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pm(participant uuid.UUID, before, after int, result rating.Result, at time.Time) league.ParticipantMatch {
	return league.ParticipantMatch{
		MatchID:        uuid.New(),
		ParticipantID:  participant,
		ScoreBefore:    before,
		ScoreAfter:     after,
		Result:         result,
		MatchCreatedAt: at,
	}
}

func TestForm(t *testing.T) {
	results := []rating.Result{rating.Loss, rating.Win, rating.Win, rating.Draw, rating.Loss, rating.Win}

	assert.Equal(t, []rating.Result{rating.Win, rating.Win, rating.Draw, rating.Loss, rating.Win}, Form(results, 5))
	assert.Equal(t, []rating.Result{rating.Loss, rating.Win}, Form(results[:2], 5))
	assert.Empty(t, Form(nil, 5))
	assert.Empty(t, Form(results, 0))
}

func TestPointDiff(t *testing.T) {
	id := uuid.New()
	now := time.Now()

	assert.Equal(t, 0, PointDiff(nil))
	assert.Equal(t, 26, PointDiff([]league.ParticipantMatch{
		pm(id, 1200, 1216, rating.Win, now),
		pm(id, 1216, 1210, rating.Loss, now.Add(time.Minute)),
		pm(id, 1210, 1226, rating.Win, now.Add(2*time.Minute)),
	}))
}

func TestBuild(t *testing.T) {
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	entries := []Entry{
		{ID: carol, Name: "Carol", Score: 1200},
		{ID: alice, Name: "Alice", Score: 1216},
		{ID: bob, Name: "Bob", Score: 1200},
	}
	history := Group([]league.ParticipantMatch{
		pm(alice, 1200, 1216, rating.Win, now),
		pm(bob, 1200, 1184, rating.Loss, now),
		pm(bob, 1184, 1200, rating.Win, now.Add(time.Minute)),
	})
	today := Group([]league.ParticipantMatch{
		pm(bob, 1184, 1200, rating.Win, now.Add(time.Minute)),
	})

	rows := Build(entries, history, today)
	require.Len(t, rows, 3)

	want := []Row{
		{ID: alice, Name: "Alice", Score: 1216, MatchCount: 1, WinCount: 1, Form: []rating.Result{rating.Win}},
		{ID: bob, Name: "Bob", Score: 1200, MatchCount: 2, WinCount: 1, LossCount: 1, Form: []rating.Result{rating.Loss, rating.Win}, PointDiff: 16},
		{ID: carol, Name: "Carol", Score: 1200, Form: []rating.Result{}},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("standing mismatch (-want +got):\n%s", diff)
	}
}
