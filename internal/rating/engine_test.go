package rating

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func side(score int, ratings ...int) Side {
	s := Side{Score: score}
	for i, r := range ratings {
		s.Participants = append(s.Participants, Participant{ID: string(rune('a' + i)), Rating: r})
	}
	return s
}

func afters(changes []Change) []int {
	out := make([]int, len(changes))
	for i, c := range changes {
		out[i] = c.After
	}
	return out
}

func TestCompute(t *testing.T) {
	testCases := []struct {
		name      string
		scoreType ScoreType
		home      Side
		away      Side
		kFactor   int
		wantHome  []int
		wantAway  []int
	}{
		{
			name:      "elo 1v1 equal ratings home win",
			scoreType: ScoreTypeElo,
			home:      side(3, 1200),
			away:      side(1, 1200),
			kFactor:   32,
			wantHome:  []int{1216},
			wantAway:  []int{1184},
		},
		{
			name:      "elo equal draw is unchanged",
			scoreType: ScoreTypeElo,
			home:      side(2, 1200),
			away:      side(2, 1200),
			kFactor:   32,
			wantHome:  []int{1200},
			wantAway:  []int{1200},
		},
		{
			name:      "elo nil-nil draw with unequal ratings still moves",
			scoreType: ScoreTypeElo,
			home:      side(0, 1400),
			away:      side(0, 1200),
			kFactor:   32,
			wantHome:  []int{1392},
			wantAway:  []int{1208},
		},
		{
			name:      "elo 1v1 truncates a sub-point delta",
			scoreType: ScoreTypeElo,
			home:      side(1, 1216),
			away:      side(1, 1200),
			kFactor:   32,
			wantHome:  []int{1216},
			wantAway:  []int{1200},
		},
		{
			name:      "elo 1v1 truncates toward zero",
			scoreType: ScoreTypeElo,
			home:      side(1, 1216),
			away:      side(0, 1184),
			kFactor:   32,
			wantHome:  []int{1230},
			wantAway:  []int{1170},
		},
		{
			name:      "individual vs team 1v1 is plain elo",
			scoreType: ScoreTypeEloIndividualVsTeam,
			home:      side(0, 1400),
			away:      side(0, 1200),
			kFactor:   32,
			wantHome:  []int{1392},
			wantAway:  []int{1208},
		},
		{
			name:      "elo 2v2 applies the side delta to every teammate",
			scoreType: ScoreTypeElo,
			home:      side(10, 1300, 1100),
			away:      side(8, 1250, 1250),
			kFactor:   32,
			wantHome:  []int{1318, 1118},
			wantAway:  []int{1232, 1232},
		},
		{
			name:      "individual vs team rates each player against the opposing average",
			scoreType: ScoreTypeEloIndividualVsTeam,
			home:      side(10, 1300, 1100),
			away:      side(8, 1250, 1250),
			kFactor:   32,
			wantHome:  []int{1314, 1123},
			wantAway:  []int{1232, 1232},
		},
		{
			name:      "3-1-0 win",
			scoreType: ScoreTypePoints,
			home:      side(1, 10, 4),
			away:      side(2, 6, 0),
			kFactor:   32,
			wantHome:  []int{10, 4},
			wantAway:  []int{9, 3},
		},
		{
			name:      "3-1-0 draw",
			scoreType: ScoreTypePoints,
			home:      side(1, 0),
			away:      side(1, 3),
			kFactor:   32,
			wantHome:  []int{1},
			wantAway:  []int{4},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Compute(tc.scoreType, tc.home, tc.away, tc.kFactor)
			require.NoError(t, err)

			if diff := cmp.Diff(tc.wantHome, afters(out.Home)); diff != "" {
				t.Errorf("home ratings mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantAway, afters(out.Away)); diff != "" {
				t.Errorf("away ratings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompute_ExpectedAndResults(t *testing.T) {
	out, err := Compute(ScoreTypeElo, side(3, 1200), side(1, 1200), 32)
	require.NoError(t, err)

	assert.Equal(t, Win, out.HomeResult)
	assert.Equal(t, Loss, out.AwayResult)
	assert.InDelta(t, 0.5, out.HomeExpected, 1e-9)
	assert.InDelta(t, 0.5, out.AwayExpected, 1e-9)
	assert.Equal(t, 16, out.Home[0].Delta())
	assert.Equal(t, -16, out.Away[0].Delta())
}

func TestCompute_EloConservation(t *testing.T) {
	faker := gofakeit.New(42)

	for i := 0; i < 200; i++ {
		size := faker.IntRange(1, 4)
		home := Side{Score: faker.IntRange(0, 10)}
		away := Side{Score: faker.IntRange(0, 10)}
		for j := 0; j < size; j++ {
			home.Participants = append(home.Participants, Participant{ID: faker.UUID(), Rating: faker.IntRange(800, 2000)})
			away.Participants = append(away.Participants, Participant{ID: faker.UUID(), Rating: faker.IntRange(800, 2000)})
		}
		k := faker.IntRange(10, 64)

		out, err := Compute(ScoreTypeElo, home, away, k)
		require.NoError(t, err)

		gained, lost := 0, 0
		for _, c := range out.Home {
			gained += c.Delta()
		}
		for _, c := range out.Away {
			lost += c.Delta()
		}
		assert.Equal(t, 0, gained+lost, "home %+v away %+v k=%d", home, away, k)
	}
}

func TestCompute_Errors(t *testing.T) {
	_, err := Compute(ScoreTypeElo, Side{}, side(1, 1200), 32)
	assert.ErrorIs(t, err, ErrEmptySide)

	_, err = Compute(ScoreType("glicko"), side(1, 1200), side(0, 1200), 32)
	assert.ErrorIs(t, err, ErrUnknownScoreType)
}

func TestResolve(t *testing.T) {
	testCases := []struct {
		home, away         int
		wantHome, wantAway Result
	}{
		{home: 3, away: 1, wantHome: Win, wantAway: Loss},
		{home: 0, away: 2, wantHome: Loss, wantAway: Win},
		{home: 0, away: 0, wantHome: Draw, wantAway: Draw},
		{home: 5, away: 5, wantHome: Draw, wantAway: Draw},
	}

	for _, tc := range testCases {
		home, away := Resolve(tc.home, tc.away)
		assert.Equal(t, tc.wantHome, home)
		assert.Equal(t, tc.wantAway, away)
	}
}

func TestTeamScoreType(t *testing.T) {
	assert.Equal(t, ScoreTypeElo, TeamScoreType(ScoreTypeEloIndividualVsTeam))
	assert.Equal(t, ScoreTypeElo, TeamScoreType(ScoreTypeElo))
	assert.Equal(t, ScoreTypePoints, TeamScoreType(ScoreTypePoints))
	assert.False(t, ScoreType("").Valid())
}
