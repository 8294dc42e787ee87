package store

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/palmithor/scorebrawl/internal/db/dbtest"
	"github.com/palmithor/scorebrawl/internal/league"
	"github.com/palmithor/scorebrawl/internal/rating"
	users "github.com/palmithor/scorebrawl/internal/user"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db     *sqlx.DB
	faker  *gofakeit.Faker
	league *league.League
	season *league.Season
	owner  *users.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{db: dbtest.New(t), faker: gofakeit.New(7)}
	ctx := context.Background()

	f.owner = f.user(t)
	f.league = &league.League{
		ID:         uuid.New(),
		Name:       f.faker.Company(),
		Slug:       f.faker.LetterN(12),
		Visibility: league.Private,
		Code:       f.faker.LetterN(8),
		CreatedBy:  f.owner.ID,
		CreatedAt:  testNow,
	}
	require.NoError(t, NewLeagueStore().CreateLeague(ctx, f.db, f.league))

	f.season = &league.Season{
		ID:           uuid.New(),
		LeagueID:     f.league.ID,
		Name:         "Spring",
		ScoreType:    rating.ScoreTypeElo,
		InitialScore: 1200,
		KFactor:      32,
		StartDate:    testNow.AddDate(0, -1, 0),
		CreatedBy:    f.owner.ID,
		CreatedAt:    testNow,
	}
	require.NoError(t, NewSeasonStore().CreateSeason(ctx, f.db, f.season))

	return f
}

func (f *fixture) user(t *testing.T) *users.User {
	t.Helper()
	u := &users.User{
		ID:        uuid.New(),
		Email:     f.faker.Email(),
		Name:      f.faker.Name(),
		CreatedAt: testNow,
	}
	require.NoError(t, NewUserStore().CreateUser(context.Background(), f.db, u))
	return u
}

// seasonPlayer creates a user, league player and season player at the season's initial score.
func (f *fixture) seasonPlayer(t *testing.T) *league.SeasonPlayer {
	t.Helper()
	ctx := context.Background()

	u := f.user(t)
	p := &league.Player{ID: uuid.New(), LeagueID: f.league.ID, UserID: u.ID, CreatedAt: testNow}
	require.NoError(t, NewLeagueStore().CreatePlayer(ctx, f.db, p))

	sp := &league.SeasonPlayer{
		ID:             uuid.New(),
		SeasonID:       f.season.ID,
		LeaguePlayerID: p.ID,
		Score:          f.season.InitialScore,
		CreatedAt:      testNow,
	}
	require.NoError(t, NewSeasonStore().CreateSeasonPlayer(ctx, f.db, sp))
	return sp
}

func (f *fixture) match(t *testing.T, createdAt time.Time, home, away *league.SeasonPlayer, homeScore, awayScore int) *league.Match {
	t.Helper()
	ctx := context.Background()
	matches := NewMatchStore()

	m := &league.Match{
		ID:        uuid.New(),
		SeasonID:  f.season.ID,
		HomeScore: homeScore,
		AwayScore: awayScore,
		CreatedBy: f.owner.ID,
		UpdatedBy: f.owner.ID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, matches.CreateMatch(ctx, f.db, m))

	homeResult, awayResult := rating.Resolve(homeScore, awayScore)
	for _, mp := range []*league.MatchPlayer{
		{ID: uuid.New(), MatchID: m.ID, SeasonPlayerID: home.ID, HomeTeam: true, ScoreBefore: home.Score, ScoreAfter: home.Score + 10, Result: homeResult, CreatedAt: createdAt},
		{ID: uuid.New(), MatchID: m.ID, SeasonPlayerID: away.ID, HomeTeam: false, ScoreBefore: away.Score, ScoreAfter: away.Score - 10, Result: awayResult, CreatedAt: createdAt},
	} {
		require.NoError(t, matches.CreateMatchPlayer(ctx, f.db, mp))
	}
	home.Score += 10
	away.Score -= 10
	return m
}
