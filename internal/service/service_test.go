package service

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/jmoiron/sqlx"
	"github.com/palmithor/scorebrawl/internal/db/dbtest"
	"github.com/palmithor/scorebrawl/internal/events"
	"github.com/palmithor/scorebrawl/internal/league"
	"github.com/palmithor/scorebrawl/internal/metrics"
	"github.com/palmithor/scorebrawl/internal/rating"
	"github.com/palmithor/scorebrawl/internal/store"
	users "github.com/palmithor/scorebrawl/internal/user"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T {
	return &v
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.MatchCreated
}

func (p *fakePublisher) PublishMatchCreated(ctx context.Context, event events.MatchCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type testEnv struct {
	db        *sqlx.DB
	stores    *store.Stores
	clock     *clock.Mock
	faker     *gofakeit.Faker
	publisher *fakePublisher
	metrics   *metrics.Metrics

	users        *UserService
	leagues      *LeagueService
	seasons      *SeasonService
	matches      *MatchService
	standings    *StandingService
	achievements *AchievementService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithDB(t, dbtest.New(t))
}

func newTestEnvWithDB(t *testing.T, database *sqlx.DB) *testEnv {
	t.Helper()

	mock := clock.NewMock()
	mock.Set(testNow)

	env := &testEnv{
		db:        database,
		stores:    store.New(),
		clock:     mock,
		faker:     gofakeit.New(11),
		publisher: &fakePublisher{},
		metrics:   metrics.New(prometheus.NewRegistry()),
	}
	logger := slog.Default()

	env.users = NewUserService(env.db, env.stores, mock)
	env.leagues = NewLeagueService(env.db, env.stores, mock)
	env.seasons = NewSeasonService(env.db, env.stores, mock)
	env.matches = NewMatchService(env.db, env.stores, NewTeamService(env.stores, FirstNamesNamer{}, mock), mock, env.publisher, env.metrics, logger)
	env.standings = NewStandingService(env.db, env.stores, mock)
	env.achievements = NewAchievementService(env.db, env.stores, mock, env.metrics, logger)
	return env
}

func (env *testEnv) user(t *testing.T) *users.User {
	t.Helper()
	u, err := env.users.CreateGuestUser(context.Background(), env.faker.Name())
	require.NoError(t, err)
	return u
}

type seasonFixture struct {
	league  *league.League
	season  *league.Season
	owner   *users.User
	members []*users.User
	// season player id by user id
	players map[uuid.UUID]uuid.UUID
}

func (f *seasonFixture) player(u *users.User) uuid.UUID {
	return f.players[u.ID]
}

// newSeason creates a league owned by a new user, lets size-1 more users join
// and starts a season running since yesterday.
func (env *testEnv) newSeason(t *testing.T, scoreType rating.ScoreType, size int, visibility league.Visibility) *seasonFixture {
	t.Helper()
	ctx := context.Background()

	owner := env.user(t)
	lg, err := env.leagues.CreateLeague(ctx, CreateLeagueInput{Name: env.faker.Company(), Visibility: visibility, UserID: owner.ID})
	require.NoError(t, err)

	f := &seasonFixture{league: lg, owner: owner, members: []*users.User{owner}, players: make(map[uuid.UUID]uuid.UUID)}
	for i := 1; i < size; i++ {
		u := env.user(t)
		_, err := env.leagues.JoinLeague(ctx, lg.Code, u.ID)
		require.NoError(t, err)
		f.members = append(f.members, u)
	}

	f.season, err = env.seasons.CreateSeason(ctx, CreateSeasonInput{
		LeagueID:  lg.ID,
		Name:      "Season 1",
		ScoreType: scoreType,
		StartDate: env.clock.Now().AddDate(0, 0, -1),
		UserID:    owner.ID,
	})
	require.NoError(t, err)

	players, err := env.stores.Seasons.ListSeasonPlayers(ctx, env.db, f.season.ID)
	require.NoError(t, err)
	require.Len(t, players, size)
	for _, p := range players {
		f.players[p.UserID] = p.ID
	}
	return f
}

func (env *testEnv) score(t *testing.T, seasonPlayerID uuid.UUID) int {
	t.Helper()
	sp, err := env.stores.Seasons.GetSeasonPlayer(context.Background(), env.db, seasonPlayerID)
	require.NoError(t, err)
	return sp.Score
}

func (env *testEnv) countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, env.db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}
