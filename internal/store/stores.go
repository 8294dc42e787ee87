package store

// Stores groups the stateless stores. Every method takes the queryer or
// transaction it should run on, so callers decide the transaction scope.
type Stores struct {
	Users        *UserStore
	Leagues      *LeagueStore
	Seasons      *SeasonStore
	Teams        *TeamStore
	Matches      *MatchStore
	Achievements *AchievementStore
}

func New() *Stores {
	return &Stores{
		Users:        NewUserStore(),
		Leagues:      NewLeagueStore(),
		Seasons:      NewSeasonStore(),
		Teams:        NewTeamStore(),
		Matches:      NewMatchStore(),
		Achievements: NewAchievementStore(),
	}
}
