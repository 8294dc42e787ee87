package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/palmithor/scorebrawl/internal/league"
)

type AchievementStore struct{}

const (
	createAchievementQuery = `
		INSERT INTO achievements (id, league_player_id, type, created_at) VALUES
		(:id, :league_player_id, :type, :created_at)
		ON CONFLICT (league_player_id, type) DO NOTHING
	`
	listAchievementsQuery     = "SELECT * FROM achievements WHERE league_player_id = ? ORDER BY created_at, rowid"
	listAchievementTypesQuery = "SELECT type FROM achievements WHERE league_player_id = ?"

	createNotificationQuery = `
		INSERT INTO notifications (id, user_id, type, payload, read, created_at) VALUES
		(:id, :user_id, :type, :payload, :read, :created_at)
	`
	listNotificationsQuery = "SELECT * FROM notifications WHERE user_id = ? ORDER BY created_at DESC, rowid DESC"
)

func NewAchievementStore() *AchievementStore {
	return &AchievementStore{}
}

// CreateAchievement records an achievement and reports whether it was new.
// An already recorded (league player, type) pair is left untouched.
func (s *AchievementStore) CreateAchievement(ctx context.Context, e sqlx.ExtContext, a *league.Achievement) (bool, error) {
	res, err := sqlx.NamedExecContext(ctx, e, createAchievementQuery, a)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *AchievementStore) ListAchievements(ctx context.Context, q sqlx.QueryerContext, leaguePlayerID uuid.UUID) ([]league.Achievement, error) {
	var achievements []league.Achievement
	if err := sqlx.SelectContext(ctx, q, &achievements, listAchievementsQuery, leaguePlayerID); err != nil {
		return nil, err
	}
	return achievements, nil
}

func (s *AchievementStore) ListAchievementTypes(ctx context.Context, q sqlx.QueryerContext, leaguePlayerID uuid.UUID) ([]string, error) {
	var types []string
	if err := sqlx.SelectContext(ctx, q, &types, listAchievementTypesQuery, leaguePlayerID); err != nil {
		return nil, err
	}
	return types, nil
}

func (s *AchievementStore) CreateNotification(ctx context.Context, e sqlx.ExtContext, n *league.Notification) error {
	_, err := sqlx.NamedExecContext(ctx, e, createNotificationQuery, n)
	return err
}

func (s *AchievementStore) ListNotifications(ctx context.Context, q sqlx.QueryerContext, userID uuid.UUID) ([]league.Notification, error) {
	var notifications []league.Notification
	if err := sqlx.SelectContext(ctx, q, &notifications, listNotificationsQuery, userID); err != nil {
		return nil, err
	}
	return notifications, nil
}
