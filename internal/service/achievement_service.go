package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/jmoiron/sqlx"
	"github.com/palmithor/scorebrawl/internal/achievement"
	"github.com/palmithor/scorebrawl/internal/events"
	"github.com/palmithor/scorebrawl/internal/league"
	"github.com/palmithor/scorebrawl/internal/metrics"
	"github.com/palmithor/scorebrawl/internal/standing"
	"github.com/palmithor/scorebrawl/internal/store"
)

const notificationAchievement = "achievement"

type AchievementService struct {
	db      *sqlx.DB
	stores  *store.Stores
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewAchievementService(db *sqlx.DB, stores *store.Stores, clock clock.Clock, metrics *metrics.Metrics, logger *slog.Logger) *AchievementService {
	return &AchievementService{db: db, stores: stores, clock: clock, metrics: metrics, logger: logger}
}

// HandleMatchCreated is the match.created subscriber.
func (s *AchievementService) HandleMatchCreated(ctx context.Context, event events.MatchCreated) error {
	if err := s.ScanSeasonPlayers(ctx, event.SeasonID, event.SeasonPlayerIDs); err != nil {
		s.metrics.ScanFailures.Inc()
		return err
	}
	return nil
}

// ScanSeasonPlayers scans each season player's history in the season and
// records achievements not yet held by the league player, with a notification
// for each new one. Scanning twice records nothing new.
func (s *AchievementService) ScanSeasonPlayers(ctx context.Context, seasonID uuid.UUID, seasonPlayerIDs []uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	players, err := s.stores.Seasons.GetSeasonPlayers(ctx, tx, seasonID, seasonPlayerIDs)
	if err != nil {
		return fmt.Errorf("failed to get season players: %w", err)
	}
	history, err := s.stores.Matches.SeasonPlayerHistory(ctx, tx, seasonID)
	if err != nil {
		return fmt.Errorf("failed to get season history: %w", err)
	}
	grouped := standing.Group(history)

	var awarded []achievement.Type
	now := s.clock.Now().UTC()
	for _, p := range players {
		recorded, err := s.stores.Achievements.ListAchievementTypes(ctx, tx, p.LeaguePlayerID)
		if err != nil {
			return fmt.Errorf("failed to get achievements: %w", err)
		}

		for _, t := range achievement.Missing(achievement.Detect(grouped[p.ID]), recorded) {
			created, err := s.stores.Achievements.CreateAchievement(ctx, tx, &league.Achievement{
				ID:             uuid.New(),
				LeaguePlayerID: p.LeaguePlayerID,
				Type:           string(t),
				CreatedAt:      now,
			})
			if err != nil {
				return fmt.Errorf("failed to create achievement: %w", err)
			}
			if !created {
				continue
			}

			payload, err := json.Marshal(map[string]string{
				"type":           string(t),
				"leaguePlayerId": p.LeaguePlayerID.String(),
				"seasonId":       seasonID.String(),
			})
			if err != nil {
				return err
			}
			if err := s.stores.Achievements.CreateNotification(ctx, tx, &league.Notification{
				ID:        uuid.New(),
				UserID:    p.UserID,
				Type:      notificationAchievement,
				Payload:   string(payload),
				CreatedAt: now,
			}); err != nil {
				return fmt.Errorf("failed to create notification: %w", err)
			}
			awarded = append(awarded, t)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	for _, t := range awarded {
		s.metrics.AchievementsAwarded.WithLabelValues(string(t)).Inc()
	}
	if len(awarded) > 0 {
		s.logger.Info("achievements awarded", "season_id", seasonID, "types", slices.Compact(slices.Sorted(slices.Values(awarded))))
	}
	return nil
}

// ListAchievements returns a league player's achievements, oldest first.
func (s *AchievementService) ListAchievements(ctx context.Context, leaguePlayerID, userID uuid.UUID) ([]league.Achievement, error) {
	player, err := s.stores.Leagues.GetPlayer(ctx, s.db, leaguePlayerID)
	if err != nil {
		return nil, notFound(err, "league player")
	}
	if _, _, err := leagueAccess(ctx, s.db, s.stores, player.LeagueID, userID); err != nil {
		return nil, err
	}

	achievements, err := s.stores.Achievements.ListAchievements(ctx, s.db, leaguePlayerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return achievements, nil
}

func (s *AchievementService) ListNotifications(ctx context.Context, userID uuid.UUID) ([]league.Notification, error) {
	notifications, err := s.stores.Achievements.ListNotifications(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}
