package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/palmithor/scorebrawl/internal/apperror"
	"github.com/palmithor/scorebrawl/internal/league"
	"github.com/palmithor/scorebrawl/internal/store"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/palmithor/scorebrawl/internal/service")

// notFound turns sql.ErrNoRows into a NOT_FOUND error and wraps anything else.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.Wrap(apperror.KindNotFound, what+" not found", err)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// leagueAccess loads a league with the actor's membership, which is nil for
// non-members. Private leagues are invisible to non-members.
func leagueAccess(ctx context.Context, q sqlx.QueryerContext, stores *store.Stores, leagueID, actorUserID uuid.UUID) (*league.League, *league.Member, error) {
	lg, err := stores.Leagues.GetLeague(ctx, q, leagueID)
	if err != nil {
		return nil, nil, notFound(err, "league")
	}

	member, err := stores.Leagues.GetMember(ctx, q, leagueID, actorUserID)
	if errors.Is(err, sql.ErrNoRows) {
		member = nil
	} else if err != nil {
		return nil, nil, fmt.Errorf("failed to get league member: %w", err)
	}

	if member == nil && lg.Visibility != league.Public {
		return nil, nil, apperror.NotFound("league not found")
	}
	return lg, member, nil
}

// seasonAccess loads a season and checks the actor can read its league.
func seasonAccess(ctx context.Context, q sqlx.QueryerContext, stores *store.Stores, seasonID, actorUserID uuid.UUID) (*league.Season, *league.League, *league.Member, error) {
	season, err := stores.Seasons.GetSeason(ctx, q, seasonID)
	if err != nil {
		return nil, nil, nil, notFound(err, "season")
	}

	lg, member, err := leagueAccess(ctx, q, stores, season.LeagueID, actorUserID)
	if err != nil {
		return nil, nil, nil, err
	}
	return season, lg, member, nil
}
