package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/discord"
	"github.com/markbates/goth/providers/google"
	"github.com/palmithor/scorebrawl/internal/config"
	"github.com/palmithor/scorebrawl/internal/httputil"
	users "github.com/palmithor/scorebrawl/internal/user"
)

type ContextKey string

const UserIDKey ContextKey = "userID"

const sessionUserIDKey = "userID"

type UserLoader interface {
	GetUser(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// InitAuth registers the OAuth providers that have credentials configured.
func InitAuth(cfg *config.Config) []string {
	var providers []goth.Provider
	if cfg.Discord.Key != "" {
		providers = append(providers, discord.New(cfg.Discord.Key, cfg.Discord.Secret, cfg.Discord.CallbackURL, discord.ScopeIdentify, discord.ScopeEmail))
	}
	if cfg.Google.Key != "" {
		providers = append(providers, google.New(cfg.Google.Key, cfg.Google.Secret, cfg.Google.CallbackURL, "email", "profile"))
	}
	goth.UseProviders(providers...)

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	return names
}

// Login binds the session to the user, renewing the token to prevent fixation.
func Login(ctx context.Context, sessionManager *scs.SessionManager, userID uuid.UUID) error {
	if err := sessionManager.RenewToken(ctx); err != nil {
		return fmt.Errorf("failed to renew session token: %w", err)
	}
	sessionManager.Put(ctx, sessionUserIDKey, userID.String())
	return nil
}

func Logout(ctx context.Context, sessionManager *scs.SessionManager) error {
	return sessionManager.Destroy(ctx)
}

// LoadAuthenticatedUser puts the session's user into the request context when
// there is one. It never rejects a request.
func LoadAuthenticatedUser(sessionManager *scs.SessionManager, loader UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userIDStr := sessionManager.GetString(r.Context(), sessionUserIDKey)
			if userIDStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				sessionManager.Remove(r.Context(), sessionUserIDKey)
				next.ServeHTTP(w, r)
				return
			}

			user, err := loader.GetUser(r.Context(), userID)
			if err != nil {
				// stale session for a user that no longer exists
				sessionManager.Remove(r.Context(), sessionUserIDKey)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, users.UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without an authenticated user.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserIDFromContext(r.Context()); !ok {
			httputil.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	val := ctx.Value(UserIDKey)
	if val == nil {
		return uuid.Nil, false
	}

	id, ok := val.(uuid.UUID)
	return id, ok
}

func GetAuthenticatedUser(ctx context.Context) *users.User {
	val := ctx.Value(users.UserKey)
	if val == nil {
		return nil
	}
	user, ok := val.(*users.User)
	if !ok {
		return nil
	}
	return user
}
