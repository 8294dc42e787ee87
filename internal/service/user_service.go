package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/jmoiron/sqlx"
	"github.com/markbates/goth"
	"github.com/palmithor/scorebrawl/internal/store"
	users "github.com/palmithor/scorebrawl/internal/user"
)

type UserService struct {
	db     *sqlx.DB
	stores *store.Stores
	clock  clock.Clock
}

func NewUserService(db *sqlx.DB, stores *store.Stores, clock clock.Clock) *UserService {
	return &UserService{db: db, stores: stores, clock: clock}
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	user, err := s.stores.Users.GetUser(ctx, s.db, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

// FindOrCreateUserByProvider returns the user behind an OAuth identity,
// refreshing the display name and image when they changed upstream.
func (s *UserService) FindOrCreateUserByProvider(ctx context.Context, gothUser goth.User) (*users.User, error) {
	name := gothUser.Name
	if name == "" {
		name = gothUser.NickName
	}

	user, err := s.stores.Users.GetUserByProvider(ctx, s.db, gothUser.Provider, gothUser.UserID)
	if err == nil {
		imageChanged := user.SetImage(gothUser.AvatarURL)
		if imageChanged || user.Name != name {
			user.Name = name
			if err := s.stores.Users.UpdateUserNameAndImage(ctx, s.db, user); err != nil {
				return nil, fmt.Errorf("failed to update user: %w", err)
			}
		}
		return user, nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		newUser := &users.User{
			ID:        uuid.New(),
			Email:     gothUser.Email,
			Name:      name,
			CreatedAt: s.clock.Now().UTC(),
		}
		newUser.SetImage(gothUser.AvatarURL)
		newUser.Identity(gothUser.Provider, gothUser.UserID)
		if err := s.stores.Users.CreateUser(ctx, s.db, newUser); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return newUser, nil
	}

	return nil, fmt.Errorf("failed to get user: %w", err)
}

// CreateGuestUser creates a user without an OAuth identity. Every guest login
// is a new user.
func (s *UserService) CreateGuestUser(ctx context.Context, name string) (*users.User, error) {
	id := uuid.New()
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Guest " + id.String()[:4]
	}
	guest := &users.User{
		ID:        id,
		Email:     fmt.Sprintf("guest+%s@scorebrawl.local", id),
		Name:      name,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.stores.Users.CreateUser(ctx, s.db, guest); err != nil {
		return nil, fmt.Errorf("failed to create guest user: %w", err)
	}
	return guest, nil
}
