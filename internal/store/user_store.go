package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	users "github.com/palmithor/scorebrawl/internal/user"
)

type UserStore struct{}

const (
	getUserQuery           = "SELECT * FROM users WHERE id = ?"
	getUserByProviderQuery = `
        SELECT * FROM users
        WHERE provider = ?
        AND provider_id = ?
    `
	createUserQuery = `
		INSERT INTO users (id, email, name, image, provider, provider_id, created_at) VALUES
		(:id, :email, :name, :image, :provider, :provider_id, :created_at)
	`
	updateUserNameAndImageQuery = `
		UPDATE users SET
		name = :name,
		image = :image
		WHERE id = :id
	`
)

func NewUserStore() *UserStore {
	return &UserStore{}
}

func (s *UserStore) GetUserByProvider(ctx context.Context, q sqlx.QueryerContext, provider string, providerID string) (*users.User, error) {
	var user users.User
	err := sqlx.GetContext(ctx, q, &user, getUserByProviderQuery, provider, providerID)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *UserStore) GetUser(ctx context.Context, q sqlx.QueryerContext, id interface{}) (*users.User, error) {
	var user users.User
	err := sqlx.GetContext(ctx, q, &user, getUserQuery, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) CreateUser(ctx context.Context, e sqlx.ExtContext, user *users.User) error {
	_, err := sqlx.NamedExecContext(ctx, e, createUserQuery, user)
	return err
}

func (s *UserStore) UpdateUserNameAndImage(ctx context.Context, e sqlx.ExtContext, user *users.User) error {
	_, err := sqlx.NamedExecContext(ctx, e, updateUserNameAndImageQuery, user)
	return err
}
