package service

import (
	"context"
	"strings"
	"testing"

	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreateUserByProvider(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	gothUser := goth.User{
		Provider:  "discord",
		UserID:    "1001",
		Email:     env.faker.Email(),
		NickName:  "ada",
		AvatarURL: "https://cdn.example/ada.png",
	}
	created, err := env.users.FindOrCreateUserByProvider(ctx, gothUser)
	require.NoError(t, err)
	assert.Equal(t, "ada", created.Name)
	assert.Equal(t, "https://cdn.example/ada.png", created.ImageURL())

	// same identity, new avatar and name
	gothUser.Name = "Ada Lovelace"
	gothUser.AvatarURL = ""
	again, err := env.users.FindOrCreateUserByProvider(ctx, gothUser)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	stored, err := env.users.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", stored.Name)
	assert.Nil(t, stored.Image)
	assert.Equal(t, 1, env.countRows(t, "users"))
}

func TestCreateGuestUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	named, err := env.users.CreateGuestUser(ctx, "  Bob ")
	require.NoError(t, err)
	assert.Equal(t, "Bob", named.Name)

	anonymous, err := env.users.CreateGuestUser(ctx, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(anonymous.Name, "Guest "))
	assert.NotEqual(t, named.ID, anonymous.ID)
}
