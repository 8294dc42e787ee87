package users

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ContextKey string

const UserKey ContextKey = "user"

type User struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Email      string    `db:"email" json:"email"`
	Name       string    `db:"name" json:"name"`
	Image      *string   `db:"image" json:"image,omitempty"`
	Provider   *string   `db:"provider" json:"-"`
	ProviderID *string   `db:"provider_id" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// FirstName is the first word of the display name.
func (u *User) FirstName() string {
	fields := strings.Fields(u.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ImageURL is the avatar URL, or "" when the user has none.
func (u *User) ImageURL() string {
	if u.Image == nil {
		return ""
	}
	return *u.Image
}

// SetImage stores url as the avatar, clearing it for a blank url, and reports
// whether the avatar changed.
func (u *User) SetImage(url string) bool {
	url = strings.TrimSpace(url)
	if url == u.ImageURL() {
		return false
	}
	if url == "" {
		u.Image = nil
	} else {
		u.Image = &url
	}
	return true
}

// Identity links the user to an OAuth provider account.
func (u *User) Identity(provider, providerUserID string) {
	u.Provider = &provider
	u.ProviderID = &providerUserID
}
