package league

import (
	"time"

	"github.com/google/uuid"
)

type Visibility string

const (
	Public  Visibility = "public"
	Private Visibility = "private"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// CanSubmitMatches is true for every role except viewer.
func (r Role) CanSubmitMatches() bool {
	return r == RoleOwner || r == RoleEditor || r == RoleMember
}

func (r Role) CanManage() bool {
	return r == RoleOwner || r == RoleEditor
}

type League struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Slug       string     `db:"slug" json:"slug"`
	Visibility Visibility `db:"visibility" json:"visibility"`
	Code       string     `db:"code" json:"code"`
	Archived   bool       `db:"archived" json:"archived"`
	CreatedBy  uuid.UUID  `db:"created_by" json:"createdBy"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}

type Member struct {
	ID        uuid.UUID `db:"id" json:"id"`
	LeagueID  uuid.UUID `db:"league_id" json:"leagueId"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Player struct {
	ID        uuid.UUID `db:"id" json:"id"`
	LeagueID  uuid.UUID `db:"league_id" json:"leagueId"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Disabled  bool      `db:"disabled" json:"disabled"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
