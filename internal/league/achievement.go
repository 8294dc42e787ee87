package league

import (
	"time"

	"github.com/google/uuid"
)

type Achievement struct {
	ID             uuid.UUID `db:"id" json:"id"`
	LeaguePlayerID uuid.UUID `db:"league_player_id" json:"leaguePlayerId"`
	Type           string    `db:"type" json:"type"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Type      string    `db:"type" json:"type"`
	Payload   string    `db:"payload" json:"payload"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
