package activity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LogEntry models the persisted row in user_info_activity.
type LogEntry struct {
	bun.BaseModel `bun:"table:user_info_activity"`

	ID         uuid.UUID      `bun:",pk,type:uuid"`
	UserInfoID uuid.UUID      `bun:"user_info_id,type:uuid,nullzero"`
	ActorID    uuid.UUID      `bun:"actor_id,type:uuid,nullzero"`
	Verb       string         `bun:"verb"`
	ObjectType string         `bun:"object_type"`
	ObjectID   string         `bun:"object_id"`
	Channel    string         `bun:"channel"`
	Data       map[string]any `bun:"data,type:jsonb"`
	CreatedAt  time.Time      `bun:"created_at"`
}
