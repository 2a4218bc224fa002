package passwordreset

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the persisted user_info_password_resets row.
type Record struct {
	bun.BaseModel `bun:"table:user_info_password_resets"`

	ID         uuid.UUID  `bun:"id,pk,type:uuid"`
	UserInfoID uuid.UUID  `bun:"user_info_id,notnull,type:uuid"`
	Email      string     `bun:"email,notnull"`
	Status     string     `bun:"status,notnull"`
	JTI        string     `bun:"jti,notnull"`
	IssuedAt   *time.Time `bun:"issued_at,nullzero"`
	ExpiresAt  *time.Time `bun:"expires_at,nullzero"`
	UsedAt     *time.Time `bun:"used_at,nullzero"`
	CreatedAt  *time.Time `bun:"created_at,nullzero"`
	UpdatedAt  *time.Time `bun:"updated_at,nullzero"`
	DeletedAt  *time.Time `bun:"deleted_at,soft_delete,nullzero"`
}
