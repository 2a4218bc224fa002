package userinfo

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the user_infos row.
type Record struct {
	bun.BaseModel `bun:"table:user_infos,alias:ui"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid"`
	FirstName    string     `bun:"first_name,notnull"`
	LastName     string     `bun:"last_name,notnull"`
	Sex          string     `bun:"sex,notnull"`
	Birthday     *time.Time `bun:"birthday,nullzero"`
	Email        string     `bun:"email,notnull"`
	SlackUserID  string     `bun:"slack_user_id,nullzero"`
	Tel          string     `bun:"tel,notnull"`
	HireDate     *time.Time `bun:"hire_date,nullzero"`
	StoreID      uuid.UUID  `bun:"store_id,type:uuid,nullzero"`
	AccessRight  int        `bun:"access_right,notnull"`
	PositionName string     `bun:"position_name,notnull"`
	PositionCode int        `bun:"position_code,notnull"`
	CreatedAt    *time.Time `bun:"created_at,nullzero"`
	UpdatedAt    *time.Time `bun:"updated_at,nullzero"`
	DeletedAt    *time.Time `bun:"deleted_at,soft_delete,nullzero"`
}

// StoreRecord models the stores row a user info belongs to.
type StoreRecord struct {
	bun.BaseModel `bun:"table:stores,alias:st"`

	ID        uuid.UUID  `bun:"id,pk,type:uuid"`
	Name      string     `bun:"name,notnull"`
	CreatedAt *time.Time `bun:"created_at,nullzero"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero"`
}

// AccountRecord models the users row that may reference a user info.
type AccountRecord struct {
	bun.BaseModel `bun:"table:users,alias:acc"`

	ID         uuid.UUID  `bun:"id,pk,type:uuid"`
	UserInfoID uuid.UUID  `bun:"user_info_id,type:uuid,nullzero"`
	Email      string     `bun:"email,notnull"`
	CreatedAt  *time.Time `bun:"created_at,nullzero"`
	UpdatedAt  *time.Time `bun:"updated_at,nullzero"`
}

// AdminAccountRecord models the admin_users row that may reference a user info.
type AdminAccountRecord struct {
	bun.BaseModel `bun:"table:admin_users,alias:adm"`

	ID         uuid.UUID  `bun:"id,pk,type:uuid"`
	UserInfoID uuid.UUID  `bun:"user_info_id,type:uuid,nullzero"`
	Email      string     `bun:"email,notnull"`
	CreatedAt  *time.Time `bun:"created_at,nullzero"`
	UpdatedAt  *time.Time `bun:"updated_at,nullzero"`
}
