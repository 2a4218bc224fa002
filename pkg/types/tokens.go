package types

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PasswordResetStatus tracks user_info_password_resets lifecycle values.
type PasswordResetStatus string

const (
	PasswordResetStatusRequested PasswordResetStatus = "requested"
	PasswordResetStatusNotified  PasswordResetStatus = "notified"
	PasswordResetStatusUsed      PasswordResetStatus = "used"
	PasswordResetStatusExpired   PasswordResetStatus = "expired"
)

// PasswordResetRecord captures a reset token issued for a user info.
type PasswordResetRecord struct {
	ID         uuid.UUID
	UserInfoID uuid.UUID
	Email      string
	Status     PasswordResetStatus
	JTI        string
	IssuedAt   time.Time
	ExpiresAt  time.Time
	UsedAt     time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PasswordResetRepository persists issued reset tokens.
type PasswordResetRepository interface {
	CreateReset(ctx context.Context, record PasswordResetRecord) (*PasswordResetRecord, error)
	GetResetByJTI(ctx context.Context, jti string) (*PasswordResetRecord, error)
	UpdateResetStatus(ctx context.Context, jti string, status PasswordResetStatus) error
	ConsumeReset(ctx context.Context, jti string, usedAt time.Time) error
}
