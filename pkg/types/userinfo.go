package types

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sex enumerates the values stored in user_infos.sex.
type Sex string

const (
	SexUnspecified Sex = ""
	SexMale        Sex = "male"
	SexFemale      Sex = "female"
	SexOther       Sex = "other"
)

// Valid reports whether the value is one of the known enumerations.
func (s Sex) Valid() bool {
	switch s {
	case SexUnspecified, SexMale, SexFemale, SexOther:
		return true
	default:
		return false
	}
}

// UserInfo is the employee profile persisted in user_infos. Zero times mean
// the date was never recorded.
type UserInfo struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Sex          Sex
	Birthday     time.Time
	Email        string
	SlackUserID  string
	Tel          string
	HireDate     time.Time
	StoreID      uuid.UUID
	AccessRight  int
	PositionName string
	PositionCode int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// IsNew reports whether the record has not been persisted yet.
func (u UserInfo) IsNew() bool {
	return u.ID == uuid.Nil
}

// IsDeleted reports whether the soft-delete marker is set.
func (u UserInfo) IsDeleted() bool {
	return u.DeletedAt != nil && !u.DeletedAt.IsZero()
}

// FullName joins last and first name the way rosters display them.
func (u UserInfo) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.LastName) + " " + strings.TrimSpace(u.FirstName))
}

// AccessRights decodes the stored access_right value.
func (u UserInfo) AccessRights() AccessRights {
	return DecodeAccessRights(u.AccessRight)
}

// UserInfoInput carries the editable profile fields accepted by create and update.
type UserInfoInput struct {
	FirstName    string
	LastName     string
	Sex          Sex
	Birthday     time.Time
	Email        string
	Tel          string
	HireDate     time.Time
	StoreID      uuid.UUID
	PositionName string
}

// AccountRef points at the account whose profile is being edited.
type AccountRef struct {
	ID         uuid.UUID
	UserInfoID uuid.UUID
}

// ExternalUser is the identity reported by the Slack integration.
type ExternalUser struct {
	ID    string
	Email string
}

// UserInfoPage is a paginated slice of user infos.
type UserInfoPage struct {
	Items      []UserInfo
	Total      int
	NextOffset int
	HasMore    bool
}

// UserInfoRepository persists and queries user_infos.
type UserInfoRepository interface {
	Create(ctx context.Context, input UserInfoInput) (*UserInfo, error)
	Update(ctx context.Context, input UserInfoInput, target AccountRef) (*UserInfo, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*UserInfo, error)
	FindByIDWithDeleted(ctx context.Context, id uuid.UUID) (*UserInfo, error)
	FindByEmail(ctx context.Context, email string) (*UserInfo, error)
	FindByAccount(ctx context.Context, accountID uuid.UUID) (*UserInfo, error)
	Search(ctx context.Context, filter UserInfoFilter) (UserInfoPage, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]UserInfo, error)
	ListSubordinates(ctx context.Context, anchorID uuid.UUID) ([]UserInfo, error)
	ListByIDOrAll(ctx context.Context, id uuid.UUID) ([]UserInfo, error)
	ListByAdminAccount(ctx context.Context, adminAccountID uuid.UUID) ([]UserInfo, error)
	GrantAccessRights(ctx context.Context, id uuid.UUID, rights AccessRights) (*UserInfo, error)
	FindOrNewBySlackID(ctx context.Context, slackUserID string) (*UserInfo, error)
	SaveExternalProfile(ctx context.Context, stub *UserInfo, firstName, lastName string, external ExternalUser) (*UserInfo, error)
}

// ResetNotifier delivers password reset messages. Delivery itself lives
// outside this module.
type ResetNotifier interface {
	SendPasswordResetNotification(ctx context.Context, info UserInfo, token string) error
}

// ResetNotifierFunc adapts a function to ResetNotifier.
type ResetNotifierFunc func(ctx context.Context, info UserInfo, token string) error

// SendPasswordResetNotification implements ResetNotifier.
func (fn ResetNotifierFunc) SendPasswordResetNotification(ctx context.Context, info UserInfo, token string) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, info, token)
}
