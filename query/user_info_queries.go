package query

import (
	"context"
	"errors"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-userinfo/pkg/types"
	"github.com/google/uuid"
)

// ErrLookupCriteriaRequired indicates a lookup named no key.
var ErrLookupCriteriaRequired = errors.New("go-userinfo: lookup requires id, email, account or admin account")

// UserInfoSearchQuery runs permissive filtered searches for admin screens.
type UserInfoSearchQuery struct {
	repo   types.UserInfoRepository
	logger types.Logger
}

// NewUserInfoSearchQuery constructs the search query helper.
func NewUserInfoSearchQuery(repo types.UserInfoRepository, logger types.Logger) *UserInfoSearchQuery {
	return &UserInfoSearchQuery{
		repo:   repo,
		logger: safeLogger(logger),
	}
}

var _ gocommand.Querier[types.UserInfoFilter, types.UserInfoPage] = (*UserInfoSearchQuery)(nil)

// Query validates the filter for logging purposes only; disallowed fields are
// dropped by the repository and the search proceeds.
func (q *UserInfoSearchQuery) Query(ctx context.Context, filter types.UserInfoFilter) (types.UserInfoPage, error) {
	if q.repo == nil {
		return types.UserInfoPage{}, types.ErrMissingUserInfoRepository
	}
	if err := filter.Validate(); err != nil {
		q.logger.Debug("ignoring disallowed user info filter", "error", err.Error())
	}
	filter.Name = strings.TrimSpace(filter.Name)
	filter.Exact = strings.TrimSpace(filter.Exact)
	return q.repo.Search(ctx, filter)
}

// UserInfoLookup selects a single profile. The first non-empty key wins in the
// order ID, Email, AccountID, AdminAccountID.
type UserInfoLookup struct {
	ID             uuid.UUID
	Email          string
	AccountID      uuid.UUID
	AdminAccountID uuid.UUID
	WithDeleted    bool
}

// UserInfoLookupQuery resolves single profiles.
type UserInfoLookupQuery struct {
	repo types.UserInfoRepository
}

// NewUserInfoLookupQuery constructs the lookup helper.
func NewUserInfoLookupQuery(repo types.UserInfoRepository) *UserInfoLookupQuery {
	return &UserInfoLookupQuery{repo: repo}
}

var _ gocommand.Querier[UserInfoLookup, *types.UserInfo] = (*UserInfoLookupQuery)(nil)

// Query returns the matched profile or types.ErrUserInfoNotFound.
func (q *UserInfoLookupQuery) Query(ctx context.Context, lookup UserInfoLookup) (*types.UserInfo, error) {
	if q.repo == nil {
		return nil, types.ErrMissingUserInfoRepository
	}
	switch {
	case lookup.ID != uuid.Nil && lookup.WithDeleted:
		return q.repo.FindByIDWithDeleted(ctx, lookup.ID)
	case lookup.ID != uuid.Nil:
		return q.repo.FindByID(ctx, lookup.ID)
	case strings.TrimSpace(lookup.Email) != "":
		return q.repo.FindByEmail(ctx, strings.TrimSpace(lookup.Email))
	case lookup.AccountID != uuid.Nil:
		return q.repo.FindByAccount(ctx, lookup.AccountID)
	case lookup.AdminAccountID != uuid.Nil:
		items, err := q.repo.ListByAdminAccount(ctx, lookup.AdminAccountID)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, types.ErrUserInfoNotFound
		}
		return &items[0], nil
	default:
		return nil, ErrLookupCriteriaRequired
	}
}

// StoreRosterFilter selects the profiles of one store. uuid.Nil selects
// profiles without a store.
type StoreRosterFilter struct {
	StoreID uuid.UUID
}

// StoreRosterQuery lists store members.
type StoreRosterQuery struct {
	repo types.UserInfoRepository
}

// NewStoreRosterQuery constructs the roster helper.
func NewStoreRosterQuery(repo types.UserInfoRepository) *StoreRosterQuery {
	return &StoreRosterQuery{repo: repo}
}

var _ gocommand.Querier[StoreRosterFilter, []types.UserInfo] = (*StoreRosterQuery)(nil)

func (q *StoreRosterQuery) Query(ctx context.Context, filter StoreRosterFilter) ([]types.UserInfo, error) {
	if q.repo == nil {
		return nil, types.ErrMissingUserInfoRepository
	}
	return q.repo.ListByStore(ctx, filter.StoreID)
}

// SubordinatesFilter names the anchor profile. uuid.Nil anchors on the first
// profile ever created.
type SubordinatesFilter struct {
	AnchorID uuid.UUID
}

// SubordinatesQuery lists profiles ranked below the anchor's position code.
type SubordinatesQuery struct {
	repo types.UserInfoRepository
}

// NewSubordinatesQuery constructs the subordinates helper.
func NewSubordinatesQuery(repo types.UserInfoRepository) *SubordinatesQuery {
	return &SubordinatesQuery{repo: repo}
}

var _ gocommand.Querier[SubordinatesFilter, []types.UserInfo] = (*SubordinatesQuery)(nil)

func (q *SubordinatesQuery) Query(ctx context.Context, filter SubordinatesFilter) ([]types.UserInfo, error) {
	if q.repo == nil {
		return nil, types.ErrMissingUserInfoRepository
	}
	return q.repo.ListSubordinates(ctx, filter.AnchorID)
}

// UserInfoEmailsFilter restricts the mailing list to one profile when ID is set.
type UserInfoEmailsFilter struct {
	ID uuid.UUID
}

// UserInfoEmail is one entry of a mailing list.
type UserInfoEmail struct {
	UserInfoID uuid.UUID
	Name       string
	Email      string
}

// UserInfoEmailsQuery builds mailing lists for notification fan-out.
type UserInfoEmailsQuery struct {
	repo types.UserInfoRepository
}

// NewUserInfoEmailsQuery constructs the mailing list helper.
func NewUserInfoEmailsQuery(repo types.UserInfoRepository) *UserInfoEmailsQuery {
	return &UserInfoEmailsQuery{repo: repo}
}

var _ gocommand.Querier[UserInfoEmailsFilter, []UserInfoEmail] = (*UserInfoEmailsQuery)(nil)

// Query skips profiles that never recorded an email.
func (q *UserInfoEmailsQuery) Query(ctx context.Context, filter UserInfoEmailsFilter) ([]UserInfoEmail, error) {
	if q.repo == nil {
		return nil, types.ErrMissingUserInfoRepository
	}
	items, err := q.repo.ListByIDOrAll(ctx, filter.ID)
	if err != nil {
		return nil, err
	}
	out := make([]UserInfoEmail, 0, len(items))
	for _, item := range items {
		email := strings.TrimSpace(item.Email)
		if email == "" {
			continue
		}
		out = append(out, UserInfoEmail{
			UserInfoID: item.ID,
			Name:       item.FullName(),
			Email:      email,
		})
	}
	return out, nil
}

// AdminUserInfosFilter names the admin account. uuid.Nil lists every profile
// that has an admin account.
type AdminUserInfosFilter struct {
	AdminAccountID uuid.UUID
}

// AdminUserInfosQuery lists profiles linked to admin accounts.
type AdminUserInfosQuery struct {
	repo types.UserInfoRepository
}

// NewAdminUserInfosQuery constructs the admin listing helper.
func NewAdminUserInfosQuery(repo types.UserInfoRepository) *AdminUserInfosQuery {
	return &AdminUserInfosQuery{repo: repo}
}

var _ gocommand.Querier[AdminUserInfosFilter, []types.UserInfo] = (*AdminUserInfosQuery)(nil)

func (q *AdminUserInfosQuery) Query(ctx context.Context, filter AdminUserInfosFilter) ([]types.UserInfo, error) {
	if q.repo == nil {
		return nil, types.ErrMissingUserInfoRepository
	}
	return q.repo.ListByAdminAccount(ctx, filter.AdminAccountID)
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}
