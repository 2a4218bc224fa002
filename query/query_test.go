package query

import (
	"context"
	"testing"

	"github.com/goliatone/go-userinfo/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestUserInfoSearchQuery_LogsDisallowedFieldsAndProceeds(t *testing.T) {
	repo := &fakeUserInfoRepo{page: types.UserInfoPage{Total: 2}}
	logger := &recordingLogger{}
	query := NewUserInfoSearchQuery(repo, logger)

	page, err := query.Query(context.Background(), types.UserInfoFilter{
		NameField: types.NameField("password"),
		Name:      "  root ",
	})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
	require.Equal(t, "root", repo.lastFilter.Name)
	require.Len(t, logger.debug, 1)
}

func TestUserInfoSearchQuery_MissingRepository(t *testing.T) {
	_, err := NewUserInfoSearchQuery(nil, nil).Query(context.Background(), types.UserInfoFilter{})
	require.ErrorIs(t, err, types.ErrMissingUserInfoRepository)
}

func TestUserInfoLookupQuery_Dispatch(t *testing.T) {
	id := uuid.New()
	repo := &fakeUserInfoRepo{
		byID:    &types.UserInfo{ID: id, FirstName: "by-id"},
		byEmail: &types.UserInfo{ID: uuid.New(), FirstName: "by-email"},
		admins:  []types.UserInfo{{ID: uuid.New(), FirstName: "admin"}},
	}
	query := NewUserInfoLookupQuery(repo)

	got, err := query.Query(context.Background(), UserInfoLookup{ID: id, Email: "ignored@example.com"})
	require.NoError(t, err)
	require.Equal(t, "by-id", got.FirstName)

	got, err = query.Query(context.Background(), UserInfoLookup{Email: " a@example.com "})
	require.NoError(t, err)
	require.Equal(t, "by-email", got.FirstName)
	require.Equal(t, "a@example.com", repo.lastEmail)

	got, err = query.Query(context.Background(), UserInfoLookup{AdminAccountID: uuid.New()})
	require.NoError(t, err)
	require.Equal(t, "admin", got.FirstName)

	_, err = query.Query(context.Background(), UserInfoLookup{})
	require.ErrorIs(t, err, ErrLookupCriteriaRequired)
}

func TestUserInfoLookupQuery_AdminAccountMiss(t *testing.T) {
	query := NewUserInfoLookupQuery(&fakeUserInfoRepo{})
	_, err := query.Query(context.Background(), UserInfoLookup{AdminAccountID: uuid.New()})
	require.ErrorIs(t, err, types.ErrUserInfoNotFound)
}

func TestUserInfoEmailsQuery_SkipsBlankEmails(t *testing.T) {
	repo := &fakeUserInfoRepo{all: []types.UserInfo{
		{ID: uuid.New(), FirstName: "Ken", LastName: "Ito", Email: "ken@example.com"},
		{ID: uuid.New(), FirstName: "No", LastName: "Mail"},
	}}
	emails, err := NewUserInfoEmailsQuery(repo).Query(context.Background(), UserInfoEmailsFilter{})
	require.NoError(t, err)
	require.Len(t, emails, 1)
	require.Equal(t, "Ito Ken", emails[0].Name)
	require.Equal(t, "ken@example.com", emails[0].Email)
}

func TestUserInfoLookupQuery_ByAccount(t *testing.T) {
	accountID := uuid.New()
	repo := &fakeUserInfoRepo{byAccount: &types.UserInfo{ID: uuid.New(), FirstName: "linked"}}

	got, err := NewUserInfoLookupQuery(repo).Query(context.Background(), UserInfoLookup{AccountID: accountID})
	require.NoError(t, err)
	require.Equal(t, "linked", got.FirstName)
	require.Equal(t, accountID, repo.lastAnchor)
}

func TestListingQueries_PassAnchors(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	anchorID := uuid.New()
	adminID := uuid.New()
	repo := &fakeUserInfoRepo{
		all:    []types.UserInfo{{ID: uuid.New()}},
		admins: []types.UserInfo{{ID: uuid.New()}, {ID: uuid.New()}},
	}

	roster, err := NewStoreRosterQuery(repo).Query(ctx, StoreRosterFilter{StoreID: storeID})
	require.NoError(t, err)
	require.Len(t, roster, 1)
	require.Equal(t, storeID, repo.lastAnchor)

	subordinates, err := NewSubordinatesQuery(repo).Query(ctx, SubordinatesFilter{AnchorID: anchorID})
	require.NoError(t, err)
	require.Len(t, subordinates, 1)
	require.Equal(t, anchorID, repo.lastAnchor)

	admins, err := NewAdminUserInfosQuery(repo).Query(ctx, AdminUserInfosFilter{AdminAccountID: adminID})
	require.NoError(t, err)
	require.Len(t, admins, 2)
	require.Equal(t, adminID, repo.lastAnchor)

	_, err = NewStoreRosterQuery(nil).Query(ctx, StoreRosterFilter{})
	require.ErrorIs(t, err, types.ErrMissingUserInfoRepository)
	_, err = NewSubordinatesQuery(nil).Query(ctx, SubordinatesFilter{})
	require.ErrorIs(t, err, types.ErrMissingUserInfoRepository)
	_, err = NewAdminUserInfosQuery(nil).Query(ctx, AdminUserInfosFilter{})
	require.ErrorIs(t, err, types.ErrMissingUserInfoRepository)
}

func TestActivityFeedQuery_NormalizesPagination(t *testing.T) {
	repo := &fakeActivityRepo{}
	_, err := NewActivityFeedQuery(repo).Query(context.Background(), types.ActivityFilter{
		Pagination: types.Pagination{Limit: 1000, Offset: -5},
	})
	require.NoError(t, err)
	require.Equal(t, maxFeedLimit, repo.last.Pagination.Limit)
	require.Equal(t, 0, repo.last.Pagination.Offset)

	_, err = NewActivityFeedQuery(nil).Query(context.Background(), types.ActivityFilter{})
	require.ErrorIs(t, err, types.ErrMissingActivityRepository)
}

type fakeUserInfoRepo struct {
	types.UserInfoRepository
	page       types.UserInfoPage
	lastFilter types.UserInfoFilter
	byID       *types.UserInfo
	byEmail    *types.UserInfo
	lastEmail  string
	byAccount  *types.UserInfo
	lastAnchor uuid.UUID
	admins     []types.UserInfo
	all        []types.UserInfo
}

func (f *fakeUserInfoRepo) Search(_ context.Context, filter types.UserInfoFilter) (types.UserInfoPage, error) {
	f.lastFilter = filter
	return f.page, nil
}

func (f *fakeUserInfoRepo) FindByID(context.Context, uuid.UUID) (*types.UserInfo, error) {
	if f.byID == nil {
		return nil, types.ErrUserInfoNotFound
	}
	return f.byID, nil
}

func (f *fakeUserInfoRepo) FindByEmail(_ context.Context, email string) (*types.UserInfo, error) {
	f.lastEmail = email
	if f.byEmail == nil {
		return nil, types.ErrUserInfoNotFound
	}
	return f.byEmail, nil
}

func (f *fakeUserInfoRepo) FindByAccount(_ context.Context, accountID uuid.UUID) (*types.UserInfo, error) {
	f.lastAnchor = accountID
	if f.byAccount == nil {
		return nil, types.ErrUserInfoNotFound
	}
	return f.byAccount, nil
}

func (f *fakeUserInfoRepo) ListByStore(_ context.Context, storeID uuid.UUID) ([]types.UserInfo, error) {
	f.lastAnchor = storeID
	return f.all, nil
}

func (f *fakeUserInfoRepo) ListSubordinates(_ context.Context, anchorID uuid.UUID) ([]types.UserInfo, error) {
	f.lastAnchor = anchorID
	return f.all, nil
}

func (f *fakeUserInfoRepo) ListByAdminAccount(_ context.Context, adminAccountID uuid.UUID) ([]types.UserInfo, error) {
	f.lastAnchor = adminAccountID
	return f.admins, nil
}

func (f *fakeUserInfoRepo) ListByIDOrAll(context.Context, uuid.UUID) ([]types.UserInfo, error) {
	return f.all, nil
}

type fakeActivityRepo struct {
	last types.ActivityFilter
}

func (f *fakeActivityRepo) ListActivity(_ context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	f.last = filter
	return types.ActivityPage{}, nil
}

type recordingLogger struct {
	debug []string
}

func (r *recordingLogger) Debug(msg string, _ ...any) { r.debug = append(r.debug, msg) }
func (r *recordingLogger) Info(string, ...any) {}
func (r *recordingLogger) Error(string, error, ...any) {}
