package command

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-userinfo/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestUserInfoCreateCommand_LogsActivityAndHooks(t *testing.T) {
	repo := newMemoryUserInfos()
	sink := &recordingActivitySink{}
	var events []types.UserInfoEvent
	var hooked []types.ActivityRecord
	cmd := NewUserInfoCreateCommand(UserInfoCommandConfig{
		Repository: repo,
		Clock:      fixedClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		Activity:   sink,
		Hooks: types.Hooks{
			AfterUserInfoChange: func(_ context.Context, event types.UserInfoEvent) { events = append(events, event) },
			AfterActivity:       func(_ context.Context, record types.ActivityRecord) { hooked = append(hooked, record) },
		},
	})

	var result types.UserInfo
	err := cmd.Execute(context.Background(), UserInfoCreateInput{
		Input:  types.UserInfoInput{FirstName: "Hanako", LastName: "Yamada", Email: "hanako@example.com"},
		Result: &result,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, result.ID)
	require.Equal(t, 0, result.AccessRight)

	require.Len(t, sink.records, 1)
	require.Equal(t, "user_info.created", sink.records[0].Verb)
	require.Equal(t, result.ID, sink.records[0].ActorID)
	require.Len(t, hooked, 1)
	require.Len(t, events, 1)
	require.Equal(t, ActionUserInfoCreated, events[0].Action)
}

func TestUserInfoCreateCommand_RejectsUnknownSex(t *testing.T) {
	cmd := NewUserInfoCreateCommand(UserInfoCommandConfig{Repository: newMemoryUserInfos()})
	err := cmd.Execute(context.Background(), UserInfoCreateInput{
		Input: types.UserInfoInput{FirstName: "Taro", Sex: types.Sex("unknown")},
	})
	require.ErrorIs(t, err, ErrInvalidSex)
}

func TestUserInfoUpdateCommand_RequiresTarget(t *testing.T) {
	cmd := NewUserInfoUpdateCommand(UserInfoCommandConfig{Repository: newMemoryUserInfos()})
	err := cmd.Execute(context.Background(), UserInfoUpdateInput{})
	require.ErrorIs(t, err, ErrUserInfoIDRequired)
}

func TestUserInfoUpdateCommand_PropagatesNotFound(t *testing.T) {
	cmd := NewUserInfoUpdateCommand(UserInfoCommandConfig{Repository: newMemoryUserInfos()})
	err := cmd.Execute(context.Background(), UserInfoUpdateInput{
		Account: types.AccountRef{UserInfoID: uuid.New()},
	})
	require.ErrorIs(t, err, types.ErrUserInfoNotFound)
}

func TestUserInfoUpdateCommand_Updates(t *testing.T) {
	repo := newMemoryUserInfos()
	info := repo.seed(types.UserInfo{FirstName: "Old", AccessRight: 7, PositionCode: 3})
	sink := &recordingActivitySink{}
	cmd := NewUserInfoUpdateCommand(UserInfoCommandConfig{Repository: repo, Activity: sink})

	var result types.UserInfo
	err := cmd.Execute(context.Background(), UserInfoUpdateInput{
		Input:   types.UserInfoInput{FirstName: "New"},
		Account: types.AccountRef{ID: uuid.New(), UserInfoID: info.ID},
		Result:  &result,
	})
	require.NoError(t, err)
	require.Equal(t, "New", result.FirstName)
	require.Equal(t, 0, result.AccessRight)
	require.Equal(t, 100, result.PositionCode)
	require.Equal(t, "user_info.updated", sink.records[0].Verb)
}

func TestUserInfoDeleteCommand(t *testing.T) {
	repo := newMemoryUserInfos()
	info := repo.seed(types.UserInfo{FirstName: "Gone"})
	sink := &recordingActivitySink{}
	cmd := NewUserInfoDeleteCommand(UserInfoCommandConfig{Repository: repo, Activity: sink})

	require.NoError(t, cmd.Execute(context.Background(), UserInfoDeleteInput{UserInfoID: info.ID}))
	_, err := repo.FindByID(context.Background(), info.ID)
	require.ErrorIs(t, err, types.ErrUserInfoNotFound)
	require.Equal(t, "user_info.deleted", sink.records[0].Verb)

	require.ErrorIs(t, cmd.Execute(context.Background(), UserInfoDeleteInput{}), ErrUserInfoIDRequired)
}

func TestAccessRightsGrantCommand(t *testing.T) {
	repo := newMemoryUserInfos()
	info := repo.seed(types.UserInfo{FirstName: "Admin"})
	sink := &recordingActivitySink{}
	cmd := NewAccessRightsGrantCommand(UserInfoCommandConfig{Repository: repo, Activity: sink})

	var result types.UserInfo
	err := cmd.Execute(context.Background(), AccessRightsGrantInput{
		UserInfoID: info.ID,
		Admin:      1,
		User:       0,
		Store:      1,
		Result:     &result,
	})
	require.NoError(t, err)
	require.Equal(t, 5, result.AccessRight)
	require.Equal(t, "000", sink.records[0].Data["from"])
	require.Equal(t, "101", sink.records[0].Data["to"])

	err = cmd.Execute(context.Background(), AccessRightsGrantInput{UserInfoID: info.ID, Admin: 2})
	require.ErrorIs(t, err, types.ErrInvalidAccessRightFlag)
}

func TestSlackUserLinkCommand_CreatesThenReuses(t *testing.T) {
	repo := newMemoryUserInfos()
	gate := &stubFeatureGate{enabled: true}
	cmd := NewSlackUserLinkCommand(SlackUserLinkConfig{
		UserInfoCommandConfig: UserInfoCommandConfig{Repository: repo, Activity: &recordingActivitySink{}},
		FeatureGate:           gate,
	})

	var first SlackUserLinkResult
	err := cmd.Execute(context.Background(), SlackUserLinkInput{
		External:  types.ExternalUser{ID: "U123", Email: "a@example.com"},
		FirstName: "Aki",
		LastName:  "Sato",
		Result:    &first,
	})
	require.NoError(t, err)
	require.True(t, first.Created)

	var second SlackUserLinkResult
	err = cmd.Execute(context.Background(), SlackUserLinkInput{
		External:  types.ExternalUser{ID: "U123", Email: "b@example.com"},
		FirstName: "Aki",
		LastName:  "Suzuki",
		Result:    &second,
	})
	require.NoError(t, err)
	require.False(t, second.Created)
	require.Equal(t, first.UserInfo.ID, second.UserInfo.ID)
	require.Equal(t, "Suzuki", second.UserInfo.LastName)
	require.Equal(t, "b@example.com", second.UserInfo.Email)
	require.Equal(t, []string{featureUserInfoSlackLink, featureUserInfoSlackLink}, gate.keys)
	require.Empty(t, gate.chains)
}

func TestSlackUserLinkCommand_GateDisabled(t *testing.T) {
	cmd := NewSlackUserLinkCommand(SlackUserLinkConfig{
		UserInfoCommandConfig: UserInfoCommandConfig{Repository: newMemoryUserInfos()},
		FeatureGate:           &stubFeatureGate{enabled: false},
	})
	err := cmd.Execute(context.Background(), SlackUserLinkInput{External: types.ExternalUser{ID: "U1"}})
	require.ErrorIs(t, err, ErrSlackLinkDisabled)

	err = cmd.Execute(context.Background(), SlackUserLinkInput{})
	require.ErrorIs(t, err, ErrSlackUserIDRequired)
}

func TestFeatureEnabled_ScopesToUserInfo(t *testing.T) {
	gate := &stubFeatureGate{enabled: true}
	id := uuid.New()

	enabled, err := featureEnabled(context.Background(), gate, featureUserInfoPasswordReset, id)
	require.NoError(t, err)
	require.True(t, enabled)
	require.Len(t, gate.chains, 1)
	require.Equal(t, featuregate.ScopeChain{
		{Kind: featuregate.ScopeUser, ID: id.String()},
		{Kind: featuregate.ScopeSystem},
	}, gate.chains[0])

	_, err = featureEnabled(context.Background(), gate, featureUserInfoPasswordReset, uuid.Nil)
	require.NoError(t, err)
	require.Len(t, gate.chains, 1)

	enabled, err = featureEnabled(context.Background(), nil, featureUserInfoSlackLink, id)
	require.NoError(t, err)
	require.True(t, enabled)
}

func TestPasswordResetNotifyCommand_IssuesAndNotifies(t *testing.T) {
	repo := newMemoryUserInfos()
	info := repo.seed(types.UserInfo{FirstName: "Mei", Email: "mei@example.com"})
	resets := newMemoryResetRepo()
	manager := &stubSecureLinkManager{token: "signed-token", expiration: 30 * time.Minute}
	notifier := &recordingNotifier{}
	sink := &recordingActivitySink{}
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	cmd := NewPasswordResetNotifyCommand(PasswordResetNotifyConfig{
		Repository:      repo,
		ResetRepository: resets,
		SecureLinks:     manager,
		Notifier:        notifier,
		Clock:           fixedClock{t: issued},
		Activity:        sink,
	})

	var result PasswordResetNotifyResult
	err := cmd.Execute(context.Background(), PasswordResetNotifyInput{
		Email:  " mei@example.com ",
		Result: &result,
	})
	require.NoError(t, err)
	require.Equal(t, "signed-token", result.Token)
	require.Equal(t, issued.Add(30*time.Minute), result.ExpiresAt)

	require.Equal(t, SecureLinkRoutePasswordReset, manager.lastRoute)
	require.Len(t, manager.lastPayloads, 1)
	require.Equal(t, info.ID.String(), manager.lastPayloads[0]["user_info_id"])
	require.Equal(t, result.JTI, manager.lastPayloads[0]["jti"])

	require.Len(t, notifier.sent, 1)
	require.Equal(t, "signed-token", notifier.tokens[0])

	stored := resets.records[result.JTI]
	require.NotNil(t, stored)
	require.Equal(t, types.PasswordResetStatusNotified, stored.Status)
	require.Equal(t, "user_info.password_reset.notified", sink.records[0].Verb)
}

func TestPasswordResetNotifyCommand_NotifierFailureKeepsRequested(t *testing.T) {
	repo := newMemoryUserInfos()
	info := repo.seed(types.UserInfo{Email: "x@example.com"})
	resets := newMemoryResetRepo()
	sink := &recordingActivitySink{}
	cmd := NewPasswordResetNotifyCommand(PasswordResetNotifyConfig{
		Repository:      repo,
		ResetRepository: resets,
		SecureLinks:     &stubSecureLinkManager{},
		Notifier: types.ResetNotifierFunc(func(context.Context, types.UserInfo, string) error {
			return errors.New("smtp down")
		}),
		Activity: sink,
	})

	err := cmd.Execute(context.Background(), PasswordResetNotifyInput{UserInfoID: info.ID})
	require.ErrorIs(t, err, ErrResetNotificationFailed)
	require.Len(t, resets.records, 1)
	for _, record := range resets.records {
		require.Equal(t, types.PasswordResetStatusRequested, record.Status)
	}
	require.Empty(t, sink.records)
}

func TestPasswordResetNotifyCommand_Guards(t *testing.T) {
	repo := newMemoryUserInfos()
	repo.seed(types.UserInfo{Email: "known@example.com"})
	base := PasswordResetNotifyConfig{
		Repository:      repo,
		ResetRepository: newMemoryResetRepo(),
		SecureLinks:     &stubSecureLinkManager{},
		Notifier:        &recordingNotifier{},
	}

	err := NewPasswordResetNotifyCommand(base).Execute(context.Background(), PasswordResetNotifyInput{})
	require.ErrorIs(t, err, ErrResetIdentifierRequired)

	err = NewPasswordResetNotifyCommand(base).Execute(context.Background(), PasswordResetNotifyInput{Email: "missing@example.com"})
	require.ErrorIs(t, err, types.ErrUserInfoNotFound)

	gated := base
	gated.FeatureGate = &stubFeatureGate{enabled: false}
	err = NewPasswordResetNotifyCommand(gated).Execute(context.Background(), PasswordResetNotifyInput{Email: "known@example.com"})
	require.ErrorIs(t, err, ErrPasswordResetDisabled)

	missing := base
	missing.Notifier = nil
	err = NewPasswordResetNotifyCommand(missing).Execute(context.Background(), PasswordResetNotifyInput{Email: "known@example.com"})
	require.ErrorIs(t, err, types.ErrMissingResetNotifier)
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

type recordingActivitySink struct {
	records []types.ActivityRecord
	err     error
}

func (r *recordingActivitySink) Log(_ context.Context, record types.ActivityRecord) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, record)
	return nil
}

type recordingNotifier struct {
	sent   []types.UserInfo
	tokens []string
}

func (r *recordingNotifier) SendPasswordResetNotification(_ context.Context, info types.UserInfo, token string) error {
	r.sent = append(r.sent, info)
	r.tokens = append(r.tokens, token)
	return nil
}

type stubSecureLinkManager struct {
	token        string
	expiration   time.Duration
	lastRoute    string
	lastPayloads []types.SecureLinkPayload
}

func (s *stubSecureLinkManager) Generate(route string, payloads ...types.SecureLinkPayload) (string, error) {
	s.lastRoute = route
	s.lastPayloads = payloads
	if s.token == "" {
		return "token", nil
	}
	return s.token, nil
}

func (s *stubSecureLinkManager) Validate(string) (map[string]any, error) {
	return map[string]any{}, nil
}

func (s *stubSecureLinkManager) GetAndValidate(func(string) string) (types.SecureLinkPayload, error) {
	return types.SecureLinkPayload{}, nil
}

func (s *stubSecureLinkManager) GetExpiration() time.Duration {
	return s.expiration
}

type stubFeatureGate struct {
	enabled bool
	err     error
	keys    []string
	chains  []featuregate.ScopeChain
}

func (s *stubFeatureGate) Enabled(_ context.Context, key string, opts ...featuregate.ResolveOption) (bool, error) {
	s.keys = append(s.keys, key)
	req := featuregate.ResolveRequest{}
	for _, opt := range opts {
		opt(&req)
	}
	if req.ScopeChain != nil {
		s.chains = append(s.chains, *req.ScopeChain)
	}
	if s.err != nil {
		return false, s.err
	}
	return s.enabled, nil
}

type memoryResetRepo struct {
	records map[string]*types.PasswordResetRecord
}

func newMemoryResetRepo() *memoryResetRepo {
	return &memoryResetRepo{records: map[string]*types.PasswordResetRecord{}}
}

func (m *memoryResetRepo) CreateReset(_ context.Context, record types.PasswordResetRecord) (*types.PasswordResetRecord, error) {
	copy := record
	if copy.ID == uuid.Nil {
		copy.ID = uuid.New()
	}
	m.records[copy.JTI] = &copy
	return &copy, nil
}

func (m *memoryResetRepo) GetResetByJTI(_ context.Context, jti string) (*types.PasswordResetRecord, error) {
	return m.records[jti], nil
}

func (m *memoryResetRepo) UpdateResetStatus(_ context.Context, jti string, status types.PasswordResetStatus) error {
	record, ok := m.records[jti]
	if !ok {
		return errors.New("missing reset")
	}
	record.Status = status
	return nil
}

func (m *memoryResetRepo) ConsumeReset(_ context.Context, jti string, usedAt time.Time) error {
	record, ok := m.records[jti]
	if !ok {
		return errors.New("missing reset")
	}
	record.Status = types.PasswordResetStatusUsed
	record.UsedAt = usedAt
	return nil
}

// memoryUserInfos covers the repository calls made by commands.
type memoryUserInfos struct {
	items map[uuid.UUID]*types.UserInfo
}

func newMemoryUserInfos() *memoryUserInfos {
	return &memoryUserInfos{items: map[uuid.UUID]*types.UserInfo{}}
}

func (m *memoryUserInfos) seed(info types.UserInfo) *types.UserInfo {
	if info.ID == uuid.Nil {
		info.ID = uuid.New()
	}
	copy := info
	m.items[info.ID] = &copy
	return &info
}

func (m *memoryUserInfos) live(id uuid.UUID) (*types.UserInfo, bool) {
	info, ok := m.items[id]
	if !ok || info.IsDeleted() {
		return nil, false
	}
	return info, true
}

func (m *memoryUserInfos) Create(_ context.Context, input types.UserInfoInput) (*types.UserInfo, error) {
	return m.seed(types.UserInfo{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Sex:       input.Sex,
		Email:     input.Email,
		Tel:       input.Tel,
		StoreID:   input.StoreID,
	}), nil
}

func (m *memoryUserInfos) Update(_ context.Context, input types.UserInfoInput, target types.AccountRef) (*types.UserInfo, error) {
	info, ok := m.live(target.UserInfoID)
	if !ok {
		return nil, types.ErrUserInfoNotFound
	}
	info.FirstName = input.FirstName
	info.LastName = input.LastName
	info.Email = input.Email
	info.AccessRight = 0
	info.PositionCode = 100
	copy := *info
	return &copy, nil
}

func (m *memoryUserInfos) Delete(_ context.Context, id uuid.UUID) error {
	info, ok := m.items[id]
	if !ok {
		return types.ErrUserInfoNotFound
	}
	if !info.IsDeleted() {
		deletedAt := time.Now().UTC()
		info.DeletedAt = &deletedAt
	}
	return nil
}

func (m *memoryUserInfos) FindByID(_ context.Context, id uuid.UUID) (*types.UserInfo, error) {
	info, ok := m.live(id)
	if !ok {
		return nil, types.ErrUserInfoNotFound
	}
	copy := *info
	return &copy, nil
}

func (m *memoryUserInfos) FindByIDWithDeleted(_ context.Context, id uuid.UUID) (*types.UserInfo, error) {
	info, ok := m.items[id]
	if !ok {
		return nil, types.ErrUserInfoNotFound
	}
	copy := *info
	return &copy, nil
}

func (m *memoryUserInfos) FindByEmail(_ context.Context, email string) (*types.UserInfo, error) {
	for _, info := range m.items {
		if !info.IsDeleted() && strings.EqualFold(info.Email, email) {
			copy := *info
			return &copy, nil
		}
	}
	return nil, types.ErrUserInfoNotFound
}

func (m *memoryUserInfos) FindByAccount(context.Context, uuid.UUID) (*types.UserInfo, error) {
	return nil, types.ErrUserInfoNotFound
}

func (m *memoryUserInfos) Search(context.Context, types.UserInfoFilter) (types.UserInfoPage, error) {
	return types.UserInfoPage{}, nil
}

func (m *memoryUserInfos) ListByStore(context.Context, uuid.UUID) ([]types.UserInfo, error) {
	return nil, nil
}

func (m *memoryUserInfos) ListSubordinates(context.Context, uuid.UUID) ([]types.UserInfo, error) {
	return nil, nil
}

func (m *memoryUserInfos) ListByIDOrAll(context.Context, uuid.UUID) ([]types.UserInfo, error) {
	return nil, nil
}

func (m *memoryUserInfos) ListByAdminAccount(context.Context, uuid.UUID) ([]types.UserInfo, error) {
	return nil, nil
}

func (m *memoryUserInfos) GrantAccessRights(_ context.Context, id uuid.UUID, rights types.AccessRights) (*types.UserInfo, error) {
	info, ok := m.live(id)
	if !ok {
		return nil, types.ErrUserInfoNotFound
	}
	info.AccessRight = rights.Encode()
	copy := *info
	return &copy, nil
}

func (m *memoryUserInfos) FindOrNewBySlackID(_ context.Context, slackUserID string) (*types.UserInfo, error) {
	for _, info := range m.items {
		if !info.IsDeleted() && info.SlackUserID == slackUserID {
			copy := *info
			return &copy, nil
		}
	}
	return &types.UserInfo{SlackUserID: slackUserID}, nil
}

func (m *memoryUserInfos) SaveExternalProfile(_ context.Context, stub *types.UserInfo, firstName, lastName string, external types.ExternalUser) (*types.UserInfo, error) {
	next := *stub
	next.FirstName = firstName
	next.LastName = lastName
	next.Email = external.Email
	next.SlackUserID = external.ID
	if next.IsNew() {
		return m.seed(next), nil
	}
	m.items[next.ID] = &next
	copy := next
	return &copy, nil
}

var _ types.UserInfoRepository = (*memoryUserInfos)(nil)
