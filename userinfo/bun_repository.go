package userinfo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-userinfo/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var editableColumns = []string{
	"first_name",
	"last_name",
	"sex",
	"birthday",
	"email",
	"tel",
	"hire_date",
	"store_id",
	"position_name",
}

// RepositoryConfig wires the Bun-backed user info repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

// Repository implements types.UserInfoRepository using Bun.
type Repository struct {
	store repository.Repository[*Record]
	db    *bun.DB
	clock types.Clock
	idGen types.IDGenerator
	opts  RepositoryOptions
}

// NewRepository constructs the default user info repository.
func NewRepository(cfg RepositoryConfig, opts ...RepositoryOption) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("userinfo: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*Record]{
			NewRecord: func() *Record { return &Record{} },
			GetID: func(rec *Record) uuid.UUID {
				if rec == nil {
					return uuid.Nil
				}
				return rec.ID
			},
			SetID: func(rec *Record, id uuid.UUID) {
				if rec != nil {
					rec.ID = id
				}
			},
		})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	db := cfg.DB
	if db == nil {
		if withDB, ok := repo.(interface{ DB() *bun.DB }); ok {
			db = withDB.DB()
		}
	}
	return &Repository{
		store: repo,
		db:    db,
		clock: clock,
		idGen: idGen,
		opts:  applyRepositoryOptions(opts),
	}, nil
}

var _ types.UserInfoRepository = (*Repository)(nil)

// Create inserts a profile with access_right and position_code reset to 0.
func (r *Repository) Create(ctx context.Context, input types.UserInfoInput) (*types.UserInfo, error) {
	rec := fromInput(input)
	rec.ID = r.idGen.UUID()
	rec.AccessRight = 0
	rec.PositionCode = 0
	now := r.clock.Now()
	rec.CreatedAt = timePtr(now)
	rec.UpdatedAt = timePtr(now)

	created, err := r.store.Create(ctx, rec)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toDomain(created), nil
}

// Update overwrites the editable fields of the profile referenced by the
// account. access_right is reset to 0 and position_code to the configured
// update code.
func (r *Repository) Update(ctx context.Context, input types.UserInfoInput, target types.AccountRef) (*types.UserInfo, error) {
	if target.UserInfoID == uuid.Nil {
		return nil, types.ErrUserInfoIDRequired
	}
	rec := fromInput(input)
	rec.ID = target.UserInfoID
	rec.AccessRight = 0
	rec.PositionCode = r.opts.updatePositionCode()
	rec.UpdatedAt = timePtr(r.clock.Now())

	columns := append(append([]string{}, editableColumns...), "access_right", "position_code", "updated_at")
	if err := r.updateColumns(ctx, rec, columns...); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, rec.ID)
}

// GrantAccessRights stores the encoded flags on the profile.
func (r *Repository) GrantAccessRights(ctx context.Context, id uuid.UUID, rights types.AccessRights) (*types.UserInfo, error) {
	if id == uuid.Nil {
		return nil, types.ErrUserInfoIDRequired
	}
	rec := &Record{
		ID:          id,
		AccessRight: rights.Encode(),
		UpdatedAt:   timePtr(r.clock.Now()),
	}
	if err := r.updateColumns(ctx, rec, "access_right", "updated_at"); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete sets the soft-delete marker. Deleting an already deleted profile is a no-op.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return types.ErrUserInfoIDRequired
	}
	if r.db == nil {
		return errors.New("userinfo: db required for deletes")
	}
	res, err := r.db.NewDelete().Model(&Record{ID: id}).WherePK().Exec(ctx)
	if err != nil {
		return mapStoreError(repository.MapDatabaseError(err, repository.DetectDriver(r.db)))
	}
	if err := repository.SQLExpectedCount(res, 1); err == nil {
		return nil
	}
	_, err = r.FindByIDWithDeleted(ctx, id)
	return err
}

// FindByID returns the live profile with the id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*types.UserInfo, error) {
	if id == uuid.Nil {
		return nil, types.ErrUserInfoIDRequired
	}
	return r.get(ctx, WhereID(id))
}

// FindByIDWithDeleted returns the profile with the id, including soft-deleted rows.
func (r *Repository) FindByIDWithDeleted(ctx context.Context, id uuid.UUID) (*types.UserInfo, error) {
	if id == uuid.Nil {
		return nil, types.ErrUserInfoIDRequired
	}
	return r.get(ctx, WithDeleted(), WhereID(id))
}

// FindByEmail returns the first profile with the email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*types.UserInfo, error) {
	if strings.TrimSpace(email) == "" {
		return nil, types.ErrUserInfoNotFound
	}
	return r.get(ctx, WhereEmail(email), OrderByCreation())
}

// FindByAccount returns the first profile referenced by a users row, restricted
// to accountID when it is set.
func (r *Repository) FindByAccount(ctx context.Context, accountID uuid.UUID) (*types.UserInfo, error) {
	return r.get(ctx, WithAccount(accountID), OrderByCreation())
}

// Search runs the permissive filter set with pagination.
func (r *Repository) Search(ctx context.Context, filter types.UserInfoFilter) (types.UserInfoPage, error) {
	pagination := r.normalizePagination(filter.Pagination)
	criteria := append(FilterCriteria(filter), OrderByCreation(), Paginate(pagination))

	rows, total, err := r.store.List(ctx, criteria...)
	if err != nil {
		return types.UserInfoPage{}, mapStoreError(err)
	}
	return types.UserInfoPage{
		Items:      toDomainList(rows),
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

// ListByStore returns every live profile of the store. uuid.Nil lists
// profiles without a store.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]types.UserInfo, error) {
	return r.list(ctx, WhereStoreOrUnassigned(storeID), OrderByCreation())
}

// ListSubordinates resolves the anchor profile and returns the profiles whose
// position_code is strictly below the anchor's. With uuid.Nil the anchor is
// the first profile overall.
func (r *Repository) ListSubordinates(ctx context.Context, anchorID uuid.UUID) ([]types.UserInfo, error) {
	anchor, err := r.get(ctx, WhereID(anchorID), OrderByCreation())
	if err != nil {
		if errors.Is(err, types.ErrUserInfoNotFound) && anchorID == uuid.Nil {
			return []types.UserInfo{}, nil
		}
		return nil, err
	}
	return r.list(ctx, WherePositionCodeBelow(anchor.PositionCode), OrderByCreation())
}

// ListByIDOrAll returns the profile with the id, or every profile when id is uuid.Nil.
func (r *Repository) ListByIDOrAll(ctx context.Context, id uuid.UUID) ([]types.UserInfo, error) {
	return r.list(ctx, WhereID(id), OrderByCreation())
}

// ListByAdminAccount returns profiles referenced by admin_users, restricted to
// adminAccountID when it is set.
func (r *Repository) ListByAdminAccount(ctx context.Context, adminAccountID uuid.UUID) ([]types.UserInfo, error) {
	return r.list(ctx, WithAdminAccount(adminAccountID), OrderByCreation())
}

// FindOrNewBySlackID returns the profile linked to the Slack identity or an
// unsaved stub carrying only the identity.
func (r *Repository) FindOrNewBySlackID(ctx context.Context, slackUserID string) (*types.UserInfo, error) {
	slackUserID = strings.TrimSpace(slackUserID)
	if slackUserID == "" {
		return nil, types.ErrSlackUserIDRequired
	}
	info, err := r.get(ctx, WhereSlackUserID(slackUserID))
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, types.ErrUserInfoNotFound) {
		return nil, err
	}
	return &types.UserInfo{SlackUserID: slackUserID}, nil
}

// SaveExternalProfile copies the Slack identity onto the stub and persists it,
// inserting new stubs and updating existing profiles.
func (r *Repository) SaveExternalProfile(ctx context.Context, stub *types.UserInfo, firstName, lastName string, external types.ExternalUser) (*types.UserInfo, error) {
	if strings.TrimSpace(external.ID) == "" {
		return nil, types.ErrSlackUserIDRequired
	}
	info := types.UserInfo{}
	if stub != nil {
		info = *stub
	}
	info.FirstName = firstName
	info.LastName = lastName
	info.Email = strings.TrimSpace(external.Email)
	info.SlackUserID = strings.TrimSpace(external.ID)

	rec := fromDomain(info)
	now := r.clock.Now()
	rec.UpdatedAt = timePtr(now)
	if info.IsNew() {
		rec.ID = r.idGen.UUID()
		rec.CreatedAt = timePtr(now)
		created, err := r.store.Create(ctx, rec)
		if err != nil {
			return nil, mapStoreError(err)
		}
		return toDomain(created), nil
	}
	if err := r.updateColumns(ctx, rec, "first_name", "last_name", "email", "slack_user_id", "updated_at"); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, rec.ID)
}

func (r *Repository) get(ctx context.Context, criteria ...repository.SelectCriteria) (*types.UserInfo, error) {
	rec, err := r.store.Get(ctx, criteria...)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toDomain(rec), nil
}

func (r *Repository) list(ctx context.Context, criteria ...repository.SelectCriteria) ([]types.UserInfo, error) {
	rows, _, err := r.store.List(ctx, criteria...)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toDomainList(rows), nil
}

func (r *Repository) updateColumns(ctx context.Context, rec *Record, columns ...string) error {
	if r.db == nil {
		return errors.New("userinfo: db required for updates")
	}
	res, err := r.db.NewUpdate().
		Model(rec).
		Column(columns...).
		Where("id = ?", rec.ID).
		Exec(ctx)
	if err != nil {
		return mapStoreError(repository.MapDatabaseError(err, repository.DetectDriver(r.db)))
	}
	if err := repository.SQLExpectedCount(res, 1); err != nil {
		if repository.IsSQLExpectedCountViolation(err) {
			return types.ErrUserInfoNotFound
		}
		return mapStoreError(err)
	}
	return nil
}

func (r *Repository) normalizePagination(p types.Pagination) types.Pagination {
	if p.Limit <= 0 {
		p.Limit = r.opts.DefaultPageSize
	}
	if p.Limit > r.opts.MaxPageSize {
		p.Limit = r.opts.MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrUserInfoNotFound), errors.Is(err, types.ErrStoreUnavailable):
		return err
	case repository.IsRecordNotFound(err), errors.Is(err, sql.ErrNoRows):
		return types.ErrUserInfoNotFound
	default:
		return fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
	}
}

func fromInput(input types.UserInfoInput) *Record {
	return &Record{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Sex:          string(input.Sex),
		Birthday:     datePtr(input.Birthday),
		Email:        strings.TrimSpace(input.Email),
		Tel:          strings.TrimSpace(input.Tel),
		HireDate:     datePtr(input.HireDate),
		StoreID:      input.StoreID,
		PositionName: strings.TrimSpace(input.PositionName),
	}
}

func fromDomain(info types.UserInfo) *Record {
	return &Record{
		ID:           info.ID,
		FirstName:    info.FirstName,
		LastName:     info.LastName,
		Sex:          string(info.Sex),
		Birthday:     datePtr(info.Birthday),
		Email:        info.Email,
		SlackUserID:  info.SlackUserID,
		Tel:          info.Tel,
		HireDate:     datePtr(info.HireDate),
		StoreID:      info.StoreID,
		AccessRight:  info.AccessRight,
		PositionName: info.PositionName,
		PositionCode: info.PositionCode,
		CreatedAt:    timePtr(info.CreatedAt),
		UpdatedAt:    timePtr(info.UpdatedAt),
		DeletedAt:    info.DeletedAt,
	}
}

func toDomain(rec *Record) *types.UserInfo {
	if rec == nil {
		return nil
	}
	return &types.UserInfo{
		ID:           rec.ID,
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		Sex:          types.Sex(rec.Sex),
		Birthday:     timeFromPtr(rec.Birthday),
		Email:        rec.Email,
		SlackUserID:  rec.SlackUserID,
		Tel:          rec.Tel,
		HireDate:     timeFromPtr(rec.HireDate),
		StoreID:      rec.StoreID,
		AccessRight:  rec.AccessRight,
		PositionName: rec.PositionName,
		PositionCode: rec.PositionCode,
		CreatedAt:    timeFromPtr(rec.CreatedAt),
		UpdatedAt:    timeFromPtr(rec.UpdatedAt),
		DeletedAt:    rec.DeletedAt,
	}
}

func toDomainList(rows []*Record) []types.UserInfo {
	out := make([]types.UserInfo, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		out = append(out, *toDomain(row))
	}
	return out
}

func datePtr(value time.Time) *time.Time {
	return timePtr(dateOnly(value))
}

func timePtr(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}
	copy := value
	return &copy
}

func timeFromPtr(value *time.Time) time.Time {
	if value == nil {
		return time.Time{}
	}
	return *value
}
