package passwordreset

import (
	"context"
	"errors"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-userinfo/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	// ErrJTIRequired indicates a reset lookup or update omitted the token id.
	ErrJTIRequired = errors.New("passwordreset: jti required")
	// ErrResetUnavailable indicates the token is unknown, expired or already used.
	ErrResetUnavailable = errors.New("passwordreset: reset unavailable")
)

// RepositoryConfig wires the Bun-backed password reset repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
}

// Repository implements types.PasswordResetRepository using Bun.
type Repository struct {
	store repository.Repository[*Record]
	clock types.Clock
	db    *bun.DB
}

// NewRepository constructs the default password reset repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("passwordreset: db or repository required")
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
	db := cfg.DB
	if db == nil {
		if withDB, ok := repo.(interface{ DB() *bun.DB }); ok {
			db = withDB.DB()
		}
	}
	return &Repository{store: repo, clock: clock, db: db}, nil
}

var _ types.PasswordResetRepository = (*Repository)(nil)

// CreateReset persists a password reset record.
func (r *Repository) CreateReset(ctx context.Context, record types.PasswordResetRecord) (*types.PasswordResetRecord, error) {
	if record.UserInfoID == uuid.Nil {
		return nil, types.ErrUserInfoIDRequired
	}
	if strings.TrimSpace(record.JTI) == "" {
		return nil, ErrJTIRequired
	}
	rec := fromDomain(record)
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := r.clock.Now()
	if rec.CreatedAt == nil {
		rec.CreatedAt = timePtr(now)
	}
	if rec.UpdatedAt == nil {
		rec.UpdatedAt = timePtr(now)
	}
	if rec.IssuedAt == nil {
		rec.IssuedAt = timePtr(now)
	}
	if strings.TrimSpace(rec.Status) == "" {
		rec.Status = string(types.PasswordResetStatusRequested)
	}
	created, err := r.store.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	return toDomain(created), nil
}

// GetResetByJTI returns the reset record for a JTI, or nil when none exists.
func (r *Repository) GetResetByJTI(ctx context.Context, jti string) (*types.PasswordResetRecord, error) {
	if strings.TrimSpace(jti) == "" {
		return nil, ErrJTIRequired
	}
	rec, err := r.store.Get(ctx, selectReset(jti))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(rec), nil
}

// UpdateResetStatus moves the reset to a new status.
func (r *Repository) UpdateResetStatus(ctx context.Context, jti string, status types.PasswordResetStatus) error {
	if strings.TrimSpace(jti) == "" {
		return ErrJTIRequired
	}
	rec, err := r.store.Get(ctx, selectReset(jti))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrResetUnavailable
		}
		return err
	}
	rec.Status = string(status)
	rec.UpdatedAt = timePtr(r.clock.Now())
	_, err = r.store.Update(ctx, rec)
	return err
}

// ConsumeReset marks the reset token as used. A token can be consumed once,
// and only before it expires.
func (r *Repository) ConsumeReset(ctx context.Context, jti string, usedAt time.Time) error {
	if r == nil || r.db == nil {
		return errors.New("passwordreset: db required for updates")
	}
	normalized := strings.TrimSpace(jti)
	if normalized == "" {
		return ErrJTIRequired
	}
	if usedAt.IsZero() {
		usedAt = r.clock.Now()
	}
	rec := &Record{
		Status:    string(types.PasswordResetStatusUsed),
		UsedAt:    timePtr(usedAt),
		UpdatedAt: timePtr(r.clock.Now()),
	}
	res, err := r.db.NewUpdate().Model(rec).
		Column("status", "used_at", "updated_at").
		Where("jti = ?", normalized).
		Where("status IN (?)", bun.In([]string{
			string(types.PasswordResetStatusRequested),
			string(types.PasswordResetStatusNotified),
		})).
		Where("used_at IS NULL").
		Where("(expires_at IS NULL OR expires_at > ?)", usedAt).
		Exec(ctx)
	if err != nil {
		return repository.MapDatabaseError(err, repository.DetectDriver(r.db))
	}
	if err := repository.SQLExpectedCount(res, 1); err != nil {
		if repository.IsSQLExpectedCountViolation(err) {
			return ErrResetUnavailable
		}
		return err
	}
	return nil
}

func selectReset(jti string) repository.SelectCriteria {
	return repository.SelectBy("jti", "=", strings.TrimSpace(jti))
}

func fromDomain(record types.PasswordResetRecord) *Record {
	return &Record{
		ID:         record.ID,
		UserInfoID: record.UserInfoID,
		Email:      record.Email,
		Status:     string(record.Status),
		JTI:        strings.TrimSpace(record.JTI),
		IssuedAt:   timePtr(record.IssuedAt),
		ExpiresAt:  timePtr(record.ExpiresAt),
		UsedAt:     timePtr(record.UsedAt),
		CreatedAt:  timePtr(record.CreatedAt),
		UpdatedAt:  timePtr(record.UpdatedAt),
	}
}

func toDomain(rec *Record) *types.PasswordResetRecord {
	if rec == nil {
		return nil
	}
	return &types.PasswordResetRecord{
		ID:         rec.ID,
		UserInfoID: rec.UserInfoID,
		Email:      rec.Email,
		Status:     types.PasswordResetStatus(rec.Status),
		JTI:        rec.JTI,
		IssuedAt:   timeFromPtr(rec.IssuedAt),
		ExpiresAt:  timeFromPtr(rec.ExpiresAt),
		UsedAt:     timeFromPtr(rec.UsedAt),
		CreatedAt:  timeFromPtr(rec.CreatedAt),
		UpdatedAt:  timeFromPtr(rec.UpdatedAt),
	}
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
