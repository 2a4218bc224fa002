package types

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ActorRef identifies who triggered a mutation. Commands fall back to the
// affected user info when no actor is supplied.
type ActorRef struct {
	ID   uuid.UUID
	Type string
}

// Pagination captures limit/offset values for list queries.
type Pagination struct {
	Limit  int
	Offset int
}

// UserInfoEvent is emitted after a user info mutation completes.
type UserInfoEvent struct {
	UserInfoID uuid.UUID
	ActorID    uuid.UUID
	Action     string
	OccurredAt time.Time
	UserInfo   UserInfo
}

// Hooks groups optional callbacks invoked after key workflows complete.
type Hooks struct {
	AfterUserInfoChange func(context.Context, UserInfoEvent)
	AfterActivity       func(context.Context, ActivityRecord)
}

// ActivityRecord describes sink inputs and is shared across sink and query layers.
type ActivityRecord struct {
	ID         uuid.UUID
	UserInfoID uuid.UUID
	ActorID    uuid.UUID
	Verb       string
	ObjectType string
	ObjectID   string
	Channel    string
	Data       map[string]any
	OccurredAt time.Time
}

// ActivitySink is the minimal DI contract for emitting activity.
type ActivitySink interface {
	Log(context.Context, ActivityRecord) error
}

// ActivityFilter narrows the activity feed.
type ActivityFilter struct {
	UserInfoID uuid.UUID
	ActorID    uuid.UUID
	Verbs      []string
	Since      *time.Time
	Until      *time.Time
	Pagination Pagination
}

// ActivityPage is a paginated slice of activity records.
type ActivityPage struct {
	Records    []ActivityRecord
	Total      int
	NextOffset int
	HasMore    bool
}

// ActivityRepository exposes read-side access to activity logs.
type ActivityRepository interface {
	ListActivity(ctx context.Context, filter ActivityFilter) (ActivityPage, error)
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used by the service.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID returns a randomly generated UUID.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

var (
	// ErrUserInfoNotFound indicates a lookup matched no user info record.
	ErrUserInfoNotFound = errors.New("go-userinfo: user info not found")
	// ErrUserInfoIDRequired indicates a user info identifier was omitted.
	ErrUserInfoIDRequired = errors.New("go-userinfo: user info id required")
	// ErrInvalidFilterField reports a filter field outside the permitted set.
	ErrInvalidFilterField = errors.New("go-userinfo: invalid filter field")
	// ErrInvalidAccessRightFlag reports an access flag other than 0 or 1.
	ErrInvalidAccessRightFlag = errors.New("go-userinfo: access right flag must be 0 or 1")
	// ErrStoreUnavailable wraps failures raised by the persistence layer.
	ErrStoreUnavailable = errors.New("go-userinfo: store unavailable")
	// ErrSlackUserIDRequired indicates an external identity lacked its id.
	ErrSlackUserIDRequired = errors.New("go-userinfo: slack user id required")
	// ErrServiceNotReady indicates the service has not been properly configured.
	ErrServiceNotReady = errors.New("go-userinfo: service not ready")
	// ErrMissingUserInfoRepository occurs when no user info repository was supplied.
	ErrMissingUserInfoRepository = errors.New("go-userinfo: missing user info repository")
	// ErrMissingActivityRepository occurs when no activity repository was supplied.
	ErrMissingActivityRepository = errors.New("go-userinfo: missing activity repository")
	// ErrMissingPasswordResetRepository occurs when reset issuance lacks storage.
	ErrMissingPasswordResetRepository = errors.New("go-userinfo: missing password reset repository")
	// ErrMissingSecureLinkManager occurs when reset issuance lacks a link manager.
	ErrMissingSecureLinkManager = errors.New("go-userinfo: missing securelink manager")
	// ErrMissingResetNotifier occurs when reset issuance lacks a notifier.
	ErrMissingResetNotifier = errors.New("go-userinfo: missing password reset notifier")
)
