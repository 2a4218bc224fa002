package command

import (
	"errors"

	"github.com/goliatone/go-userinfo/pkg/types"
)

var (
	// ErrUserInfoIDRequired indicates the command lacks a user info id.
	ErrUserInfoIDRequired = types.ErrUserInfoIDRequired
	// ErrUserInfoNotFound indicates the target user info does not exist.
	ErrUserInfoNotFound = types.ErrUserInfoNotFound
	// ErrInvalidSex indicates the sex value is outside the known enumeration.
	ErrInvalidSex = errors.New("go-userinfo: invalid sex value")
	// ErrSlackUserIDRequired indicates the Slack identity lacked its id.
	ErrSlackUserIDRequired = types.ErrSlackUserIDRequired
	// ErrSlackLinkDisabled indicates Slack linking is disabled via feature gate.
	ErrSlackLinkDisabled = errors.New("go-userinfo: slack link disabled")
	// ErrResetIdentifierRequired indicates a reset request named no profile.
	ErrResetIdentifierRequired = errors.New("go-userinfo: password reset requires user info id or email")
	// ErrPasswordResetDisabled indicates password reset is disabled via feature gate.
	ErrPasswordResetDisabled = errors.New("go-userinfo: password reset disabled")
	// ErrResetNotificationFailed wraps notifier failures.
	ErrResetNotificationFailed = errors.New("go-userinfo: password reset notification failed")
)
