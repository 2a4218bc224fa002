package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-userinfo/pkg/types"
	"github.com/google/uuid"
)

const defaultPasswordResetTTL = 1 * time.Hour

// PasswordResetNotifyInput asks for a reset link to be issued and delivered.
// UserInfoID wins over Email when both are set.
type PasswordResetNotifyInput struct {
	UserInfoID uuid.UUID
	Email      string
	Actor      types.ActorRef
	Metadata   map[string]any
	Result     *PasswordResetNotifyResult
}

// Type implements gocommand.Message.
func (PasswordResetNotifyInput) Type() string {
	return "command.user_info.password_reset.notify"
}

// Validate implements gocommand.Message.
func (input PasswordResetNotifyInput) Validate() error {
	if input.UserInfoID == uuid.Nil && strings.TrimSpace(input.Email) == "" {
		return ErrResetIdentifierRequired
	}
	return nil
}

// PasswordResetNotifyResult exposes the issued token.
type PasswordResetNotifyResult struct {
	UserInfo  *types.UserInfo
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// PasswordResetNotifyConfig holds dependencies for reset delivery.
type PasswordResetNotifyConfig struct {
	Repository      types.UserInfoRepository
	ResetRepository types.PasswordResetRepository
	SecureLinks     types.SecureLinkManager
	Notifier        types.ResetNotifier
	FeatureGate     featuregate.FeatureGate
	Clock           types.Clock
	IDGen           types.IDGenerator
	Activity        types.ActivitySink
	Hooks           types.Hooks
	Logger          types.Logger
	TokenTTL        time.Duration
	Route           string
}

// PasswordResetNotifyCommand issues securelink reset tokens and hands them to
// the configured notifier.
type PasswordResetNotifyCommand struct {
	repo     types.UserInfoRepository
	resets   types.PasswordResetRepository
	manager  types.SecureLinkManager
	notifier types.ResetNotifier
	gate     featuregate.FeatureGate
	clock    types.Clock
	idGen    types.IDGenerator
	pub      publisher
	tokenTTL time.Duration
	route    string
}

// NewPasswordResetNotifyCommand constructs the notify handler.
func NewPasswordResetNotifyCommand(cfg PasswordResetNotifyConfig) *PasswordResetNotifyCommand {
	ttl := cfg.TokenTTL
	if ttl == 0 && cfg.SecureLinks != nil {
		ttl = cfg.SecureLinks.GetExpiration()
	}
	if ttl == 0 {
		ttl = defaultPasswordResetTTL
	}
	route := strings.TrimSpace(cfg.Route)
	if route == "" {
		route = SecureLinkRoutePasswordReset
	}
	return &PasswordResetNotifyCommand{
		repo:     cfg.Repository,
		resets:   cfg.ResetRepository,
		manager:  cfg.SecureLinks,
		notifier: cfg.Notifier,
		gate:     cfg.FeatureGate,
		clock:    safeClock(cfg.Clock),
		idGen:    safeIDGen(cfg.IDGen),
		pub: publisher{
			sink:   cfg.Activity,
			hooks:  cfg.Hooks,
			logger: safeLogger(cfg.Logger),
		},
		tokenTTL: ttl,
		route:    route,
	}
}

var _ gocommand.Commander[PasswordResetNotifyInput] = (*PasswordResetNotifyCommand)(nil)

// Execute resolves the profile, issues a token, records the reset and sends
// the notification. The reset is marked notified only after delivery succeeds.
func (c *PasswordResetNotifyCommand) Execute(ctx context.Context, input PasswordResetNotifyInput) error {
	if c.repo == nil {
		return types.ErrMissingUserInfoRepository
	}
	if c.manager == nil {
		return types.ErrMissingSecureLinkManager
	}
	if c.resets == nil {
		return types.ErrMissingPasswordResetRepository
	}
	if c.notifier == nil {
		return types.ErrMissingResetNotifier
	}
	if err := input.Validate(); err != nil {
		return err
	}

	var info *types.UserInfo
	var err error
	if input.UserInfoID != uuid.Nil {
		info, err = c.repo.FindByID(ctx, input.UserInfoID)
	} else {
		info, err = c.repo.FindByEmail(ctx, strings.TrimSpace(input.Email))
	}
	if err != nil {
		return err
	}

	enabled, err := featureEnabled(ctx, c.gate, featureUserInfoPasswordReset, info.ID)
	if err != nil {
		return err
	}
	if !enabled {
		return ErrPasswordResetDisabled
	}

	issuedAt := now(c.clock)
	expiresAt := issuedAt.Add(c.tokenTTL)
	jti := c.idGen.UUID().String()

	payload := buildSecureLinkPayload(
		SecureLinkActionPasswordReset,
		*info,
		jti,
		issuedAt,
		expiresAt,
		secureLinkSourceDefault,
	)
	token, err := c.manager.Generate(c.route, payload)
	if err != nil {
		return err
	}

	if _, err := c.resets.CreateReset(ctx, types.PasswordResetRecord{
		UserInfoID: info.ID,
		Email:      info.Email,
		Status:     types.PasswordResetStatusRequested,
		JTI:        jti,
		IssuedAt:   issuedAt,
		ExpiresAt:  expiresAt,
	}); err != nil {
		return err
	}

	if err := c.notifier.SendPasswordResetNotification(ctx, *info, token); err != nil {
		c.pub.logger.Error("password reset notification failed", err, "user_info_id", info.ID)
		return fmt.Errorf("%w: %w", ErrResetNotificationFailed, err)
	}
	if err := c.resets.UpdateResetStatus(ctx, jti, types.PasswordResetStatusNotified); err != nil {
		return err
	}

	actor := resolveActor(input.Actor, info.ID)
	data := map[string]any{
		"email":      info.Email,
		"jti":        jti,
		"expires_at": expiresAt,
	}
	if len(input.Metadata) > 0 {
		data["metadata"] = cloneMap(input.Metadata)
	}
	record := userInfoActivity("user_info.password_reset.notified", "password", *info, actor, issuedAt, data)
	publish(ctx, c.pub, ActionPasswordResetNotified, *info, record)

	if input.Result != nil {
		*input.Result = PasswordResetNotifyResult{
			UserInfo:  info,
			Token:     token,
			JTI:       jti,
			ExpiresAt: expiresAt,
		}
	}
	return nil
}
