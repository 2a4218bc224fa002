package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-userinfo/pkg/types"
	"github.com/google/uuid"
)

const (
	ActionUserInfoCreated       = "created"
	ActionUserInfoUpdated       = "updated"
	ActionUserInfoDeleted       = "deleted"
	ActionAccessRightsGranted   = "access_rights_granted"
	ActionSlackUserLinked       = "slack_linked"
	ActionPasswordResetNotified = "password_reset_notified"
)

// UserInfoCommandConfig holds dependencies shared by the profile mutations.
type UserInfoCommandConfig struct {
	Repository types.UserInfoRepository
	Clock      types.Clock
	Activity   types.ActivitySink
	Hooks      types.Hooks
	Logger     types.Logger
}

type userInfoCommand struct {
	repo  types.UserInfoRepository
	clock types.Clock
	pub   publisher
}

func newUserInfoCommand(cfg UserInfoCommandConfig) userInfoCommand {
	return userInfoCommand{
		repo:  cfg.Repository,
		clock: safeClock(cfg.Clock),
		pub: publisher{
			sink:   cfg.Activity,
			hooks:  cfg.Hooks,
			logger: safeLogger(cfg.Logger),
		},
	}
}

// UserInfoCreateInput registers a new profile.
type UserInfoCreateInput struct {
	Input  types.UserInfoInput
	Actor  types.ActorRef
	Result *types.UserInfo
}

// Type implements gocommand.Message.
func (UserInfoCreateInput) Type() string {
	return "command.user_info.create"
}

// Validate implements gocommand.Message.
func (input UserInfoCreateInput) Validate() error {
	if !input.Input.Sex.Valid() {
		return ErrInvalidSex
	}
	return nil
}

// UserInfoCreateCommand persists new profiles with cleared access rights.
type UserInfoCreateCommand struct {
	userInfoCommand
}

// NewUserInfoCreateCommand constructs the create handler.
func NewUserInfoCreateCommand(cfg UserInfoCommandConfig) *UserInfoCreateCommand {
	return &UserInfoCreateCommand{userInfoCommand: newUserInfoCommand(cfg)}
}

var _ gocommand.Commander[UserInfoCreateInput] = (*UserInfoCreateCommand)(nil)

// Execute creates the profile and records a user_info.created activity.
func (c *UserInfoCreateCommand) Execute(ctx context.Context, input UserInfoCreateInput) error {
	if c.repo == nil {
		return types.ErrMissingUserInfoRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	created, err := c.repo.Create(ctx, input.Input)
	if err != nil {
		return err
	}
	actor := resolveActor(input.Actor, created.ID)
	record := userInfoActivity("user_info.created", "profile", *created, actor, now(c.clock), map[string]any{
		"email":    created.Email,
		"store_id": created.StoreID.String(),
	})
	publish(ctx, c.pub, ActionUserInfoCreated, *created, record)

	if input.Result != nil {
		*input.Result = *created
	}
	return nil
}

// UserInfoUpdateInput edits the profile linked to an account.
type UserInfoUpdateInput struct {
	Input   types.UserInfoInput
	Account types.AccountRef
	Actor   types.ActorRef
	Result  *types.UserInfo
}

// Type implements gocommand.Message.
func (UserInfoUpdateInput) Type() string {
	return "command.user_info.update"
}

// Validate implements gocommand.Message.
func (input UserInfoUpdateInput) Validate() error {
	if input.Account.UserInfoID == uuid.Nil {
		return ErrUserInfoIDRequired
	}
	if !input.Input.Sex.Valid() {
		return ErrInvalidSex
	}
	return nil
}

// UserInfoUpdateCommand overwrites editable fields. Every update resets the
// access rights and the position code.
type UserInfoUpdateCommand struct {
	userInfoCommand
}

// NewUserInfoUpdateCommand constructs the update handler.
func NewUserInfoUpdateCommand(cfg UserInfoCommandConfig) *UserInfoUpdateCommand {
	return &UserInfoUpdateCommand{userInfoCommand: newUserInfoCommand(cfg)}
}

var _ gocommand.Commander[UserInfoUpdateInput] = (*UserInfoUpdateCommand)(nil)

// Execute applies the update.
func (c *UserInfoUpdateCommand) Execute(ctx context.Context, input UserInfoUpdateInput) error {
	if c.repo == nil {
		return types.ErrMissingUserInfoRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	updated, err := c.repo.Update(ctx, input.Input, input.Account)
	if err != nil {
		return err
	}
	actor := resolveActor(input.Actor, updated.ID)
	record := userInfoActivity("user_info.updated", "profile", *updated, actor, now(c.clock), map[string]any{
		"account_id":    input.Account.ID.String(),
		"position_code": updated.PositionCode,
	})
	publish(ctx, c.pub, ActionUserInfoUpdated, *updated, record)

	if input.Result != nil {
		*input.Result = *updated
	}
	return nil
}

// UserInfoDeleteInput soft deletes a profile.
type UserInfoDeleteInput struct {
	UserInfoID uuid.UUID
	Actor      types.ActorRef
}

// Type implements gocommand.Message.
func (UserInfoDeleteInput) Type() string {
	return "command.user_info.delete"
}

// Validate implements gocommand.Message.
func (input UserInfoDeleteInput) Validate() error {
	if input.UserInfoID == uuid.Nil {
		return ErrUserInfoIDRequired
	}
	return nil
}

// UserInfoDeleteCommand marks profiles deleted.
type UserInfoDeleteCommand struct {
	userInfoCommand
}

// NewUserInfoDeleteCommand constructs the delete handler.
func NewUserInfoDeleteCommand(cfg UserInfoCommandConfig) *UserInfoDeleteCommand {
	return &UserInfoDeleteCommand{userInfoCommand: newUserInfoCommand(cfg)}
}

var _ gocommand.Commander[UserInfoDeleteInput] = (*UserInfoDeleteCommand)(nil)

// Execute soft deletes the profile. Deleting an already deleted profile is a no-op.
func (c *UserInfoDeleteCommand) Execute(ctx context.Context, input UserInfoDeleteInput) error {
	if c.repo == nil {
		return types.ErrMissingUserInfoRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if err := c.repo.Delete(ctx, input.UserInfoID); err != nil {
		return err
	}
	deleted, err := c.repo.FindByIDWithDeleted(ctx, input.UserInfoID)
	if err != nil {
		return err
	}
	actor := resolveActor(input.Actor, deleted.ID)
	record := userInfoActivity("user_info.deleted", "profile", *deleted, actor, now(c.clock), nil)
	publish(ctx, c.pub, ActionUserInfoDeleted, *deleted, record)
	return nil
}

// AccessRightsGrantInput carries the 0/1 flags submitted by admins.
type AccessRightsGrantInput struct {
	UserInfoID uuid.UUID
	Admin      int
	User       int
	Store      int
	Actor      types.ActorRef
	Result     *types.UserInfo
}

// Type implements gocommand.Message.
func (AccessRightsGrantInput) Type() string {
	return "command.user_info.access_rights.grant"
}

// Validate implements gocommand.Message.
func (input AccessRightsGrantInput) Validate() error {
	if input.UserInfoID == uuid.Nil {
		return ErrUserInfoIDRequired
	}
	_, err := types.AccessRightsFromFlags(input.Admin, input.User, input.Store)
	return err
}

// AccessRightsGrantCommand encodes and stores access rights.
type AccessRightsGrantCommand struct {
	userInfoCommand
}

// NewAccessRightsGrantCommand constructs the grant handler.
func NewAccessRightsGrantCommand(cfg UserInfoCommandConfig) *AccessRightsGrantCommand {
	return &AccessRightsGrantCommand{userInfoCommand: newUserInfoCommand(cfg)}
}

var _ gocommand.Commander[AccessRightsGrantInput] = (*AccessRightsGrantCommand)(nil)

// Execute stores the encoded flags.
func (c *AccessRightsGrantCommand) Execute(ctx context.Context, input AccessRightsGrantInput) error {
	if c.repo == nil {
		return types.ErrMissingUserInfoRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	rights, _ := types.AccessRightsFromFlags(input.Admin, input.User, input.Store)
	previous, err := c.repo.FindByID(ctx, input.UserInfoID)
	if err != nil {
		return err
	}
	updated, err := c.repo.GrantAccessRights(ctx, input.UserInfoID, rights)
	if err != nil {
		return err
	}
	actor := resolveActor(input.Actor, updated.ID)
	record := userInfoActivity("user_info.access_rights.granted", "admin", *updated, actor, now(c.clock), map[string]any{
		"from": previous.AccessRights().String(),
		"to":   rights.String(),
	})
	publish(ctx, c.pub, ActionAccessRightsGranted, *updated, record)

	if input.Result != nil {
		*input.Result = *updated
	}
	return nil
}
