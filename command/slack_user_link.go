package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-userinfo/pkg/types"
	"github.com/google/uuid"
)

// SlackUserLinkInput links a Slack identity to a profile, creating the
// profile on first sight.
type SlackUserLinkInput struct {
	External  types.ExternalUser
	FirstName string
	LastName  string
	Actor     types.ActorRef
	Result    *SlackUserLinkResult
}

// Type implements gocommand.Message.
func (SlackUserLinkInput) Type() string {
	return "command.user_info.slack.link"
}

// Validate implements gocommand.Message.
func (input SlackUserLinkInput) Validate() error {
	if strings.TrimSpace(input.External.ID) == "" {
		return ErrSlackUserIDRequired
	}
	return nil
}

// SlackUserLinkResult reports the saved profile and whether it was new.
type SlackUserLinkResult struct {
	UserInfo *types.UserInfo
	Created  bool
}

// SlackUserLinkConfig holds dependencies for Slack linking.
type SlackUserLinkConfig struct {
	UserInfoCommandConfig
	FeatureGate featuregate.FeatureGate
}

// SlackUserLinkCommand resolves Slack identities to profiles.
type SlackUserLinkCommand struct {
	userInfoCommand
	gate featuregate.FeatureGate
}

// NewSlackUserLinkCommand constructs the link handler.
func NewSlackUserLinkCommand(cfg SlackUserLinkConfig) *SlackUserLinkCommand {
	return &SlackUserLinkCommand{
		userInfoCommand: newUserInfoCommand(cfg.UserInfoCommandConfig),
		gate:            cfg.FeatureGate,
	}
}

var _ gocommand.Commander[SlackUserLinkInput] = (*SlackUserLinkCommand)(nil)

// Execute finds or creates the profile bound to the Slack id and refreshes
// its names and email.
func (c *SlackUserLinkCommand) Execute(ctx context.Context, input SlackUserLinkInput) error {
	if c.repo == nil {
		return types.ErrMissingUserInfoRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	enabled, err := featureEnabled(ctx, c.gate, featureUserInfoSlackLink, uuid.Nil)
	if err != nil {
		return err
	}
	if !enabled {
		return ErrSlackLinkDisabled
	}

	external := types.ExternalUser{
		ID:    strings.TrimSpace(input.External.ID),
		Email: strings.TrimSpace(input.External.Email),
	}
	stub, err := c.repo.FindOrNewBySlackID(ctx, external.ID)
	if err != nil {
		return err
	}
	created := stub.IsNew()
	saved, err := c.repo.SaveExternalProfile(ctx, stub, input.FirstName, input.LastName, external)
	if err != nil {
		return err
	}

	actor := resolveActor(input.Actor, saved.ID)
	record := userInfoActivity("user_info.slack.linked", "slack", *saved, actor, now(c.clock), map[string]any{
		"slack_user_id": external.ID,
		"email":         external.Email,
		"created":       created,
	})
	publish(ctx, c.pub, ActionSlackUserLinked, *saved, record)

	if input.Result != nil {
		*input.Result = SlackUserLinkResult{UserInfo: saved, Created: created}
	}
	return nil
}
