package service

import (
	"context"
	"time"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-userinfo/command"
	"github.com/goliatone/go-userinfo/pkg/types"
	"github.com/goliatone/go-userinfo/query"
)

// Service is the entry point for go-userinfo. It wires repositories, hooks,
// and command/query facades supplied by the host application.
type Service struct {
	cfg          Config
	commands     Commands
	queries      Queries
	activityRepo types.ActivityRepository
}

// Commands exposes the service command handlers.
type Commands struct {
	UserInfoCreate      *command.UserInfoCreateCommand
	UserInfoUpdate      *command.UserInfoUpdateCommand
	UserInfoDelete      *command.UserInfoDeleteCommand
	AccessRightsGrant   *command.AccessRightsGrantCommand
	SlackUserLink       *command.SlackUserLinkCommand
	PasswordResetNotify *command.PasswordResetNotifyCommand
}

// Queries exposes read-model helpers.
type Queries struct {
	Search         *query.UserInfoSearchQuery
	Lookup         *query.UserInfoLookupQuery
	StoreRoster    *query.StoreRosterQuery
	Subordinates   *query.SubordinatesQuery
	Emails         *query.UserInfoEmailsQuery
	AdminUserInfos *query.AdminUserInfosQuery
	ActivityFeed   *query.ActivityFeedQuery
}

// Config captures all required dependencies so callers can provide their own
// instances (bun.DB backed repositories, hooks, notifiers, etc.).
type Config struct {
	UserInfoRepository      types.UserInfoRepository
	ActivityRepository      types.ActivityRepository
	ActivitySink            types.ActivitySink
	PasswordResetRepository types.PasswordResetRepository
	SecureLinkManager       types.SecureLinkManager
	ResetNotifier           types.ResetNotifier
	FeatureGate             featuregate.FeatureGate
	Hooks                   types.Hooks
	Clock                   types.Clock
	IDGenerator             types.IDGenerator
	Logger                  types.Logger
	PasswordResetTTL        time.Duration
	PasswordResetRoute      string
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) *Service {
	norm := normalizeConfig(cfg)
	actRepo := norm.ActivityRepository
	if actRepo == nil {
		if sinkRepo, ok := norm.ActivitySink.(types.ActivityRepository); ok {
			actRepo = sinkRepo
		}
	}
	s := &Service{
		cfg:          norm,
		activityRepo: actRepo,
	}
	s.commands = s.buildCommands()
	s.queries = s.buildQueries()
	return s
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = types.UUIDGenerator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.ActivitySink == nil {
		if sink, ok := cfg.ActivityRepository.(types.ActivitySink); ok {
			cfg.ActivitySink = sink
		}
	}
	return cfg
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// Ready reports whether the service has the required dependencies wired in.
// Password reset dependencies are optional; the notify command reports them
// when they are missing.
func (s *Service) Ready() bool {
	return s != nil &&
		s.cfg.UserInfoRepository != nil &&
		s.cfg.ActivitySink != nil &&
		s.activityRepo != nil
}

// HealthCheck surfaces missing configuration so upstream transports can fail
// fast during boot.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s == nil {
		return types.ErrServiceNotReady
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.cfg.UserInfoRepository == nil {
		return types.ErrMissingUserInfoRepository
	}
	if s.activityRepo == nil || s.cfg.ActivitySink == nil {
		return types.ErrMissingActivityRepository
	}
	if !s.Ready() {
		return types.ErrServiceNotReady
	}
	return nil
}

// ActivitySink returns the configured sink so transports can emit activity
// records for auxiliary workflows.
func (s *Service) ActivitySink() types.ActivitySink {
	if s == nil {
		return nil
	}
	return s.cfg.ActivitySink
}

func (s *Service) buildCommands() Commands {
	base := command.UserInfoCommandConfig{
		Repository: s.cfg.UserInfoRepository,
		Clock:      s.cfg.Clock,
		Activity:   s.cfg.ActivitySink,
		Hooks:      s.cfg.Hooks,
		Logger:     s.cfg.Logger,
	}
	return Commands{
		UserInfoCreate:    command.NewUserInfoCreateCommand(base),
		UserInfoUpdate:    command.NewUserInfoUpdateCommand(base),
		UserInfoDelete:    command.NewUserInfoDeleteCommand(base),
		AccessRightsGrant: command.NewAccessRightsGrantCommand(base),
		SlackUserLink: command.NewSlackUserLinkCommand(command.SlackUserLinkConfig{
			UserInfoCommandConfig: base,
			FeatureGate:           s.cfg.FeatureGate,
		}),
		PasswordResetNotify: command.NewPasswordResetNotifyCommand(command.PasswordResetNotifyConfig{
			Repository:      s.cfg.UserInfoRepository,
			ResetRepository: s.cfg.PasswordResetRepository,
			SecureLinks:     s.cfg.SecureLinkManager,
			Notifier:        s.cfg.ResetNotifier,
			FeatureGate:     s.cfg.FeatureGate,
			Clock:           s.cfg.Clock,
			IDGen:           s.cfg.IDGenerator,
			Activity:        s.cfg.ActivitySink,
			Hooks:           s.cfg.Hooks,
			Logger:          s.cfg.Logger,
			TokenTTL:        s.cfg.PasswordResetTTL,
			Route:           s.cfg.PasswordResetRoute,
		}),
	}
}

func (s *Service) buildQueries() Queries {
	repo := s.cfg.UserInfoRepository
	return Queries{
		Search:         query.NewUserInfoSearchQuery(repo, s.cfg.Logger),
		Lookup:         query.NewUserInfoLookupQuery(repo),
		StoreRoster:    query.NewStoreRosterQuery(repo),
		Subordinates:   query.NewSubordinatesQuery(repo),
		Emails:         query.NewUserInfoEmailsQuery(repo),
		AdminUserInfos: query.NewAdminUserInfosQuery(repo),
		ActivityFeed:   query.NewActivityFeedQuery(s.activityRepo),
	}
}
