package userinfo

import "github.com/goliatone/go-userinfo/service"

// Re-export the service package entry point so consumers can do
// `userinfo.New(...)` without importing internal wiring helpers.
type (
	Service  = service.Service
	Config   = service.Config
	Commands = service.Commands
	Queries  = service.Queries
)

// New constructs the go-userinfo runtime using the provided configuration.
func New(cfg Config) *Service {
	return service.New(cfg)
}
