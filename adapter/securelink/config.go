package securelink

import "time"

// Config is a static types.SecureLinkConfigurator, typically filled from the
// host's configuration file.
type Config struct {
	SigningKey string            `json:"signing_key"`
	Expiration time.Duration     `json:"expiration"`
	BaseURL    string            `json:"base_url"`
	QueryKey   string            `json:"query_key"`
	Routes     map[string]string `json:"routes"`
	AsQuery    bool              `json:"as_query"`
}

const (
	defaultQueryKey   = "token"
	defaultExpiration = time.Hour
)

func (c Config) GetSigningKey() string { return c.SigningKey }

func (c Config) GetExpiration() time.Duration {
	if c.Expiration <= 0 {
		return defaultExpiration
	}
	return c.Expiration
}

func (c Config) GetBaseURL() string { return c.BaseURL }

func (c Config) GetQueryKey() string {
	if c.QueryKey == "" {
		return defaultQueryKey
	}
	return c.QueryKey
}

// GetRoutes always includes the password reset route.
func (c Config) GetRoutes() map[string]string {
	routes := make(map[string]string, len(c.Routes)+1)
	routes[ActionPasswordReset] = "/password/reset"
	for name, path := range c.Routes {
		routes[name] = path
	}
	return routes
}

func (c Config) GetAsQuery() bool { return c.AsQuery }
