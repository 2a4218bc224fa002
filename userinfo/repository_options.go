package userinfo

// DefaultUpdatePositionCode is the position_code written by Update. Create
// always writes 0; the asymmetry is long-standing behavior that callers rely on.
const DefaultUpdatePositionCode = 100

// RepositoryOption configures user info repository construction.
type RepositoryOption func(*RepositoryOptions)

// RepositoryOptions captures optional behavior for user info persistence.
type RepositoryOptions struct {
	UpdatePositionCode *int
	DefaultPageSize    int
	MaxPageSize        int
}

// WithUpdatePositionCode overrides the position_code written by Update.
func WithUpdatePositionCode(code int) RepositoryOption {
	return func(opts *RepositoryOptions) {
		if opts == nil || code < 0 {
			return
		}
		opts.UpdatePositionCode = &code
	}
}

// WithPageSize bounds Search pagination.
func WithPageSize(def, max int) RepositoryOption {
	return func(opts *RepositoryOptions) {
		if opts == nil {
			return
		}
		opts.DefaultPageSize = def
		opts.MaxPageSize = max
	}
}

func applyRepositoryOptions(options []RepositoryOption) RepositoryOptions {
	var opts RepositoryOptions
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&opts)
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 50
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 200
	}
	if opts.DefaultPageSize > opts.MaxPageSize {
		opts.DefaultPageSize = opts.MaxPageSize
	}
	return opts
}

func (o RepositoryOptions) updatePositionCode() int {
	if o.UpdatePositionCode == nil {
		return DefaultUpdatePositionCode
	}
	return *o.UpdatePositionCode
}
