package securelink

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit/securelink"
	"github.com/goliatone/go-userinfo/pkg/types"
	"github.com/google/uuid"
)

// ActionPasswordReset is the action embedded in password reset tokens.
const ActionPasswordReset = "password_reset"

var (
	// ErrManagerNotConfigured indicates the adapter has no go-urlkit manager.
	ErrManagerNotConfigured = errors.New("go-userinfo: securelink manager not configured")
	// ErrInvalidResetToken indicates a token that does not carry reset claims.
	ErrInvalidResetToken = errors.New("go-userinfo: invalid password reset token")
)

// Manager adapts go-urlkit securelink managers to types.SecureLinkManager and
// decodes the password reset claims issued by the notify command.
type Manager struct {
	inner urlkit.Manager
}

// NewManager builds a securelink adapter using the configurator interface.
func NewManager(cfg types.SecureLinkConfigurator) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("go-userinfo: securelink configurator required")
	}
	inner, err := urlkit.NewManagerFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Manager{inner: inner}, nil
}

// WrapManager wraps an existing go-urlkit manager.
func WrapManager(inner urlkit.Manager) *Manager {
	if inner == nil {
		return nil
	}
	return &Manager{inner: inner}
}

// Generate produces a signed secure link using the configured manager.
func (m *Manager) Generate(route string, payloads ...types.SecureLinkPayload) (string, error) {
	if m == nil || m.inner == nil {
		return "", ErrManagerNotConfigured
	}
	return m.inner.Generate(route, toPayloads(payloads)...)
}

// Validate checks a secure link token and returns the decoded payload.
func (m *Manager) Validate(token string) (map[string]any, error) {
	if m == nil || m.inner == nil {
		return nil, ErrManagerNotConfigured
	}
	return m.inner.Validate(token)
}

// GetAndValidate extracts a token from the provided function and validates it.
func (m *Manager) GetAndValidate(fn func(string) string) (types.SecureLinkPayload, error) {
	if m == nil || m.inner == nil {
		return nil, ErrManagerNotConfigured
	}
	payload, err := m.inner.GetAndValidate(fn)
	if err != nil {
		return nil, err
	}
	return types.SecureLinkPayload(payload), nil
}

// GetExpiration exposes the manager's expiration duration.
func (m *Manager) GetExpiration() time.Duration {
	if m == nil || m.inner == nil {
		return 0
	}
	return m.inner.GetExpiration()
}

// ValidateReset verifies a reset token and extracts its claims.
func (m *Manager) ValidateReset(token string) (ResetClaims, error) {
	payload, err := m.Validate(strings.TrimSpace(token))
	if err != nil {
		return ResetClaims{}, err
	}
	return ParseResetClaims(payload)
}

// ResetClaims are the fields a password reset token carries.
type ResetClaims struct {
	UserInfoID uuid.UUID
	Email      string
	JTI        string
	ExpiresAt  time.Time
}

// ParseResetClaims decodes a validated payload. The action must be
// password_reset and both user_info_id and jti must be present.
func ParseResetClaims(payload map[string]any) (ResetClaims, error) {
	if action, _ := payload["action"].(string); action != ActionPasswordReset {
		return ResetClaims{}, fmt.Errorf("%w: unexpected action %q", ErrInvalidResetToken, action)
	}
	rawID, _ := payload["user_info_id"].(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return ResetClaims{}, fmt.Errorf("%w: user_info_id", ErrInvalidResetToken)
	}
	jti, _ := payload["jti"].(string)
	if strings.TrimSpace(jti) == "" {
		return ResetClaims{}, fmt.Errorf("%w: jti", ErrInvalidResetToken)
	}
	claims := ResetClaims{UserInfoID: id, JTI: jti}
	claims.Email, _ = payload["email"].(string)
	if raw, ok := payload["expires_at"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			claims.ExpiresAt = parsed
		}
	}
	return claims, nil
}

func toPayloads(payloads []types.SecureLinkPayload) []urlkit.Payload {
	if len(payloads) == 0 {
		return nil
	}
	out := make([]urlkit.Payload, 0, len(payloads))
	for _, payload := range payloads {
		out = append(out, urlkit.Payload(payload))
	}
	return out
}
