package command

import (
	"strings"
	"time"

	"github.com/goliatone/go-userinfo/pkg/types"
	"github.com/google/uuid"
)

const (
	SecureLinkActionPasswordReset = "password_reset"
	SecureLinkRoutePasswordReset  = "password_reset"
)

const secureLinkSourceDefault = "go-userinfo"

func buildSecureLinkPayload(action string, info types.UserInfo, jti string, issuedAt, expiresAt time.Time, source string) types.SecureLinkPayload {
	payload := types.SecureLinkPayload{
		"action": action,
		"jti":    strings.TrimSpace(jti),
	}
	if info.ID != uuid.Nil {
		payload["user_info_id"] = info.ID.String()
	}
	if email := strings.TrimSpace(info.Email); email != "" {
		payload["email"] = email
	}
	if !issuedAt.IsZero() {
		payload["issued_at"] = issuedAt.Format(time.RFC3339Nano)
	}
	if !expiresAt.IsZero() {
		payload["expires_at"] = expiresAt.Format(time.RFC3339Nano)
	}
	if strings.TrimSpace(source) != "" {
		payload["source"] = strings.TrimSpace(source)
	}
	return payload
}
