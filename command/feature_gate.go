package command

import (
	"context"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/google/uuid"
)

const (
	featureUserInfoPasswordReset = "userinfo.password_reset"
	featureUserInfoSlackLink     = "userinfo.slack_link"
)

func featureEnabled(ctx context.Context, gate featuregate.FeatureGate, key string, userInfoID uuid.UUID) (bool, error) {
	if gate == nil {
		return true, nil
	}
	if userInfoID == uuid.Nil {
		return gate.Enabled(ctx, key)
	}
	return gate.Enabled(ctx, key, featuregate.WithScopeChain(userInfoScopeChain(userInfoID)))
}

// userInfoScopeChain resolves overrides for the profile first, then system wide.
func userInfoScopeChain(userInfoID uuid.UUID) featuregate.ScopeChain {
	return featuregate.ScopeChain{
		{Kind: featuregate.ScopeUser, ID: userInfoID.String()},
		{Kind: featuregate.ScopeSystem},
	}
}
