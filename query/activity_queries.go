package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-userinfo/pkg/types"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 200
)

// ActivityFeedQuery renders paginated activity feeds for profile timelines.
type ActivityFeedQuery struct {
	repo types.ActivityRepository
}

// NewActivityFeedQuery constructs the feed query helper.
func NewActivityFeedQuery(repo types.ActivityRepository) *ActivityFeedQuery {
	return &ActivityFeedQuery{repo: repo}
}

var _ gocommand.Querier[types.ActivityFilter, types.ActivityPage] = (*ActivityFeedQuery)(nil)

// Query fetches a page of activity logs via the injected repository.
func (q *ActivityFeedQuery) Query(ctx context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	if q.repo == nil {
		return types.ActivityPage{}, types.ErrMissingActivityRepository
	}
	return q.repo.ListActivity(ctx, normalizeFeedFilter(filter))
}

func normalizeFeedFilter(filter types.ActivityFilter) types.ActivityFilter {
	out := filter
	if out.Pagination.Limit <= 0 {
		out.Pagination.Limit = defaultFeedLimit
	}
	if out.Pagination.Limit > maxFeedLimit {
		out.Pagination.Limit = maxFeedLimit
	}
	if out.Pagination.Offset < 0 {
		out.Pagination.Offset = 0
	}
	return out
}
