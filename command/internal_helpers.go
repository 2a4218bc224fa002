package command

import (
	"context"
	"time"

	"github.com/goliatone/go-userinfo/pkg/types"
	"github.com/google/uuid"
)

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}

func safeIDGen(idGen types.IDGenerator) types.IDGenerator {
	if idGen != nil {
		return idGen
	}
	return types.UUIDGenerator{}
}

func now(clock types.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now()
}

func resolveActor(actor types.ActorRef, userInfoID uuid.UUID) types.ActorRef {
	if actor.ID != uuid.Nil {
		return actor
	}
	return types.ActorRef{ID: userInfoID, Type: "user_info"}
}

func userInfoActivity(verb, channel string, info types.UserInfo, actor types.ActorRef, occurredAt time.Time, data map[string]any) types.ActivityRecord {
	return types.ActivityRecord{
		UserInfoID: info.ID,
		ActorID:    actor.ID,
		Verb:       verb,
		ObjectType: "user_info",
		ObjectID:   info.ID.String(),
		Channel:    channel,
		Data:       data,
		OccurredAt: occurredAt,
	}
}

func logActivity(ctx context.Context, sink types.ActivitySink, logger types.Logger, record types.ActivityRecord) {
	if sink == nil {
		return
	}
	if err := sink.Log(ctx, record); err != nil && logger != nil {
		logger.Error("activity log failed", err, "verb", record.Verb, "user_info_id", record.UserInfoID)
	}
}

func emitActivityHook(ctx context.Context, hooks types.Hooks, record types.ActivityRecord) {
	if hooks.AfterActivity == nil {
		return
	}
	hooks.AfterActivity(ctx, record)
}

func emitUserInfoHook(ctx context.Context, hooks types.Hooks, event types.UserInfoEvent) {
	if hooks.AfterUserInfoChange == nil {
		return
	}
	hooks.AfterUserInfoChange(ctx, event)
}

// publish logs the activity record, then fires hooks.
func publish(ctx context.Context, cfg publisher, action string, info types.UserInfo, record types.ActivityRecord) {
	logActivity(ctx, cfg.sink, cfg.logger, record)
	emitActivityHook(ctx, cfg.hooks, record)
	emitUserInfoHook(ctx, cfg.hooks, types.UserInfoEvent{
		UserInfoID: info.ID,
		ActorID:    record.ActorID,
		Action:     action,
		OccurredAt: record.OccurredAt,
		UserInfo:   info,
	})
}

type publisher struct {
	sink   types.ActivitySink
	hooks  types.Hooks
	logger types.Logger
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
