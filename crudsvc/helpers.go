package crudsvc

import (
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-crud"
	"github.com/google/uuid"
)

const queryDateLayout = "2006-01-02"

func queryUUID(ctx crud.Context, key string) uuid.UUID {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func queryInt(ctx crud.Context, key string, def int) int {
	if value := ctx.Query(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return def
}

// queryTime accepts plain dates as well as RFC3339 timestamps.
func queryTime(ctx crud.Context, key string) *time.Time {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return nil
	}
	for _, layout := range []string{queryDateLayout, time.RFC3339} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed
		}
	}
	return nil
}
