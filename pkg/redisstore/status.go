package redisstore

import (
	"context"
	"errors"
	"fmt"
	"pulsewatch/internals/modules/result"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Latest check per endpoint, overwritten on every probe.
func statusKey(endpointID uuid.UUID) string {
	return fmt.Sprintf("endpoint:status:%v", endpointID)
}

func (c *Client) StoreStatus(ctx context.Context, r result.CheckResult) error {
	fields := map[string]any{
		"outcome":    string(r.Outcome),
		"latency_ms": r.LatencyMs,
		"checked_at": r.CheckedAt.UnixMilli(),
	}
	if r.StatusCode != nil {
		fields["status_code"] = *r.StatusCode
	}
	if r.ErrorMessage != nil {
		fields["error_message"] = *r.ErrorMessage
	}

	key := statusKey(r.EndpointID)
	return retry(ctx, 2, func() error {
		pipe := c.rdb.TxPipeline()
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		_, err := pipe.Exec(ctx)
		return err
	})
}

// GetStatus returns the last stored snapshot, or ok=false when none exists.
func (c *Client) GetStatus(ctx context.Context, endpointID uuid.UUID) (result.Status, bool, error) {
	res, err := c.rdb.HGetAll(ctx, statusKey(endpointID)).Result()
	if errors.Is(err, redis.Nil) || (err == nil && len(res) == 0) {
		return result.Status{}, false, nil
	}
	if err != nil {
		return result.Status{}, false, err
	}

	st := result.Status{
		EndpointID: endpointID,
		Outcome:    result.Outcome(res["outcome"]),
	}
	if v, err := strconv.ParseInt(res["latency_ms"], 10, 64); err == nil {
		st.LatencyMs = v
	}
	if v, err := strconv.ParseInt(res["checked_at"], 10, 64); err == nil {
		st.CheckedAt = time.UnixMilli(v).UTC()
	}
	if v, ok := res["status_code"]; ok {
		if code, err := strconv.Atoi(v); err == nil {
			st.StatusCode = &code
		}
	}
	if v, ok := res["error_message"]; ok {
		st.ErrorMessage = &v
	}
	return st, true, nil
}

func (c *Client) DelStatus(ctx context.Context, endpointID uuid.UUID) error {
	return c.rdb.Del(ctx, statusKey(endpointID)).Err()
}
