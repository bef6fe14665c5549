package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"pulsewatch/internals/modules/endpoint"
	"time"

	"github.com/google/uuid"
)

const endpointCacheTTL = 5 * time.Minute

func endpointKey(id uuid.UUID) string {
	return fmt.Sprintf("endpoint:%v", id.String())
}

func (c *Client) SetEndpoint(ctx context.Context, e endpoint.Endpoint) error {
	jsonE, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, endpointKey(e.ID), jsonE, endpointCacheTTL).Err()
}

func (c *Client) GetEndpoint(ctx context.Context, id uuid.UUID) (endpoint.Endpoint, bool) {
	res, err := c.rdb.Get(ctx, endpointKey(id)).Bytes()
	if err != nil {
		return endpoint.Endpoint{}, false
	}
	var e endpoint.Endpoint
	if err := json.Unmarshal(res, &e); err != nil {
		return endpoint.Endpoint{}, false
	}

	return e, true
}

func (c *Client) DelEndpoint(ctx context.Context, id uuid.UUID) error {
	return c.rdb.Del(ctx, endpointKey(id)).Err()
}
