package endpoint

import (
	"context"

	"github.com/google/uuid"
)

type Cache interface {
	GetEndpoint(ctx context.Context, id uuid.UUID) (Endpoint, bool)
	SetEndpoint(ctx context.Context, e Endpoint) error
	DelEndpoint(ctx context.Context, id uuid.UUID) error
}

// NoopCache is used when no shared cache is configured.
type NoopCache struct{}

func (NoopCache) GetEndpoint(context.Context, uuid.UUID) (Endpoint, bool) { return Endpoint{}, false }
func (NoopCache) SetEndpoint(context.Context, Endpoint) error              { return nil }
func (NoopCache) DelEndpoint(context.Context, uuid.UUID) error             { return nil }
