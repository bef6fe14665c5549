package endpoint

import (
	"context"
	"sync"
	"testing"

	"pulsewatch/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu        sync.Mutex
	endpoints map[uuid.UUID]Endpoint
	lookups   int
}

func newMemStore(eps ...Endpoint) *memStore {
	m := &memStore{endpoints: map[uuid.UUID]Endpoint{}}
	for _, e := range eps {
		m.endpoints[e.ID] = e
	}
	return m
}

func (m *memStore) ListActive(context.Context) ([]Endpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Endpoint
	for _, e := range m.endpoints {
		if e.Active {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, orgID, id uuid.UUID) (Endpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	e, ok := m.endpoints[id]
	if !ok || e.OrganizationID != orgID {
		return Endpoint{}, pgx.ErrNoRows
	}
	return e, nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (Endpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	e, ok := m.endpoints[id]
	if !ok {
		return Endpoint{}, pgx.ErrNoRows
	}
	return e, nil
}

type memCache struct {
	items map[uuid.UUID]Endpoint
}

func (c *memCache) GetEndpoint(_ context.Context, id uuid.UUID) (Endpoint, bool) {
	e, ok := c.items[id]
	return e, ok
}

func (c *memCache) SetEndpoint(_ context.Context, e Endpoint) error {
	c.items[e.ID] = e
	return nil
}

func (c *memCache) DelEndpoint(_ context.Context, id uuid.UUID) error {
	delete(c.items, id)
	return nil
}

func newTestService(store Store, cache Cache) *Service {
	log := zerolog.Nop()
	return NewService(store, cache, &log)
}

func TestGetInternal_ReadThroughCache(t *testing.T) {
	e := Endpoint{ID: uuid.New(), OrganizationID: uuid.New(), Name: "api", Active: true}
	store := newMemStore(e)
	cache := &memCache{items: map[uuid.UUID]Endpoint{}}
	svc := newTestService(store, cache)

	got, err := svc.GetInternal(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	_, err = svc.GetInternal(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.lookups, "second read should be served from cache")

	require.NoError(t, svc.Invalidate(context.Background(), e.ID))
	_, err = svc.GetInternal(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, store.lookups)
}

func TestGet_ScopedToOrganization(t *testing.T) {
	e := Endpoint{ID: uuid.New(), OrganizationID: uuid.New(), Active: true}
	cache := &memCache{items: map[uuid.UUID]Endpoint{e.ID: e}}
	svc := newTestService(newMemStore(e), cache)

	_, err := svc.Get(context.Background(), uuid.New(), e.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.NotFound))

	got, err := svc.Get(context.Background(), e.OrganizationID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
}

func TestGetInternal_NotFound(t *testing.T) {
	svc := newTestService(newMemStore(), nil)

	_, err := svc.GetInternal(context.Background(), uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.NotFound))
}

func TestListActive_FiltersInactive(t *testing.T) {
	store := newMemStore(
		Endpoint{ID: uuid.New(), Active: true},
		Endpoint{ID: uuid.New(), Active: false},
	)
	svc := newTestService(store, nil)

	eps, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, eps, 1)
}
