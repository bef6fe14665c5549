package endpoint

import (
	"context"
	"pulsewatch/pkg/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Store interface {
	ListActive(ctx context.Context) ([]Endpoint, error)
	Get(ctx context.Context, orgID, endpointID uuid.UUID) (Endpoint, error)
	GetByID(ctx context.Context, endpointID uuid.UUID) (Endpoint, error)
}

type Service struct {
	repo   Store
	cache  Cache
	logger *zerolog.Logger
}

func NewService(repo Store, cache Cache, logger *zerolog.Logger) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *Service) ListActive(ctx context.Context) ([]Endpoint, error) {
	const op string = "service.endpoint.list_active"

	endpoints, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, s.logger)
	}
	return endpoints, nil
}

// Get returns the endpoint only if it belongs to orgID.
func (s *Service) Get(ctx context.Context, orgID, endpointID uuid.UUID) (Endpoint, error) {
	const op string = "service.endpoint.get"

	if e, ok := s.cache.GetEndpoint(ctx, endpointID); ok && e.OrganizationID == orgID {
		return e, nil
	}

	e, err := s.repo.Get(ctx, orgID, endpointID)
	if err != nil {
		return Endpoint{}, utils.WrapRepoError(op, err, true, s.logger)
	}
	_ = s.cache.SetEndpoint(ctx, e)

	return e, nil
}

// GetInternal is the unscoped lookup used by the check pipeline.
func (s *Service) GetInternal(ctx context.Context, endpointID uuid.UUID) (Endpoint, error) {
	const op string = "service.endpoint.get_internal"

	if e, ok := s.cache.GetEndpoint(ctx, endpointID); ok {
		return e, nil
	}

	e, err := s.repo.GetByID(ctx, endpointID)
	if err != nil {
		return Endpoint{}, utils.WrapRepoError(op, err, true, s.logger)
	}
	if err := s.cache.SetEndpoint(ctx, e); err != nil {
		s.logger.Debug().Err(err).Str("endpoint_id", endpointID.String()).Msg("endpoint cache write failed")
	}

	return e, nil
}

func (s *Service) Invalidate(ctx context.Context, endpointID uuid.UUID) error {
	return s.cache.DelEndpoint(ctx, endpointID)
}
