package plan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type OrganizationSource interface {
	GetPlanTier(ctx context.Context, orgID uuid.UUID) (string, error)
	CountActiveEndpoints(ctx context.Context, orgID uuid.UUID) (int64, error)
	CountActiveAlerts(ctx context.Context, orgID uuid.UUID) (int64, error)
}

// Service resolves an organization's tier and current usage before running
// the pure validators.
type Service struct {
	orgs    OrganizationSource
	limiter *RequestLimiter
	logger  *zerolog.Logger
}

func NewService(orgs OrganizationSource, limiter *RequestLimiter, logger *zerolog.Logger) *Service {
	return &Service{
		orgs:    orgs,
		limiter: limiter,
		logger:  logger,
	}
}

func (s *Service) TierOf(ctx context.Context, orgID uuid.UUID) (Tier, error) {
	raw, err := s.orgs.GetPlanTier(ctx, orgID)
	if err != nil {
		return "", err
	}
	tier, ok := ParseTier(raw)
	if !ok {
		s.logger.Warn().Str("org_id", orgID.String()).Str("tier", raw).Msg("organization has unknown plan tier")
		return Tier(raw), nil
	}
	return tier, nil
}

func (s *Service) ValidateEndpoint(ctx context.Context, orgID uuid.UUID, interval time.Duration, active, wasActive bool) error {
	tier, err := s.TierOf(ctx, orgID)
	if err != nil {
		return err
	}
	count, err := s.orgs.CountActiveEndpoints(ctx, orgID)
	if err != nil {
		return err
	}
	return ValidateEndpoint(tier, EndpointChange{
		Interval:    interval,
		Active:      active,
		WasActive:   wasActive,
		ActiveCount: count,
	})
}

func (s *Service) ValidateAlert(ctx context.Context, orgID uuid.UUID, active, wasActive bool) error {
	tier, err := s.TierOf(ctx, orgID)
	if err != nil {
		return err
	}
	count, err := s.orgs.CountActiveAlerts(ctx, orgID)
	if err != nil {
		return err
	}
	return ValidateAlert(tier, AlertChange{
		Active:      active,
		WasActive:   wasActive,
		ActiveCount: count,
	})
}

// AllowRequest applies the organization's request-rate ceiling.
func (s *Service) AllowRequest(ctx context.Context, orgID uuid.UUID) (bool, error) {
	tier, err := s.TierOf(ctx, orgID)
	if err != nil {
		return false, err
	}
	return s.limiter.Allow(orgID, tier), nil
}
