package organization

import (
	"context"
	"pulsewatch/pkg/db"
	"pulsewatch/pkg/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repository reads the organization facts the engine needs: its plan tier
// and how much of the plan it currently uses.
type Repository struct {
	querier *db.Queries
	logger  *zerolog.Logger
}

func NewRepository(dbExecutor db.DBTX, logger *zerolog.Logger) *Repository {
	return &Repository{
		querier: db.New(dbExecutor),
		logger:  logger,
	}
}

func (r *Repository) GetPlanTier(ctx context.Context, orgID uuid.UUID) (string, error) {
	const op string = "repo.organization.get_plan_tier"

	tier, err := r.querier.GetOrganizationPlanTier(ctx, utils.ToPgUUID(orgID))
	if err != nil {
		return "", utils.WrapRepoError(op, err, true, r.logger)
	}
	return tier, nil
}

func (r *Repository) CountActiveEndpoints(ctx context.Context, orgID uuid.UUID) (int64, error) {
	const op string = "repo.organization.count_active_endpoints"

	n, err := r.querier.CountActiveEndpoints(ctx, utils.ToPgUUID(orgID))
	if err != nil {
		return 0, utils.WrapRepoError(op, err, false, r.logger)
	}
	return n, nil
}

func (r *Repository) CountActiveAlerts(ctx context.Context, orgID uuid.UUID) (int64, error) {
	const op string = "repo.organization.count_active_alerts"

	n, err := r.querier.CountActiveAlertRules(ctx, utils.ToPgUUID(orgID))
	if err != nil {
		return 0, utils.WrapRepoError(op, err, false, r.logger)
	}
	return n, nil
}
