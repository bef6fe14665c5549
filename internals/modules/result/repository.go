package result

import (
	"context"
	"fmt"
	"pulsewatch/pkg/db"
	"pulsewatch/pkg/utils"
	"time"

	"github.com/rs/zerolog"
)

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

func (r *Repository) Insert(ctx context.Context, c CheckResult) (CheckResult, error) {
	const op string = "repo.check_result.insert"

	row, err := r.querier.InsertCheckResult(ctx, db.InsertCheckResultParams{
		EndpointID:     utils.ToPgUUID(c.EndpointID),
		OrganizationID: utils.ToPgUUID(c.OrganizationID),
		UserID:         utils.ToPgUUID(c.UserID),
		Outcome:        string(c.Outcome),
		StatusCode:     utils.ToPgInt4Ptr(c.StatusCode),
		LatencyMs:      c.LatencyMs,
		ResponseSize:   utils.ToPgInt8Ptr(c.ResponseSize),
		ErrorMessage:   utils.ToPgTextPtr(c.ErrorMessage),
		CheckedAt:      utils.ToPgTimestamptz(c.CheckedAt),
	})
	if err != nil {
		return CheckResult{}, utils.WrapRepoError(op, err, false, r.logger)
	}

	return CheckResult{
		ID:             utils.FromPgUUID(row.ID),
		EndpointID:     utils.FromPgUUID(row.EndpointID),
		OrganizationID: utils.FromPgUUID(row.OrganizationID),
		UserID:         utils.FromPgUUID(row.UserID),
		Outcome:        Outcome(row.Outcome),
		StatusCode:     utils.FromPgInt4Ptr(row.StatusCode),
		LatencyMs:      row.LatencyMs,
		ResponseSize:   utils.FromPgInt8Ptr(row.ResponseSize),
		ErrorMessage:   utils.FromPgTextPtr(row.ErrorMessage),
		CheckedAt:      utils.FromPgTimestamptz(row.CheckedAt),
	}, nil
}

func (r *Repository) Counts(ctx context.Context, scope Scope, from, to time.Time) (Counts, error) {
	const op string = "repo.check_result.counts"

	id := utils.ToPgUUID(scope.ID)
	fromTs, toTs := utils.ToPgTimestamptz(from), utils.ToPgTimestamptz(to)

	var (
		c   Counts
		err error
	)
	switch scope.Kind {
	case ScopeEndpoint:
		var row db.GetEndpointCheckStatsRow
		row, err = r.querier.GetEndpointCheckStats(ctx, db.GetEndpointCheckStatsParams{EndpointID: id, FromTime: fromTs, ToTime: toTs})
		c = Counts{Total: row.Total, Successful: row.Successful, AvgLatency: row.AvgLatency}
	case ScopeUser:
		var row db.GetUserCheckStatsRow
		row, err = r.querier.GetUserCheckStats(ctx, db.GetUserCheckStatsParams{UserID: id, FromTime: fromTs, ToTime: toTs})
		c = Counts{Total: row.Total, Successful: row.Successful, AvgLatency: row.AvgLatency}
	case ScopeOrganization:
		var row db.GetOrganizationCheckStatsRow
		row, err = r.querier.GetOrganizationCheckStats(ctx, db.GetOrganizationCheckStatsParams{OrganizationID: id, FromTime: fromTs, ToTime: toTs})
		c = Counts{Total: row.Total, Successful: row.Successful, AvgLatency: row.AvgLatency}
	default:
		return Counts{}, fmt.Errorf("%s: unknown scope %q", op, scope.Kind)
	}
	if err != nil {
		return Counts{}, utils.WrapRepoError(op, err, false, r.logger)
	}
	return c, nil
}

func (r *Repository) DeleteForTierBefore(ctx context.Context, tier string, cutoff time.Time) (int64, error) {
	const op string = "repo.check_result.delete_for_tier"

	n, err := r.querier.DeleteCheckResultsForTierBefore(ctx, db.DeleteCheckResultsForTierBeforeParams{
		PlanTier: tier,
		Cutoff:   utils.ToPgTimestamptz(cutoff),
	})
	if err != nil {
		return 0, utils.WrapRepoError(op, err, false, r.logger)
	}
	return n, nil
}

func (r *Repository) DeleteOutsideTiersBefore(ctx context.Context, tiers []string, cutoff time.Time) (int64, error) {
	const op string = "repo.check_result.delete_outside_tiers"

	n, err := r.querier.DeleteCheckResultsOutsideTiersBefore(ctx, db.DeleteCheckResultsOutsideTiersBeforeParams{
		Tiers:  tiers,
		Cutoff: utils.ToPgTimestamptz(cutoff),
	})
	if err != nil {
		return 0, utils.WrapRepoError(op, err, false, r.logger)
	}
	return n, nil
}
