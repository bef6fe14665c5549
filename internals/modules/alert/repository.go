package alert

import (
	"context"
	"pulsewatch/pkg/db"
	"pulsewatch/pkg/utils"
	"time"

	"github.com/google/uuid"
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

func (r *Repository) ListActive(ctx context.Context, endpointID uuid.UUID) ([]Rule, error) {
	const op string = "repo.alert_rule.list_active"

	rows, err := r.querier.ListActiveAlertRules(ctx, utils.ToPgUUID(endpointID))
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}

	rules := make([]Rule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, Rule{
			ID:            utils.FromPgUUID(row.ID),
			EndpointID:    utils.FromPgUUID(row.EndpointID),
			Name:          row.Name,
			Condition:     Condition(row.Condition),
			Threshold:     row.Threshold,
			Active:        row.Active,
			LastTriggered: utils.FromPgTimestamptzPtr(row.LastTriggered),
		})
	}
	return rules, nil
}

func (r *Repository) InsertTrigger(ctx context.Context, t Trigger) (Trigger, error) {
	const op string = "repo.alert_trigger.insert"

	row, err := r.querier.InsertAlertTrigger(ctx, db.InsertAlertTriggerParams{
		RuleID:      utils.ToPgUUID(t.RuleID),
		Value:       t.Value,
		TriggeredAt: utils.ToPgTimestamptz(t.TriggeredAt),
	})
	if err != nil {
		return Trigger{}, utils.WrapRepoError(op, err, false, r.logger)
	}

	return Trigger{
		ID:          utils.FromPgUUID(row.ID),
		RuleID:      utils.FromPgUUID(row.RuleID),
		Value:       row.Value,
		TriggeredAt: utils.FromPgTimestamptz(row.TriggeredAt),
	}, nil
}

func (r *Repository) StampTriggered(ctx context.Context, ruleID uuid.UUID, at time.Time) error {
	const op string = "repo.alert_rule.stamp_triggered"

	err := r.querier.StampAlertRuleTriggered(ctx, db.StampAlertRuleTriggeredParams{
		ID:            utils.ToPgUUID(ruleID),
		LastTriggered: utils.ToPgTimestamptz(at),
	})
	if err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	return nil
}
