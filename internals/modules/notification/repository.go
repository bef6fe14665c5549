package notification

import (
	"context"
	"pulsewatch/pkg/db"
	"pulsewatch/pkg/utils"

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

func (r *Repository) ListActive(ctx context.Context, orgID uuid.UUID) ([]Channel, error) {
	const op string = "repo.notification_channel.list_active"

	rows, err := r.querier.ListActiveNotificationChannels(ctx, utils.ToPgUUID(orgID))
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}

	channels := make([]Channel, 0, len(rows))
	for _, row := range rows {
		channels = append(channels, Channel{
			ID:             utils.FromPgUUID(row.ID),
			OrganizationID: utils.FromPgUUID(row.OrganizationID),
			Name:           row.Name,
			Type:           ChannelType(row.Type),
			Config:         row.Config,
			Active:         row.Active,
		})
	}
	return channels, nil
}
