package endpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"pulsewatch/pkg/db"
	"pulsewatch/pkg/utils"

	"github.com/google/uuid"
)

type Repository struct {
	querier *db.Queries
}

func NewRepository(dbExecutor db.DBTX) *Repository {
	return &Repository{
		querier: db.New(dbExecutor),
	}
}

func (r *Repository) ListActive(ctx context.Context) ([]Endpoint, error) {
	rows, err := r.querier.ListActiveEndpoints(ctx)
	if err != nil {
		return nil, err
	}

	endpoints := make([]Endpoint, 0, len(rows))
	for _, row := range rows {
		e, err := toEndpoint(row)
		if err != nil {
			return nil, err
		}
		endpoints = append(endpoints, e)
	}
	return endpoints, nil
}

// Get is scoped to the caller's organization.
func (r *Repository) Get(ctx context.Context, orgID, endpointID uuid.UUID) (Endpoint, error) {
	row, err := r.querier.GetEndpoint(ctx, db.GetEndpointParams{
		ID:             utils.ToPgUUID(endpointID),
		OrganizationID: utils.ToPgUUID(orgID),
	})
	if err != nil {
		return Endpoint{}, err
	}
	return toEndpoint(row)
}

// GetByID skips the organization scope and is only for internal callers.
func (r *Repository) GetByID(ctx context.Context, endpointID uuid.UUID) (Endpoint, error) {
	row, err := r.querier.GetEndpointByID(ctx, utils.ToPgUUID(endpointID))
	if err != nil {
		return Endpoint{}, err
	}
	return toEndpoint(row)
}

func toEndpoint(row db.Endpoint) (Endpoint, error) {
	var headers map[string]string
	if len(row.Headers) > 0 {
		if err := json.Unmarshal(row.Headers, &headers); err != nil {
			return Endpoint{}, fmt.Errorf("decode headers of endpoint %s: %w", utils.FromPgUUID(row.ID), err)
		}
	}

	return Endpoint{
		ID:             utils.FromPgUUID(row.ID),
		OrganizationID: utils.FromPgUUID(row.OrganizationID),
		UserID:         utils.FromPgUUID(row.UserID),
		Name:           row.Name,
		URL:            row.Url,
		Method:         row.Method,
		Headers:        headers,
		Body:           utils.FromPgText(row.Body),
		ExpectedStatus: int(row.ExpectedStatus),
		TimeoutMs:      row.TimeoutMs,
		IntervalMs:     row.IntervalMs,
		Active:         row.Active,
	}, nil
}
