package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/vfg2006/venue-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

const resourcesTable = "resources"

type ResourceRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.ResourceRecord, error)
}

type resourceRepository struct {
	conn postgres.Queryer
}

func NewResourceRepository(conn postgres.Queryer) ResourceRepository {
	return &resourceRepository{
		conn: conn,
	}
}

func resourcesQuery(ownerID string) squirrel.SelectBuilder {
	return squirrel.
		Select("id", "owner_id", "name", "active", "created_at").
		From(resourcesTable).
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("name").
		PlaceholderFormat(squirrel.Dollar)
}

func (r *resourceRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.ResourceRecord, error) {
	query, args, err := resourcesQuery(ownerID).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build resources query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "query resources of owner %s", ownerID)
	}
	defer rows.Close()

	var resources []domain.ResourceRecord
	for rows.Next() {
		var res domain.ResourceRecord
		if err := rows.Scan(&res.ID, &res.OwnerID, &res.Name, &res.Active, &res.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan resource")
		}
		resources = append(resources, res)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate resources")
	}

	return resources, nil
}
