package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/vfg2006/venue-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

const ownersTable = "owners"

type OwnerRepository interface {
	GetByID(ctx context.Context, ownerID string) (*domain.Owner, error)
	List(ctx context.Context) ([]domain.Owner, error)
}

type ownerRepository struct {
	conn postgres.Queryer
}

func NewOwnerRepository(conn postgres.Queryer) OwnerRepository {
	return &ownerRepository{
		conn: conn,
	}
}

func ownersQuery() squirrel.SelectBuilder {
	return squirrel.
		Select("id", "name", "email", "currency_code", "created_at").
		From(ownersTable).
		PlaceholderFormat(squirrel.Dollar)
}

// GetByID retorna nil, nil quando o owner não existe
func (r *ownerRepository) GetByID(ctx context.Context, ownerID string) (*domain.Owner, error) {
	query, args, err := ownersQuery().Where(squirrel.Eq{"id": ownerID}).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build owner query")
	}

	var owner domain.Owner
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&owner.ID,
		&owner.Name,
		&owner.Email,
		&owner.CurrencyCode,
		&owner.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "query owner %s", ownerID)
	}

	return &owner, nil
}

func (r *ownerRepository) List(ctx context.Context) ([]domain.Owner, error) {
	query, args, err := ownersQuery().OrderBy("id").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build owners query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query owners")
	}
	defer rows.Close()

	var owners []domain.Owner
	for rows.Next() {
		var owner domain.Owner
		if err := rows.Scan(&owner.ID, &owner.Name, &owner.Email, &owner.CurrencyCode, &owner.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan owner")
		}
		owners = append(owners, owner)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate owners")
	}

	return owners, nil
}
