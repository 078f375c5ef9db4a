// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/vfg2006/venue-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

const bookingsTable = "bookings"

// BookingRepository lê reservas do owner; a ordem do resultado não é garantida
type BookingRepository interface {
	ListByOwner(ctx context.Context, ownerID string, filters domain.BookingFilters) ([]domain.BookingRecord, error)
}

type bookingRepository struct {
	conn postgres.Queryer
}

func NewBookingRepository(conn postgres.Queryer) BookingRepository {
	return &bookingRepository{
		conn: conn,
	}
}

func bookingsQuery(ownerID string, filters domain.BookingFilters) squirrel.SelectBuilder {
	builder := squirrel.
		Select(
			"id",
			"owner_id",
			"resource_id",
			"to_char(booking_date, 'YYYY-MM-DD')",
			"to_char(start_time, 'HH24:MI')",
			"to_char(end_time, 'HH24:MI')",
			"status",
			"calculated_price",
			"estimated_price",
			"customer_name",
			"customer_email",
			"created_at",
			"updated_at",
		).
		From(bookingsTable).
		Where(squirrel.Eq{"owner_id": ownerID}).
		PlaceholderFormat(squirrel.Dollar)

	if filters.ResourceID != nil {
		builder = builder.Where(squirrel.Eq{"resource_id": *filters.ResourceID})
	}

	if len(filters.Statuses) > 0 {
		statuses := make([]string, len(filters.Statuses))
		for i, s := range filters.Statuses {
			statuses[i] = string(s)
		}
		builder = builder.Where(squirrel.Eq{"lower(trim(status))": statuses})
	}

	return builder
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID string, filters domain.BookingFilters) ([]domain.BookingRecord, error) {
	query, args, err := bookingsQuery(ownerID, filters).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build bookings query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "query bookings of owner %s", ownerID)
	}
	defer rows.Close()

	var bookings []domain.BookingRecord
	for rows.Next() {
		var (
			b               domain.BookingRecord
			resourceID      sql.NullString
			calculatedPrice sql.NullFloat64
			estimatedPrice  sql.NullFloat64
			createdAt       sql.NullTime
			updatedAt       sql.NullTime
		)

		err := rows.Scan(
			&b.ID,
			&b.OwnerID,
			&resourceID,
			&b.Date,
			&b.StartTime,
			&b.EndTime,
			&b.Status,
			&calculatedPrice,
			&estimatedPrice,
			&b.CustomerName,
			&b.CustomerEmail,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scan booking")
		}

		b.ResourceID = nullableString(resourceID)
		b.CalculatedPrice = nullableFloat(calculatedPrice)
		b.EstimatedPrice = nullableFloat(estimatedPrice)
		b.CreatedAt = nullableTime(createdAt)
		b.UpdatedAt = nullableTime(updatedAt)

		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate bookings")
	}

	return bookings, nil
}
