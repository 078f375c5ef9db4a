package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/vfg2006/venue-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

const invoicesTable = "invoices"

type InvoiceRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.InvoiceRecord, error)
}

type invoiceRepository struct {
	conn postgres.Queryer
}

func NewInvoiceRepository(conn postgres.Queryer) InvoiceRepository {
	return &invoiceRepository{
		conn: conn,
	}
}

func invoicesQuery(ownerID string) squirrel.SelectBuilder {
	return squirrel.
		Select("id", "owner_id", "booking_id", "issue_date", "created_at", "total", "final_total", "paid_amount", "status").
		From(invoicesTable).
		Where(squirrel.Eq{"owner_id": ownerID}).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *invoiceRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.InvoiceRecord, error) {
	query, args, err := invoicesQuery(ownerID).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build invoices query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "query invoices of owner %s", ownerID)
	}
	defer rows.Close()

	var invoices []domain.InvoiceRecord
	for rows.Next() {
		var (
			inv        domain.InvoiceRecord
			bookingID  sql.NullString
			issueDate  sql.NullTime
			createdAt  sql.NullTime
			total      sql.NullFloat64
			finalTotal sql.NullFloat64
		)

		err := rows.Scan(
			&inv.ID,
			&inv.OwnerID,
			&bookingID,
			&issueDate,
			&createdAt,
			&total,
			&finalTotal,
			&inv.PaidAmount,
			&inv.Status,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scan invoice")
		}

		inv.BookingID = nullableString(bookingID)
		inv.IssueDate = nullableTime(issueDate)
		inv.CreatedAt = nullableTime(createdAt)
		inv.Total = nullableFloat(total)
		inv.FinalTotal = nullableFloat(finalTotal)

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate invoices")
	}

	return invoices, nil
}
