package domain

import "time"

type InvoiceStatus string

const (
	InvoiceStatusSent    InvoiceStatus = "SENT"
	InvoiceStatusPartial InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
)

// InvoiceRecord representa uma fatura emitida para um owner.
// FinalTotal, quando presente, substitui Total.
type InvoiceRecord struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"owner_id"`
	BookingID  *string    `json:"booking_id"`
	IssueDate  *time.Time `json:"issue_date"`
	CreatedAt  *time.Time `json:"created_at"`
	Total      *float64   `json:"total"`
	FinalTotal *float64   `json:"final_total"`
	PaidAmount float64    `json:"paid_amount"`
	Status     string     `json:"status"`
}
