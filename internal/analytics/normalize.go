package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

const dateLayout = "2006-01-02"

// Booking é a forma canônica de uma reserva usada pelos cálculos
type Booking struct {
	ID            string
	OwnerID       string
	ResourceID    string
	Date          time.Time
	Start         time.Time
	End           time.Time
	Status        domain.BookingStatus
	Price         float64
	CustomerName  string
	CustomerEmail string
	CreatedAt     *time.Time
	UpdatedAt     *time.Time
}

// Hours retorna a duração da reserva em horas. Intervalos inválidos não são filtrados.
func (b Booking) Hours() float64 {
	return b.End.Sub(b.Start).Hours()
}

type Invoice struct {
	ID         string
	OwnerID    string
	BookingID  string
	IssuedAt   *time.Time
	Total      float64
	PaidAmount float64
	Status     domain.InvoiceStatus
}

func normalizeStatus(status string) domain.BookingStatus {
	return domain.BookingStatus(strings.ToLower(strings.TrimSpace(status)))
}

// IsConfirmed aceita confirmed e completed, sem diferenciar maiúsculas
func IsConfirmed(status string) bool {
	s := normalizeStatus(status)
	return s == domain.BookingStatusConfirmed || s == domain.BookingStatusCompleted
}

// IsPending aceita pending e tentative, sem diferenciar maiúsculas
func IsPending(status string) bool {
	s := normalizeStatus(status)
	return s == domain.BookingStatusPending || s == domain.BookingStatusTentative
}

func IsCancelled(status string) bool {
	return normalizeStatus(status) == domain.BookingStatusCancelled
}

func (b Booking) IsConfirmed() bool { return IsConfirmed(string(b.Status)) }
func (b Booking) IsPending() bool   { return IsPending(string(b.Status)) }
func (b Booking) IsCancelled() bool { return IsCancelled(string(b.Status)) }

// IsActive indica reservas que ocupam o espaço (confirmadas ou pendentes)
func (b Booking) IsActive() bool { return b.IsConfirmed() || b.IsPending() }

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// BookingRevenue usa o preço calculado quando positivo, senão o estimado, senão 0
func BookingRevenue(record domain.BookingRecord) float64 {
	if p := record.CalculatedPrice; p != nil && isFinite(*p) && *p > 0 {
		return *p
	}
	if p := record.EstimatedPrice; p != nil && isFinite(*p) && *p >= 0 {
		return *p
	}
	return 0
}

// InvoiceTotal prefere finalTotal a total; 0 quando nenhum é finito
func InvoiceTotal(record domain.InvoiceRecord) float64 {
	total := 0.0
	switch {
	case record.FinalTotal != nil && isFinite(*record.FinalTotal):
		total = *record.FinalTotal
	case record.Total != nil && isFinite(*record.Total):
		total = *record.Total
	}

	return math.Max(total, 0)
}

// ParseDate interpreta os 10 primeiros caracteres como yyyy-mm-dd na localização informada
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if len(value) > len(dateLayout) {
		value = value[:len(dateLayout)]
	}

	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

func parseClock(date time.Time, clock string) (time.Time, bool) {
	clock = strings.TrimSpace(clock)
	if len(clock) > 5 {
		clock = clock[:5]
	}

	t, err := time.Parse("15:04", clock)
	if err != nil {
		return date, false
	}

	return date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), true
}

// NormalizeBooking converte o registro bruto. Retorna false quando a data é ilegível.
// Horários ilegíveis resultam em duração zero.
func NormalizeBooking(record domain.BookingRecord, loc *time.Location) (Booking, bool) {
	if loc == nil {
		loc = time.Local
	}

	date, ok := ParseDate(record.Date, loc)
	if !ok {
		return Booking{}, false
	}

	start, okStart := parseClock(date, record.StartTime)
	end, okEnd := parseClock(date, record.EndTime)
	if !okStart || !okEnd {
		start, end = date, date
	}

	resourceID := ""
	if record.ResourceID != nil {
		resourceID = *record.ResourceID
	}

	return Booking{
		ID:            record.ID,
		OwnerID:       record.OwnerID,
		ResourceID:    resourceID,
		Date:          date,
		Start:         start,
		End:           end,
		Status:        normalizeStatus(record.Status),
		Price:         BookingRevenue(record),
		CustomerName:  record.CustomerName,
		CustomerEmail: record.CustomerEmail,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}, true
}

// NormalizeBookings normaliza e ordena por data e horário de início.
// Registros sem data válida são descartados.
func NormalizeBookings(records []domain.BookingRecord, loc *time.Location) []Booking {
	bookings := make([]Booking, 0, len(records))
	for _, record := range records {
		if b, ok := NormalizeBooking(record, loc); ok {
			bookings = append(bookings, b)
		}
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		if bookings[i].Start.Equal(bookings[j].Start) {
			return bookings[i].ID < bookings[j].ID
		}
		return bookings[i].Start.Before(bookings[j].Start)
	})

	return bookings
}

func NormalizeInvoice(record domain.InvoiceRecord) Invoice {
	issuedAt := record.IssueDate
	if issuedAt == nil {
		issuedAt = record.CreatedAt
	}

	bookingID := ""
	if record.BookingID != nil {
		bookingID = *record.BookingID
	}

	return Invoice{
		ID:         record.ID,
		OwnerID:    record.OwnerID,
		BookingID:  bookingID,
		IssuedAt:   issuedAt,
		Total:      InvoiceTotal(record),
		PaidAmount: record.PaidAmount,
		Status:     domain.InvoiceStatus(strings.ToUpper(strings.TrimSpace(record.Status))),
	}
}

// NormalizeInvoices normaliza e ordena pela data de emissão; faturas sem data ficam no fim
func NormalizeInvoices(records []domain.InvoiceRecord) []Invoice {
	invoices := make([]Invoice, 0, len(records))
	for _, record := range records {
		invoices = append(invoices, NormalizeInvoice(record))
	}

	sort.SliceStable(invoices, func(i, j int) bool {
		a, b := invoices[i].IssuedAt, invoices[j].IssuedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	return invoices
}
