package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

func TestStatusPredicates(t *testing.T) {
	tests := []struct {
		status    string
		confirmed bool
		pending   bool
		cancelled bool
	}{
		{"confirmed", true, false, false},
		{"COMPLETED", true, false, false},
		{"Pending", false, true, false},
		{"tentative", false, true, false},
		{" cancelled ", false, false, true},
		{"block-out", false, false, false},
		{"", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.confirmed, IsConfirmed(tt.status))
			assert.Equal(t, tt.pending, IsPending(tt.status))
			assert.Equal(t, tt.cancelled, IsCancelled(tt.status))
		})
	}
}

func TestBookingRevenue(t *testing.T) {
	tests := []struct {
		name     string
		record   domain.BookingRecord
		expected float64
	}{
		{
			name:     "preço calculado positivo",
			record:   domain.BookingRecord{CalculatedPrice: floatPtr(150), EstimatedPrice: floatPtr(90)},
			expected: 150,
		},
		{
			name:     "preço calculado zero usa estimado",
			record:   domain.BookingRecord{CalculatedPrice: floatPtr(0), EstimatedPrice: floatPtr(80)},
			expected: 80,
		},
		{
			name:     "preço calculado NaN sem estimado",
			record:   domain.BookingRecord{CalculatedPrice: floatPtr(math.NaN())},
			expected: 0,
		},
		{
			name:     "valores negativos",
			record:   domain.BookingRecord{CalculatedPrice: floatPtr(-5), EstimatedPrice: floatPtr(-1)},
			expected: 0,
		},
		{
			name:     "sem preço",
			record:   domain.BookingRecord{},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BookingRevenue(tt.record))
		})
	}
}

func TestInvoiceTotal(t *testing.T) {
	tests := []struct {
		name     string
		record   domain.InvoiceRecord
		expected float64
	}{
		{
			name:     "finalTotal substitui total",
			record:   domain.InvoiceRecord{Total: floatPtr(100), FinalTotal: floatPtr(90)},
			expected: 90,
		},
		{
			name:     "sem finalTotal usa total",
			record:   domain.InvoiceRecord{Total: floatPtr(100)},
			expected: 100,
		},
		{
			name:     "finalTotal infinito cai para total",
			record:   domain.InvoiceRecord{Total: floatPtr(70), FinalTotal: floatPtr(math.Inf(1))},
			expected: 70,
		},
		{
			name:     "nenhum valor finito",
			record:   domain.InvoiceRecord{Total: floatPtr(math.NaN())},
			expected: 0,
		},
		{
			name:     "total negativo vira zero",
			record:   domain.InvoiceRecord{Total: floatPtr(-10)},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InvoiceTotal(tt.record))
		})
	}
}

func TestNormalizeBooking(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	b, ok := NormalizeBooking(domain.BookingRecord{
		ID:             "bk-1",
		OwnerID:        "owner-1",
		ResourceID:     stringPtr("hall-a"),
		Date:           "2024-03-13T00:00:00Z",
		StartTime:      "09:00",
		EndTime:        "13:30:00",
		Status:         "Confirmed",
		EstimatedPrice: floatPtr(420),
		CreatedAt:      &created,
	}, time.UTC)

	require.True(t, ok)
	assert.Equal(t, day(2024, 3, 13), b.Date)
	assert.Equal(t, time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC), b.Start)
	assert.Equal(t, 4.5, b.Hours())
	assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
	assert.Equal(t, "hall-a", b.ResourceID)
	assert.Equal(t, 420.0, b.Price)
	assert.Equal(t, &created, b.CreatedAt)

	t.Run("horário inválido resulta em duração zero", func(t *testing.T) {
		b, ok := NormalizeBooking(domain.BookingRecord{Date: "2024-03-13", StartTime: "nine", EndTime: "10:00"}, time.UTC)

		require.True(t, ok)
		assert.Zero(t, b.Hours())
	})

	t.Run("data inválida é descartada", func(t *testing.T) {
		_, ok := NormalizeBooking(domain.BookingRecord{Date: "13/03/2024"}, time.UTC)

		assert.False(t, ok)
	})
}

func TestNormalizeBookings_SortsByStart(t *testing.T) {
	records := []domain.BookingRecord{
		{ID: "c", Date: "2024-03-14", StartTime: "08:00", EndTime: "09:00"},
		{ID: "b", Date: "2024-03-13", StartTime: "15:00", EndTime: "16:00"},
		{ID: "x", Date: "invalid"},
		{ID: "a", Date: "2024-03-13", StartTime: "09:00", EndTime: "10:00"},
	}

	bookings := NormalizeBookings(records, time.UTC)

	require.Len(t, bookings, 3)
	assert.Equal(t, "a", bookings[0].ID)
	assert.Equal(t, "b", bookings[1].ID)
	assert.Equal(t, "c", bookings[2].ID)
}

func TestNormalizeInvoices(t *testing.T) {
	issued := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	invoices := NormalizeInvoices([]domain.InvoiceRecord{
		{ID: "no-date", Total: floatPtr(10)},
		{ID: "issued", IssueDate: &issued, CreatedAt: &created, Total: floatPtr(100), Status: "paid"},
		{ID: "created", CreatedAt: &created, Total: floatPtr(50), FinalTotal: floatPtr(45), Status: "Partial"},
	})

	require.Len(t, invoices, 3)
	assert.Equal(t, "created", invoices[0].ID)
	assert.Equal(t, &created, invoices[0].IssuedAt)
	assert.Equal(t, 45.0, invoices[0].Total)
	assert.Equal(t, domain.InvoiceStatusPartial, invoices[0].Status)
	assert.Equal(t, "issued", invoices[1].ID)
	assert.Equal(t, domain.InvoiceStatusPaid, invoices[1].Status)
	assert.Equal(t, "no-date", invoices[2].ID)
	assert.Nil(t, invoices[2].IssuedAt)
}
