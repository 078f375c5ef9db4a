package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func stringPtr(v string) *string { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type bookingOpt func(*domain.BookingRecord)

func withCreatedAt(t time.Time) bookingOpt {
	return func(r *domain.BookingRecord) { r.CreatedAt = timePtr(t) }
}

func withResource(id string) bookingOpt {
	return func(r *domain.BookingRecord) { r.ResourceID = stringPtr(id) }
}

func newBooking(t *testing.T, id, date, start, end, status string, price float64, opts ...bookingOpt) Booking {
	t.Helper()

	record := domain.BookingRecord{
		ID:              id,
		OwnerID:         "owner-1",
		Date:            date,
		StartTime:       start,
		EndTime:         end,
		Status:          status,
		CalculatedPrice: floatPtr(price),
	}
	for _, opt := range opts {
		opt(&record)
	}

	b, ok := NormalizeBooking(record, time.UTC)
	require.True(t, ok)

	return b
}

func repeatBookings(t *testing.T, n int, prefix, date, status string, price float64) []Booking {
	t.Helper()

	out := make([]Booking, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, newBooking(t, prefix+string(rune('a'+i)), date, "10:00", "12:00", status, price))
	}
	return out
}
