package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

func linearHistory() []domain.HistoricalPoint {
	return []domain.HistoricalPoint{
		{Month: "Jan 2024", Bookings: 10, Revenue: 1000, PeriodStart: day(2024, 1, 1)},
		{Month: "Feb 2024", Bookings: 12, Revenue: 1200, PeriodStart: day(2024, 2, 1)},
		{Month: "Mar 2024", Bookings: 14, Revenue: 1400, PeriodStart: day(2024, 3, 1)},
	}
}

func TestFitLine(t *testing.T) {
	slope, intercept, ok := FitLine([]float64{10, 12, 14})

	require.True(t, ok)
	assert.InDelta(t, 2.0, slope, 1e-9)
	assert.InDelta(t, 10.0, intercept, 1e-9)

	_, _, ok = FitLine([]float64{10})
	assert.False(t, ok)
}

func TestForecast(t *testing.T) {
	t.Run("projeta a reta e usa a receita média", func(t *testing.T) {
		points := Forecast(linearHistory(), 3)

		require.Len(t, points, 3)
		assert.Equal(t, 16, points[0].Bookings)
		assert.Equal(t, 19200.0, points[0].Revenue)
		assert.Equal(t, "Apr 2024", points[0].Month)
		assert.Equal(t, 18, points[1].Bookings)
		assert.Equal(t, 21600.0, points[1].Revenue)
		assert.Equal(t, 20, points[2].Bookings)
		assert.Equal(t, "Jun 2024", points[2].Month)
	})

	t.Run("menos de dois pontos não gera previsão", func(t *testing.T) {
		assert.Empty(t, Forecast(nil, 6))
		assert.Empty(t, Forecast(linearHistory()[:1], 6))
	})

	t.Run("previsão nunca fica negativa", func(t *testing.T) {
		history := []domain.HistoricalPoint{
			{Bookings: 10, Revenue: 500},
			{Bookings: 5, Revenue: 250},
			{Bookings: 0, Revenue: 0},
		}

		points := Forecast(history, 4)

		require.Len(t, points, 4)
		for _, p := range points {
			assert.GreaterOrEqual(t, p.Bookings, 0)
			assert.Zero(t, p.Revenue)
		}
		assert.Equal(t, "Forecast +1", points[0].Month)
	})

	t.Run("períodos não positivos usam o padrão", func(t *testing.T) {
		assert.Len(t, Forecast(linearHistory(), 0), DefaultForecastPeriods)
	})
}

func TestApplyScenario(t *testing.T) {
	base := Forecast(linearHistory(), 6)

	optimistic := ApplyScenario(base, DefaultOptimisticMultiplier)
	cautious := ApplyScenario(base, DefaultCautiousMultiplier)

	require.Len(t, optimistic, len(base))
	require.Len(t, cautious, len(base))
	for i := range base {
		assert.Equal(t, int(Round(float64(base[i].Bookings)*1.15)), optimistic[i].Bookings)
		assert.Equal(t, int(Round(float64(base[i].Bookings)*0.85)), cautious[i].Bookings)
		assert.Equal(t, base[i].Month, optimistic[i].Month)
	}

	assert.Equal(t, 18, optimistic[0].Bookings)
	assert.Equal(t, 22080.0, optimistic[0].Revenue)
	assert.Equal(t, 14, cautious[0].Bookings)
	assert.Equal(t, 16320.0, cautious[0].Revenue)
}

func TestBuildForecastReport(t *testing.T) {
	report := BuildForecastReport(linearHistory(), 2, DefaultSettings())

	assert.Len(t, report.History, 3)
	assert.Len(t, report.Base, 2)
	assert.Len(t, report.Optimistic, 2)
	assert.Len(t, report.Cautious, 2)
	assert.InDelta(t, 2.0, report.Slope, 1e-9)
	assert.InDelta(t, 10.0, report.Intercept, 1e-9)
	assert.Equal(t, 1200.0, report.MeanRevenue)
	assert.Equal(t, domain.TrendUp, report.TrendDirection)
}

func TestBuildHistory(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	bookings := []Booking{
		newBooking(t, "jan-conf", "2024-01-10", "10:00", "12:00", "confirmed", 100),
		newBooking(t, "jan-pend", "2024-01-11", "10:00", "12:00", "tentative", 50),
		newBooking(t, "jan-canc", "2024-01-12", "10:00", "12:00", "cancelled", 70),
		newBooking(t, "feb-conf", "2024-02-02", "10:00", "12:00", "confirmed", 200),
		newBooking(t, "old", "2023-12-31", "10:00", "12:00", "confirmed", 999),
	}
	issued := time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC)
	invoices := []Invoice{{ID: "feb-inv", IssuedAt: &issued, Total: 500}}

	history := BuildHistory(bookings, invoices, 3, now)

	require.Len(t, history, 3)
	assert.Equal(t, domain.HistoricalPoint{Month: "Jan 2024", Bookings: 2, Revenue: 100, PeriodStart: day(2024, 1, 1)}, history[0])
	assert.Equal(t, domain.HistoricalPoint{Month: "Feb 2024", Bookings: 1, Revenue: 500, PeriodStart: day(2024, 2, 1)}, history[1])
	assert.Equal(t, domain.HistoricalPoint{Month: "Mar 2024", Bookings: 0, Revenue: 0, PeriodStart: day(2024, 3, 1)}, history[2])

	t.Run("mesma entrada gera mesma saída", func(t *testing.T) {
		assert.Equal(t, history, BuildHistory(bookings, invoices, 3, now))
	})

	t.Run("meses não positivos usam 6", func(t *testing.T) {
		points := BuildHistory(bookings, invoices, 0, now)

		require.Len(t, points, 6)
		assert.Equal(t, "Oct 2023", points[0].Month)
		assert.Equal(t, 999.0, points[2].Revenue)
	})
}
