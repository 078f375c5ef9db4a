package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2024, 3, 31, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name          string
		token         string
		expectedStart time.Time
		expectedLabel string
	}{
		{
			name:          "30 dias termina hoje e começa 30 dias antes",
			token:         "30d",
			expectedStart: day(2024, 3, 1),
			expectedLabel: "30d",
		},
		{
			name:          "180 dias",
			token:         "180d",
			expectedStart: day(2023, 10, 3),
			expectedLabel: "180d",
		},
		{
			name:          "1 ano ignora caixa e espaços",
			token:         " 1Y ",
			expectedStart: day(2023, 4, 1),
			expectedLabel: "1y",
		},
		{
			name:          "token desconhecido usa 90 dias",
			token:         "2w",
			expectedStart: day(2024, 1, 1),
			expectedLabel: "90d",
		},
		{
			name:          "token vazio usa 90 dias",
			token:         "",
			expectedStart: day(2024, 1, 1),
			expectedLabel: "90d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ResolvePeriod(tt.token, now)

			assert.Equal(t, tt.expectedStart, r.Start)
			assert.Equal(t, day(2024, 3, 31), r.End)
			assert.Equal(t, tt.expectedLabel, r.Label)
		})
	}
}

func TestPreviousRange(t *testing.T) {
	current := ResolvePeriod("30d", day(2024, 3, 31))

	prev := PreviousRange(current)

	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, int(999*time.Millisecond), time.UTC), prev.End)
	assert.Equal(t, current.End.Sub(current.Start), prev.End.Sub(prev.Start))
	assert.True(t, prev.End.Before(current.Start))
	assert.Equal(t, "previous 30d", prev.Label)
}

func TestDays(t *testing.T) {
	assert.Equal(t, 31, Days(ResolvePeriod("30d", day(2024, 3, 31))))
	assert.Equal(t, 1, Days(DayRange(day(2024, 3, 31))))
	assert.Equal(t, 7, Days(LastNDays(day(2024, 3, 31), 7)))

	// a janela anterior começa às 23:59:59.999 e não contém a meia-noite do primeiro dia
	assert.Equal(t, 30, Days(PreviousRange(ResolvePeriod("30d", day(2024, 3, 31)))))
	assert.Equal(t, 0, Days(domain.DateRange{Start: day(2024, 3, 31).Add(time.Hour), End: day(2024, 3, 31).Add(2 * time.Hour)}))
}

func TestWeekAndMonthRanges(t *testing.T) {
	t.Run("quarta-feira", func(t *testing.T) {
		r := WeekAndMonthRanges(time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC))

		assert.Equal(t, day(2024, 3, 13), r.Today.Start)
		assert.Equal(t, EndOfDay(day(2024, 3, 13)), r.Today.End)
		assert.Equal(t, day(2024, 3, 12), r.Yesterday.Start)
		assert.Equal(t, day(2024, 3, 11), r.ThisWeek.Start)
		assert.Equal(t, EndOfDay(day(2024, 3, 17)), r.ThisWeek.End)
		assert.Equal(t, day(2024, 3, 4), r.LastWeek.Start)
		assert.Equal(t, EndOfDay(day(2024, 3, 10)), r.LastWeek.End)
		assert.Equal(t, day(2024, 3, 1), r.ThisMonth.Start)
		assert.Equal(t, EndOfDay(day(2024, 3, 31)), r.ThisMonth.End)
		assert.Equal(t, day(2024, 3, 7), r.Last7Days.Start)
		assert.Equal(t, day(2024, 2, 13), r.Last30Days.Start)
		assert.Equal(t, EndOfDay(day(2024, 3, 13)), r.Last30Days.End)
	})

	t.Run("domingo pertence à semana iniciada na segunda anterior", func(t *testing.T) {
		r := WeekAndMonthRanges(time.Date(2024, 3, 17, 23, 0, 0, 0, time.UTC))

		assert.Equal(t, day(2024, 3, 11), r.ThisWeek.Start)
		assert.Equal(t, EndOfDay(day(2024, 3, 17)), r.ThisWeek.End)
	})

	t.Run("fevereiro bissexto", func(t *testing.T) {
		r := WeekAndMonthRanges(time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC))

		assert.Equal(t, EndOfDay(day(2024, 2, 29)), r.ThisMonth.End)
		assert.Equal(t, "Feb 2024", r.ThisMonth.Label)
	})
}

func TestInRange(t *testing.T) {
	r := DayRange(day(2024, 3, 13))

	assert.True(t, InRange(r.Start, r))
	assert.True(t, InRange(r.End, r))
	assert.False(t, InRange(r.End.Add(time.Millisecond), r))
	assert.False(t, InRange(r.Start.Add(-time.Millisecond), r))
}
