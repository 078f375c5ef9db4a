package analytics

import (
	"time"

	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

// BuildDashboard monta os indicadores rápidos do painel a partir de todas as reservas do owner.
// Cada indicador carrega uma sparkline dos últimos 7 dias, da mais antiga para a mais recente.
func BuildDashboard(bookings []Booking, now time.Time, settings Settings) domain.DashboardSnapshot {
	s := settings.withDefaults()
	ranges := WeekAndMonthRanges(now)
	days := sparklineDays(now)

	confirmed := filterBookings(bookings, Booking.IsConfirmed)
	cancelled := filterBookings(bookings, Booking.IsCancelled)
	active := filterBookings(bookings, Booking.IsActive)

	// ocupação de hoje contra ontem, em pontos
	occToday := float64(Occupancy(BookingsInRange(active, ranges.Today), s.DailyBookableHours))
	occYesterday := float64(Occupancy(BookingsInRange(active, ranges.Yesterday), s.DailyBookableHours))
	occupancy := dashboardPoints(occToday, occYesterday)
	occupancy.Sparkline = sparkline(days, func(day domain.DateRange) float64 {
		return float64(Occupancy(BookingsInRange(active, day), s.DailyBookableHours))
	})

	thisWeek := float64(len(BookingsInRange(confirmed, ranges.ThisWeek)))
	lastWeek := float64(len(BookingsInRange(confirmed, ranges.LastWeek)))
	weekly := dashboardRelative(thisWeek, lastWeek)
	weekly.Sparkline = sparkline(days, func(day domain.DateRange) float64 {
		return float64(len(BookingsInRange(confirmed, day)))
	})

	holdsNow := float64(len(HoldsOlderThan(bookings, now.Add(-s.HoldExpiry))))
	holdsBefore := float64(len(HoldsOlderThan(bookings, now.Add(-s.HoldExpiry-24*time.Hour))))
	holds := dashboardRelative(holdsNow, holdsBefore)
	holds.Sparkline = sparkline(days, func(day domain.DateRange) float64 {
		return float64(countBookings(BookingsInRange(bookings, day), Booking.IsPending))
	})

	due := PaymentsDue(bookings)
	dueYesterday := filterBookings(due, func(b Booking) bool {
		return b.CreatedAt == nil || b.CreatedAt.Before(ranges.Today.Start)
	})
	payments := dashboardRelative(sumPrices(due), sumPrices(dueYesterday))
	payments.Sparkline = sparkline(days, func(day domain.DateRange) float64 {
		return sumPrices(BookingsInRange(due, day))
	})

	last30 := ranges.Last30Days
	cancels := dashboardRelative(
		float64(len(BookingsInRange(cancelled, last30))),
		float64(len(BookingsInRange(cancelled, PreviousRange(last30)))),
	)
	cancels.Sparkline = sparkline(days, func(day domain.DateRange) float64 {
		return float64(len(BookingsInRange(cancelled, day)))
	})

	monthToDate := domain.DateRange{Start: ranges.ThisMonth.Start, End: ranges.Today.End}
	revenue := dashboardRelative(
		sumPrices(BookingsInRange(confirmed, monthToDate)),
		sumPrices(BookingsInRange(confirmed, ranges.LastWeek)),
	)
	revenue.Sparkline = sparkline(days, func(day domain.DateRange) float64 {
		return sumPrices(BookingsInRange(confirmed, day))
	})

	return domain.DashboardSnapshot{
		GeneratedAt:      now,
		OccupancyToday:   occupancy,
		BookingsThisWeek: weekly,
		HoldsExpiring:    holds,
		PaymentsDue:      payments,
		Cancellations:    cancels,
		Revenue:          revenue,
	}
}

// HoldsOlderThan retorna as reservas pendentes criadas antes do corte.
// Pendentes sem data de criação não são consideradas.
func HoldsOlderThan(bookings []Booking, cutoff time.Time) []Booking {
	return filterBookings(bookings, func(b Booking) bool {
		return b.IsPending() && b.CreatedAt != nil && b.CreatedAt.Before(cutoff)
	})
}

// PaymentsDue retorna as reservas confirmadas com preço positivo
func PaymentsDue(bookings []Booking) []Booking {
	return filterBookings(bookings, func(b Booking) bool {
		return b.IsConfirmed() && b.Price > 0
	})
}

// ResourceOccupancy calcula a ocupação do dia para cada recurso ativo
func ResourceOccupancy(bookings []Booking, resources []domain.ResourceRecord, day time.Time, settings Settings) []domain.ResourceOccupancy {
	s := settings.withDefaults()
	today := BookingsInRange(filterBookings(bookings, Booking.IsActive), DayRange(day))

	out := make([]domain.ResourceOccupancy, 0, len(resources))
	for _, r := range resources {
		if !r.Active {
			continue
		}
		out = append(out, domain.ResourceOccupancy{
			ResourceID:   r.ID,
			ResourceName: r.Name,
			Occupancy:    Occupancy(ByResource(today, r.ID), s.DailyBookableHours),
		})
	}

	return out
}

// sparklineDays retorna os 7 dias terminando hoje, do mais antigo para o mais recente
func sparklineDays(now time.Time) []domain.DateRange {
	today := StartOfDay(now)
	days := make([]domain.DateRange, 0, SparklineDays)
	for i := SparklineDays - 1; i >= 0; i-- {
		days = append(days, DayRange(today.AddDate(0, 0, -i)))
	}
	return days
}

func sparkline(days []domain.DateRange, metric func(domain.DateRange) float64) []float64 {
	points := make([]float64, len(days))
	for i, day := range days {
		points[i] = metric(day)
	}
	return points
}

func dashboardRelative(curr, prev float64) domain.DashboardKpi {
	delta := PercentDelta(curr, prev)
	return domain.DashboardKpi{Value: curr, Previous: prev, Delta: delta, Trend: TrendOf(delta)}
}

func dashboardPoints(curr, prev float64) domain.DashboardKpi {
	delta := curr - prev
	return domain.DashboardKpi{Value: curr, Previous: prev, Delta: delta, Trend: TrendOf(delta)}
}
