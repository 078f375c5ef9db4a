package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

const monthLabelLayout = "Jan 2006"

// BuildHistory gera um ponto por mês de calendário para os últimos months meses, do mais antigo ao atual.
// Reservas contam quando confirmadas ou pendentes; a receita é a reconciliada do mês.
func BuildHistory(bookings []Booking, invoices []Invoice, months int, now time.Time) []domain.HistoricalPoint {
	if months <= 0 {
		months = DefaultHistoryMonths
	}

	current := StartOfMonth(now)
	points := make([]domain.HistoricalPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		month := MonthRange(current.AddDate(0, -i, 0))
		inMonth := BookingsInRange(bookings, month)

		points = append(points, domain.HistoricalPoint{
			Month:       month.Label,
			Bookings:    countBookings(inMonth, Booking.IsActive),
			Revenue:     ReconciledRevenue(InvoicesInRange(invoices, month), inMonth),
			PeriodStart: month.Start,
		})
	}

	return points
}

// FitLine ajusta uma reta por mínimos quadrados com x = 0..n-1.
// Retorna ok=false com menos de dois pontos.
func FitLine(ys []float64) (slope, intercept float64, ok bool) {
	n := float64(len(ys))
	if len(ys) < 2 {
		return 0, 0, false
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, 0, false
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	return slope, intercept, true
}

// MeanRevenue é a receita média por ponto do histórico
func MeanRevenue(history []domain.HistoricalPoint) float64 {
	if len(history) == 0 {
		return 0
	}

	values := make([]float64, 0, len(history))
	for _, p := range history {
		values = append(values, p.Revenue)
	}

	return SumMoney(values...) / float64(len(history))
}

func bookingSeries(history []domain.HistoricalPoint) []float64 {
	ys := make([]float64, len(history))
	for i, p := range history {
		ys[i] = float64(p.Bookings)
	}
	return ys
}

// Forecast projeta a contagem de reservas pela reta ajustada ao histórico.
// A receita de cada ponto é a contagem prevista vezes a receita média histórica.
func Forecast(history []domain.HistoricalPoint, periods int) []domain.HistoricalPoint {
	if periods <= 0 {
		periods = DefaultForecastPeriods
	}

	slope, intercept, ok := FitLine(bookingSeries(history))
	if !ok {
		return []domain.HistoricalPoint{}
	}

	n := len(history)
	mean := MeanRevenue(history)
	last := history[n-1].PeriodStart

	points := make([]domain.HistoricalPoint, 0, periods)
	for i := 1; i <= periods; i++ {
		bookings := math.Max(0, Round(intercept+slope*float64(n+i-1)))

		point := domain.HistoricalPoint{
			Bookings: int(bookings),
			Revenue:  Round(bookings * mean),
		}
		if last.IsZero() {
			point.Month = fmt.Sprintf("Forecast +%d", i)
		} else {
			point.PeriodStart = last.AddDate(0, i, 0)
			point.Month = point.PeriodStart.Format(monthLabelLayout)
		}

		points = append(points, point)
	}

	return points
}

// ApplyScenario multiplica reservas e receita de cada ponto, arredondando cada campo separadamente
func ApplyScenario(points []domain.HistoricalPoint, multiplier float64) []domain.HistoricalPoint {
	out := make([]domain.HistoricalPoint, len(points))
	for i, p := range points {
		out[i] = domain.HistoricalPoint{
			Month:       p.Month,
			Bookings:    int(Round(float64(p.Bookings) * multiplier)),
			Revenue:     Round(p.Revenue * multiplier),
			PeriodStart: p.PeriodStart,
		}
	}
	return out
}

// BuildForecastReport junta histórico, previsão base e cenários otimista e cauteloso
func BuildForecastReport(history []domain.HistoricalPoint, periods int, settings Settings) domain.ForecastReport {
	s := settings.withDefaults()
	if periods <= 0 {
		periods = s.ForecastPeriods
	}

	base := Forecast(history, periods)
	slope, intercept, _ := FitLine(bookingSeries(history))

	return domain.ForecastReport{
		History:        history,
		Base:           base,
		Optimistic:     ApplyScenario(base, s.OptimisticMultiplier),
		Cautious:       ApplyScenario(base, s.CautiousMultiplier),
		Slope:          slope,
		Intercept:      intercept,
		MeanRevenue:    MeanRevenue(history),
		TrendDirection: TrendOf(slope),
	}
}
