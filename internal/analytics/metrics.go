package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

// Round arredonda para o inteiro mais próximo, com meio para cima
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Occupancy soma as horas das reservas e divide por totalHours, em porcentagem inteira.
// Conjunto vazio ou totalHours não positivo resulta em 0; o valor pode passar de 100.
func Occupancy(bookings []Booking, totalHours float64) int {
	if len(bookings) == 0 || totalHours <= 0 {
		return 0
	}

	hours := 0.0
	for _, b := range bookings {
		hours += b.Hours()
	}

	return int(Round(hours / totalHours * 100))
}

// PercentDelta retorna 0 quando não há base de comparação
func PercentDelta(curr, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return Round(100 * (curr - prev) / prev)
}

func ConversionRate(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return Round(100 * numerator / denominator)
}

// TrendOf classifica o sinal do delta
func TrendOf(delta float64) domain.Trend {
	switch {
	case delta > 0:
		return domain.TrendUp
	case delta < 0:
		return domain.TrendDown
	default:
		return domain.TrendNeutral
	}
}

// SumMoney soma valores monetários sem acumular erro de ponto flutuante
func SumMoney(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

func SumInvoiceTotals(invoices []Invoice) float64 {
	values := make([]float64, 0, len(invoices))
	for _, inv := range invoices {
		values = append(values, inv.Total)
	}
	return SumMoney(values...)
}

// SumBookingRevenue soma apenas reservas confirmadas ou concluídas
func SumBookingRevenue(bookings []Booking) float64 {
	values := make([]float64, 0, len(bookings))
	for _, b := range bookings {
		if b.IsConfirmed() {
			values = append(values, b.Price)
		}
	}
	return SumMoney(values...)
}

// ReconciledRevenue usa as faturas como fonte principal e a receita das reservas confirmadas como piso
func ReconciledRevenue(invoices []Invoice, bookings []Booking) float64 {
	return math.Max(SumInvoiceTotals(invoices), SumBookingRevenue(bookings))
}

// BookingsInRange filtra pela data de calendário da reserva, de forma inclusiva
func BookingsInRange(bookings []Booking, r domain.DateRange) []Booking {
	var out []Booking
	for _, b := range bookings {
		if InRange(b.Date, r) {
			out = append(out, b)
		}
	}
	return out
}

// InvoicesInRange filtra pela data de emissão; faturas sem data nunca entram
func InvoicesInRange(invoices []Invoice, r domain.DateRange) []Invoice {
	var out []Invoice
	for _, inv := range invoices {
		if inv.IssuedAt != nil && InRange(*inv.IssuedAt, r) {
			out = append(out, inv)
		}
	}
	return out
}

func filterBookings(bookings []Booking, keep func(Booking) bool) []Booking {
	var out []Booking
	for _, b := range bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func countBookings(bookings []Booking, keep func(Booking) bool) int {
	count := 0
	for _, b := range bookings {
		if keep(b) {
			count++
		}
	}
	return count
}

func sumPrices(bookings []Booking) float64 {
	values := make([]float64, 0, len(bookings))
	for _, b := range bookings {
		values = append(values, b.Price)
	}
	return SumMoney(values...)
}

// ByResource restringe as reservas a um recurso; id vazio devolve tudo
func ByResource(bookings []Booking, resourceID string) []Booking {
	if resourceID == "" {
		return bookings
	}
	return filterBookings(bookings, func(b Booking) bool { return b.ResourceID == resourceID })
}
