package analytics

import "github.com/vfg2006/venue-analytics-api/internal/domain"

// periodMetrics são os valores brutos de um período, antes da comparação
type periodMetrics struct {
	bookings          float64
	revenue           float64
	utilisation       float64
	depositConversion float64
	onTimePayments    float64
	cancellationRate  float64
}

func measurePeriod(r domain.DateRange, bookings []Booking, invoices []Invoice, s Settings) periodMetrics {
	inRange := BookingsInRange(bookings, r)

	confirmed := countBookings(inRange, Booking.IsConfirmed)
	pending := countBookings(inRange, Booking.IsPending)
	cancelled := countBookings(inRange, Booking.IsCancelled)
	active := filterBookings(inRange, Booking.IsActive)

	// depositConversion e onTimePayments compartilham a mesma fórmula
	conversion := ConversionRate(float64(confirmed), float64(confirmed+pending))

	return periodMetrics{
		bookings:          float64(confirmed + pending),
		revenue:           ReconciledRevenue(InvoicesInRange(invoices, r), inRange),
		utilisation:       float64(Occupancy(active, s.DailyBookableHours*float64(Days(r)))),
		depositConversion: conversion,
		onTimePayments:    conversion,
		cancellationRate:  ConversionRate(float64(cancelled), float64(confirmed+pending)),
	}
}

// relativeKpi compara contagens e valores monetários em variação percentual
func relativeKpi(curr, prev float64, label string) domain.KpiResult {
	delta := PercentDelta(curr, prev)
	return domain.KpiResult{Value: curr, Delta: delta, Trend: TrendOf(delta), Period: label}
}

// pointKpi compara taxas pela diferença em pontos percentuais
func pointKpi(curr, prev float64, label string) domain.KpiResult {
	delta := curr - prev
	return domain.KpiResult{Value: curr, Delta: delta, Trend: TrendOf(delta), Period: label}
}

// ComputeKpis calcula os KPIs executivos do período atual contra o anterior
func ComputeKpis(current, previous domain.DateRange, bookings []Booking, invoices []Invoice, settings Settings) domain.KpiReport {
	s := settings.withDefaults()
	curr := measurePeriod(current, bookings, invoices, s)
	prev := measurePeriod(previous, bookings, invoices, s)
	label := current.Label

	return domain.KpiReport{
		Bookings:          relativeKpi(curr.bookings, prev.bookings, label),
		Revenue:           relativeKpi(curr.revenue, prev.revenue, label),
		Utilisation:       pointKpi(curr.utilisation, prev.utilisation, label),
		DepositConversion: pointKpi(curr.depositConversion, prev.depositConversion, label),
		OnTimePayments:    pointKpi(curr.onTimePayments, prev.onTimePayments, label),
		CancellationRate:  pointKpi(curr.cancellationRate, prev.cancellationRate, label),
		CurrentRange:      current,
		PreviousRange:     previous,
	}
}
