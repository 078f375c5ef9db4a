package analytics

import (
	"time"

	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

// StageCount é a contagem bruta de uma etapa do funil
type StageCount struct {
	Stage string
	Count int
}

// BuildFunnel conta as reservas do período em cada etapa do funil.
// As etapas são independentes entre si, então o dropoff pode ser negativo e não é ajustado.
func BuildFunnel(periodBookings []Booking, now time.Time, settings Settings) []domain.FunnelStage {
	s := settings.withDefaults()
	holdCutoff := now.Add(-s.HoldStageAge)

	counts := []StageCount{
		{StageRequests, len(periodBookings)},
		{StagePending, countBookings(periodBookings, Booking.IsPending)},
		{StageHold, len(HoldsOlderThan(periodBookings, holdCutoff))},
		{StageConfirmed, countBookings(periodBookings, func(b Booking) bool {
			return b.Status == domain.BookingStatusConfirmed
		})},
		{StageCompleted, countBookings(periodBookings, func(b Booking) bool {
			return b.Status == domain.BookingStatusCompleted
		})},
	}

	return FunnelFromCounts(counts, s.FunnelReasons)
}

// FunnelFromCounts calcula dropoff[i] = count[i-1] - count[i] e anexa o motivo de cada etapa após a primeira
func FunnelFromCounts(counts []StageCount, reasons map[string]string) []domain.FunnelStage {
	stages := make([]domain.FunnelStage, len(counts))
	for i, c := range counts {
		stage := domain.FunnelStage{Stage: c.Stage, Count: c.Count}
		if i > 0 {
			stage.Dropoff = counts[i-1].Count - c.Count
			stage.Reason = reasons[c.Stage]
		}
		stages[i] = stage
	}

	return stages
}

// CancellationBreakdown distribui o total de cancelamentos entre motivos fixos,
// segundo proporções configuradas e não por classificação dos dados
func CancellationBreakdown(cancelled int, shares []CancellationShare) []domain.CancellationReason {
	if len(shares) == 0 {
		shares = DefaultCancellationShares()
	}

	out := make([]domain.CancellationReason, 0, len(shares))
	for _, sh := range shares {
		out = append(out, domain.CancellationReason{
			Reason: sh.Reason,
			Count:  int(Round(float64(cancelled) * sh.Share)),
			Rate:   Round(sh.Share * 100),
		})
	}

	return out
}

var agingBuckets = []struct {
	label   string
	maxDays int
}{
	{"0-2 days", 2},
	{"3-7 days", 7},
	{"8-14 days", 14},
	{"15+ days", -1},
}

// PendingAging agrupa as reservas pendentes pela idade em dias desde a criação.
// Pendentes sem data de criação entram no primeiro grupo.
func PendingAging(bookings []Booking, now time.Time) []domain.AgingBucket {
	out := make([]domain.AgingBucket, len(agingBuckets))
	for i, b := range agingBuckets {
		out[i].Label = b.label
	}

	for _, b := range bookings {
		if !b.IsPending() {
			continue
		}

		age := 0
		if b.CreatedAt != nil {
			age = int(now.Sub(*b.CreatedAt).Hours() / 24)
		}

		for i, bucket := range agingBuckets {
			if bucket.maxDays < 0 || age <= bucket.maxDays {
				out[i].Count++
				break
			}
		}
	}

	return out
}

// BuildFunnelReport junta funil, cancelamentos e envelhecimento das pendentes do período
func BuildFunnelReport(period domain.DateRange, bookings []Booking, now time.Time, settings Settings) domain.FunnelReport {
	s := settings.withDefaults()
	inPeriod := BookingsInRange(bookings, period)

	return domain.FunnelReport{
		Period:        period,
		Stages:        BuildFunnel(inPeriod, now, s),
		Cancellations: CancellationBreakdown(countBookings(inPeriod, Booking.IsCancelled), s.CancellationShares),
		PendingAging:  PendingAging(inPeriod, now),
	}
}
