package domain

import "time"

type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// DateRange é um intervalo com comparações inclusivas nas duas pontas
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label,omitempty"`
}

type KpiResult struct {
	Value  float64 `json:"value"`
	Delta  float64 `json:"delta"`
	Trend  Trend   `json:"trend"`
	Period string  `json:"period"`
}

// KpiReport agrupa os KPIs executivos de um período contra o período anterior
type KpiReport struct {
	Bookings          KpiResult `json:"bookings"`
	Revenue           KpiResult `json:"revenue"`
	Utilisation       KpiResult `json:"utilisation"`
	DepositConversion KpiResult `json:"deposit_conversion"`
	OnTimePayments    KpiResult `json:"on_time_payments"`
	CancellationRate  KpiResult `json:"cancellation_rate"`
	CurrentRange      DateRange `json:"current_range"`
	PreviousRange     DateRange `json:"previous_range"`
}

type HistoricalPoint struct {
	Month       string    `json:"month"`
	Bookings    int       `json:"bookings"`
	Revenue     float64   `json:"revenue"`
	PeriodStart time.Time `json:"period_start"`
}

type ForecastReport struct {
	History        []HistoricalPoint `json:"history"`
	Base           []HistoricalPoint `json:"base"`
	Optimistic     []HistoricalPoint `json:"optimistic"`
	Cautious       []HistoricalPoint `json:"cautious"`
	Slope          float64           `json:"slope"`
	Intercept      float64           `json:"intercept"`
	MeanRevenue    float64           `json:"mean_revenue"`
	TrendDirection Trend             `json:"trend_direction"`
}

type FunnelStage struct {
	Stage   string `json:"stage"`
	Count   int    `json:"count"`
	Dropoff int    `json:"dropoff"`
	Reason  string `json:"reason,omitempty"`
}

type CancellationReason struct {
	Reason string  `json:"reason"`
	Count  int     `json:"count"`
	Rate   float64 `json:"rate"`
}

type AgingBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type FunnelReport struct {
	Period        DateRange            `json:"period"`
	Stages        []FunnelStage        `json:"stages"`
	Cancellations []CancellationReason `json:"cancellations"`
	PendingAging  []AgingBucket        `json:"pending_aging"`
}

// DashboardKpi é um indicador rápido do painel operacional com sparkline de 7 dias
type DashboardKpi struct {
	Value     float64   `json:"value"`
	Previous  float64   `json:"previous"`
	Delta     float64   `json:"delta"`
	Trend     Trend     `json:"trend"`
	Formatted string    `json:"formatted,omitempty"`
	Sparkline []float64 `json:"sparkline"`
}

type ResourceOccupancy struct {
	ResourceID   string `json:"resource_id"`
	ResourceName string `json:"resource_name"`
	Occupancy    int    `json:"occupancy"`
}

type DashboardSnapshot struct {
	GeneratedAt       time.Time           `json:"generated_at"`
	OccupancyToday    DashboardKpi        `json:"occupancy_today"`
	BookingsThisWeek  DashboardKpi        `json:"bookings_this_week"`
	HoldsExpiring     DashboardKpi        `json:"holds_expiring"`
	PaymentsDue       DashboardKpi        `json:"payments_due"`
	Cancellations     DashboardKpi        `json:"cancellations"`
	Revenue           DashboardKpi        `json:"revenue"`
	ResourceOccupancy []ResourceOccupancy `json:"resource_occupancy,omitempty"`
}
