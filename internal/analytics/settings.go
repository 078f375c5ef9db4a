package analytics

import "time"

const (
	DefaultDailyBookableHours   = 12.0
	DefaultHoldExpiry           = 48 * time.Hour
	DefaultHoldStageAge         = 48 * time.Hour
	DefaultOptimisticMultiplier = 1.15
	DefaultCautiousMultiplier   = 0.85
	DefaultHistoryMonths        = 6
	DefaultForecastPeriods      = 6
	SparklineDays               = 7
)

const (
	StageRequests  = "Requests"
	StagePending   = "Pending"
	StageHold      = "Hold"
	StageConfirmed = "Confirmed"
	StageCompleted = "Completed"
)

// CancellationShare é a fração fixa do total de cancelamentos atribuída a um motivo
type CancellationShare struct {
	Reason string
	Share  float64
}

// Settings reúne as regras de negócio configuráveis do motor.
// Os motivos do funil e as proporções de cancelamento são rótulos fixos, não derivados dos dados.
type Settings struct {
	DailyBookableHours   float64
	HoldExpiry           time.Duration
	HoldStageAge         time.Duration
	OptimisticMultiplier float64
	CautiousMultiplier   float64
	HistoryMonths        int
	ForecastPeriods      int
	FunnelReasons        map[string]string
	CancellationShares   []CancellationShare
}

func DefaultFunnelReasons() map[string]string {
	return map[string]string{
		StagePending:   "Awaiting owner response",
		StageHold:      "Hold expiring without action",
		StageConfirmed: "Deposit not paid",
	}
}

func DefaultCancellationShares() []CancellationShare {
	return []CancellationShare{
		{Reason: "Date change", Share: 0.4},
		{Reason: "Found another venue", Share: 0.3},
		{Reason: "Budget constraints", Share: 0.2},
		{Reason: "Other", Share: 0.1},
	}
}

func DefaultSettings() Settings {
	return Settings{
		DailyBookableHours:   DefaultDailyBookableHours,
		HoldExpiry:           DefaultHoldExpiry,
		HoldStageAge:         DefaultHoldStageAge,
		OptimisticMultiplier: DefaultOptimisticMultiplier,
		CautiousMultiplier:   DefaultCautiousMultiplier,
		HistoryMonths:        DefaultHistoryMonths,
		ForecastPeriods:      DefaultForecastPeriods,
		FunnelReasons:        DefaultFunnelReasons(),
		CancellationShares:   DefaultCancellationShares(),
	}
}

// withDefaults preenche campos zerados com os valores padrão
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.DailyBookableHours <= 0 {
		s.DailyBookableHours = d.DailyBookableHours
	}
	if s.HoldExpiry <= 0 {
		s.HoldExpiry = d.HoldExpiry
	}
	if s.HoldStageAge <= 0 {
		s.HoldStageAge = d.HoldStageAge
	}
	if s.OptimisticMultiplier <= 0 {
		s.OptimisticMultiplier = d.OptimisticMultiplier
	}
	if s.CautiousMultiplier <= 0 {
		s.CautiousMultiplier = d.CautiousMultiplier
	}
	if s.HistoryMonths <= 0 {
		s.HistoryMonths = d.HistoryMonths
	}
	if s.ForecastPeriods <= 0 {
		s.ForecastPeriods = d.ForecastPeriods
	}
	if s.FunnelReasons == nil {
		s.FunnelReasons = d.FunnelReasons
	}
	if len(s.CancellationShares) == 0 {
		s.CancellationShares = d.CancellationShares
	}
	return s
}
