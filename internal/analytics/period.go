// Package analytics contém o motor de relatórios: resolução de períodos,
// normalização de registros, métricas, KPIs, snapshot do painel, previsão e funil.
// Nenhuma função deste pacote lê o relógio global; o instante de referência é sempre recebido.
package analytics

import (
	"strings"
	"time"

	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

const (
	Period30Days  = "30d"
	Period90Days  = "90d"
	Period180Days = "180d"
	Period1Year   = "1y"

	DefaultPeriod = Period90Days
)

var periodDays = map[string]int{
	Period30Days:  30,
	Period90Days:  90,
	Period180Days: 180,
	Period1Year:   365,
}

// CalendarRanges agrupa os intervalos usados pelo painel operacional
type CalendarRanges struct {
	Today      domain.DateRange
	Yesterday  domain.DateRange
	ThisWeek   domain.DateRange
	LastWeek   domain.DateRange
	ThisMonth  domain.DateRange
	Last7Days  domain.DateRange
	Last30Days domain.DateRange
}

// NormalizePeriod devolve o token reconhecido ou o padrão de 90 dias
func NormalizePeriod(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	if _, ok := periodDays[t]; ok {
		return t
	}
	return DefaultPeriod
}

// StartOfDay zera o horário mantendo a localização de t
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay retorna o último milissegundo do dia de t
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// ResolvePeriod calcula [hoje - N dias, hoje] para o token informado.
// Tokens desconhecidos usam o período de 90 dias.
func ResolvePeriod(token string, now time.Time) domain.DateRange {
	label := NormalizePeriod(token)
	today := StartOfDay(now)

	return domain.DateRange{
		Start: today.AddDate(0, 0, -periodDays[label]),
		End:   today,
		Label: label,
	}
}

// PreviousRange retorna a janela imediatamente anterior, sem sobreposição e com a mesma duração
func PreviousRange(r domain.DateRange) domain.DateRange {
	duration := r.End.Sub(r.Start)
	prevEnd := r.Start.Add(-time.Millisecond)

	label := ""
	if r.Label != "" {
		label = "previous " + r.Label
	}

	return domain.DateRange{
		Start: prevEnd.Add(-duration),
		End:   prevEnd,
		Label: label,
	}
}

// Days conta os dias de calendário cuja meia-noite cai dentro do intervalo,
// ou seja, as datas de reserva que BookingsInRange pode enxergar
func Days(r domain.DateRange) int {
	if r.End.Before(r.Start) {
		return 0
	}

	days := 0
	for d := StartOfDay(r.Start); !d.After(r.End); d = d.AddDate(0, 0, 1) {
		if InRange(d, r) {
			days++
		}
	}

	return days
}

// StartOfWeek retorna a segunda-feira da semana ISO de t
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth retorna o primeiro dia do mês de t
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// DayRange cobre um único dia de calendário
func DayRange(t time.Time) domain.DateRange {
	return domain.DateRange{Start: StartOfDay(t), End: EndOfDay(t)}
}

// MonthRange cobre o mês de calendário de t
func MonthRange(t time.Time) domain.DateRange {
	start := StartOfMonth(t)
	return domain.DateRange{
		Start: start,
		End:   EndOfDay(start.AddDate(0, 1, -1)),
		Label: start.Format("Jan 2006"),
	}
}

// LastNDays cobre os N dias terminando hoje, com hoje incluído
func LastNDays(now time.Time, n int) domain.DateRange {
	today := StartOfDay(now)
	return domain.DateRange{
		Start: today.AddDate(0, 0, -(n - 1)),
		End:   EndOfDay(today),
	}
}

// WeekAndMonthRanges calcula a semana ISO (segunda a domingo), o mês de calendário
// e as janelas móveis de 7 e 30 dias ancoradas em hoje
func WeekAndMonthRanges(now time.Time) CalendarRanges {
	today := StartOfDay(now)
	weekStart := StartOfWeek(today)
	lastWeekStart := weekStart.AddDate(0, 0, -7)

	return CalendarRanges{
		Today:     DayRange(today),
		Yesterday: DayRange(today.AddDate(0, 0, -1)),
		ThisWeek: domain.DateRange{
			Start: weekStart,
			End:   EndOfDay(weekStart.AddDate(0, 0, 6)),
			Label: "this week",
		},
		LastWeek: domain.DateRange{
			Start: lastWeekStart,
			End:   EndOfDay(lastWeekStart.AddDate(0, 0, 6)),
			Label: "last week",
		},
		ThisMonth:  MonthRange(today),
		Last7Days:  LastNDays(today, 7),
		Last30Days: LastNDays(today, 30),
	}
}

// InRange compara de forma inclusiva nas duas pontas
func InRange(t time.Time, r domain.DateRange) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
