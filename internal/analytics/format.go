package analytics

import (
	"github.com/pkg/errors"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

// CurrencyFormatter decora valores monetários com o símbolo e a pontuação do locale
type CurrencyFormatter struct {
	unit    currency.Unit
	printer *message.Printer
}

func NewCurrencyFormatter(code, locale string) (*CurrencyFormatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid currency code %q", code)
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid locale %q", locale)
	}

	return &CurrencyFormatter{
		unit:    unit,
		printer: message.NewPrinter(tag),
	}, nil
}

func (f *CurrencyFormatter) Format(amount float64) string {
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(amount)))
}

// Decorate preenche o texto formatado dos indicadores monetários do painel
func (f *CurrencyFormatter) Decorate(snapshot *domain.DashboardSnapshot) {
	if f == nil || snapshot == nil {
		return
	}

	snapshot.PaymentsDue.Formatted = f.Format(snapshot.PaymentsDue.Value)
	snapshot.Revenue.Formatted = f.Format(snapshot.Revenue.Value)
}
