package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

func TestCurrencyFormatter(t *testing.T) {
	f, err := NewCurrencyFormatter("USD", "en-US")
	require.NoError(t, err)

	formatted := f.Format(1234.5)
	assert.Contains(t, formatted, "$")
	assert.Contains(t, formatted, "1,234.50")

	t.Run("código inválido", func(t *testing.T) {
		_, err := NewCurrencyFormatter("DOLLARS", "en-US")
		assert.Error(t, err)
	})

	t.Run("decora apenas indicadores monetários", func(t *testing.T) {
		snapshot := &domain.DashboardSnapshot{
			PaymentsDue:    domain.DashboardKpi{Value: 600},
			Revenue:        domain.DashboardKpi{Value: 100},
			OccupancyToday: domain.DashboardKpi{Value: 75},
		}

		f.Decorate(snapshot)

		assert.Contains(t, snapshot.PaymentsDue.Formatted, "600.00")
		assert.Contains(t, snapshot.Revenue.Formatted, "100.00")
		assert.Empty(t, snapshot.OccupancyToday.Formatted)
	})

	t.Run("formatter nulo não faz nada", func(t *testing.T) {
		var nilFormatter *CurrencyFormatter
		snapshot := &domain.DashboardSnapshot{Revenue: domain.DashboardKpi{Value: 10}}

		nilFormatter.Decorate(snapshot)

		assert.Empty(t, snapshot.Revenue.Formatted)
	})
}
