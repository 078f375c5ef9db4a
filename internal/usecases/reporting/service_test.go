package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/venue-analytics-api/infrastructure/cache"
	"github.com/vfg2006/venue-analytics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/venue-analytics-api/internal/config"
	"github.com/vfg2006/venue-analytics-api/internal/domain"
	"github.com/vfg2006/venue-analytics-api/pkg/apiErrors"
)

var testNow = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

type testDeps struct {
	bookings  *mocks.MockBookingRepository
	invoices  *mocks.MockInvoiceRepository
	resources *mocks.MockResourceRepository
	owners    *mocks.MockOwnerRepository
}

var reportableFilters = domain.BookingFilters{Statuses: domain.ReportableStatuses()}

func strPtr(s string) *string { return &s }

func floatPtr(v float64) *float64 { return &v }

func newTestService(t *testing.T) (*Service, testDeps) {
	t.Helper()

	ctrl := gomock.NewController(t)
	deps := testDeps{
		bookings:  mocks.NewMockBookingRepository(ctrl),
		invoices:  mocks.NewMockInvoiceRepository(ctrl),
		resources: mocks.NewMockResourceRepository(ctrl),
		owners:    mocks.NewMockOwnerRepository(ctrl),
	}

	cfg := &config.Config{}
	cfg.App.Timezone = "UTC"
	cfg.App.CurrencyCode = "USD"
	cfg.App.Locale = "en-US"

	svc := NewService(deps.bookings, deps.invoices, deps.resources, deps.owners, cfg).
		WithClock(func() time.Time { return testNow })

	return svc, deps
}

func expectOwner(deps testDeps, ownerID string) *gomock.Call {
	return deps.owners.EXPECT().GetByID(gomock.Any(), ownerID).
		Return(&domain.Owner{ID: ownerID, Name: "Salão Central", CurrencyCode: "EUR"}, nil)
}

func bookingRecord(id, date, start, end, status string, price float64, resourceID string) domain.BookingRecord {
	return domain.BookingRecord{
		ID:              id,
		OwnerID:         "owner-1",
		ResourceID:      strPtr(resourceID),
		Date:            date,
		StartTime:       start,
		EndTime:         end,
		Status:          status,
		CalculatedPrice: floatPtr(price),
	}
}

func todayRecords() []domain.BookingRecord {
	return []domain.BookingRecord{
		bookingRecord("b-1", "2024-03-13", "09:00", "15:00", "Confirmed", 300, "hall-a"),
		bookingRecord("b-2", "2024-03-13", "15:00", "18:00", "pending", 0, "hall-b"),
	}
}

func TestService_OwnerPrecondition(t *testing.T) {
	tests := []struct {
		name     string
		ownerID  string
		setup    func(deps testDeps)
		validate func(t *testing.T, err error)
	}{
		{
			name:    "owner vazio",
			ownerID: "  ",
			setup:   func(deps testDeps) {},
			validate: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrOwnerIDRequired)
				assert.True(t, IsPreconditionError(err))
			},
		},
		{
			name:    "owner inexistente",
			ownerID: "owner-x",
			setup: func(deps testDeps) {
				deps.owners.EXPECT().GetByID(gomock.Any(), "owner-x").Return(nil, nil)
			},
			validate: func(t *testing.T, err error) {
				var reportErr *ReportError
				require.True(t, errors.As(err, &reportErr))
				assert.Equal(t, apiErrors.ErrOwnerNotFound, reportErr.Code)
				assert.Equal(t, "owner-x", reportErr.OwnerID)
			},
		},
		{
			name:    "falha ao buscar owner",
			ownerID: "owner-1",
			setup: func(deps testDeps) {
				deps.owners.EXPECT().GetByID(gomock.Any(), "owner-1").Return(nil, errors.New("timeout"))
			},
			validate: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrFetchFailed)
				assert.False(t, IsPreconditionError(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService(t)
			tt.setup(deps)

			report, err := svc.GetKpis(context.Background(), Query{OwnerID: tt.ownerID, Period: "30d"})
			assert.Nil(t, report)
			tt.validate(t, err)
		})
	}
}

func TestService_GetDashboard(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()

	expectOwner(deps, "owner-1")
	deps.bookings.EXPECT().ListByOwner(gomock.Any(), "owner-1", reportableFilters).Return(todayRecords(), nil)
	deps.resources.EXPECT().ListByOwner(gomock.Any(), "owner-1").Return([]domain.ResourceRecord{
		{ID: "hall-a", Name: "Hall A", Active: true},
		{ID: "hall-b", Name: "Hall B", Active: true},
	}, nil)

	snapshot, err := svc.GetDashboard(ctx, Query{OwnerID: "owner-1"})
	require.NoError(t, err)

	assert.Equal(t, 75.0, snapshot.OccupancyToday.Value)
	assert.Equal(t, 300.0, snapshot.PaymentsDue.Value)
	assert.Contains(t, snapshot.PaymentsDue.Formatted, "300.00")
	assert.Equal(t, []domain.ResourceOccupancy{
		{ResourceID: "hall-a", ResourceName: "Hall A", Occupancy: 50},
		{ResourceID: "hall-b", ResourceName: "Hall B", Occupancy: 25},
	}, snapshot.ResourceOccupancy)
}

func TestService_GetDashboard_ResourceScoped(t *testing.T) {
	svc, deps := newTestService(t)

	expectOwner(deps, "owner-1")
	deps.bookings.EXPECT().
		ListByOwner(gomock.Any(), "owner-1", domain.BookingFilters{ResourceID: strPtr("hall-a"), Statuses: domain.ReportableStatuses()}).
		Return(todayRecords()[:1], nil)
	deps.resources.EXPECT().ListByOwner(gomock.Any(), "owner-1").Return([]domain.ResourceRecord{
		{ID: "hall-a", Name: "Hall A", Active: true},
		{ID: "hall-b", Name: "Hall B", Active: true},
	}, nil)

	snapshot, err := svc.GetDashboard(context.Background(), Query{OwnerID: "owner-1", ResourceID: strPtr("hall-a")})
	require.NoError(t, err)

	assert.Equal(t, 50.0, snapshot.OccupancyToday.Value)
	require.Len(t, snapshot.ResourceOccupancy, 1)
	assert.Equal(t, "hall-a", snapshot.ResourceOccupancy[0].ResourceID)
}

func TestService_FetchFailureAbortsReport(t *testing.T) {
	svc, deps := newTestService(t)

	expectOwner(deps, "owner-1")
	deps.bookings.EXPECT().ListByOwner(gomock.Any(), "owner-1", reportableFilters).Return(todayRecords(), nil)
	deps.invoices.EXPECT().ListByOwner(gomock.Any(), "owner-1").Return(nil, errors.New("connection reset"))

	report, err := svc.GetKpis(context.Background(), Query{OwnerID: "owner-1", Period: "30d"})

	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrFetchFailed)

	var reportErr *ReportError
	require.True(t, errors.As(err, &reportErr))
	assert.Equal(t, apiErrors.ErrDatabaseOperation, reportErr.Code)
	assert.Equal(t, "invoices", reportErr.Details)
}

func TestService_GetKpis(t *testing.T) {
	svc, deps := newTestService(t)

	issued := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	expectOwner(deps, "owner-1")
	deps.bookings.EXPECT().ListByOwner(gomock.Any(), "owner-1", reportableFilters).Return(todayRecords(), nil)
	deps.invoices.EXPECT().ListByOwner(gomock.Any(), "owner-1").Return([]domain.InvoiceRecord{
		{ID: "inv-1", OwnerID: "owner-1", IssueDate: &issued, Total: floatPtr(1000), Status: "PAID"},
	}, nil)

	report, err := svc.GetKpis(context.Background(), Query{OwnerID: "owner-1", Period: "bogus"})
	require.NoError(t, err)

	assert.Equal(t, "90d", report.CurrentRange.Label)
	assert.Equal(t, 2.0, report.Bookings.Value)
	assert.Equal(t, 1000.0, report.Revenue.Value)
	assert.Equal(t, 50.0, report.DepositConversion.Value)
}

func TestService_GetForecast(t *testing.T) {
	svc, deps := newTestService(t)

	records := []domain.BookingRecord{
		bookingRecord("jan-1", "2024-01-10", "10:00", "12:00", "confirmed", 100, "hall-a"),
		bookingRecord("feb-1", "2024-02-10", "10:00", "12:00", "confirmed", 100, "hall-a"),
		bookingRecord("feb-2", "2024-02-11", "10:00", "12:00", "confirmed", 100, "hall-a"),
		bookingRecord("mar-1", "2024-03-10", "10:00", "12:00", "confirmed", 100, "hall-a"),
		bookingRecord("mar-2", "2024-03-11", "10:00", "12:00", "confirmed", 100, "hall-a"),
		bookingRecord("mar-3", "2024-03-12", "10:00", "12:00", "confirmed", 100, "hall-a"),
	}

	expectOwner(deps, "owner-1")
	deps.bookings.EXPECT().ListByOwner(gomock.Any(), "owner-1", reportableFilters).Return(records, nil)
	deps.invoices.EXPECT().ListByOwner(gomock.Any(), "owner-1").Return(nil, nil)

	report, err := svc.GetForecast(context.Background(), Query{OwnerID: "owner-1", Months: 3, Periods: 2})
	require.NoError(t, err)

	require.Len(t, report.History, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{report.History[0].Bookings, report.History[1].Bookings, report.History[2].Bookings})
	require.Len(t, report.Base, 2)
	assert.Equal(t, 4, report.Base[0].Bookings)
	assert.Equal(t, 5, report.Base[1].Bookings)
	assert.Equal(t, 1.0, report.Slope)
	assert.Equal(t, domain.TrendUp, report.TrendDirection)
}

func TestService_GetFunnel_AsOf(t *testing.T) {
	svc, deps := newTestService(t)

	asOf := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	expectOwner(deps, "owner-1")
	deps.bookings.EXPECT().ListByOwner(gomock.Any(), "owner-1", domain.BookingFilters{}).Return(todayRecords(), nil)

	report, err := svc.GetFunnel(context.Background(), Query{OwnerID: "owner-1", Period: "30d", AsOf: &asOf})
	require.NoError(t, err)

	assert.Equal(t, asOf, report.Period.End)
	assert.Equal(t, 0, report.Stages[0].Count)
}

func TestService_CachedHistory(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	assert.False(t, svc.CacheEnabled())
	svc.WithCache(cache.NewReportCache(client, time.Hour))
	assert.True(t, svc.CacheEnabled())

	expectOwner(deps, "owner-1").Times(3)
	deps.bookings.EXPECT().ListByOwner(gomock.Any(), "owner-1", reportableFilters).Return(todayRecords(), nil).Times(2)
	deps.invoices.EXPECT().ListByOwner(gomock.Any(), "owner-1").Return(nil, nil).Times(2)

	first, err := svc.GetHistory(ctx, Query{OwnerID: "owner-1", Months: 2})
	require.NoError(t, err)

	second, err := svc.GetHistory(ctx, Query{OwnerID: "owner-1", Months: 2})
	require.NoError(t, err)
	assert.Equal(t, len(first), len(second))
	assert.Equal(t, first[1].Revenue, second[1].Revenue)

	version, err := svc.InvalidateCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	_, err = svc.GetHistory(ctx, Query{OwnerID: "owner-1", Months: 2})
	require.NoError(t, err)
}
