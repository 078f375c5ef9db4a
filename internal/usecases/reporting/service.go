package reporting

import (
	"context"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vfg2006/venue-analytics-api/infrastructure/cache"
	"github.com/vfg2006/venue-analytics-api/infrastructure/repository"
	"github.com/vfg2006/venue-analytics-api/internal/analytics"
	"github.com/vfg2006/venue-analytics-api/internal/config"
	"github.com/vfg2006/venue-analytics-api/internal/domain"
	"github.com/vfg2006/venue-analytics-api/pkg/apiErrors"
	"github.com/vfg2006/venue-analytics-api/pkg/log"
)

const (
	kindDashboard = "dashboard"
	kindKpis      = "kpis"
	kindHistory   = "history"
	kindForecast  = "forecast"
	kindFunnel    = "funnel"
)

type Reporter interface {
	GetDashboard(ctx context.Context, q Query) (*domain.DashboardSnapshot, error)
	GetKpis(ctx context.Context, q Query) (*domain.KpiReport, error)
	GetHistory(ctx context.Context, q Query) ([]domain.HistoricalPoint, error)
	GetForecast(ctx context.Context, q Query) (*domain.ForecastReport, error)
	GetFunnel(ctx context.Context, q Query) (*domain.FunnelReport, error)
	InvalidateCache(ctx context.Context) (int64, error)
}

// Query identifica o owner já resolvido e os parâmetros de um relatório
type Query struct {
	OwnerID    string
	ResourceID *string
	Period     string
	Months     int
	Periods    int
	AsOf       *time.Time
}

type Service struct {
	bookingRepo  repository.BookingRepository
	invoiceRepo  repository.InvoiceRepository
	resourceRepo repository.ResourceRepository
	ownerRepo    repository.OwnerRepository
	cache        *cache.ReportCache
	settings     analytics.Settings
	currencyCode string
	locale       string
	location     *time.Location
	now          func() time.Time
}

func NewService(
	bookingRepo repository.BookingRepository,
	invoiceRepo repository.InvoiceRepository,
	resourceRepo repository.ResourceRepository,
	ownerRepo repository.OwnerRepository,
	cfg *config.Config,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		invoiceRepo:  invoiceRepo,
		resourceRepo: resourceRepo,
		ownerRepo:    ownerRepo,
		settings:     cfg.Analytics.Settings(),
		currencyCode: cfg.App.CurrencyCode,
		locale:       cfg.App.Locale,
		location:     cfg.App.Location(),
		now:          time.Now,
	}
}

// WithCache habilita o cache de relatórios
func (s *Service) WithCache(reportCache *cache.ReportCache) *Service {
	s.cache = reportCache
	return s
}

// WithClock substitui o relógio usado como instante de referência
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// reference devolve o instante de referência do relatório. Com AsOf, usa o fim daquele dia.
func (s *Service) reference(q Query) time.Time {
	now := s.now().In(s.location)
	if q.AsOf == nil {
		return now
	}

	y, m, d := q.AsOf.Date()
	asOf := analytics.EndOfDay(time.Date(y, m, d, 0, 0, 0, 0, s.location))
	if asOf.After(now) {
		return now
	}
	return asOf
}

func (s *Service) ensureOwner(ctx context.Context, ownerID string) (*domain.Owner, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, NewReportError(ErrOwnerIDRequired, apiErrors.ErrOwnerIDRequired, "", "")
	}

	owner, err := s.ownerRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, s.fetchError(ctx, ownerID, "owner", err)
	}
	if owner == nil {
		return nil, NewReportError(ErrOwnerNotFound, apiErrors.ErrOwnerNotFound, ownerID, ownerID)
	}

	return owner, nil
}

func (s *Service) fetchError(ctx context.Context, ownerID, source string, err error) error {
	log.ForContext(ctx).WithFields(log.Fields{
		"owner_id": ownerID,
		"source":   source,
		"error":    err.Error(),
	}).Error("reporting: falha ao buscar registros")

	return NewReportError(ErrFetchFailed, apiErrors.ErrDatabaseOperation, ownerID, source)
}

// snapshot são os registros normalizados de um owner, buscados em paralelo
type snapshot struct {
	bookings  []analytics.Booking
	invoices  []analytics.Invoice
	resources []domain.ResourceRecord
}

// fetchPlan define o que buscar além das reservas. statuses vazio traz todas as reservas.
type fetchPlan struct {
	invoices  bool
	resources bool
	statuses  []domain.BookingStatus
}

// fetch busca os registros do owner. Qualquer falha aborta o relatório inteiro.
func (s *Service) fetch(ctx context.Context, q Query, plan fetchPlan) (*snapshot, error) {
	var (
		bookings  []domain.BookingRecord
		invoices  []domain.InvoiceRecord
		resources []domain.ResourceRecord
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		filters := domain.BookingFilters{ResourceID: q.ResourceID, Statuses: plan.statuses}
		bookings, err = s.bookingRepo.ListByOwner(gctx, q.OwnerID, filters)
		if err != nil {
			return s.fetchError(ctx, q.OwnerID, "bookings", err)
		}
		return nil
	})

	if plan.invoices {
		g.Go(func() error {
			var err error
			invoices, err = s.invoiceRepo.ListByOwner(gctx, q.OwnerID)
			if err != nil {
				return s.fetchError(ctx, q.OwnerID, "invoices", err)
			}
			return nil
		})
	}

	if plan.resources {
		g.Go(func() error {
			var err error
			resources, err = s.resourceRepo.ListByOwner(gctx, q.OwnerID)
			if err != nil {
				return s.fetchError(ctx, q.OwnerID, "resources", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if q.ResourceID != nil {
		resources = onlyResource(resources, *q.ResourceID)
	}

	return &snapshot{
		bookings:  analytics.NormalizeBookings(bookings, s.location),
		invoices:  analytics.NormalizeInvoices(invoices),
		resources: resources,
	}, nil
}

func onlyResource(resources []domain.ResourceRecord, resourceID string) []domain.ResourceRecord {
	var out []domain.ResourceRecord
	for _, r := range resources {
		if r.ID == resourceID {
			out = append(out, r)
		}
	}
	return out
}

// cached executa load através do cache quando habilitado.
// Se a chave não puder ser montada, o relatório é calculado sem cache.
func cached[T any](ctx context.Context, s *Service, kind, ownerID, args string, asOf time.Time, load func(context.Context) (T, error)) (T, error) {
	if s.cache == nil {
		return load(ctx)
	}

	key, err := s.cache.Key(ctx, kind, ownerID, args, asOf)
	if err != nil {
		log.ForContext(ctx).WithFields(log.Fields{"report": kind, "error": err.Error()}).Warn("reporting: cache indisponível")
		return load(ctx)
	}

	var out T
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return load(ctx)
	})
	return out, err
}

func resourceArg(resourceID *string) string {
	if resourceID == nil {
		return "all"
	}
	return *resourceID
}

func (s *Service) formatterFor(ctx context.Context, owner *domain.Owner) *analytics.CurrencyFormatter {
	code := s.currencyCode
	if owner.CurrencyCode != "" {
		code = owner.CurrencyCode
	}

	f, err := analytics.NewCurrencyFormatter(code, s.locale)
	if err != nil {
		log.ForContext(ctx).WithFields(log.Fields{"owner_id": owner.ID, "error": err.Error()}).Warn("reporting: moeda inválida, valores sem formatação")
		return nil
	}
	return f
}

func (s *Service) GetDashboard(ctx context.Context, q Query) (*domain.DashboardSnapshot, error) {
	owner, err := s.ensureOwner(ctx, q.OwnerID)
	if err != nil {
		return nil, err
	}

	now := s.reference(q)

	snap, err := cached(ctx, s, kindDashboard, q.OwnerID, resourceArg(q.ResourceID), now,
		func(ctx context.Context) (domain.DashboardSnapshot, error) {
			data, err := s.fetch(ctx, q, fetchPlan{resources: true, statuses: domain.ReportableStatuses()})
			if err != nil {
				return domain.DashboardSnapshot{}, err
			}

			snap := analytics.BuildDashboard(data.bookings, now, s.settings)
			snap.ResourceOccupancy = analytics.ResourceOccupancy(data.bookings, data.resources, now, s.settings)
			s.formatterFor(ctx, owner).Decorate(&snap)

			return snap, nil
		})
	if err != nil {
		return nil, err
	}

	return &snap, nil
}

func (s *Service) GetKpis(ctx context.Context, q Query) (*domain.KpiReport, error) {
	if _, err := s.ensureOwner(ctx, q.OwnerID); err != nil {
		return nil, err
	}

	now := s.reference(q)
	current := analytics.ResolvePeriod(q.Period, now)

	report, err := cached(ctx, s, kindKpis, q.OwnerID, current.Label, now,
		func(ctx context.Context) (domain.KpiReport, error) {
			data, err := s.fetch(ctx, Query{OwnerID: q.OwnerID}, fetchPlan{invoices: true, statuses: domain.ReportableStatuses()})
			if err != nil {
				return domain.KpiReport{}, err
			}

			return analytics.ComputeKpis(current, analytics.PreviousRange(current), data.bookings, data.invoices, s.settings), nil
		})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

func (s *Service) historyMonths(q Query) int {
	if q.Months > 0 {
		return q.Months
	}
	return s.settings.HistoryMonths
}

func (s *Service) history(ctx context.Context, q Query, now time.Time) ([]domain.HistoricalPoint, error) {
	data, err := s.fetch(ctx, Query{OwnerID: q.OwnerID}, fetchPlan{invoices: true, statuses: domain.ReportableStatuses()})
	if err != nil {
		return nil, err
	}

	return analytics.BuildHistory(data.bookings, data.invoices, s.historyMonths(q), now), nil
}

func (s *Service) GetHistory(ctx context.Context, q Query) ([]domain.HistoricalPoint, error) {
	if _, err := s.ensureOwner(ctx, q.OwnerID); err != nil {
		return nil, err
	}

	now := s.reference(q)

	return cached(ctx, s, kindHistory, q.OwnerID, strconv.Itoa(s.historyMonths(q)), now,
		func(ctx context.Context) ([]domain.HistoricalPoint, error) {
			return s.history(ctx, q, now)
		})
}

func (s *Service) GetForecast(ctx context.Context, q Query) (*domain.ForecastReport, error) {
	if _, err := s.ensureOwner(ctx, q.OwnerID); err != nil {
		return nil, err
	}

	now := s.reference(q)
	periods := q.Periods
	if periods <= 0 {
		periods = s.settings.ForecastPeriods
	}
	args := strconv.Itoa(s.historyMonths(q)) + ":" + strconv.Itoa(periods)

	report, err := cached(ctx, s, kindForecast, q.OwnerID, args, now,
		func(ctx context.Context) (domain.ForecastReport, error) {
			history, err := s.history(ctx, q, now)
			if err != nil {
				return domain.ForecastReport{}, err
			}

			return analytics.BuildForecastReport(history, periods, s.settings), nil
		})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

func (s *Service) GetFunnel(ctx context.Context, q Query) (*domain.FunnelReport, error) {
	if _, err := s.ensureOwner(ctx, q.OwnerID); err != nil {
		return nil, err
	}

	now := s.reference(q)
	period := analytics.ResolvePeriod(q.Period, now)
	args := period.Label + ":" + resourceArg(q.ResourceID)

	report, err := cached(ctx, s, kindFunnel, q.OwnerID, args, now,
		func(ctx context.Context) (domain.FunnelReport, error) {
			// Requests conta todas as reservas do período, sem filtro de status
			data, err := s.fetch(ctx, q, fetchPlan{})
			if err != nil {
				return domain.FunnelReport{}, err
			}

			return analytics.BuildFunnelReport(period, data.bookings, now, s.settings), nil
		})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

// CacheEnabled indica se os relatórios são guardados em cache
func (s *Service) CacheEnabled() bool {
	return s.cache != nil
}

// InvalidateCache descarta todos os relatórios em cache
func (s *Service) InvalidateCache(ctx context.Context) (int64, error) {
	return s.cache.Bump(ctx)
}
