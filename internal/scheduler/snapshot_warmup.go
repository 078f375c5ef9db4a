// Package scheduler contém os serviços de agendamento de tarefas em segundo plano
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/vfg2006/venue-analytics-api/infrastructure/repository"
	"github.com/vfg2006/venue-analytics-api/internal/config"
	"github.com/vfg2006/venue-analytics-api/internal/domain"
	"github.com/vfg2006/venue-analytics-api/internal/usecases/reporting"
	"github.com/vfg2006/venue-analytics-api/pkg/log"
	"github.com/vfg2006/venue-analytics-api/pkg/utils"
)

const defaultMaxConcurrentJobs = 4

var ErrWarmupRunning = errors.New("pré-cálculo de dashboards já em andamento")

// DashboardBuilder é a parte do serviço de relatórios usada pelo pré-cálculo
type DashboardBuilder interface {
	GetDashboard(ctx context.Context, q reporting.Query) (*domain.DashboardSnapshot, error)
}

// cacheReporter informa se os dashboards calculados ficam guardados em cache
type cacheReporter interface {
	CacheEnabled() bool
}

// SnapshotWarmupConfig representa a configuração do agendador de pré-cálculo
type SnapshotWarmupConfig struct {
	CronSchedule      string
	MaxConcurrentJobs int
	Enabled           bool
}

// SnapshotWarmupService calcula periodicamente o dashboard de todos os owners para aquecer o cache
type SnapshotWarmupService struct {
	scheduler  *gocron.Scheduler
	config     SnapshotWarmupConfig
	ownerRepo  repository.OwnerRepository
	dashboards DashboardBuilder

	mu                 sync.Mutex
	running            bool
	lastRunID          string
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
	lastRunOwners      int
	lastRunFailures    int
}

// NewSnapshotWarmupService cria uma nova instância do serviço de pré-cálculo
func NewSnapshotWarmupService(
	ownerRepo repository.OwnerRepository,
	dashboards DashboardBuilder,
	appConfig *config.Config,
) *SnapshotWarmupService {
	warmupConfig := SnapshotWarmupConfig{
		CronSchedule:      appConfig.SnapshotWarmup.CronSchedule,
		MaxConcurrentJobs: appConfig.SnapshotWarmup.MaxConcurrentJobs,
		Enabled:           appConfig.SnapshotWarmup.Enabled,
	}
	if warmupConfig.MaxConcurrentJobs <= 0 {
		warmupConfig.MaxConcurrentJobs = defaultMaxConcurrentJobs
	}

	log.L.WithFields(log.Fields{
		"cron_schedule":       warmupConfig.CronSchedule,
		"max_concurrent_jobs": warmupConfig.MaxConcurrentJobs,
		"enabled":             warmupConfig.Enabled,
	}).Info("Configuração do agendador de pré-cálculo carregada")

	return &SnapshotWarmupService{
		scheduler:  gocron.NewScheduler(appConfig.App.Location()),
		config:     warmupConfig,
		ownerRepo:  ownerRepo,
		dashboards: dashboards,
	}
}

// Start inicia o agendador
func (s *SnapshotWarmupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		log.L.Info("Pré-cálculo de dashboards desabilitado por configuração")
		return nil
	}

	// sem cache o resultado seria descartado
	if c, ok := s.dashboards.(cacheReporter); ok && !c.CacheEnabled() {
		log.L.Info("Pré-cálculo de dashboards ignorado: cache de relatórios desabilitado")
		return nil
	}

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.warmAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar pré-cálculo de dashboards: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Parando agendador de pré-cálculo de dashboards")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *SnapshotWarmupService) begin() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return "", false
	}

	runID, err := utils.GenerateID()
	if err != nil {
		runID = "manual"
	}

	s.running = true
	s.lastRunID = runID
	s.lastRunStartedAt = time.Now()
	return runID, true
}

func (s *SnapshotWarmupService) finish(owners, failures int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	s.lastRunCompletedAt = time.Now()
	s.lastRunOwners = owners
	s.lastRunFailures = failures
}

// warmAll calcula o dashboard de cada owner com no máximo MaxConcurrentJobs em paralelo.
// Falhas de um owner não interrompem os demais.
func (s *SnapshotWarmupService) warmAll(ctx context.Context) {
	runID, ok := s.begin()
	if !ok {
		log.L.Info("Pré-cálculo de dashboards já em andamento, ignorando")
		return
	}

	logger := log.ForContext(ctx).WithField("run_id", runID)
	startTime := time.Now()

	owners, err := s.ownerRepo.List(ctx)
	if err != nil {
		logger.WithError(err).Error("Erro ao buscar owners para pré-cálculo")
		s.finish(0, 0)
		return
	}

	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var (
		wg       sync.WaitGroup
		failMu   sync.Mutex
		failures int
	)

	for _, owner := range owners {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(owner domain.Owner) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			if _, err := s.dashboards.GetDashboard(ctx, reporting.Query{OwnerID: owner.ID}); err != nil {
				logger.WithFields(log.Fields{"owner_id": owner.ID, "error": err.Error()}).Warn("Falha no pré-cálculo do dashboard")
				failMu.Lock()
				failures++
				failMu.Unlock()
			}
		}(owner)
	}

	wg.Wait()
	s.finish(len(owners), failures)

	logger.WithFields(log.Fields{
		"duration_ms": time.Since(startTime).Milliseconds(),
		"owners":      len(owners),
		"failures":    failures,
	}).Info("Pré-cálculo de dashboards concluído")
}

// TriggerManualSync inicia manualmente um pré-cálculo em segundo plano
func (s *SnapshotWarmupService) TriggerManualSync(ctx context.Context) error {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	if running {
		return ErrWarmupRunning
	}

	log.ForContext(ctx).Info("Iniciando pré-cálculo manual de dashboards")
	go s.warmAll(context.WithoutCancel(ctx))

	return nil
}

// GetStatus retorna o status atual do agendador
func (s *SnapshotWarmupService) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":               s.config.Enabled,
		"cron":                  s.config.CronSchedule,
		"max_concurrent":        s.config.MaxConcurrentJobs,
		"running":               s.running,
		"last_run_id":           s.lastRunID,
		"last_run_started_at":   s.lastRunStartedAt,
		"last_run_completed_at": s.lastRunCompletedAt,
		"last_run_owners":       s.lastRunOwners,
		"last_run_failures":     s.lastRunFailures,
	}
}
