package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/venue-analytics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/venue-analytics-api/internal/domain"
	"github.com/vfg2006/venue-analytics-api/internal/usecases/reporting"
)

type fakeDashboards struct {
	mu       sync.Mutex
	calls    []string
	failFor  map[string]bool
	inFlight int32
	maxSeen  int32
}

func (f *fakeDashboards) GetDashboard(_ context.Context, q reporting.Query) (*domain.DashboardSnapshot, error) {
	current := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)

	for {
		seen := atomic.LoadInt32(&f.maxSeen)
		if current <= seen || atomic.CompareAndSwapInt32(&f.maxSeen, seen, current) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.calls = append(f.calls, q.OwnerID)
	f.mu.Unlock()

	if f.failFor[q.OwnerID] {
		return nil, errors.New("falha simulada")
	}
	return &domain.DashboardSnapshot{}, nil
}

type uncachedDashboards struct {
	fakeDashboards
}

func (u *uncachedDashboards) CacheEnabled() bool { return false }

func newWarmupService(t *testing.T, dashboards DashboardBuilder, maxConcurrent int) (*SnapshotWarmupService, *mocks.MockOwnerRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	ownerRepo := mocks.NewMockOwnerRepository(ctrl)

	return &SnapshotWarmupService{
		scheduler:  gocron.NewScheduler(time.UTC),
		config:     SnapshotWarmupConfig{CronSchedule: "0 5 * * *", MaxConcurrentJobs: maxConcurrent, Enabled: true},
		ownerRepo:  ownerRepo,
		dashboards: dashboards,
	}, ownerRepo
}

func TestSnapshotWarmupService_warmAll(t *testing.T) {
	tests := []struct {
		name     string
		owners   []domain.Owner
		listErr  error
		failFor  map[string]bool
		validate func(t *testing.T, s *SnapshotWarmupService, f *fakeDashboards)
	}{
		{
			name:   "calcula o dashboard de todos os owners",
			owners: []domain.Owner{{ID: "o-1"}, {ID: "o-2"}, {ID: "o-3"}, {ID: "o-4"}, {ID: "o-5"}},
			validate: func(t *testing.T, s *SnapshotWarmupService, f *fakeDashboards) {
				assert.ElementsMatch(t, []string{"o-1", "o-2", "o-3", "o-4", "o-5"}, f.calls)
				assert.LessOrEqual(t, atomic.LoadInt32(&f.maxSeen), int32(2))

				status := s.GetStatus()
				assert.Equal(t, 5, status["last_run_owners"])
				assert.Equal(t, 0, status["last_run_failures"])
				assert.Equal(t, false, status["running"])
				assert.NotEmpty(t, status["last_run_id"])
			},
		},
		{
			name:    "falha de um owner não interrompe os demais",
			owners:  []domain.Owner{{ID: "o-1"}, {ID: "o-2"}, {ID: "o-3"}},
			failFor: map[string]bool{"o-2": true},
			validate: func(t *testing.T, s *SnapshotWarmupService, f *fakeDashboards) {
				assert.Len(t, f.calls, 3)
				assert.Equal(t, 1, s.GetStatus()["last_run_failures"])
			},
		},
		{
			name:    "erro ao listar owners",
			listErr: errors.New("banco indisponível"),
			validate: func(t *testing.T, s *SnapshotWarmupService, f *fakeDashboards) {
				assert.Empty(t, f.calls)
				assert.Equal(t, false, s.GetStatus()["running"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dashboards := &fakeDashboards{failFor: tt.failFor}
			service, ownerRepo := newWarmupService(t, dashboards, 2)
			ownerRepo.EXPECT().List(gomock.Any()).Return(tt.owners, tt.listErr)

			service.warmAll(context.Background())

			tt.validate(t, service, dashboards)
		})
	}
}

func TestSnapshotWarmupService_TriggerManualSync(t *testing.T) {
	dashboards := &fakeDashboards{}
	service, ownerRepo := newWarmupService(t, dashboards, 1)

	t.Run("recusa quando já está em execução", func(t *testing.T) {
		service.running = true
		defer func() { service.running = false }()

		assert.ErrorIs(t, service.TriggerManualSync(context.Background()), ErrWarmupRunning)
	})

	t.Run("executa em segundo plano", func(t *testing.T) {
		done := make(chan struct{})
		ownerRepo.EXPECT().List(gomock.Any()).DoAndReturn(func(context.Context) ([]domain.Owner, error) {
			defer close(done)
			return []domain.Owner{}, nil
		})

		require.NoError(t, service.TriggerManualSync(context.Background()))

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("pré-cálculo manual não executou")
		}

		assert.Eventually(t, func() bool {
			return service.GetStatus()["running"] == false
		}, time.Second, 10*time.Millisecond)
	})
}

func TestSnapshotWarmupService_Start(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("desabilitado não agenda", func(t *testing.T) {
		service, _ := newWarmupService(t, &fakeDashboards{}, 1)
		service.config.Enabled = false

		require.NoError(t, service.Start(ctx))
		assert.Empty(t, service.scheduler.Jobs())
	})

	t.Run("sem cache de relatórios não agenda", func(t *testing.T) {
		service, _ := newWarmupService(t, &uncachedDashboards{}, 1)

		require.NoError(t, service.Start(ctx))
		assert.Empty(t, service.scheduler.Jobs())
	})

	t.Run("expressão cron inválida", func(t *testing.T) {
		service, _ := newWarmupService(t, &fakeDashboards{}, 1)
		service.config.CronSchedule = "não é cron"

		assert.Error(t, service.Start(ctx))
	})

	t.Run("agenda o job", func(t *testing.T) {
		service, ownerRepo := newWarmupService(t, &fakeDashboards{}, 1)
		ownerRepo.EXPECT().List(gomock.Any()).Return(nil, nil).AnyTimes()

		require.NoError(t, service.Start(ctx))
		assert.Len(t, service.scheduler.Jobs(), 1)
		service.scheduler.Stop()
	})
}
