package handler

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"

	"github.com/vfg2006/venue-analytics-api/internal/scheduler"
	"github.com/vfg2006/venue-analytics-api/pkg/apiErrors"
	"github.com/vfg2006/venue-analytics-api/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeSnapshotWarmup = "snapshot-warmup"
	CronJobTypeAll            = "all"
)

// ManualJob é um job agendado que também pode ser disparado pela API
type ManualJob interface {
	TriggerManualSync(ctx context.Context) error
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	SnapshotWarmup ManualJob
}

func (s CronJobServices) jobs() map[string]ManualJob {
	jobs := map[string]ManualJob{}
	if s.SnapshotWarmup != nil {
		jobs[CronJobTypeSnapshotWarmup] = s.SnapshotWarmup
	}
	return jobs
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		jobs := services.jobs()

		var selected []string
		if cronType == CronJobTypeAll {
			for name := range jobs {
				selected = append(selected, name)
			}
		} else if _, ok := jobs[cronType]; ok {
			selected = []string{cronType}
		} else {
			apiErrors.WriteError(w, apiErrors.ErrJobNotFound, "Tipo de cron job inválido. Valores aceitos: snapshot-warmup, all", nil)
			return
		}

		for _, name := range selected {
			if err := jobs[name].TriggerManualSync(r.Context()); err != nil {
				if errors.Is(err, scheduler.ErrWarmupRunning) {
					apiErrors.WriteError(w, apiErrors.ErrJobRunning, err.Error(), map[string]string{"type": name})
					return
				}

				logger.WithError(err).Error("cron: falha ao iniciar job")
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Não foi possível iniciar a cron job", nil)
				return
			}
		}

		logger.WithField("type", cronType).Info("cron: job iniciada manualmente")

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		for name, job := range services.jobs() {
			status[name] = job.GetStatus()
		}

		writeJSON(w, r, http.StatusOK, status)
	}
}
