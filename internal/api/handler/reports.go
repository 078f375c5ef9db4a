package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/vfg2006/venue-analytics-api/internal/usecases/authenticating"
	"github.com/vfg2006/venue-analytics-api/internal/usecases/reporting"
	"github.com/vfg2006/venue-analytics-api/pkg/apiErrors"
	"github.com/vfg2006/venue-analytics-api/pkg/log"
	"github.com/vfg2006/venue-analytics-api/pkg/middleware"
	"github.com/vfg2006/venue-analytics-api/pkg/utils"
)

// reportParams são os parâmetros de query aceitos pelos relatórios.
// Períodos desconhecidos não são erro: o motor usa 90d.
type reportParams struct {
	OwnerID    string `validate:"omitempty,max=64"`
	ResourceID string `validate:"omitempty,max=64"`
	Period     string `validate:"omitempty,max=16"`
	Months     int    `validate:"omitempty,min=1,max=36"`
	Periods    int    `validate:"omitempty,min=1,max=24"`
	AsOf       string `validate:"omitempty,datetime=2006-01-02"`
}

type reportFunc func(ctx context.Context, q reporting.Query) (any, error)

func parseReportParams(r *http.Request) (reportParams, error) {
	query := r.URL.Query()

	months, err := utils.ParseOptionalInt(query.Get("months"))
	if err != nil {
		return reportParams{}, errors.Wrap(err, "months")
	}

	periods, err := utils.ParseOptionalInt(query.Get("periods"))
	if err != nil {
		return reportParams{}, errors.Wrap(err, "periods")
	}

	params := reportParams{
		OwnerID:    strings.TrimSpace(query.Get("owner_id")),
		ResourceID: strings.TrimSpace(query.Get("resource_id")),
		Period:     strings.TrimSpace(query.Get("period")),
		Months:     months,
		Periods:    periods,
		AsOf:       strings.TrimSpace(query.Get("as_of")),
	}

	if err := validate.Struct(params); err != nil {
		return reportParams{}, err
	}

	return params, nil
}

// serveReport resolve o owner dos dados, monta a Query e escreve o relatório ou o erro padronizado
func serveReport(authenticator authenticating.Authenticator, name string, loc *time.Location, run reportFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context()).WithField("report", name)

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		params, err := parseReportParams(r)
		if err != nil {
			logger.WithError(err).Warn("reports: parâmetros inválidos")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetros inválidos", validationDetails(err))
			return
		}

		ownerID, err := authenticator.ResolveDataOwner(claims, params.OwnerID)
		if err != nil {
			writeAuthError(w, r, err)
			return
		}

		asOf, err := utils.ParseDate(params.AsOf, loc)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "as_of deve estar no formato YYYY-MM-DD", nil)
			return
		}

		q := reporting.Query{
			OwnerID: ownerID,
			Period:  params.Period,
			Months:  params.Months,
			Periods: params.Periods,
			AsOf:    asOf,
		}
		if params.ResourceID != "" {
			q.ResourceID = &params.ResourceID
		}

		logger.WithField("owner_id", ownerID).Debug("reports: gerando relatório")

		payload, err := run(r.Context(), q)
		if err != nil {
			writeReportError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, payload)
	}
}

// writeReportError devolve a mensagem do erro de pré-condição ao cliente; falhas de busca viram erro genérico
func writeReportError(w http.ResponseWriter, r *http.Request, err error) {
	var reportErr *reporting.ReportError
	if errors.As(err, &reportErr) {
		if reporting.IsPreconditionError(err) {
			apiErrors.WriteError(w, reportErr.Code, reportErr.Error(), nil)
			return
		}

		apiErrors.WriteError(w, reportErr.Code, "Não foi possível gerar o relatório", nil)
		return
	}

	log.ForContext(r.Context()).WithError(err).Error("reports: erro inesperado")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Não foi possível gerar o relatório", nil)
}

func GetDashboard(service reporting.Reporter, authenticator authenticating.Authenticator, loc *time.Location) http.HandlerFunc {
	return serveReport(authenticator, "dashboard", loc, func(ctx context.Context, q reporting.Query) (any, error) {
		return service.GetDashboard(ctx, q)
	})
}

func GetKpis(service reporting.Reporter, authenticator authenticating.Authenticator, loc *time.Location) http.HandlerFunc {
	return serveReport(authenticator, "kpis", loc, func(ctx context.Context, q reporting.Query) (any, error) {
		q.ResourceID = nil
		return service.GetKpis(ctx, q)
	})
}

func GetHistory(service reporting.Reporter, authenticator authenticating.Authenticator, loc *time.Location) http.HandlerFunc {
	return serveReport(authenticator, "history", loc, func(ctx context.Context, q reporting.Query) (any, error) {
		q.ResourceID = nil
		return service.GetHistory(ctx, q)
	})
}

func GetForecast(service reporting.Reporter, authenticator authenticating.Authenticator, loc *time.Location) http.HandlerFunc {
	return serveReport(authenticator, "forecast", loc, func(ctx context.Context, q reporting.Query) (any, error) {
		q.ResourceID = nil
		return service.GetForecast(ctx, q)
	})
}

func GetFunnel(service reporting.Reporter, authenticator authenticating.Authenticator, loc *time.Location) http.HandlerFunc {
	return serveReport(authenticator, "funnel", loc, func(ctx context.Context, q reporting.Query) (any, error) {
		return service.GetFunnel(ctx, q)
	})
}

// InvalidateCache descarta os relatórios em cache incrementando a versão global
func InvalidateCache(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version, err := service.InvalidateCache(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("reports: falha ao invalidar cache")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Não foi possível invalidar o cache", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, map[string]any{
			"message": "Cache invalidado",
			"version": version,
		})
	}
}
