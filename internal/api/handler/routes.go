package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/venue-analytics-api/internal/api/handler/router"
	"github.com/vfg2006/venue-analytics-api/internal/usecases/authenticating"
	"github.com/vfg2006/venue-analytics-api/internal/usecases/reporting"
	"github.com/vfg2006/venue-analytics-api/pkg/middleware"
)

// PublicPaths são as rotas liberadas pelo AuthMiddleware
var PublicPaths = []string{"/healthcheck", "/v1/login"}

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Reports(service reporting.Reporter, authenticator authenticating.Authenticator, loc *time.Location) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/reports/dashboard",
			Method:      http.MethodGet,
			Handler:     GetDashboard(service, authenticator, loc),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/reports/kpis",
			Method:      http.MethodGet,
			Handler:     GetKpis(service, authenticator, loc),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/reports/history",
			Method:      http.MethodGet,
			Handler:     GetHistory(service, authenticator, loc),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/reports/forecast",
			Method:      http.MethodGet,
			Handler:     GetForecast(service, authenticator, loc),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/reports/funnel",
			Method:      http.MethodGet,
			Handler:     GetFunnel(service, authenticator, loc),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/cache/invalidate",
			Method:      http.MethodPost,
			Handler:     InvalidateCache(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
