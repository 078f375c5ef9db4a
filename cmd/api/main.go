package main

import (
	"context"

	"github.com/vfg2006/venue-analytics-api/infrastructure/cache"
	"github.com/vfg2006/venue-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/venue-analytics-api/infrastructure/repository"
	"github.com/vfg2006/venue-analytics-api/internal/api"
	"github.com/vfg2006/venue-analytics-api/internal/config"
	"github.com/vfg2006/venue-analytics-api/internal/scheduler"
	"github.com/vfg2006/venue-analytics-api/internal/usecases/authenticating"
	"github.com/vfg2006/venue-analytics-api/internal/usecases/reporting"
	"github.com/vfg2006/venue-analytics-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	log.L.Infof("Nível de log configurado para: %s", cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	if err := pgConn.Migrate(); err != nil {
		log.L.WithError(err).Fatal("Erro ao aplicar migrações")
	}

	userRepo := repository.NewUserRepository(pgConn)
	ownerRepo := repository.NewOwnerRepository(pgConn)
	resourceRepo := repository.NewResourceRepository(pgConn)
	bookingRepo := repository.NewBookingRepository(pgConn)
	invoiceRepo := repository.NewInvoiceRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	reportService := reporting.NewService(bookingRepo, invoiceRepo, resourceRepo, ownerRepo, cfg)
	if reportCache := redisCache(ctx, cfg.Redis); reportCache != nil {
		reportService = reportService.WithCache(reportCache)
	}

	snapshotWarmupService := scheduler.NewSnapshotWarmupService(ownerRepo, reportService, cfg)
	if err := snapshotWarmupService.Start(ctx); err != nil {
		log.L.WithError(err).Error("Erro ao iniciar o agendador de pré-cálculo de dashboards")
	} else {
		log.L.Info("Agendador de pré-cálculo de dashboards iniciado com sucesso")
	}

	server, err := api.New(cfg, reportService, authenticator, pgConn, snapshotWarmupService)
	if err != nil {
		log.L.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		log.L.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	log.L.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// redisCache conecta ao Redis quando habilitado. Sem Redis os relatórios são calculados a cada requisição.
func redisCache(ctx context.Context, redisConfig config.Redis) *cache.ReportCache {
	if !redisConfig.Enabled {
		log.L.Info("Cache de relatórios desabilitado")
		return nil
	}

	client, err := cache.NewClient(ctx, redisConfig.URL)
	if err != nil {
		log.L.WithError(err).Warn("Redis indisponível, seguindo sem cache de relatórios")
		return nil
	}

	log.L.Info("Cache de relatórios conectado ao Redis")
	return cache.NewReportCache(client, redisConfig.TTL)
}
