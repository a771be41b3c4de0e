package main

import (
	"context"

	"github.com/vfg2006/shop-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/shop-manager-api/infrastructure/notifier"
	"github.com/vfg2006/shop-manager-api/infrastructure/repository"
	"github.com/vfg2006/shop-manager-api/internal/api"
	"github.com/vfg2006/shop-manager-api/internal/api/handler"
	"github.com/vfg2006/shop-manager-api/internal/config"
	"github.com/vfg2006/shop-manager-api/internal/scheduler"
	"github.com/vfg2006/shop-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/shop-manager-api/internal/usecases/leading"
	"github.com/vfg2006/shop-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/shop-manager-api/internal/usecases/selling"
	"github.com/vfg2006/shop-manager-api/internal/usecases/stocking"
	"github.com/vfg2006/shop-manager-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao carregar configuração")
	}

	log.Setup(cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	store := repository.NewStore(pgConn)
	repos := store.Repositories()
	userRepo := repository.NewUserRepository(pgConn.DB)
	summaryRepo := repository.NewDailySalesSummaryRepository(pgConn.DB)

	dispatcher := notifier.NewAsyncDispatcher(newNotifier(cfg.Notifier), cfg.Notifier.QueueSize)
	// Close drena a fila antes de encerrar
	defer dispatcher.Close()

	authenticator := authenticating.NewService(userRepo, cfg.Auth)
	seller := selling.NewService(store, dispatcher, selling.NewPointsRule(cfg.Loyalty))
	stocker := stocking.NewService(store, dispatcher)
	leader := leading.NewService(repos.Leads)
	reporter := reporting.NewService(summaryRepo)

	lowStockAlertService := scheduler.NewLowStockAlertService(repos.Products, dispatcher, cfg)
	dailySalesSummaryService := scheduler.NewDailySalesSummaryService(repos.Sales, summaryRepo, cfg)

	if err := lowStockAlertService.Start(ctx); err != nil {
		log.L.WithError(err).Error("Erro ao iniciar o agendador de alerta de estoque baixo")
	}

	if err := dailySalesSummaryService.Start(ctx); err != nil {
		log.L.WithError(err).Error("Erro ao iniciar o agendador do resumo diário de vendas")
	}

	server, err := api.New(cfg, api.Services{
		Authenticator: authenticator,
		Seller:        seller,
		Stocker:       stocker,
		Leader:        leader,
		Reporter:      reporter,
		CronJobs: handler.CronJobServices{
			handler.CronJobTypeLowStockAlert:     lowStockAlertService,
			handler.CronJobTypeDailySalesSummary: dailySalesSummaryService,
		},
		Database: pgConn,
	})
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao criar servidor")
	}

	if err := server.Run(ctx); err != nil {
		log.L.WithError(err).Error("Servidor encerrado com erro")
	}
}

// newNotifier usa o webhook quando configurado, senão apenas registra os eventos em log
func newNotifier(cfg config.Notifier) notifier.Notifier {
	if cfg.WebhookURL == "" {
		log.L.Info("NOTIFIER_WEBHOOK_URL vazio, notificações serão apenas registradas em log")
		return notifier.NewLogNotifier()
	}

	log.L.WithField("url", cfg.WebhookURL).Info("Notificações de estoque enviadas via webhook")
	return notifier.NewWebhookNotifier(cfg)
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
