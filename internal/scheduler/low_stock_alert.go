// Package scheduler contém os jobs agendados da API
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/shop-manager-api/infrastructure/notifier"
	"github.com/vfg2006/shop-manager-api/infrastructure/repository"
	"github.com/vfg2006/shop-manager-api/internal/config"
	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/pkg/log"
)

type LowStockAlertConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// LowStockAlertService envia, uma vez por dia, a lista de produtos no nível de reposição de cada empresa
type LowStockAlertService struct {
	scheduler           *gocron.Scheduler
	productRepo         repository.ProductRepository
	notifier            notifier.Notifier
	config              LowStockAlertConfig
	now                 func() time.Time
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastAlertsSent      int
}

func NewLowStockAlertService(
	productRepo repository.ProductRepository,
	n notifier.Notifier,
	cfg *config.Config,
) *LowStockAlertService {
	alertConfig := LowStockAlertConfig{
		CronSchedule: cfg.LowStockAlert.CronSchedule, // Default: 8h da manhã todos os dias
		SyncEnabled:  cfg.LowStockAlert.Enabled,
	}

	log.L.WithFields(log.Fields{
		"cron_schedule": alertConfig.CronSchedule,
	}).Info("Configuração do agendador de alerta de estoque baixo carregada")

	return &LowStockAlertService{
		scheduler:   gocron.NewScheduler(appLocation(cfg)),
		productRepo: productRepo,
		notifier:    n,
		config:      alertConfig,
		now:         time.Now,
	}
}

func (s *LowStockAlertService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		log.L.Info("Cron de alerta de estoque baixo desabilitada por configuração")
		return nil
	}

	log.L.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de alerta de estoque baixo")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.SendLowStockAlerts(ctx); err != nil {
			log.L.WithError(err).Error("Erro no envio de alertas de estoque baixo")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar alerta de estoque baixo: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Parando cron de alerta de estoque baixo")
		s.scheduler.Stop()
	}()

	return nil
}

// SendLowStockAlerts envia um alerta por empresa com todos os seus produtos em estoque baixo
func (s *LowStockAlertService) SendLowStockAlerts(ctx context.Context) error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		log.L.Warn("Alerta de estoque baixo já está em execução")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	sent := 0
	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = s.now()
		s.lastAlertsSent = sent
		s.syncMutex.Unlock()
	}()

	products, err := s.productRepo.ListLowStock(ctx, 0)
	if err != nil {
		return fmt.Errorf("erro ao buscar produtos com estoque baixo: %w", err)
	}

	if len(products) == 0 {
		log.L.Info("Nenhum produto com estoque baixo")
		return nil
	}

	for _, alert := range domain.NewLowStockAlerts(products, s.now()) {
		if err := s.notifier.LowStock(ctx, alert); err != nil {
			log.L.WithError(err).WithField("business_id", alert.BusinessID).Warn("Falha ao enviar alerta de estoque baixo")
			continue
		}
		sent++
	}

	log.L.WithFields(log.Fields{
		"products":    len(products),
		"alerts_sent": sent,
	}).Info("Alertas de estoque baixo enviados")

	return nil
}

// TriggerManualSync dispara o envio fora do horário agendado
func (s *LowStockAlertService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		log.L.Info("Alerta de estoque baixo já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	log.L.Info("Iniciando envio manual de alertas de estoque baixo")
	go func() {
		if err := s.SendLowStockAlerts(context.Background()); err != nil {
			log.L.WithError(err).Error("Erro no envio manual de alertas de estoque baixo")
		}
	}()
}

func (s *LowStockAlertService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_alerts_sent":       s.lastAlertsSent,
	}
}
