package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/shop-manager-api/infrastructure/repository"
	"github.com/vfg2006/shop-manager-api/internal/config"
	"github.com/vfg2006/shop-manager-api/pkg/log"
)

type DailySalesSummaryConfig struct {
	CronSchedule  string
	LookbackDays  int
	RetentionDays int
	SyncEnabled   bool
	Location      *time.Location
}

// DailySalesSummaryService consolida as vendas de cada empresa por dia na tabela de resumo
type DailySalesSummaryService struct {
	scheduler           *gocron.Scheduler
	saleRepo            repository.SaleRepository
	summaryRepo         repository.DailySalesSummaryRepository
	config              DailySalesSummaryConfig
	now                 func() time.Time
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewDailySalesSummaryService(
	saleRepo repository.SaleRepository,
	summaryRepo repository.DailySalesSummaryRepository,
	cfg *config.Config,
) *DailySalesSummaryService {
	summaryConfig := DailySalesSummaryConfig{
		CronSchedule:  cfg.DailySalesSummary.CronSchedule, // Default: 0h30 todos os dias
		LookbackDays:  cfg.DailySalesSummary.LookbackDays,
		RetentionDays: cfg.DailySalesSummary.RetentionDays,
		SyncEnabled:   cfg.DailySalesSummary.Enabled,
		Location:      appLocation(cfg),
	}

	log.L.WithFields(log.Fields{
		"cron_schedule":  summaryConfig.CronSchedule,
		"lookback_days":  summaryConfig.LookbackDays,
		"retention_days": summaryConfig.RetentionDays,
		"timezone":       summaryConfig.Location.String(),
	}).Info("Configuração do agendador do resumo diário de vendas carregada")

	return &DailySalesSummaryService{
		scheduler:   gocron.NewScheduler(summaryConfig.Location),
		saleRepo:    saleRepo,
		summaryRepo: summaryRepo,
		config:      summaryConfig,
		now:         time.Now,
	}
}

func (s *DailySalesSummaryService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		log.L.Info("Cron do resumo diário de vendas desabilitada por configuração")
		return nil
	}

	log.L.WithField("cron", s.config.CronSchedule).Info("Iniciando cron do resumo diário de vendas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.SyncDailySummaries(ctx); err != nil {
			log.L.WithError(err).Error("Erro na consolidação do resumo diário de vendas")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar resumo diário de vendas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Parando cron do resumo diário de vendas")
		s.scheduler.Stop()
	}()

	return nil
}

// SyncDailySummaries recalcula os últimos LookbackDays dias completos e o dia corrente, depois aplica a retenção
func (s *DailySalesSummaryService) SyncDailySummaries(ctx context.Context) error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		log.L.Warn("Consolidação do resumo diário de vendas já está em execução")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = s.now()
		s.syncMutex.Unlock()
	}()

	start, end := s.window(s.now())

	summaries, err := s.saleRepo.SummarizeByDay(ctx, start, end, s.location())
	if err != nil {
		return fmt.Errorf("erro ao consolidar vendas: %w", err)
	}

	failures := 0
	for _, summary := range summaries {
		if err := s.summaryRepo.SaveOrUpdate(ctx, summary); err != nil {
			failures++
			log.L.WithError(err).WithFields(log.Fields{
				"business_id": summary.BusinessID,
				"date":        summary.Date.Format(time.DateOnly),
			}).Error("Erro ao salvar resumo diário de vendas")
		}
	}

	log.L.WithFields(log.Fields{
		"start_date": start.Format(time.DateOnly),
		"end_date":   end.Format(time.DateOnly),
		"summaries":  len(summaries),
		"failures":   failures,
	}).Info("Resumo diário de vendas consolidado")

	if s.config.RetentionDays > 0 {
		deleted, err := s.summaryRepo.DeleteOlderThan(ctx, s.config.RetentionDays)
		if err != nil {
			log.L.WithError(err).Error("Erro ao remover resumos antigos")
		} else if deleted > 0 {
			log.L.WithField("deleted", deleted).Info("Resumos diários antigos removidos")
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d resumo(s) não foram salvos", failures)
	}
	return nil
}

// window devolve [início do primeiro dia, início de amanhã) no fuso configurado
func (s *DailySalesSummaryService) window(now time.Time) (time.Time, time.Time) {
	lookback := s.config.LookbackDays
	if lookback < 0 {
		lookback = 0
	}
	now = now.In(s.location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -lookback), today.AddDate(0, 0, 1)
}

func (s *DailySalesSummaryService) location() *time.Location {
	if s.config.Location == nil {
		return time.UTC
	}
	return s.config.Location
}

// appLocation é o fuso de APP_TIMEZONE, UTC quando a configuração não foi carregada por NewConfig
func appLocation(cfg *config.Config) *time.Location {
	if cfg.App.Location == nil {
		return time.UTC
	}
	return cfg.App.Location
}

func (s *DailySalesSummaryService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		log.L.Info("Resumo diário de vendas já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	log.L.Info("Iniciando consolidação manual do resumo diário de vendas")
	go func() {
		if err := s.SyncDailySummaries(context.Background()); err != nil {
			log.L.WithError(err).Error("Erro na consolidação manual do resumo diário de vendas")
		}
	}()
}

func (s *DailySalesSummaryService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"lookback_days":          s.config.LookbackDays,
		"retention_days":         s.config.RetentionDays,
		"timezone":               s.location().String(),
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
