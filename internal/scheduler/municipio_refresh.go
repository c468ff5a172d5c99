package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/ibge"
	"github.com/planteforte/dashboard-comercial-api/internal/config"
)

// MunicipioRefreshConfig representa a configuração do agendador da
// tabela de municípios
type MunicipioRefreshConfig struct {
	CronSchedule   string
	RefreshEnabled bool
}

// MunicipioRefreshService recarrega periodicamente a tabela de
// municípios do IBGE usada no join geográfico
type MunicipioRefreshService struct {
	scheduler             *gocron.Scheduler
	config                MunicipioRefreshConfig
	municipios            ibge.MunicipioProvider
	refreshRunning        bool
	refreshMutex          sync.Mutex
	lastRefreshStartedAt  time.Time
	lastRefreshFinishedAt time.Time
	lastRefreshError      string
}

func NewMunicipioRefreshService(
	municipios ibge.MunicipioProvider,
	appConfig *config.Config,
) *MunicipioRefreshService {
	refreshConfig := MunicipioRefreshConfig{
		CronSchedule:   appConfig.MunicipioRefresh.CronSchedule,
		RefreshEnabled: appConfig.MunicipioRefresh.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":   refreshConfig.CronSchedule,
		"refresh_enabled": refreshConfig.RefreshEnabled,
	}).Info("Configuração do agendador de municípios carregada")

	return &MunicipioRefreshService{
		scheduler:  scheduler,
		config:     refreshConfig,
		municipios: municipios,
	}
}

// Start inicia o agendador
func (s *MunicipioRefreshService) Start(ctx context.Context) error {
	if !s.config.RefreshEnabled {
		logrus.Info("Atualização agendada de municípios desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de atualização de municípios")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.refreshMunicipios()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar atualização de municípios: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de atualização de municípios")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *MunicipioRefreshService) refreshMunicipios() {
	s.refreshMutex.Lock()
	if s.refreshRunning {
		s.refreshMutex.Unlock()
		logrus.Info("Atualização de municípios já em andamento, ignorando")
		return
	}
	s.refreshRunning = true
	s.lastRefreshStartedAt = time.Now()
	s.refreshMutex.Unlock()

	defer func() {
		s.refreshMutex.Lock()
		s.refreshRunning = false
		s.lastRefreshFinishedAt = time.Now()
		s.refreshMutex.Unlock()
	}()

	if err := s.municipios.Refresh(); err != nil {
		// Mantém o índice anterior; o dashboard segue com dados de ontem
		logrus.WithError(err).Error("Falha na atualização da tabela de municípios")
		s.refreshMutex.Lock()
		s.lastRefreshError = err.Error()
		s.refreshMutex.Unlock()
		return
	}

	s.refreshMutex.Lock()
	s.lastRefreshError = ""
	s.refreshMutex.Unlock()
}

// TriggerManualSync inicia manualmente uma atualização da tabela
func (s *MunicipioRefreshService) TriggerManualSync() {
	s.refreshMutex.Lock()
	if s.refreshRunning {
		s.refreshMutex.Unlock()
		logrus.Info("Atualização de municípios já em andamento, ignorando solicitação manual")
		return
	}
	s.refreshMutex.Unlock()

	logrus.Info("Iniciando atualização manual da tabela de municípios")
	go s.refreshMunicipios()
}

// GetStatus retorna o status atual do agendador
func (s *MunicipioRefreshService) GetStatus() map[string]any {
	s.refreshMutex.Lock()
	defer s.refreshMutex.Unlock()

	return map[string]any{
		"refresh_enabled":          s.config.RefreshEnabled,
		"refresh_cron":             s.config.CronSchedule,
		"refresh_running":          s.refreshRunning,
		"last_refresh_started_at":  s.lastRefreshStartedAt,
		"last_refresh_finished_at": s.lastRefreshFinishedAt,
		"last_refresh_error":       s.lastRefreshError,
	}
}
