package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"

	"github.com/planteforte/dashboard-comercial-api/infrastructure/repository"
	"github.com/planteforte/dashboard-comercial-api/internal/api/handler"
	"github.com/planteforte/dashboard-comercial-api/internal/api/handler/router"
	"github.com/planteforte/dashboard-comercial-api/internal/config"
	"github.com/planteforte/dashboard-comercial-api/internal/scheduler"
	"github.com/planteforte/dashboard-comercial-api/internal/usecases/authenticating"
	"github.com/planteforte/dashboard-comercial-api/internal/usecases/ingesting"
	"github.com/planteforte/dashboard-comercial-api/internal/usecases/reporting"
	"github.com/planteforte/dashboard-comercial-api/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	ingestService ingesting.Service,
	reportService reporting.Service,
	blacklistRepo repository.BlacklistRepository,
	authenticator authenticating.Authenticator,
	municipioRefreshService *scheduler.MunicipioRefreshService,
) (*Server, error) {
	cronServices := handler.CronJobServices{
		MunicipioRefreshService: municipioRefreshService,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(authenticator)...),
		router.WithRoutes(handler.User(authenticator)...),
		router.WithRoutes(handler.Dashboard(ingestService, reportService)...),
		router.WithRoutes(handler.Products(reportService)...),
		router.WithRoutes(handler.Customers(reportService)...),
		router.WithRoutes(handler.Blacklist(blacklistRepo)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
		middleware.AuthMiddleware(authenticator),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
