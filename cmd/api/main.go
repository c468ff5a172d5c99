package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/planteforte/dashboard-comercial-api/infrastructure/database/postgres"
	"github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/ibge"
	"github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/ibge/ibgeclient"
	"github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/tiny"
	"github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/tiny/tinyclient"
	"github.com/planteforte/dashboard-comercial-api/infrastructure/repository"
	"github.com/planteforte/dashboard-comercial-api/internal/api"
	"github.com/planteforte/dashboard-comercial-api/internal/config"
	"github.com/planteforte/dashboard-comercial-api/internal/scheduler"
	"github.com/planteforte/dashboard-comercial-api/internal/usecases/authenticating"
	"github.com/planteforte/dashboard-comercial-api/internal/usecases/ingesting"
	"github.com/planteforte/dashboard-comercial-api/internal/usecases/reporting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	userRepo := repository.NewUserRepository(pgConn)
	blacklistRepo := repository.NewBlacklistRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	tinyClient := tinyclient.NewClient(cfg)
	tinyIntegrator := tiny.New(cfg, tinyClient)

	ibgeClient := ibgeclient.NewClient(cfg)
	municipioService := ibge.NewMunicipioService(ibgeClient)

	// Carrega a tabela de municípios na subida; sem ela o join
	// geográfico sai vazio até a primeira atualização agendada
	if err := municipioService.Refresh(); err != nil {
		logrus.WithError(err).Warn("Falha ao carregar a tabela de municípios na inicialização")
	}

	ingestService := ingesting.NewService(cfg, tinyIntegrator, municipioService, blacklistRepo)
	reportService := reporting.NewService(cfg, tinyIntegrator, ingestService)

	municipioRefreshService := scheduler.NewMunicipioRefreshService(municipioService, cfg)

	if err := municipioRefreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de atualização de municípios")
	} else {
		logrus.Info("Agendador de atualização de municípios iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		ingestService,
		reportService,
		blacklistRepo,
		authenticator,
		municipioRefreshService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
