package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/certpanel/certpanel/core/config"
	"github.com/certpanel/certpanel/core/health"
	"github.com/certpanel/certpanel/core/logger"
	"github.com/certpanel/certpanel/core/server"
	"github.com/certpanel/certpanel/integration/database/sqlite"
	"github.com/certpanel/certpanel/internal/certbot"
	"github.com/certpanel/certpanel/internal/orchestrator"
	"github.com/certpanel/certpanel/internal/scanner"
	"github.com/certpanel/certpanel/internal/storage"
	"github.com/certpanel/certpanel/internal/storage/migrations"
	"github.com/certpanel/certpanel/internal/toolexec"
	"github.com/certpanel/certpanel/internal/webapp"
)

type appConfig struct {
	App    webapp.Config
	Server server.Config
	DB     sqlite.Config

	Dev bool `env:"DEV_MODE" envDefault:"false"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cfg appConfig
	config.MustLoad(&cfg)

	var log *slog.Logger
	if cfg.Dev {
		log = logger.New(logger.WithDevelopment("certpanel"))
	} else {
		log = logger.New(logger.WithComponent("certpanel"))
	}
	slog.SetDefault(log)

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.ErrorContext(ctx, "server exited", logger.Error(err))
		os.Exit(1)
	}
}

// adjustServerTimeouts raises the HTTP write timeout above the certbot
// timeout. Jobs run synchronously in-request, so a shorter write timeout
// would close the connection mid-job and the redirect or JSON envelope
// would never reach the client.
func adjustServerTimeouts(srvCfg server.Config, certbotTimeout time.Duration) server.Config {
	if certbotTimeout <= 0 {
		certbotTimeout = certbot.DefaultTimeout
	}
	if srvCfg.WriteTimeout <= certbotTimeout {
		srvCfg.WriteTimeout = certbotTimeout + time.Minute
	}
	return srvCfg
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	if err := os.MkdirAll(cfg.App.ChallengeWebroot, 0o755); err != nil {
		return err
	}

	db, err := sqlite.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqlite.Migrate(ctx, db, migrations.FS); err != nil {
		return err
	}

	accounts := storage.NewAccountRepository(db)
	jobs := storage.NewJobRepository(db)
	layout := storage.Layout{DataDir: cfg.App.DataDir}

	runner := toolexec.NewRunner()
	cb := certbot.New(cfg.App.CertbotBin, runner, cfg.App.CertbotTimeout)
	inspector := scanner.NewOpenSSLInspector(cfg.App.OpenSSLBin, runner, cfg.App.InspectTimeout)
	scan := scanner.New(cfg.App.DataDir, inspector)

	orch := orchestrator.New(accounts, jobs, cb, layout, cfg.App.ChallengeWebroot, log)

	app, err := webapp.New(cfg.App, accounts, jobs, orch, scan, map[string]health.CheckFunc{
		"database": sqlite.Healthcheck(db),
	}, log)
	if err != nil {
		return err
	}

	srv := server.NewFromConfig(adjustServerTimeouts(cfg.Server, cfg.App.CertbotTimeout), server.WithLogger(log))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(ctx, app.Handler()))

	log.InfoContext(ctx, "certpanel started", slog.String("addr", cfg.Server.Addr()))
	return g.Wait()
}
