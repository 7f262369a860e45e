package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kubev2v/task-executor/internal/config"
	"github.com/kubev2v/task-executor/internal/handlers"
	"github.com/kubev2v/task-executor/internal/metrics"
	"github.com/kubev2v/task-executor/internal/server"
	"github.com/kubev2v/task-executor/internal/services"
	"github.com/kubev2v/task-executor/internal/store"
	"github.com/kubev2v/task-executor/pkg/scheduler"
)

const (
	pruneInterval = 10 * time.Minute
	stopTimeout   = 5 * time.Second
)

// App wires the journal, the worker pool and the HTTP API together.
type App struct {
	cfg       *config.Configuration
	store     *store.Store
	journal   *services.Journal
	scheduler *scheduler.Scheduler
	server    *server.Server
}

// New opens and migrates the journal and builds every component. Nothing
// is served until Run is called.
func New(ctx context.Context, cfg *config.Configuration) (*App, error) {
	db, err := store.NewDB(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	st := store.NewStore(db)

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.NewMetrics(registry)
	if err != nil {
		st.Close()
		return nil, err
	}

	schedCfg, err := cfg.SchedulerConfig()
	if err != nil {
		st.Close()
		return nil, err
	}

	journal := services.NewJournal(st, cfg.Store.JournalBuffer)
	journal.Start()

	sched, err := scheduler.NewScheduler(schedCfg, scheduler.WithObserver(journal), scheduler.WithObserver(m))
	if err != nil {
		_ = journal.Stop(ctx)
		st.Close()
		return nil, err
	}

	a := &App{cfg: cfg, store: st, journal: journal, scheduler: sched}

	catalogue := services.NewCatalogue()
	services.RegisterPruneJob(catalogue, st)

	taskSrv := services.NewTaskService(sched, st, catalogue, journal)
	poolSrv := services.NewPoolService(sched)
	reportSrv := services.NewReportService(st)

	if cfg.Store.Retention > 0 {
		if _, err := taskSrv.StartPruning(cfg.Store.Retention, pruneInterval); err != nil {
			a.close()
			return nil, err
		}
	}

	a.server, err = server.NewServer(cfg, registry, handlers.RegisterHandlers(handlers.New(taskSrv, poolSrv, reportSrv)))
	if err != nil {
		a.close()
		return nil, err
	}

	return a, nil
}

// Run serves the API until ctx is done, SIGINT/SIGTERM is received or the
// pool is shut down through the API. The pool is then drained for at most
// Scheduler.ShutdownTimeout before the remaining tasks are cancelled.
func (a *App) Run(ctx context.Context) error {
	log := zap.S().Named("executor")
	log.Infow("starting executor", "config", a.cfg.LogFields())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.server.Start(gctx)
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
			log.Info("shutdown signal received")
		case <-a.scheduler.Terminated():
			log.Info("worker pool terminated")
		}

		ShutdownPool(a.scheduler, a.cfg.Scheduler.ShutdownTimeout)

		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()

		var errs []error
		if err := a.server.Stop(stopCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop server: %w", err))
		}
		if err := a.journal.Stop(stopCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush journal: %w", err))
		}
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close journal: %w", err))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Errorw("executor stopped with error", "error", err)
		return err
	}

	log.Info("executor stopped")
	return nil
}

// close releases what New built when Run is never called.
func (a *App) close() {
	a.scheduler.Close()
	_ = a.journal.Stop(context.Background())
	a.store.Close()
}

// ShutdownPool drains the pool and forces it down once timeout elapses.
func ShutdownPool(sched *scheduler.Scheduler, timeout time.Duration) {
	sched.ShutdownGraceful()
	if sched.AwaitTermination(timeout) {
		return
	}

	discarded := sched.ShutdownForce()
	zap.S().Named("executor").Warnw("graceful shutdown timed out, tasks cancelled", "timeout", timeout, "discarded", len(discarded))
	sched.Close()
}
