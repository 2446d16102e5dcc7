package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/esports-edge/internal/config"
	"github.com/yourusername/esports-edge/internal/database"
	"github.com/yourusername/esports-edge/internal/form"
	"github.com/yourusername/esports-edge/internal/health"
	"github.com/yourusername/esports-edge/internal/history"
	"github.com/yourusername/esports-edge/internal/metrics"
	"github.com/yourusername/esports-edge/internal/names"
	"github.com/yourusername/esports-edge/internal/notifier"
	"github.com/yourusername/esports-edge/internal/repository"
	"github.com/yourusername/esports-edge/internal/scheduler"
	"github.com/yourusername/esports-edge/internal/selector"
)

// app wires the selector to its collaborators for one CLI invocation.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	db       *database.DB
	selector *selector.Selector
}

func newApp(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*app, error) {
	metrics.InitRegistry()

	selCfg, err := selectorConfig(cfg)
	if err != nil {
		return nil, err
	}
	corrections, err := names.LoadCorrections(cfg.Engine.NameCorrectionsPath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	sinks, err := a.sinks(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.selector = selector.New(selCfg, corrections, log, sinks...)
	return a, nil
}

func selectorConfig(cfg *config.Config) (selector.Config, error) {
	categories, err := cfg.Engine.CategoryList()
	if err != nil {
		return selector.Config{}, err
	}
	return selector.Config{
		DataDir:         cfg.Engine.DataDir,
		SnapshotPattern: cfg.Engine.SnapshotPattern,
		LedgerPath:      cfg.Engine.LedgerPath,
		ProcessedPath:   cfg.Engine.ProcessedPath,
		MinROI:          cfg.Engine.MinROI,
		RetentionDays:   cfg.Engine.RetentionDays,
		FuzzyCutoff:     cfg.Engine.FuzzyCutoff,
		Window: form.WindowConfig{
			Patches:  cfg.Engine.PatchWindow,
			MaxGames: cfg.Engine.MaxGames,
		},
		Categories: categories,
	}, nil
}

func (a *app) sinks(ctx context.Context) ([]selector.Sink, error) {
	var sinks []selector.Sink

	if a.cfg.Notifier.Enabled {
		tg, err := notifier.NewTelegramNotifier(notifier.TelegramConfig{
			Token:         a.cfg.Notifier.TelegramToken,
			ChatIDs:       a.cfg.Notifier.ChatIDs,
			APIEndpoint:   a.cfg.Notifier.APIEndpoint,
			RatePerSecond: a.cfg.Notifier.RatePerSecond,
			Timeout:       a.cfg.Notifier.NotifierTimeout(),
			MaxRetries:    a.cfg.Notifier.RetryAttempts,
		}, a.log)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, tg)
	} else {
		sinks = append(sinks, notifier.NewLogNotifier(a.log))
	}

	if a.cfg.Database.Enabled {
		db, err := database.Initialize(ctx, a.cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.db = db
		repos, err := repository.NewRepositories(db)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, repository.NewMirror(repos.Candidate, a.log))
	}

	return sinks, nil
}

// Close releases the database pool, if any.
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// runOnce loads the historical table and processes every new snapshot.
// A historical table that cannot be loaded fails the run.
func (a *app) runOnce(ctx context.Context) (*selector.RunResult, error) {
	store, err := history.Load(a.cfg.Engine.HistoricalPath)
	if err != nil {
		metrics.RecordRun("failure", 0, 0, 0)
		return nil, err
	}
	return a.selector.Run(ctx, store)
}

func (a *app) purge(ctx context.Context) error {
	result, err := a.selector.Purge(ctx)
	if err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{
		"purged":      len(result.Purged),
		"ledger_rows": result.LedgerRows,
	}).Info("Retention purge completed")
	return nil
}

func (a *app) watch(ctx context.Context) error {
	var pinger health.DatabasePinger
	if a.db != nil {
		pinger = a.db
	}
	srv := health.NewServer(health.Config{
		ServiceName: a.cfg.App.Name,
		Version:     Version,
		Port:        fmt.Sprint(a.cfg.Metrics.Port),
		MetricsPath: a.cfg.Metrics.Path,
		Metrics:     metricsHandler(a.cfg),
		Logger:      a.log,
		DB:          pinger,
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}

	job := func(ctx context.Context) error {
		_, err := a.runOnce(ctx)
		srv.RecordRun(time.Now(), err)
		return err
	}

	sched := scheduler.NewScheduler(a.log, 0)
	if err := sched.Schedule("best-bets", a.cfg.Schedule.Cron, job); err != nil {
		return err
	}

	// Run immediately so the ledger is fresh without waiting for the first tick.
	if err := job(ctx); err != nil {
		a.log.WithError(err).Error("Initial run failed")
	}

	if err := sched.Start(); err != nil {
		return err
	}
	srv.SetReady(true)
	a.log.WithField("next_run", sched.GetNextRun()).Info("Watching for new snapshots")

	<-ctx.Done()
	srv.SetReady(false)
	sched.Stop()
	return nil
}
