// Package selector runs the comparator over every scraped match, gates the
// results on ROI, deduplicates them against the ledger and records the rest.
package selector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/esports-edge/internal/comparator"
	"github.com/yourusername/esports-edge/internal/form"
	"github.com/yourusername/esports-edge/internal/ledger"
	"github.com/yourusername/esports-edge/internal/logger"
	"github.com/yourusername/esports-edge/internal/metrics"
	"github.com/yourusername/esports-edge/internal/models"
	"github.com/yourusername/esports-edge/internal/names"
	"github.com/yourusername/esports-edge/internal/odds"
)

// Defaults used by DefaultConfig and the config loader.
const (
	DefaultMinROI        = 5.0
	DefaultRetentionDays = 2
)

// Config controls one selection run. MinROI and RetentionDays are used as
// given, zero included; start from DefaultConfig for the usual values.
type Config struct {
	DataDir         string
	SnapshotPattern string
	LedgerPath      string
	ProcessedPath   string
	MinROI          float64
	RetentionDays   int
	FuzzyCutoff     int
	Window          form.WindowConfig
	Categories      []models.Category
}

// DefaultConfig returns a Config with the default ROI gate and retention.
func DefaultConfig() Config {
	return Config{
		SnapshotPattern: odds.DefaultPattern,
		MinROI:          DefaultMinROI,
		RetentionDays:   DefaultRetentionDays,
		FuzzyCutoff:     names.DefaultCutoff,
		Window:          form.DefaultWindow(),
		Categories:      models.AllCategories(),
	}
}

// Store is the historical table as the selector needs it.
type Store interface {
	form.Source
	Teams() []string
}

// Sink receives the outcome of a run, e.g. a notifier or a database mirror.
type Sink interface {
	Name() string
	Publish(ctx context.Context, result *RunResult) error
}

// RunResult summarises one run.
type RunResult struct {
	RunID          string
	New            []*models.BetCandidate
	Purged         []ledger.Row
	FilesProcessed int
	FilesSkipped   int
	FilesFailed    int
	MatchesSkipped int
	LedgerRows     int
	Duration       time.Duration
}

// Ranked returns the new candidates by descending ROI. Equal ROIs keep
// discovery order.
func (r *RunResult) Ranked() []*models.BetCandidate {
	out := make([]*models.BetCandidate, len(r.New))
	copy(out, r.New)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ROI.GreaterThan(out[j].ROI)
	})
	return out
}

// Selector is the best-bet selection engine.
type Selector struct {
	cfg         Config
	minROI      decimal.Decimal
	corrections names.Corrections
	sinks       []Sink
	validate    *validator.Validate
	log         *logger.EngineLogger
	audit       *logger.AuditLogger
	now         func() time.Time
}

// New creates a selector. corrections may be nil. An empty snapshot pattern or
// category list falls back to the defaults.
func New(cfg Config, corrections names.Corrections, log *logrus.Logger, sinks ...Sink) *Selector {
	if cfg.SnapshotPattern == "" {
		cfg.SnapshotPattern = odds.DefaultPattern
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = models.AllCategories()
	}
	return &Selector{
		cfg:         cfg,
		minROI:      decimal.NewFromFloat(cfg.MinROI),
		corrections: corrections,
		sinks:       sinks,
		validate:    validator.New(),
		log:         logger.NewEngineLogger(log),
		audit:       logger.NewAuditLogger(log),
		now:         time.Now,
	}
}

// SetClock overrides the time source used for retention.
func (s *Selector) SetClock(now func() time.Time) {
	s.now = now
}

// Run processes every unprocessed snapshot against store. Only ledger and
// processed-set I/O failures are returned; per-file, per-match and
// per-category problems are logged and absorbed.
func (s *Selector) Run(ctx context.Context, store Store) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{RunID: logger.NewRunID()}
	log := s.log.WithRun(result.RunID)

	res, err := s.run(ctx, store, result, log)
	result.Duration = time.Since(start)
	if err != nil {
		metrics.RecordRun("failure", result.Duration.Seconds(), 0, 0)
		return nil, err
	}
	metrics.RecordRun("success", result.Duration.Seconds(), res.LedgerRows, float64(s.now().Unix()))
	log.LogRunCompleted(len(res.New), len(res.Purged), res.FilesProcessed, res.FilesFailed, res.Duration)

	s.publish(ctx, res)
	return res, nil
}

func (s *Selector) run(ctx context.Context, store Store, result *RunResult, log *logger.EngineLogger) (*RunResult, error) {
	book, err := ledger.Open(s.cfg.LedgerPath)
	if err != nil {
		return nil, err
	}
	processed, err := ledger.OpenProcessed(s.cfg.ProcessedPath)
	if err != nil {
		return nil, err
	}

	result.Purged = s.purge(book)

	paths, err := odds.Discover(s.cfg.DataDir, s.cfg.SnapshotPattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}
	log.LogRunStarted(s.cfg.DataDir, len(paths), processed.Len())

	resolver := names.NewResolver(s.corrections, store.Teams(), s.cfg.FuzzyCutoff)
	forms := form.NewCache(store, s.cfg.Window)

	for _, path := range paths {
		if ctx.Err() != nil {
			log.WithError(ctx.Err()).Warn("Run interrupted, saving progress")
			break
		}
		if processed.Has(path) {
			result.FilesSkipped++
			continue
		}

		snap, err := odds.LoadSnapshot(path)
		if err != nil {
			log.LogSnapshotFailed(path, err)
			metrics.RecordSnapshotFailure()
			result.FilesFailed++
			continue
		}

		for _, rejected := range snap.Rejected {
			log.LogMatchRejected(path, rejected.Index, rejected.Err)
			metrics.RecordMatchSkipped("malformed")
			result.MatchesSkipped++
		}

		before := len(result.New)
		for _, raw := range snap.Matches {
			s.processMatch(snap.House, odds.NewMatchView(raw, resolver), forms, book, result, log)
		}
		processed.Mark(path)
		result.FilesProcessed++
		metrics.RecordSnapshotProcessed(snap.House)
		log.LogSnapshotProcessed(path, snap.House, len(snap.Matches), len(result.New)-before)
	}

	if err := book.Save(); err != nil {
		return nil, err
	}
	if err := processed.Save(); err != nil {
		return nil, err
	}
	result.LedgerRows = book.Len()
	return result, nil
}

func (s *Selector) processMatch(house string, view *odds.MatchView, forms *form.Cache, book *ledger.Ledger, result *RunResult, log *logger.EngineLogger) {
	home, err := forms.Get(view.HomeTeam())
	if err == nil {
		var away *form.Calculator
		away, err = forms.Get(view.AwayTeam())
		if err == nil {
			s.compareMatch(comparator.New(view, home, away, house), view, book, result, log)
			return
		}
	}

	reason := err.Error()
	var nameErr *models.TeamNameError
	if errors.As(err, &nameErr) {
		reason = "unknown_team"
	}
	log.LogMatchSkipped(house, view.HomeTeam(), view.AwayTeam(), err.Error())
	metrics.RecordMatchSkipped(reason)
	result.MatchesSkipped++
}

func (s *Selector) compareMatch(cmp *comparator.Comparator, view *odds.MatchView, book *ledger.Ledger, result *RunResult, log *logger.EngineLogger) {
	for _, res := range cmp.CompareAll(s.cfg.Categories) {
		category := res.Category.String()
		if res.Err != nil {
			metrics.RecordCandidate(category, outcomeFor(res.Err))
			log.LogCategorySkipped(view.HomeTeam(), view.AwayTeam(), category, res.Err)
			continue
		}

		cand := res.Candidate
		if err := s.validate.Struct(cand); err != nil {
			metrics.RecordCandidate(category, metrics.OutcomeError)
			log.LogCategorySkipped(view.HomeTeam(), view.AwayTeam(), category, fmt.Errorf("invalid candidate: %w", err))
			continue
		}
		if cand.ROI.LessThan(s.minROI) {
			metrics.RecordCandidate(category, metrics.OutcomeBelowROI)
			continue
		}
		if !book.Append(cand) {
			metrics.RecordCandidate(category, metrics.OutcomeDuplicate)
			s.audit.LogDuplicateSkipped(cand.Key())
			continue
		}

		metrics.RecordCandidate(category, metrics.OutcomeRecorded)
		metrics.RecordCandidateROI(category, cand.ROI.InexactFloat64())
		s.audit.LogCandidateRecorded(cand.Key(), string(cand.Side), cand.BetLine(), cand.ROIString(), cand.FairOddsString(), cand.OddsString())
		result.New = append(result.New, cand)
	}
}

// Purge applies only the retention policy to the ledger.
func (s *Selector) Purge(ctx context.Context) (*RunResult, error) {
	result := &RunResult{RunID: logger.NewRunID()}
	book, err := ledger.Open(s.cfg.LedgerPath)
	if err != nil {
		return nil, err
	}
	result.Purged = s.purge(book)
	if err := book.Save(); err != nil {
		return nil, err
	}
	result.LedgerRows = book.Len()
	s.publish(ctx, result)
	return result, nil
}

func (s *Selector) purge(book *ledger.Ledger) []ledger.Row {
	purged := book.PurgeStalePending(s.now(), s.cfg.RetentionDays)
	for i := range purged {
		s.audit.LogPendingPurged(purged[i].Key(), purged[i].Date, s.cfg.RetentionDays)
	}
	metrics.RecordPendingPurged(len(purged))
	return purged
}

func (s *Selector) publish(ctx context.Context, result *RunResult) {
	if len(result.New) == 0 && len(result.Purged) == 0 {
		return
	}
	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, result); err != nil {
			s.log.WithError(err).WithField("sink", sink.Name()).Error("Failed to publish run result")
		}
	}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, models.ErrNoBet),
		errors.Is(err, models.ErrNoMarket),
		errors.Is(err, models.ErrNoData):
		return metrics.OutcomeNoBet
	default:
		return metrics.OutcomeError
	}
}
