package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"ozzus/domain-scout/internal/domain"
	"ozzus/domain-scout/internal/lib/logger/sl"
	"ozzus/domain-scout/internal/lib/logger/slogdiscard"
	"ozzus/domain-scout/internal/report"
	"ozzus/domain-scout/internal/words"
)

type ScanConfig struct {
	RunID    string
	Suffix   string
	Length   int
	Prefixes []string
	Shuffle  bool
}

// ScanService runs one scan: load candidates, check them, report and
// persist the hits.
type ScanService struct {
	source     words.Source
	dispatcher *Dispatcher
	cfg        ScanConfig
	out        io.Writer
	reportOpts []report.Option
	log        *slog.Logger
	shuffle    func([]string)

	running   atomic.Bool
	reporter  atomic.Pointer[report.Reporter]
	startedAt atomic.Pointer[time.Time]

	mu     sync.Mutex
	runErr error
}

func NewScanService(
	source words.Source,
	dispatcher *Dispatcher,
	cfg ScanConfig,
	out io.Writer,
	log *slog.Logger,
	reportOpts ...report.Option,
) *ScanService {
	if log == nil {
		log = slogdiscard.NewDiscardLogger()
	}

	return &ScanService{
		source:     source,
		dispatcher: dispatcher,
		cfg:        cfg,
		out:        out,
		reportOpts: reportOpts,
		log:        log,
		shuffle: func(s []string) {
			rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
		},
	}
}

func (s *ScanService) Run(ctx context.Context) (domain.Summary, error) {
	s.running.Store(true)
	defer s.running.Store(false)

	now := time.Now()
	s.startedAt.Store(&now)

	candidates, err := s.loadCandidates()
	if err != nil {
		s.setErr(err)
		return domain.Summary{}, err
	}

	opts := append([]report.Option{
		report.WithSuffix(s.cfg.Suffix),
		report.WithRunID(s.cfg.RunID),
		report.WithLogger(s.log),
	}, s.reportOpts...)
	rep := report.NewReporter(s.out, len(candidates), opts...)
	s.reporter.Store(rep)

	s.log.Info("scan started",
		slog.Int("candidates", len(candidates)),
		slog.String("suffix", s.cfg.Suffix),
	)

	for res := range s.dispatcher.Run(ctx, candidates) {
		rep.OnResult(res)
	}

	if ctx.Err() != nil {
		s.log.Warn("scan interrupted",
			slog.Int64("completed", rep.Progress().Completed()),
			slog.Int("total", len(candidates)),
		)
	}

	summary, err := rep.Finalize(context.WithoutCancel(ctx))
	if err != nil {
		s.log.Error("failed to finalize scan", sl.Err(err))
		s.setErr(err)
		return summary, err
	}

	s.log.Info("scan finished",
		slog.Int("completed", summary.Completed),
		slog.Int("available", summary.Available),
		slog.Int("errors", summary.Errors),
		slog.Duration("elapsed", summary.Elapsed()),
	)

	return summary, nil
}

func (s *ScanService) loadCandidates() ([]string, error) {
	base, err := s.source.ListWords(s.cfg.Length)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	expanded := words.Expand(base, s.cfg.Prefixes)
	valid := make([]string, 0, len(expanded))
	for _, c := range expanded {
		if !domain.ValidLabel(c) {
			s.log.Debug("dropping invalid candidate", slog.String("candidate", c))
			continue
		}
		valid = append(valid, c)
	}

	candidates := domain.Dedupe(valid)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no words of length %d", domain.ErrNoCandidates, s.cfg.Length)
	}

	if s.cfg.Shuffle && s.shuffle != nil {
		s.shuffle(candidates)
	}

	return candidates, nil
}

func (s *ScanService) setErr(err error) {
	s.mu.Lock()
	s.runErr = err
	s.mu.Unlock()
}

func (s *ScanService) HealthCheck(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runErr != nil {
		return fmt.Errorf("scan failed: %w", s.runErr)
	}
	return nil
}

func (s *ScanService) Ready() error {
	if !s.running.Load() {
		return errors.New("scan is not running")
	}
	if s.reporter.Load() == nil {
		return errors.New("candidates are still loading")
	}
	return nil
}

func (s *ScanService) Status() domain.ScanStatus {
	status := domain.ScanStatus{
		RunID:   s.cfg.RunID,
		Suffix:  s.cfg.Suffix,
		Running: s.running.Load(),
	}
	if started := s.startedAt.Load(); started != nil {
		status.StartedAt = *started
	}

	rep := s.reporter.Load()
	if rep == nil {
		return status
	}

	snap := rep.Progress().Snapshot()
	status.Total = snap.Total
	status.Completed = snap.Completed
	status.Available = snap.Available
	status.Taken = snap.Taken
	status.Indeterminate = snap.Indeterminate
	status.Errors = snap.Errors
	status.ErrorsByKind = snap.ErrorsByKind

	return status
}

// Available returns the fully qualified names found so far.
func (s *ScanService) Available() []string {
	rep := s.reporter.Load()
	if rep == nil {
		return []string{}
	}
	return rep.AvailableDomains()
}
