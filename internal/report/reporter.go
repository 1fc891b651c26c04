// Package report renders scan results to the console and collects the
// available names.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"ozzus/domain-scout/internal/domain"
	"ozzus/domain-scout/internal/lib/logger/sl"
	"ozzus/domain-scout/internal/lib/logger/slogdiscard"
	"ozzus/domain-scout/internal/repository"
)

const (
	clearLine      = "\r\033[K"
	publishTimeout = 5 * time.Second
	barWidth       = 40
)

var (
	hitColor    = color.New(color.FgGreen, color.Bold)
	noticeColor = color.New(color.FgYellow)
)

type Option func(*Reporter)

func WithLogger(log *slog.Logger) Option {
	return func(r *Reporter) {
		if log != nil {
			r.log = log
		}
	}
}

func WithStore(store repository.ResultStore) Option {
	return func(r *Reporter) { r.store = store }
}

func WithPublisher(pub repository.ResultPublisher) Option {
	return func(r *Reporter) { r.publisher = pub }
}

func WithSuffix(suffix string) Option {
	return func(r *Reporter) { r.suffix = strings.TrimPrefix(suffix, ".") }
}

func WithRunID(id string) Option {
	return func(r *Reporter) { r.runID = id }
}

// WithTerminal forces live or plain progress regardless of what out is.
func WithTerminal(tty bool) Option {
	return func(r *Reporter) { r.tty = tty }
}

// Reporter is the single consumer of check results. It owns all console
// output for a run.
type Reporter struct {
	out       io.Writer
	log       *slog.Logger
	progress  *Progress
	store     repository.ResultStore
	publisher repository.ResultPublisher
	suffix    string
	runID     string

	tty bool
	bar progress.Model

	mu         sync.Mutex
	hits       []string
	hitSet     map[string]struct{}
	lastDecile int64
	startedAt  time.Time
}

func NewReporter(out io.Writer, total int, opts ...Option) *Reporter {
	if out == nil {
		out = io.Discard
	}

	r := &Reporter{
		out:       out,
		log:       slogdiscard.NewDiscardLogger(),
		progress:  NewProgress(total),
		tty:       isTerminal(out),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
		hitSet:    make(map[string]struct{}),
		startedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *Reporter) Progress() *Progress {
	return r.progress
}

// OnResult records one result. Each candidate lands in the accumulator at
// most once.
func (r *Reporter) OnResult(res domain.CheckResult) {
	completed, firstOfKind := r.progress.Record(res)

	r.mu.Lock()
	defer r.mu.Unlock()

	switch res.Status {
	case domain.StatusAvailable:
		if _, dup := r.hitSet[res.Candidate]; !dup {
			r.hitSet[res.Candidate] = struct{}{}
			r.hits = append(r.hits, res.Candidate)
		}
		r.printLine(hitColor, "✓ %s is available\n", r.domainOf(res))

	case domain.StatusIndeterminate:
		r.printLine(noticeColor, "? %s is registered but %s\n", r.domainOf(res), strings.Join(res.RegistryStatuses, ", "))

	case domain.StatusError:
		attrs := []any{
			slog.String("domain", r.domainOf(res)),
			slog.String("kind", string(res.ErrorKind())),
			slog.Int("attempts", res.Attempts),
		}
		if res.Err != nil {
			attrs = append(attrs, sl.Err(res.Err))
		}
		if firstOfKind {
			r.log.Warn("check failed", attrs...)
		} else {
			r.log.Debug("check failed", attrs...)
		}
	}

	r.drawProgress(completed)
	r.publish(res)
}

func (r *Reporter) domainOf(res domain.CheckResult) string {
	if res.Domain != "" {
		return res.Domain
	}
	return domain.DomainName(res.Candidate, r.suffix)
}

// printLine writes a notice above the live progress bar.
func (r *Reporter) printLine(c *color.Color, format string, args ...any) {
	if r.tty {
		fmt.Fprint(r.out, clearLine)
	}
	c.Fprintf(r.out, format, args...)
}

func (r *Reporter) drawProgress(completed int64) {
	total := r.progress.Total()

	if r.tty {
		pct := 1.0
		if total > 0 {
			pct = float64(completed) / float64(total)
		}
		fmt.Fprintf(r.out, "%s%s %d/%d available:%d", clearLine, r.bar.ViewAs(pct), completed, total, r.progress.Available())
		return
	}

	if total <= 0 {
		return
	}
	decile := completed * 10 / total
	if decile > r.lastDecile {
		r.lastDecile = decile
		fmt.Fprintf(r.out, "progress: %d%% (%d/%d), %d available\n", decile*10, completed, total, r.progress.Available())
	}
}

func (r *Reporter) publish(res domain.CheckResult) {
	if r.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := r.publisher.Publish(ctx, res); err != nil {
		r.log.Warn("failed to publish result", slog.String("domain", r.domainOf(res)), sl.Err(err))
	}
}

// Accumulated returns the available candidates in the order they arrived.
func (r *Reporter) Accumulated() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.hits))
	copy(out, r.hits)
	return out
}

// AvailableDomains returns the accumulator as fully qualified names.
func (r *Reporter) AvailableDomains() []string {
	hits := r.Accumulated()
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = domain.DomainName(h, r.suffix)
	}
	return out
}

// Finalize ends the progress display and persists the accumulator.
func (r *Reporter) Finalize(ctx context.Context) (domain.Summary, error) {
	r.mu.Lock()
	if r.tty {
		fmt.Fprintln(r.out)
	}
	r.mu.Unlock()

	summary := r.Summary()
	summary.FinishedAt = time.Now()

	if r.store != nil {
		if err := r.store.Save(ctx, summary.Domains); err != nil {
			return summary, fmt.Errorf("failed to save results: %w", err)
		}
	}

	return summary, nil
}

func (r *Reporter) Summary() domain.Summary {
	snap := r.progress.Snapshot()

	return domain.Summary{
		RunID:         r.runID,
		Suffix:        r.suffix,
		Total:         int(snap.Total),
		Completed:     int(snap.Completed),
		Available:     int(snap.Available),
		Taken:         int(snap.Taken),
		Indeterminate: int(snap.Indeterminate),
		Errors:        int(snap.Errors),
		ErrorsByKind:  snap.ErrorsByKind,
		Domains:       r.AvailableDomains(),
		StartedAt:     r.startedAt,
	}
}
