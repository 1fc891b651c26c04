package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"

	"ozzus/domain-scout/internal/checks"
	"ozzus/domain-scout/internal/domain"
	"ozzus/domain-scout/internal/lib/logger/slogdiscard"
)

const jitterPercent = 20

type DispatcherConfig struct {
	Concurrency   int
	MaxAttempts   int
	Timeout       time.Duration
	BackoffBase   time.Duration
	BackoffMax    time.Duration
	RatePerSecond float64
	Buffer        int
	DrainInFlight bool
}

// Dispatcher fans candidates out to a fixed number of workers and retries
// transient failures.
type Dispatcher struct {
	checker checks.Checker
	cfg     DispatcherConfig
	limiter *rate.Limiter
	log     *slog.Logger
}

func NewDispatcher(checker checks.Checker, cfg DispatcherConfig, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slogdiscard.NewDiscardLogger()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 500 * time.Millisecond
	}
	if cfg.BackoffMax < cfg.BackoffBase {
		cfg.BackoffMax = cfg.BackoffBase
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 2 * cfg.Concurrency
	}

	d := &Dispatcher{
		checker: checker,
		cfg:     cfg,
		log:     log,
	}
	if cfg.RatePerSecond > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return d
}

// Run checks every unique candidate and streams results in completion
// order. The channel is closed once all scheduled work has finished. After
// ctx is cancelled no new check starts. Callers must drain the channel.
func (d *Dispatcher) Run(ctx context.Context, candidates []string) <-chan domain.CheckResult {
	out := make(chan domain.CheckResult, d.cfg.Buffer)

	go func() {
		defer close(out)

		p := pool.New().WithMaxGoroutines(d.cfg.Concurrency)
		seen := make(map[string]struct{}, len(candidates))

		for _, candidate := range candidates {
			if ctx.Err() != nil {
				d.log.Debug("dispatch stopped", slog.Int("scheduled", len(seen)))
				break
			}
			if _, dup := seen[candidate]; dup {
				d.log.Debug("skipping duplicate candidate", slog.String("candidate", candidate))
				continue
			}
			seen[candidate] = struct{}{}

			p.Go(func() {
				d.process(ctx, candidate, out)
			})
		}

		p.Wait()
	}()

	return out
}

func (d *Dispatcher) process(ctx context.Context, candidate string, out chan<- domain.CheckResult) {
	if ctx.Err() != nil {
		return
	}

	checkCtx := ctx
	if d.cfg.DrainInFlight {
		checkCtx = context.WithoutCancel(ctx)
	}

	var (
		last     domain.CheckResult
		attempts int
	)

	_ = retry.Do(ctx, d.backoff(&last), func(ctx context.Context) error {
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		attempts++
		last = d.attempt(checkCtx, candidate)

		if !last.Retryable() {
			return nil
		}
		if attempts < d.cfg.MaxAttempts {
			d.log.Debug("retrying check",
				slog.String("domain", last.Domain),
				slog.String("kind", string(last.ErrorKind())),
				slog.Int("attempt", attempts),
			)
		}
		return retry.RetryableError(last.Err)
	})

	if attempts == 0 {
		return
	}
	if ctx.Err() != nil && !d.cfg.DrainInFlight {
		return
	}

	last.Attempts = attempts
	d.emit(ctx, out, last)
}

func (d *Dispatcher) attempt(ctx context.Context, candidate string) domain.CheckResult {
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}
	return d.checker.Check(ctx, candidate)
}

// backoff grows exponentially with jitter up to BackoffMax and never waits
// less than the Retry-After of the last rate-limited response.
func (d *Dispatcher) backoff(last *domain.CheckResult) retry.Backoff {
	b := retry.NewExponential(d.cfg.BackoffBase)
	b = retry.WithJitterPercent(jitterPercent, b)
	b = retry.WithCappedDuration(d.cfg.BackoffMax, b)
	b = retry.WithMaxRetries(uint64(d.cfg.MaxAttempts-1), b)

	return retry.BackoffFunc(func() (time.Duration, bool) {
		next, stop := b.Next()
		if stop {
			return 0, true
		}
		if last.Err != nil && last.Err.RetryAfter > next {
			next = last.Err.RetryAfter
		}
		return next, false
	})
}

func (d *Dispatcher) emit(ctx context.Context, out chan<- domain.CheckResult, res domain.CheckResult) {
	if d.cfg.DrainInFlight {
		out <- res
		return
	}

	select {
	case out <- res:
	case <-ctx.Done():
	}
}
