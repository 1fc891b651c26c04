package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	apihttp "ozzus/domain-scout/internal/api/http"
	"ozzus/domain-scout/internal/checks"
	"ozzus/domain-scout/internal/config"
	"ozzus/domain-scout/internal/domain"
	"ozzus/domain-scout/internal/lib/logger/sl"
	"ozzus/domain-scout/internal/report"
	"ozzus/domain-scout/internal/repository"
	"ozzus/domain-scout/internal/repository/kafka"
	"ozzus/domain-scout/internal/service"
	"ozzus/domain-scout/internal/words"
)

const shutdownTimeout = 5 * time.Second

func runScan(cmd *cobra.Command, v *viper.Viper, args []string) error {
	if len(args) > 0 {
		v.Set("words.list", args)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log := setupLogger(cfg.Env, cmd.ErrOrStderr()).With(slog.String("run_id", runID))

	log.Info("starting scan",
		slog.String("env", cfg.Env),
		slog.String("suffix", cfg.Registry.Suffix),
		slog.Int("concurrency", cfg.Checks.Concurrency),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checker, err := checks.NewRDAPChecker(checks.RDAPConfig{
		Suffix:          cfg.Registry.Suffix,
		Endpoint:        cfg.Registry.Endpoint,
		UserAgent:       cfg.Registry.UserAgent,
		Timeout:         cfg.Checks.Timeout,
		StatusPolicy:    cfg.Registry.StatusPolicy,
		MaxConnsPerHost: cfg.Checks.Concurrency,
	}, checks.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to initialize checker: %w", err)
	}
	log.Debug("rdap endpoint resolved", slog.String("endpoint", checker.Endpoint()))

	var check checks.Checker = checker
	if cfg.Checks.DNSPrefilter {
		check = checks.NewDNSPrefilter(checker, cfg.Registry.Suffix, 0, log)
	}

	dispatcher := service.NewDispatcher(check, service.DispatcherConfig{
		Concurrency:   cfg.Checks.Concurrency,
		MaxAttempts:   cfg.Checks.MaxAttempts,
		Timeout:       cfg.Checks.Timeout,
		BackoffBase:   cfg.Checks.BackoffBase,
		BackoffMax:    cfg.Checks.BackoffMax,
		RatePerSecond: cfg.Checks.RatePerSecond,
		Buffer:        cfg.Checks.BufferSize(),
		DrainInFlight: cfg.Checks.DrainInFlight,
	}, log)

	fs := afero.NewOsFs()
	reportOpts := []report.Option{
		report.WithStore(repository.NewFileResultStore(fs, cfg.Output.Path, cfg.Output.Append)),
	}

	if cfg.Kafka.Enabled {
		log.Info("publishing results to kafka", slog.String("topic", cfg.Kafka.Topic), slog.Any("brokers", cfg.Kafka.Brokers))

		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer func() {
			if err := producer.Close(); err != nil {
				log.Warn("failed to close kafka producer", sl.Err(err))
			}
		}()
		reportOpts = append(reportOpts, report.WithPublisher(repository.NewKafkaResultPublisher(producer, runID)))
	}

	scan := service.NewScanService(
		newSource(cfg, fs, log),
		dispatcher,
		service.ScanConfig{
			RunID:    runID,
			Suffix:   cfg.Registry.Suffix,
			Length:   cfg.Words.Length,
			Prefixes: cfg.Words.Prefixes,
			Shuffle:  cfg.Words.Shuffle,
		},
		cmd.OutOrStdout(),
		log,
		reportOpts...,
	)

	summary, err := runWithStatusServer(ctx, cfg, scan, runID, log)
	if err != nil && domain.IsFatal(err) {
		return err
	}

	report.PrintSummary(cmd.OutOrStdout(), summary)
	if err != nil {
		return err
	}

	log.Info("results saved", slog.String("path", cfg.Output.Path), slog.Int("available", summary.Available))
	return nil
}

func newSource(cfg *config.Config, fs afero.Fs, log *slog.Logger) words.Source {
	if len(cfg.Words.List) > 0 {
		return words.NewStaticSource(cfg.Words.List, cfg.Registry.Suffix, log)
	}
	return words.NewDictionarySource(fs, cfg.Words.Dictionary)
}

// runWithStatusServer runs the scan and, when configured, the status API
// alongside it. The server stops once the scan returns.
func runWithStatusServer(
	ctx context.Context,
	cfg *config.Config,
	scan *service.ScanService,
	runID string,
	log *slog.Logger,
) (domain.Summary, error) {
	g, gctx := errgroup.WithContext(ctx)
	scanDone := make(chan struct{})

	var summary domain.Summary
	g.Go(func() error {
		defer close(scanDone)

		var err error
		summary, err = scan.Run(gctx)
		return err
	})

	if cfg.Server.StatusAddr != "" {
		gin.SetMode(gin.ReleaseMode)

		router := apihttp.NewRouter(apihttp.NewHealthController(scan, runID), log)
		srv := &nethttp.Server{
			Addr:              cfg.Server.StatusAddr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			log.Info("starting status server", slog.String("addr", cfg.Server.StatusAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
				return fmt.Errorf("status server failed: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			select {
			case <-scanDone:
			case <-gctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("status server shutdown failed", sl.Err(err))
			}
			return nil
		})
	}

	err := g.Wait()
	return summary, err
}
