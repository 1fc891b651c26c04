package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozzus/domain-scout/internal/domain"
	"ozzus/domain-scout/internal/report"
	"ozzus/domain-scout/internal/repository"
	"ozzus/domain-scout/internal/words"
)

type failingSource struct{ err error }

func (s failingSource) ListWords(int) ([]string, error) { return nil, s.err }

func greekChecker() *fakeChecker {
	return newFakeChecker(func(_ context.Context, candidate string, _ int) domain.CheckResult {
		switch candidate {
		case "alpha":
			return statusResult(domain.StatusTaken)
		case "beta":
			return statusResult(domain.StatusAvailable)
		default:
			return errorResult(domain.KindTimeout)
		}
	})
}

func TestDispatcherAndReporterEndToEnd(t *testing.T) {
	checker := greekChecker()
	cfg := testDispatcherConfig(2)
	cfg.MaxAttempts = 2
	d := NewDispatcher(checker, cfg, nil)

	rep := report.NewReporter(nil, 3, report.WithSuffix("com"))
	for res := range d.Run(context.Background(), []string{"alpha", "beta", "gamma"}) {
		rep.OnResult(res)
	}

	assert.Equal(t, []string{"beta"}, rep.Accumulated())

	summary := rep.Summary()
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 3, summary.Completed)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.ErrorsByKind[domain.KindTimeout])
	assert.Equal(t, 2, checker.attemptsFor("gamma"))
}

func TestScanServiceRun(t *testing.T) {
	color.NoColor = true

	fs := afero.NewMemMapFs()
	checker := greekChecker()
	cfg := testDispatcherConfig(2)
	cfg.MaxAttempts = 2

	var out bytes.Buffer
	svc := NewScanService(
		words.NewStaticSource([]string{"alpha", "beta.com", "gamma", "alpha"}, "com", nil),
		NewDispatcher(checker, cfg, nil),
		ScanConfig{RunID: "run-1", Suffix: "com", Length: 5, Shuffle: true},
		&out,
		nil,
		report.WithStore(repository.NewFileResultStore(fs, "/available.txt", false)),
	)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Available)
	assert.Equal(t, 1, summary.Taken)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, []string{"beta.com"}, summary.Domains)
	assert.Contains(t, out.String(), "beta.com is available")

	saved, err := afero.ReadFile(fs, "/available.txt")
	require.NoError(t, err)
	assert.Equal(t, "beta.com\n", string(saved))

	status := svc.Status()
	assert.False(t, status.Running)
	assert.EqualValues(t, 3, status.Completed)
	assert.Equal(t, []string{"beta.com"}, svc.Available())
	assert.NoError(t, svc.HealthCheck(context.Background()))
	assert.Error(t, svc.Ready())
}

func TestScanServiceExpandsPrefixes(t *testing.T) {
	checker := newFakeChecker(func(context.Context, string, int) domain.CheckResult {
		return statusResult(domain.StatusTaken)
	})
	svc := NewScanService(
		words.NewStaticSource([]string{"soil"}, "com", nil),
		NewDispatcher(checker, testDispatcherConfig(2), nil),
		ScanConfig{Suffix: "com", Prefixes: []string{"get", "try"}},
		nil,
		nil,
	)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, checker.attemptsFor("getsoil"))
	assert.Equal(t, 1, checker.attemptsFor("trysoil"))
}

func TestScanServiceEmptySourceIsFatal(t *testing.T) {
	checker := greekChecker()
	svc := NewScanService(
		words.NewStaticSource(nil, "com", nil),
		NewDispatcher(checker, testDispatcherConfig(1), nil),
		ScanConfig{Suffix: "com", Length: 6},
		nil,
		nil,
	)

	_, err := svc.Run(context.Background())

	require.ErrorIs(t, err, domain.ErrNoCandidates)
	assert.True(t, domain.IsFatal(err))
	assert.Zero(t, checker.calls.Load())
	assert.Error(t, svc.HealthCheck(context.Background()))
	assert.Zero(t, svc.Status().Total)
	assert.Empty(t, svc.Available())
}

func TestScanServiceSourceError(t *testing.T) {
	root := errors.New("no dictionary")
	svc := NewScanService(failingSource{err: root}, NewDispatcher(greekChecker(), testDispatcherConfig(1), nil), ScanConfig{}, nil, nil)

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, root)
}
