package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozzus/domain-scout/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, 6, cfg.Words.Length)
	assert.True(t, cfg.Words.Shuffle)
	assert.Equal(t, "com", cfg.Registry.Suffix)
	assert.Equal(t, 20, cfg.Checks.Concurrency)
	assert.Equal(t, 3, cfg.Checks.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.Checks.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Checks.BackoffBase)
	assert.True(t, cfg.Checks.DrainInFlight)
	assert.Equal(t, 40, cfg.Checks.BufferSize())
	assert.Equal(t, "available_domains.txt", cfg.Output.Path)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "indeterminate", cfg.Registry.StatusPolicy["pending delete"])
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SCOUT_CHECKS_CONCURRENCY", "4")
	t.Setenv("SCOUT_REGISTRY_SUFFIX", ".AI")
	t.Setenv("SCOUT_CHECKS_TIMEOUT", "2s")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Checks.Concurrency)
	assert.Equal(t, "ai", cfg.Registry.Suffix)
	assert.Equal(t, 2*time.Second, cfg.Checks.Timeout)
}

func TestLoadFromFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/scout/scout.yaml", []byte(`
env: prod
words:
  length: 5
  list: [alpha, beta]
registry:
  suffix: dev
  status_policy:
    pending delete: available
checks:
  concurrency: 8
  buffer: 3
  backoff_max: 1m
`), 0o644))

	v := viper.New()
	v.SetFs(fs)
	v.Set("config", "/etc/scout/scout.yaml")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, EnvProd, cfg.Env)
	assert.Equal(t, 5, cfg.Words.Length)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Words.List)
	assert.Equal(t, "dev", cfg.Registry.Suffix)
	assert.Equal(t, "available", cfg.Registry.StatusPolicy["pending delete"])
	assert.Equal(t, 8, cfg.Checks.Concurrency)
	assert.Equal(t, 3, cfg.Checks.BufferSize())
	assert.Equal(t, time.Minute, cfg.Checks.BackoffMax)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	v := viper.New()
	v.SetFs(afero.NewMemMapFs())
	v.Set("config", "/nope/scout.yaml")

	_, err := Load(v)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	v := viper.New()
	v.Set("checks.concurrency", 0)
	v.Set("checks.max_attempts", 0)

	_, err := Load(v)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.True(t, domain.IsFatal(err))

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}
