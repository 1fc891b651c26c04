package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"ozzus/domain-scout/internal/domain"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	EnvPrefix      = "SCOUT"
	configFileName = "scout"
)

type Config struct {
	Env      string         `mapstructure:"env"`
	Words    WordsConfig    `mapstructure:"words"`
	Registry RegistryConfig `mapstructure:"registry"`
	Checks   ChecksConfig   `mapstructure:"checks"`
	Output   OutputConfig   `mapstructure:"output"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Server   ServerConfig   `mapstructure:"server"`
}

type WordsConfig struct {
	Length     int      `mapstructure:"length"`
	Dictionary string   `mapstructure:"dictionary"`
	List       []string `mapstructure:"list"`
	Prefixes   []string `mapstructure:"prefixes"`
	Shuffle    bool     `mapstructure:"shuffle"`
}

type RegistryConfig struct {
	Suffix       string            `mapstructure:"suffix"`
	Endpoint     string            `mapstructure:"endpoint"`
	UserAgent    string            `mapstructure:"user_agent"`
	StatusPolicy map[string]string `mapstructure:"status_policy"`
}

type ChecksConfig struct {
	Concurrency   int           `mapstructure:"concurrency"`
	MaxAttempts   int           `mapstructure:"max_attempts"`
	Timeout       time.Duration `mapstructure:"timeout"`
	BackoffBase   time.Duration `mapstructure:"backoff_base"`
	BackoffMax    time.Duration `mapstructure:"backoff_max"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Buffer        int           `mapstructure:"buffer"`
	DrainInFlight bool          `mapstructure:"drain_in_flight"`
	DNSPrefilter  bool          `mapstructure:"dns_prefilter"`
}

type OutputConfig struct {
	Path   string `mapstructure:"path"`
	Append bool   `mapstructure:"append"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type ServerConfig struct {
	StatusAddr string `mapstructure:"status_addr"`
}

// Load reads configuration into v, which defaults to the global viper
// instance. Values come from defaults, an optional scout.yaml (or the file
// named by the "config" key), SCOUT_* env vars and any flags bound to v.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := v.GetString("config")
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.normalize()

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errs)
	}

	return &cfg, nil
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvLocal)

	// Words
	v.SetDefault("words.length", 6)
	v.SetDefault("words.dictionary", "/usr/share/dict/words")
	v.SetDefault("words.list", []string{})
	v.SetDefault("words.prefixes", []string{})
	v.SetDefault("words.shuffle", true)

	// Registry
	v.SetDefault("registry.suffix", "com")
	v.SetDefault("registry.endpoint", "")
	v.SetDefault("registry.user_agent", "domain-scout/1.0")
	v.SetDefault("registry.status_policy", DefaultStatusPolicy())

	// Checks
	v.SetDefault("checks.concurrency", 20)
	v.SetDefault("checks.max_attempts", 3)
	v.SetDefault("checks.timeout", 10*time.Second)
	v.SetDefault("checks.backoff_base", 500*time.Millisecond)
	v.SetDefault("checks.backoff_max", 30*time.Second)
	v.SetDefault("checks.rate_per_second", 0.0)
	v.SetDefault("checks.buffer", 0)
	v.SetDefault("checks.drain_in_flight", true)
	v.SetDefault("checks.dns_prefilter", false)

	// Output
	v.SetDefault("output.path", "available_domains.txt")
	v.SetDefault("output.append", false)

	// Kafka
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "domain-check-results")

	// Server
	v.SetDefault("server.status_addr", "")
}

// DefaultStatusPolicy maps RDAP statuses of names that are on their way
// back to the pool.
func DefaultStatusPolicy() map[string]string {
	return map[string]string{
		"pending delete":    string(domain.StatusIndeterminate),
		"redemption period": string(domain.StatusIndeterminate),
		"pending restore":   string(domain.StatusIndeterminate),
	}
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.Registry.Suffix = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Registry.Suffix)), ".")
	c.Registry.Endpoint = strings.TrimSpace(c.Registry.Endpoint)

	policy := make(map[string]string, len(c.Registry.StatusPolicy))
	for status, category := range c.Registry.StatusPolicy {
		policy[strings.ToLower(strings.TrimSpace(status))] = strings.ToLower(strings.TrimSpace(category))
	}
	c.Registry.StatusPolicy = policy
}

// BufferSize is the result channel capacity. Zero means twice the
// concurrency.
func (c ChecksConfig) BufferSize() int {
	if c.Buffer > 0 {
		return c.Buffer
	}
	return 2 * c.Concurrency
}
