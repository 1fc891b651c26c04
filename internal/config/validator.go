package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"ozzus/domain-scout/internal/domain"
)

// ValidationError is a single invalid config value.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

func ValidEnvs() []string {
	return []string{EnvLocal, EnvDev, EnvProd}
}

func ValidPolicyCategories() []string {
	return []string{
		string(domain.StatusAvailable),
		string(domain.StatusTaken),
		string(domain.StatusIndeterminate),
	}
}

// Validate returns every invalid value found, or nil.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if !slices.Contains(ValidEnvs(), c.Env) {
		errs = append(errs, ValidationError{
			Field:   "env",
			Value:   c.Env,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidEnvs(), ", ")),
		})
	}

	errs = append(errs, c.validateWords()...)
	errs = append(errs, c.validateRegistry()...)
	errs = append(errs, c.validateChecks()...)

	if strings.TrimSpace(c.Output.Path) == "" {
		errs = append(errs, ValidationError{Field: "output.path", Value: c.Output.Path, Message: "must not be empty"})
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, ValidationError{Field: "kafka.brokers", Value: c.Kafka.Brokers, Message: "must list at least one broker when kafka is enabled"})
		}
		if c.Kafka.Topic == "" {
			errs = append(errs, ValidationError{Field: "kafka.topic", Value: c.Kafka.Topic, Message: "must be set when kafka is enabled"})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (c *Config) validateWords() []ValidationError {
	var errs []ValidationError

	if c.Words.Length < 1 || c.Words.Length > 63 {
		errs = append(errs, ValidationError{Field: "words.length", Value: c.Words.Length, Message: "must be between 1 and 63"})
	}
	if len(c.Words.List) == 0 && strings.TrimSpace(c.Words.Dictionary) == "" {
		errs = append(errs, ValidationError{Field: "words.dictionary", Value: c.Words.Dictionary, Message: "must be set when no word list is given"})
	}
	for _, prefix := range c.Words.Prefixes {
		if !domain.ValidLabel(prefix) {
			errs = append(errs, ValidationError{Field: "words.prefixes", Value: prefix, Message: "must be a lowercase LDH label"})
		}
	}

	return errs
}

func (c *Config) validateRegistry() []ValidationError {
	var errs []ValidationError

	if !domain.ValidLabel(c.Registry.Suffix) {
		errs = append(errs, ValidationError{Field: "registry.suffix", Value: c.Registry.Suffix, Message: "must be a single lowercase LDH label"})
	}

	if c.Registry.Endpoint != "" {
		u, err := url.Parse(strings.ReplaceAll(c.Registry.Endpoint, "{}", "x"))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{Field: "registry.endpoint", Value: c.Registry.Endpoint, Message: "must be an http(s) URL"})
		}
	}

	for status, category := range c.Registry.StatusPolicy {
		if !slices.Contains(ValidPolicyCategories(), category) {
			errs = append(errs, ValidationError{
				Field:   "registry.status_policy." + status,
				Value:   category,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidPolicyCategories(), ", ")),
			})
		}
	}

	return errs
}

func (c *Config) validateChecks() []ValidationError {
	var errs []ValidationError
	ch := c.Checks

	if ch.Concurrency < 1 {
		errs = append(errs, ValidationError{Field: "checks.concurrency", Value: ch.Concurrency, Message: "must be at least 1"})
	}
	if ch.MaxAttempts < 1 {
		errs = append(errs, ValidationError{Field: "checks.max_attempts", Value: ch.MaxAttempts, Message: "must be at least 1"})
	}
	if ch.Timeout <= 0 {
		errs = append(errs, ValidationError{Field: "checks.timeout", Value: ch.Timeout, Message: "must be positive"})
	}
	if ch.BackoffBase <= 0 {
		errs = append(errs, ValidationError{Field: "checks.backoff_base", Value: ch.BackoffBase, Message: "must be positive"})
	}
	if ch.BackoffMax < ch.BackoffBase {
		errs = append(errs, ValidationError{Field: "checks.backoff_max", Value: ch.BackoffMax, Message: "must not be less than checks.backoff_base"})
	}
	if ch.RatePerSecond < 0 {
		errs = append(errs, ValidationError{Field: "checks.rate_per_second", Value: ch.RatePerSecond, Message: "must not be negative"})
	}
	if ch.Buffer < 0 {
		errs = append(errs, ValidationError{Field: "checks.buffer", Value: ch.Buffer, Message: "must not be negative"})
	}

	return errs
}
