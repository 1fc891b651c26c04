package checks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ozzus/domain-scout/internal/domain"
	"ozzus/domain-scout/internal/lib/logger/slogdiscard"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "domain-scout/1.0"
	maxBodySize      = 1 << 20
	acceptHeader     = "application/rdap+json, application/json"
)

type RDAPConfig struct {
	Suffix          string
	Endpoint        string
	UserAgent       string
	Timeout         time.Duration
	StatusPolicy    map[string]string
	MaxConnsPerHost int
}

type RDAPChecker struct {
	suffix    string
	endpoint  string
	userAgent string
	timeout   time.Duration
	policy    StatusPolicy
	bootstrap string
	client    *http.Client
	log       *slog.Logger
}

type rdapResponse struct {
	ObjectClassName string   `json:"objectClassName"`
	LDHName         string   `json:"ldhName"`
	ErrorCode       int      `json:"errorCode"`
	Status          []string `json:"status"`
}

func NewRDAPChecker(cfg RDAPConfig, opts ...Option) (*RDAPChecker, error) {
	suffix := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(cfg.Suffix)), ".")
	if !domain.ValidLabel(suffix) {
		return nil, fmt.Errorf("%w: invalid suffix %q", domain.ErrInvalidConfig, cfg.Suffix)
	}

	endpoint := ResolveEndpoint(suffix, cfg.Endpoint)
	if _, err := url.Parse(strings.ReplaceAll(endpoint, placeholder, "x")); err != nil {
		return nil, fmt.Errorf("%w: invalid endpoint %q: %w", domain.ErrInvalidConfig, endpoint, err)
	}

	policy, err := NewStatusPolicy(cfg.StatusPolicy)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.MaxConnsPerHost > 0 {
		transport.MaxConnsPerHost = cfg.MaxConnsPerHost
		transport.MaxIdleConnsPerHost = cfg.MaxConnsPerHost
	}

	// A 404 served by the redirector itself means it has no registry for
	// the suffix, not that the name is free.
	var bootstrap string
	if endpoint == fallbackEndpoint {
		if u, err := url.Parse(strings.ReplaceAll(endpoint, placeholder, "x")); err == nil {
			bootstrap = u.Host
		}
	}

	c := &RDAPChecker{
		suffix:    suffix,
		endpoint:  endpoint,
		userAgent: userAgent,
		timeout:   timeout,
		policy:    policy,
		bootstrap: bootstrap,
		client:    &http.Client{Transport: transport},
		log:       slogdiscard.NewDiscardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *RDAPChecker) Suffix() string {
	return c.suffix
}

func (c *RDAPChecker) Endpoint() string {
	return c.endpoint
}

func (c *RDAPChecker) Check(ctx context.Context, candidate string) domain.CheckResult {
	start := time.Now()
	fqdn := domain.DomainName(candidate, c.suffix)
	res := domain.CheckResult{
		Candidate: candidate,
		Domain:    fqdn,
		Timestamp: start,
	}

	if !domain.ValidLabel(candidate) {
		return c.failureResult(res, start, &domain.CheckError{
			Kind:   domain.KindInvalidCandidate,
			Domain: fqdn,
			Err:    domain.ErrInvalidCandidate,
		})
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpointURL(c.endpoint, fqdn), nil)
	if err != nil {
		return c.failureResult(res, start, &domain.CheckError{Kind: domain.KindNetwork, Domain: fqdn, Err: err})
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return c.failureResult(res, start, c.transportError(ctx, fqdn, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return c.failureResult(res, start, c.transportError(ctx, fqdn, err))
	}

	c.log.Debug("rdap response",
		slog.String("domain", fqdn),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	return c.classify(res, start, resp, body)
}

func (c *RDAPChecker) classify(res domain.CheckResult, start time.Time, resp *http.Response, body []byte) domain.CheckResult {
	code := resp.StatusCode

	switch {
	case code == http.StatusNotFound && c.fromBootstrap(resp):
		return c.failureResult(res, start, &domain.CheckError{
			Kind:       domain.KindUnexpectedStatus,
			Domain:     res.Domain,
			StatusCode: code,
			Err:        fmt.Errorf("%w %q", domain.ErrUnknownSuffix, c.suffix),
		})

	case code == http.StatusNotFound:
		return c.successResult(res, start, domain.StatusAvailable, nil)

	case code == http.StatusTooManyRequests:
		return c.failureResult(res, start, &domain.CheckError{
			Kind:       domain.KindRateLimited,
			Domain:     res.Domain,
			StatusCode: code,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		})

	case code >= http.StatusInternalServerError:
		return c.failureResult(res, start, &domain.CheckError{
			Kind:       domain.KindServer,
			Domain:     res.Domain,
			StatusCode: code,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		})

	case code != http.StatusOK:
		return c.failureResult(res, start, &domain.CheckError{Kind: domain.KindUnexpectedStatus, Domain: res.Domain, StatusCode: code})
	}

	var payload rdapResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.failureResult(res, start, &domain.CheckError{
			Kind:       domain.KindMalformedResponse,
			Domain:     res.Domain,
			StatusCode: code,
			Err:        fmt.Errorf("failed to decode body %q: %w", snippet(body, 64), err),
		})
	}

	switch {
	case payload.ErrorCode == http.StatusNotFound || payload.ErrorCode == http.StatusBadRequest:
		return c.successResult(res, start, domain.StatusAvailable, nil)
	case strings.EqualFold(payload.ObjectClassName, "domain") || payload.LDHName != "":
		return c.successResult(res, start, c.policy.Classify(payload.Status), payload.Status)
	}

	return c.failureResult(res, start, &domain.CheckError{
		Kind:       domain.KindMalformedResponse,
		Domain:     res.Domain,
		StatusCode: code,
		Err:        errors.New("body is neither a domain object nor an error"),
	})
}

// fromBootstrap reports whether resp was answered by the redirector
// without following a redirect to a registry.
func (c *RDAPChecker) fromBootstrap(resp *http.Response) bool {
	if c.bootstrap == "" || resp.Request == nil || resp.Request.URL == nil {
		return false
	}
	return strings.EqualFold(resp.Request.URL.Host, c.bootstrap)
}

// transportError classifies a failed round trip. A caller-side cancel is
// reported as canceled; any deadline is a timeout.
func (c *RDAPChecker) transportError(ctx context.Context, fqdn string, err error) *domain.CheckError {
	kind := domain.KindNetwork

	var netErr net.Error
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		kind = domain.KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		kind = domain.KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = domain.KindTimeout
	}

	return &domain.CheckError{Kind: kind, Domain: fqdn, Err: err}
}

func (c *RDAPChecker) successResult(res domain.CheckResult, start time.Time, status domain.CheckStatus, registry []string) domain.CheckResult {
	res.Status = status
	res.RegistryStatuses = registry
	res.Duration = time.Since(start)
	return res
}

func (c *RDAPChecker) failureResult(res domain.CheckResult, start time.Time, err *domain.CheckError) domain.CheckResult {
	res.Status = domain.StatusError
	res.Err = err
	res.Duration = time.Since(start)
	return res
}
