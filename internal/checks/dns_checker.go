package checks

import (
	"context"
	"log/slog"
	"net"
	"time"

	"ozzus/domain-scout/internal/domain"
	"ozzus/domain-scout/internal/lib/logger/slogdiscard"
)

const defaultDNSTimeout = 2 * time.Second

type nsResolver interface {
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
}

// DNSPrefilter reports names that already have NS records as taken and
// hands everything else to next. Lookup failures are not conclusive and
// always fall through.
type DNSPrefilter struct {
	next     Checker
	suffix   string
	timeout  time.Duration
	resolver nsResolver
	log      *slog.Logger
}

func NewDNSPrefilter(next Checker, suffix string, timeout time.Duration, log *slog.Logger) *DNSPrefilter {
	if timeout <= 0 {
		timeout = defaultDNSTimeout
	}
	if log == nil {
		log = slogdiscard.NewDiscardLogger()
	}

	return &DNSPrefilter{
		next:     next,
		suffix:   suffix,
		timeout:  timeout,
		resolver: net.DefaultResolver,
		log:      log,
	}
}

func (d *DNSPrefilter) Check(ctx context.Context, candidate string) domain.CheckResult {
	if !domain.ValidLabel(candidate) {
		return d.next.Check(ctx, candidate)
	}

	start := time.Now()
	fqdn := domain.DomainName(candidate, d.suffix)

	lookupCtx, cancel := context.WithTimeout(ctx, d.timeout)
	ns, err := d.resolver.LookupNS(lookupCtx, fqdn)
	cancel()

	if err != nil || len(ns) == 0 {
		return d.next.Check(ctx, candidate)
	}

	d.log.Debug("delegation found, skipping rdap",
		slog.String("domain", fqdn),
		slog.String("ns", ns[0].Host),
	)

	return domain.CheckResult{
		Candidate: candidate,
		Domain:    fqdn,
		Status:    domain.StatusTaken,
		Duration:  time.Since(start),
		Timestamp: start,
	}
}
