package checks

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"ozzus/domain-scout/internal/domain"
)

type stubResolver map[string][]*net.NS

func (s stubResolver) LookupNS(_ context.Context, name string) ([]*net.NS, error) {
	if ns, ok := s[name]; ok {
		return ns, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: name, IsNotFound: true}
}

type countingChecker struct {
	calls atomic.Int32
}

func (c *countingChecker) Check(_ context.Context, candidate string) domain.CheckResult {
	c.calls.Add(1)
	return domain.CheckResult{Candidate: candidate, Status: domain.StatusAvailable}
}

func TestDNSPrefilter(t *testing.T) {
	next := &countingChecker{}
	d := NewDNSPrefilter(next, "com", 0, nil)
	d.resolver = stubResolver{"alpha.com": {{Host: "ns1.example.net."}}}

	res := d.Check(context.Background(), "alpha")
	assert.Equal(t, domain.StatusTaken, res.Status)
	assert.Equal(t, "alpha.com", res.Domain)
	assert.Zero(t, next.calls.Load())

	res = d.Check(context.Background(), "beta")
	assert.Equal(t, domain.StatusAvailable, res.Status)
	assert.EqualValues(t, 1, next.calls.Load())

	d.Check(context.Background(), "Not Valid")
	assert.EqualValues(t, 2, next.calls.Load())
}

func TestDNSPrefilterFallsThroughOnError(t *testing.T) {
	next := &countingChecker{}
	d := NewDNSPrefilter(next, "com", 0, nil)
	d.resolver = errResolver{}

	res := d.Check(context.Background(), "alpha")

	assert.Equal(t, domain.StatusAvailable, res.Status)
	assert.EqualValues(t, 1, next.calls.Load())
}

type errResolver struct{}

func (errResolver) LookupNS(context.Context, string) ([]*net.NS, error) {
	return nil, errors.New("i/o timeout")
}
