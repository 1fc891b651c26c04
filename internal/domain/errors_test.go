package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckErrorWrapUnwrap(t *testing.T) {
	root := errors.New("connection reset by peer")
	err := &CheckError{Kind: KindNetwork, Domain: "alpha.com", Err: root}

	require.ErrorIs(t, err, root)

	var got *CheckError
	require.ErrorAs(t, fmt.Errorf("check: %w", err), &got)
	assert.Equal(t, KindNetwork, got.Kind)
	assert.Equal(t, "alpha.com: network: connection reset by peer", err.Error())
}

func TestCheckErrorMessageWithStatus(t *testing.T) {
	err := &CheckError{Kind: KindRateLimited, Domain: "beta.com", StatusCode: 429}
	assert.Equal(t, "beta.com: rate_limited (status=429)", err.Error())
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &CheckError{Kind: KindTimeout})

	assert.True(t, IsKind(err, KindTimeout))
	assert.False(t, IsKind(err, KindNetwork))
	assert.False(t, IsKind(errors.New("plain"), KindTimeout))
}

func TestErrorKindRetryable(t *testing.T) {
	tests := map[ErrorKind]bool{
		KindTimeout:           true,
		KindNetwork:           true,
		KindRateLimited:       true,
		KindServer:            true,
		KindMalformedResponse: false,
		KindUnexpectedStatus:  false,
		KindInvalidCandidate:  false,
		KindCanceled:          false,
	}
	for kind, want := range tests {
		assert.Equal(t, want, kind.Retryable(), string(kind))
	}
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(fmt.Errorf("load: %w", ErrNoCandidates)))
	assert.True(t, IsFatal(fmt.Errorf("config: %w", ErrInvalidConfig)))
	assert.False(t, IsFatal(&CheckError{Kind: KindTimeout}))
}

func TestCheckResultRetryable(t *testing.T) {
	assert.True(t, CheckResult{Status: StatusError, Err: &CheckError{Kind: KindRateLimited}}.Retryable())
	assert.False(t, CheckResult{Status: StatusError, Err: &CheckError{Kind: KindMalformedResponse}}.Retryable())
	assert.False(t, CheckResult{Status: StatusTaken}.Retryable())
}
