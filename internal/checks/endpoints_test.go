package checks

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ozzus/domain-scout/internal/domain"
)

func TestResolveEndpoint(t *testing.T) {
	assert.Equal(t, "https://rdap.verisign.com/com/v1/domain/{}", ResolveEndpoint("com", ""))
	assert.Equal(t, "https://rdap.identitydigital.services/rdap/domain/{}", ResolveEndpoint("AI", ""))
	assert.Equal(t, "https://rdap.googleapis.com/rdap/v1/domain/{}", ResolveEndpoint("dev", ""))
	assert.Equal(t, fallbackEndpoint, ResolveEndpoint("xyz", ""))
	assert.Equal(t, "http://localhost/{}", ResolveEndpoint("com", " http://localhost/{} "))
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "https://r.example/domain/a.com", endpointURL("https://r.example/domain/{}", "a.com"))
	assert.Equal(t, "https://r.example/domain/a.com", endpointURL("https://r.example/domain/", "a.com"))
	assert.Equal(t, "https://r.example/domain/a.com", endpointURL("https://r.example/domain", "a.com"))
}

func TestStatusPolicyClassify(t *testing.T) {
	policy, err := NewStatusPolicy(map[string]string{
		"Pending Delete": "indeterminate",
		"inactive":       "available",
	})
	assert.NoError(t, err)

	assert.Equal(t, domain.StatusTaken, policy.Classify(nil))
	assert.Equal(t, domain.StatusTaken, policy.Classify([]string{"active"}))
	assert.Equal(t, domain.StatusAvailable, policy.Classify([]string{"active", "inactive"}))
	assert.Equal(t, domain.StatusIndeterminate, policy.Classify([]string{"inactive", "pending delete"}))
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, 30*time.Second, parseRetryAfter("30", now))
	assert.Zero(t, parseRetryAfter("", now))
	assert.Zero(t, parseRetryAfter("-1", now))
	assert.Zero(t, parseRetryAfter("soon", now))
	assert.Equal(t, 90*time.Second, parseRetryAfter(now.Add(90*time.Second).Format(http.TimeFormat), now))
	assert.Zero(t, parseRetryAfter(now.Add(-time.Minute).Format(http.TimeFormat), now))
}
