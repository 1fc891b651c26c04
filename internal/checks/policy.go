package checks

import (
	"fmt"
	"strings"

	"ozzus/domain-scout/internal/domain"
)

// StatusPolicy maps lowercase RDAP status values to a result category.
// Statuses not in the policy leave a registered name as taken.
type StatusPolicy map[string]domain.CheckStatus

func NewStatusPolicy(raw map[string]string) (StatusPolicy, error) {
	policy := make(StatusPolicy, len(raw))
	for status, category := range raw {
		cs := domain.CheckStatus(strings.ToLower(strings.TrimSpace(category)))
		switch cs {
		case domain.StatusAvailable, domain.StatusTaken, domain.StatusIndeterminate:
		default:
			return nil, fmt.Errorf("%w: unknown category %q for status %q", domain.ErrInvalidConfig, category, status)
		}
		policy[strings.ToLower(strings.TrimSpace(status))] = cs
	}
	return policy, nil
}

// Classify picks the category for a registered name. Indeterminate beats
// available, which beats taken.
func (p StatusPolicy) Classify(statuses []string) domain.CheckStatus {
	result := domain.StatusTaken
	for _, s := range statuses {
		switch p[strings.ToLower(strings.TrimSpace(s))] {
		case domain.StatusIndeterminate:
			return domain.StatusIndeterminate
		case domain.StatusAvailable:
			result = domain.StatusAvailable
		}
	}
	return result
}
