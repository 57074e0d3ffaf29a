// Package answer synthesizes the final reply from per-step agent outputs.
package answer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	contractx "supervisor-agent/agent/contract"
)

// offlineComposer builds the answer deterministically from step outputs.
// It never calls out anywhere, so it is the composer used when no model
// is configured.
type offlineComposer struct{}

// NewOffline returns the deterministic composer.
func NewOffline() contractx.Composer {
	return &offlineComposer{}
}

func (c *offlineComposer) Compose(
	_ context.Context,
	query string,
	steps map[int]contractx.AgentResponse,
	_ []contractx.Turn,
) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: query is required", contractx.ErrValidation)
	}

	ids := make([]int, 0, len(steps))
	for id := range steps {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var results []string
	var failures []string
	for _, id := range ids {
		resp := steps[id]
		if resp.Status == contractx.StatusSuccess && resp.Output != nil && resp.Output.Result != "" {
			results = append(results, resp.Output.Result)
			continue
		}
		if resp.Error != nil {
			failures = append(failures, fmt.Sprintf("%s: %s", resp.AgentName, resp.Error.Message))
		}
	}

	switch {
	case len(results) > 0:
		answer := strings.Join(results, "\n\n")
		if len(failures) > 0 {
			answer += "\n\nNote: some steps did not complete: " + strings.Join(failures, "; ")
		}
		return answer, nil
	case len(failures) > 0:
		return "The request could not be completed: " + strings.Join(failures, "; "), nil
	default:
		return "No agent produced a result for this query.", nil
	}
}
