package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "supervisor-agent/agent/contract"
)

func TestOfflineComposerJoinsResultsInStepOrder(t *testing.T) {
	t.Parallel()

	steps := map[int]contractx.AgentResponse{
		1: {AgentName: "b", Status: contractx.StatusSuccess, Output: &contractx.AgentOutput{Result: "second"}},
		0: {AgentName: "a", Status: contractx.StatusSuccess, Output: &contractx.AgentOutput{Result: "first"}},
	}

	got, err := NewOffline().Compose(context.Background(), "q", steps, nil)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if !strings.HasPrefix(got, "first") {
		t.Fatalf("answer does not start with first step: %q", got)
	}
	if !strings.Contains(got, "second") {
		t.Fatalf("answer is missing second step: %q", got)
	}
	if strings.Index(got, "first") > strings.Index(got, "second") {
		t.Fatalf("steps out of order: %q", got)
	}
}

func TestOfflineComposerMentionsFailures(t *testing.T) {
	t.Parallel()

	steps := map[int]contractx.AgentResponse{
		0: {AgentName: "a", Status: contractx.StatusSuccess, Output: &contractx.AgentOutput{Result: "ok"}},
		1: {
			AgentName: "b",
			Status:    contractx.StatusError,
			Error:     &contractx.ErrorDetail{Type: contractx.ErrTypeNetwork, Message: "connection refused"},
		},
	}

	got, err := NewOffline().Compose(context.Background(), "q", steps, nil)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if !strings.Contains(got, "connection refused") {
		t.Fatalf("answer does not surface the failure: %q", got)
	}
}

func TestOfflineComposerAllFailed(t *testing.T) {
	t.Parallel()

	steps := map[int]contractx.AgentResponse{
		0: {
			AgentName: "a",
			Status:    contractx.StatusError,
			Error:     &contractx.ErrorDetail{Type: contractx.ErrTypeHTTP, Message: "HTTP 502"},
		},
	}

	got, err := NewOffline().Compose(context.Background(), "q", steps, nil)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if !strings.Contains(got, "could not be completed") {
		t.Fatalf("unexpected answer for failed plan: %q", got)
	}
}

func TestOfflineComposerEmptySteps(t *testing.T) {
	t.Parallel()

	got, err := NewOffline().Compose(context.Background(), "q", nil, nil)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if got == "" {
		t.Fatal("answer must never be empty")
	}
}

func TestOfflineComposerEmptyQuery(t *testing.T) {
	t.Parallel()

	_, err := NewOffline().Compose(context.Background(), " ", nil, nil)
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestNewLLMRequiresClient(t *testing.T) {
	t.Parallel()

	_, err := NewLLM(nil, "gpt-4o-mini", "prompt")
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}
