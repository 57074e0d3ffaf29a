package planner

import (
	"context"
	"os"
	"testing"
	"time"

	contractx "supervisor-agent/agent/contract"
	promptx "supervisor-agent/agent/prompt"
	registryx "supervisor-agent/agent/registry"
	llmclientx "supervisor-agent/pkg/llmclient"
)

// Requires a real API key; skipped in normal runs.
func TestLLMPlannerLive(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set, skipping live planner test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := llmclientx.Config{
		BaseURL: "https://api.openai.com/v1",
		APIKey:  apiKey,
		Model:   "gpt-4o-mini",
		Timeout: 30 * time.Second,
	}
	chatModel, err := cfg.New(ctx)
	if err != nil {
		t.Fatalf("create chat model: %v", err)
	}

	p, err := NewLLM(ctx, chatModel, promptx.LoadPromptSet().Planner)
	if err != nil {
		t.Fatalf("NewLLM() error = %v", err)
	}

	registry, err := registryx.Load("")
	if err != nil {
		t.Fatalf("registry.Load() error = %v", err)
	}

	plan, err := p.Plan(ctx, contractx.PlannerRequest{
		Query:  "what do you know about our deployment process?",
		Agents: registry.List(),
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(plan.Steps) == 0 {
		t.Fatal("expected at least one planned step")
	}
	if err := ValidatePlan(plan, registry.List()); err != nil {
		t.Fatalf("live plan failed validation: %v", err)
	}
}
