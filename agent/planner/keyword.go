package planner

import (
	"context"
	"fmt"
	"strings"

	contractx "supervisor-agent/agent/contract"
)

// keywordPlanner is the offline routing path: deterministic keyword rules
// over the registry, no model call. Used whenever no API key is set, and
// handy as a predictable baseline in tests.
type keywordPlanner struct{}

// NewKeyword returns the deterministic fallback planner.
func NewKeyword() contractx.Planner {
	return &keywordPlanner{}
}

type keywordRule struct {
	keywords []string
	agent    string
	intent   string
}

// Ordered: first matching rule wins.
var keywordRules = []keywordRule{
	{[]string{"summarize", "summary", "tl;dr"}, "document_summarizer_agent", "document.summarize"},
	{[]string{"task", "todo", "remind me to", "create"}, "knowledge_base_builder_agent", "create_task"},
	{[]string{"remember", "note", "store", "save"}, "knowledge_base_builder_agent", "kb.store"},
	{[]string{"depend", "order", "sequence"}, "task_dependency_agent", "task.resolve_dependencies"},
}

func (p *keywordPlanner) Plan(ctx context.Context, req contractx.PlannerRequest) (contractx.Plan, error) {
	query := strings.ToLower(strings.TrimSpace(req.Query))
	if query == "" {
		return contractx.Plan{}, fmt.Errorf("%w: user query is required", contractx.ErrValidation)
	}

	registered := make(map[string]struct{}, len(req.Agents))
	for _, meta := range req.Agents {
		registered[meta.Name] = struct{}{}
	}

	for _, rule := range keywordRules {
		if _, ok := registered[rule.agent]; !ok {
			continue
		}
		for _, kw := range rule.keywords {
			if strings.Contains(query, kw) {
				return singleStep(rule.agent, rule.intent), nil
			}
		}
	}

	// Nothing matched: answer from the knowledge base when it is
	// registered, otherwise route to the first agent's first intent.
	if _, ok := registered["knowledge_base_builder_agent"]; ok {
		return singleStep("knowledge_base_builder_agent", "kb.answer"), nil
	}
	if len(req.Agents) > 0 {
		meta := req.Agents[0]
		intent := "handle"
		if len(meta.Intents) > 0 {
			intent = meta.Intents[0]
		}
		return singleStep(meta.Name, intent), nil
	}
	return contractx.Plan{}, fmt.Errorf("%w: no agents registered", contractx.ErrValidation)
}

func singleStep(agent, intent string) contractx.Plan {
	return contractx.Plan{Steps: []contractx.PlanStep{{
		StepID:      0,
		Agent:       agent,
		Intent:      intent,
		InputSource: "user_query",
	}}}
}
