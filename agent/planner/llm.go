// Package planner decides which registered agents handle a query. The LLM
// planner produces structured routing plans; the keyword planner is the
// deterministic offline path.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"

	contractx "supervisor-agent/agent/contract"
)

type llmPlanner struct {
	runner compose.Runnable[map[string]any, llmPlanOutput]
}

type llmPlanOutput struct {
	Steps []llmPlanStep `json:"steps"`
}

type llmPlanStep struct {
	StepID      int    `json:"step_id"`
	Agent       string `json:"agent"`
	Intent      string `json:"intent"`
	InputSource string `json:"input_source,omitempty"`
}

// NewLLM builds a planner backed by a chat model and a system prompt.
func NewLLM(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (contractx.Planner, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: planner prompt", contractx.ErrPromptMissing)
	}
	runner, err := compileStructuredLLMGraph[llmPlanOutput](ctx, chatModel, systemPrompt, "planner.model_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile planner graph: %v", contractx.ErrModelInvoke, err)
	}
	return &llmPlanner{runner: runner}, nil
}

func (p *llmPlanner) Plan(ctx context.Context, req contractx.PlannerRequest) (contractx.Plan, error) {
	if strings.TrimSpace(req.Query) == "" {
		return contractx.Plan{}, fmt.Errorf("%w: user query is required", contractx.ErrValidation)
	}

	payload := map[string]any{
		"query":   req.Query,
		"agents":  summarizeAgents(req.Agents),
		"history": summarizeHistory(req.History),
	}
	inputBytes, err := json.Marshal(payload)
	if err != nil {
		return contractx.Plan{}, fmt.Errorf("%w: marshal planner payload: %v", contractx.ErrValidation, err)
	}

	out, err := p.runner.Invoke(ctx, map[string]any{
		"input": string(inputBytes),
	})
	if err != nil {
		return contractx.Plan{}, fmt.Errorf("%w: planner invoke: %v", contractx.ErrModelInvoke, err)
	}

	plan := contractx.Plan{Steps: make([]contractx.PlanStep, 0, len(out.Steps))}
	for _, step := range out.Steps {
		plan.Steps = append(plan.Steps, contractx.PlanStep{
			StepID:      step.StepID,
			Agent:       strings.TrimSpace(step.Agent),
			Intent:      strings.TrimSpace(step.Intent),
			InputSource: strings.TrimSpace(step.InputSource),
		})
	}

	if err := ValidatePlan(plan, req.Agents); err != nil {
		return contractx.Plan{}, err
	}
	return plan, nil
}

// ValidatePlan rejects plans that reference unregistered agents, reuse
// step ids, or chain onto steps that do not precede them.
func ValidatePlan(plan contractx.Plan, agents []contractx.AgentMetadata) error {
	if len(plan.Steps) == 0 {
		return fmt.Errorf("%w: plan has no steps", contractx.ErrSchemaViolation)
	}

	registered := make(map[string]struct{}, len(agents))
	for _, meta := range agents {
		registered[meta.Name] = struct{}{}
	}

	seen := make(map[int]struct{}, len(plan.Steps))
	for i, step := range plan.Steps {
		if step.Agent == "" {
			return fmt.Errorf("%w: step %d has no agent", contractx.ErrSchemaViolation, i)
		}
		if _, ok := registered[step.Agent]; !ok {
			return fmt.Errorf("%w: step %d routes to unregistered agent %q", contractx.ErrSchemaViolation, i, step.Agent)
		}
		if step.Intent == "" {
			return fmt.Errorf("%w: step %d has no intent", contractx.ErrSchemaViolation, i)
		}
		if _, dup := seen[step.StepID]; dup {
			return fmt.Errorf("%w: duplicate step_id %d", contractx.ErrSchemaViolation, step.StepID)
		}
		seen[step.StepID] = struct{}{}

		src := step.InputSource
		if src == "" || src == "user_query" {
			continue
		}
		if !strings.HasPrefix(src, "step:") {
			return fmt.Errorf("%w: step %d has invalid input_source %q", contractx.ErrSchemaViolation, i, src)
		}
		ref := strings.TrimPrefix(src, "step:")
		if dot := strings.IndexByte(ref, '.'); dot >= 0 {
			ref = ref[:dot]
		}
		refID := -1
		if _, err := fmt.Sscanf(ref, "%d", &refID); err != nil {
			return fmt.Errorf("%w: step %d references unparseable step %q", contractx.ErrSchemaViolation, i, src)
		}
		if _, ok := seen[refID]; !ok || refID == step.StepID {
			return fmt.Errorf("%w: step %d references step %d before it exists", contractx.ErrSchemaViolation, i, refID)
		}
	}
	return nil
}

func summarizeAgents(agents []contractx.AgentMetadata) []map[string]any {
	out := make([]map[string]any, 0, len(agents))
	for _, meta := range agents {
		out = append(out, map[string]any{
			"name":        meta.Name,
			"description": meta.Description,
			"intents":     meta.Intents,
		})
	}
	return out
}

func summarizeHistory(history []contractx.Turn) []map[string]any {
	out := make([]map[string]any, 0, len(history))
	for _, turn := range history {
		out = append(out, map[string]any{
			"role":    turn.Role,
			"content": turn.Content,
		})
	}
	return out
}
