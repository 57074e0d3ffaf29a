// Package executor runs a plan step by step: resolve each step's input,
// call the routed agent, and collect the responses for answer synthesis.
package executor

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "supervisor-agent/agent/contract"
)

const (
	kbBuilderAgent   = "knowledge_base_builder_agent"
	taskDepAgent     = "task_dependency_agent"
	createTaskIntent = "create_task"
	resolveDepIntent = "task.resolve_dependencies"
)

type Executor struct {
	registry contractx.Registry
	caller   contractx.Caller
}

func New(registry contractx.Registry, caller contractx.Caller) *Executor {
	return &Executor{
		registry: registry,
		caller:   caller,
	}
}

// Result is everything one plan execution produced.
type Result struct {
	StepOutputs map[int]contractx.AgentResponse
	UsedAgents  []contractx.UsedAgentEntry
}

// Execute runs every planned step in order. A step routed to an unknown
// agent, or failed by its agent, is recorded as a structured error and the
// remaining steps still run.
func (e *Executor) Execute(
	ctx context.Context,
	query string,
	plan contractx.Plan,
	qc contractx.QueryContext,
) Result {
	res := Result{
		StepOutputs: make(map[int]contractx.AgentResponse, len(plan.Steps)),
	}

	for _, step := range plan.Steps {
		meta, err := e.registry.Find(step.Agent)
		if err != nil {
			log.Warn().Str("agent", step.Agent).Int("step", step.StepID).Msg("planned agent not in registry")
			res.record(step.StepID, step.Agent, step.Intent, contractx.AgentResponse{
				AgentName: step.Agent,
				Status:    contractx.StatusError,
				Error: &contractx.ErrorDetail{
					Type:    contractx.ErrTypeConfig,
					Message: err.Error(),
				},
			})
			continue
		}

		text := ResolveInput(step.InputSource, query, res.StepOutputs)
		resp := e.caller.Call(ctx, meta, step.Intent, text, qc)
		res.record(step.StepID, meta.Name, step.Intent, resp)

		if shouldTriggerDependencyResolution(step, resp) {
			e.triggerDependencyResolution(ctx, qc, &res)
		}
	}

	return res
}

func (r *Result) record(stepID int, agent, intent string, resp contractx.AgentResponse) {
	r.StepOutputs[stepID] = resp
	r.UsedAgents = append(r.UsedAgents, contractx.UsedAgentEntry{
		Name:   agent,
		Intent: intent,
		Status: resp.Status,
	})
}

// ResolveInput turns an input_source directive into the text passed to a
// worker: "user_query" or "step:N" (chaining a prior step's result).
// Anything unresolvable falls back to the user query.
func ResolveInput(inputSource, userQuery string, stepOutputs map[int]contractx.AgentResponse) string {
	if inputSource == "" || inputSource == "user_query" {
		return userQuery
	}
	if !strings.HasPrefix(inputSource, "step:") {
		return userQuery
	}

	rest := strings.TrimPrefix(inputSource, "step:")
	// Tolerate "step:2.output" style references.
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		rest = rest[:dot]
	}
	if colon := strings.IndexByte(rest, ':'); colon >= 0 {
		rest = rest[:colon]
	}

	stepID, err := strconv.Atoi(rest)
	if err != nil {
		return userQuery
	}
	prior, ok := stepOutputs[stepID]
	if !ok || prior.Output == nil || prior.Output.Result == "" {
		return userQuery
	}
	return prior.Output.Result
}

// A successful create_task by the knowledge-base builder immediately gets
// its dependencies resolved without waiting for another query.
func shouldTriggerDependencyResolution(step contractx.PlanStep, resp contractx.AgentResponse) bool {
	return step.Agent == kbBuilderAgent &&
		step.Intent == createTaskIntent &&
		resp.Status == contractx.StatusSuccess
}

func (e *Executor) triggerDependencyResolution(ctx context.Context, qc contractx.QueryContext, res *Result) {
	meta, err := e.registry.Find(taskDepAgent)
	if err != nil {
		// No resolver registered; the created task stands alone.
		log.Debug().Msg("task dependency agent not registered, skipping auto-trigger")
		return
	}

	resp := e.caller.Call(ctx, meta, resolveDepIntent, "", qc,
		contractx.WithCustomInput(map[string]any{"trigger": "database_update"}))

	nextStepID := 0
	for id := range res.StepOutputs {
		if id >= nextStepID {
			nextStepID = id + 1
		}
	}
	res.record(nextStepID, meta.Name, resolveDepIntent, resp)

	if resp.Status != contractx.StatusSuccess {
		log.Warn().Str("agent", taskDepAgent).Msg("dependency auto-trigger failed, continuing")
	}
}
