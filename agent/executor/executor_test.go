package executor

import (
	"context"
	"testing"
	"time"

	contractx "supervisor-agent/agent/contract"
	registryx "supervisor-agent/agent/registry"
)

type recordedCall struct {
	agent  string
	intent string
	text   string
	custom map[string]any
}

type fakeCaller struct {
	responses map[string]contractx.AgentResponse
	calls     []recordedCall
}

func (f *fakeCaller) Call(
	_ context.Context,
	meta contractx.AgentMetadata,
	intent, text string,
	_ contractx.QueryContext,
	opts ...contractx.CallOption,
) contractx.AgentResponse {
	var options contractx.CallOptions
	for _, opt := range opts {
		opt(&options)
	}
	f.calls = append(f.calls, recordedCall{
		agent:  meta.Name,
		intent: intent,
		text:   text,
		custom: options.CustomInput,
	})

	if resp, ok := f.responses[meta.Name+"/"+intent]; ok {
		resp.AgentName = meta.Name
		return resp
	}
	return contractx.AgentResponse{
		AgentName: meta.Name,
		Status:    contractx.StatusSuccess,
		Output:    &contractx.AgentOutput{Result: "output from " + meta.Name},
	}
}

func testRegistry(t *testing.T) contractx.Registry {
	t.Helper()
	reg, err := registryx.Load("")
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	return reg
}

func testContext() contractx.QueryContext {
	return contractx.QueryContext{
		UserID:         "user-1",
		ConversationID: "conv-1",
		Timestamp:      time.Now().UTC(),
	}
}

func TestExecuteSingleStep(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{}
	exec := New(testRegistry(t), caller)

	plan := contractx.Plan{Steps: []contractx.PlanStep{
		{StepID: 0, Agent: "knowledge_base_builder_agent", Intent: "kb.answer", InputSource: "user_query"},
	}}
	res := exec.Execute(context.Background(), "what is our release process?", plan, testContext())

	if len(res.UsedAgents) != 1 {
		t.Fatalf("used agents = %d, want 1", len(res.UsedAgents))
	}
	if res.UsedAgents[0].Name != "knowledge_base_builder_agent" {
		t.Fatalf("unexpected agent: %s", res.UsedAgents[0].Name)
	}
	if res.UsedAgents[0].Status != contractx.StatusSuccess {
		t.Fatalf("unexpected status: %s", res.UsedAgents[0].Status)
	}
	if caller.calls[0].text != "what is our release process?" {
		t.Fatalf("unexpected input text: %q", caller.calls[0].text)
	}
}

func TestExecuteStepChaining(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{responses: map[string]contractx.AgentResponse{
		"knowledge_base_builder_agent/kb.answer": {
			Status: contractx.StatusSuccess,
			Output: &contractx.AgentOutput{Result: "kb says: deploy on fridays"},
		},
	}}
	exec := New(testRegistry(t), caller)

	plan := contractx.Plan{Steps: []contractx.PlanStep{
		{StepID: 0, Agent: "knowledge_base_builder_agent", Intent: "kb.answer", InputSource: "user_query"},
		{StepID: 1, Agent: "document_summarizer_agent", Intent: "document.summarize", InputSource: "step:0"},
	}}
	exec.Execute(context.Background(), "summarize the deploy policy", plan, testContext())

	if len(caller.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(caller.calls))
	}
	if caller.calls[1].text != "kb says: deploy on fridays" {
		t.Fatalf("step 1 input = %q, want chained output", caller.calls[1].text)
	}
}

func TestExecuteUnknownAgentRecordedAndContinues(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{}
	exec := New(testRegistry(t), caller)

	plan := contractx.Plan{Steps: []contractx.PlanStep{
		{StepID: 0, Agent: "ghost_agent", Intent: "haunt", InputSource: "user_query"},
		{StepID: 1, Agent: "knowledge_base_builder_agent", Intent: "kb.answer", InputSource: "user_query"},
	}}
	res := exec.Execute(context.Background(), "q", plan, testContext())

	if len(res.UsedAgents) != 2 {
		t.Fatalf("used agents = %d, want 2", len(res.UsedAgents))
	}
	if res.UsedAgents[0].Status != contractx.StatusError {
		t.Fatalf("ghost step status = %s, want error", res.UsedAgents[0].Status)
	}
	ghost := res.StepOutputs[0]
	if ghost.Error == nil || ghost.Error.Type != contractx.ErrTypeConfig {
		t.Fatalf("unexpected ghost error: %+v", ghost.Error)
	}
	if res.UsedAgents[1].Status != contractx.StatusSuccess {
		t.Fatalf("second step status = %s, want success", res.UsedAgents[1].Status)
	}
}

func TestExecuteAutoTriggersDependencyResolution(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{}
	exec := New(testRegistry(t), caller)

	plan := contractx.Plan{Steps: []contractx.PlanStep{
		{StepID: 0, Agent: "knowledge_base_builder_agent", Intent: "create_task", InputSource: "user_query"},
	}}
	res := exec.Execute(context.Background(), "create a task to rotate the certs", plan, testContext())

	if len(res.UsedAgents) != 2 {
		t.Fatalf("used agents = %d, want 2 (kb + auto-trigger)", len(res.UsedAgents))
	}
	if res.UsedAgents[1].Name != "task_dependency_agent" {
		t.Fatalf("auto-trigger agent = %s", res.UsedAgents[1].Name)
	}
	if res.UsedAgents[1].Intent != "task.resolve_dependencies" {
		t.Fatalf("auto-trigger intent = %s", res.UsedAgents[1].Intent)
	}
	if _, ok := res.StepOutputs[1]; !ok {
		t.Fatalf("auto-trigger output missing: %+v", res.StepOutputs)
	}
	last := caller.calls[len(caller.calls)-1]
	if last.custom == nil || last.custom["trigger"] != "database_update" {
		t.Fatalf("auto-trigger custom input = %+v", last.custom)
	}
}

func TestExecuteNoAutoTriggerOnFailure(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{responses: map[string]contractx.AgentResponse{
		"knowledge_base_builder_agent/create_task": {
			Status: contractx.StatusError,
			Error:  &contractx.ErrorDetail{Type: contractx.ErrTypeAgent, Message: "nope"},
		},
	}}
	exec := New(testRegistry(t), caller)

	plan := contractx.Plan{Steps: []contractx.PlanStep{
		{StepID: 0, Agent: "knowledge_base_builder_agent", Intent: "create_task", InputSource: "user_query"},
	}}
	res := exec.Execute(context.Background(), "create a task", plan, testContext())

	if len(res.UsedAgents) != 1 {
		t.Fatalf("used agents = %d, want 1 (no auto-trigger on failure)", len(res.UsedAgents))
	}
}

func TestResolveInput(t *testing.T) {
	t.Parallel()

	outputs := map[int]contractx.AgentResponse{
		2: {Status: contractx.StatusSuccess, Output: &contractx.AgentOutput{Result: "step two result"}},
		3: {Status: contractx.StatusError},
	}

	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"user query", "user_query", "the query"},
		{"empty source", "", "the query"},
		{"chained step", "step:2", "step two result"},
		{"chained step with field", "step:2.output", "step two result"},
		{"step without output", "step:3", "the query"},
		{"missing step", "step:9", "the query"},
		{"garbage step id", "step:abc", "the query"},
		{"unknown directive", "sideways", "the query"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ResolveInput(tc.source, "the query", outputs)
			if got != tc.want {
				t.Fatalf("ResolveInput(%q) = %q, want %q", tc.source, got, tc.want)
			}
		})
	}
}
