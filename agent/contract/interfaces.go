package contract

import "context"

// PlannerRequest carries everything a planner may consult when routing.
type PlannerRequest struct {
	Query   string
	Agents  []AgentMetadata
	History []Turn
}

// Planner decides which agents handle a query and in what order.
type Planner interface {
	Plan(ctx context.Context, req PlannerRequest) (Plan, error)
}

// CallOption adjusts a single agent invocation.
type CallOption func(*CallOptions)

type CallOptions struct {
	// CustomInput replaces the default {text, metadata} input payload.
	CustomInput map[string]any
}

// WithCustomInput overrides the handshake input payload entirely.
func WithCustomInput(input map[string]any) CallOption {
	return func(o *CallOptions) {
		o.CustomInput = input
	}
}

// Caller invokes one agent with a handshake request. Failures come back as
// structured error responses, never as a Go error; the executor records
// them per step.
type Caller interface {
	Call(ctx context.Context, meta AgentMetadata, intent, text string, qc QueryContext, opts ...CallOption) AgentResponse
}

// Registry is the read-only agent catalogue.
type Registry interface {
	List() []AgentMetadata
	Find(name string) (AgentMetadata, error)
}

// Composer turns step outputs into the final answer text.
type Composer interface {
	Compose(ctx context.Context, query string, steps map[int]AgentResponse, history []Turn) (string, error)
}

// Store keeps per-conversation turn history.
type Store interface {
	History(ctx context.Context, conversationID string) ([]Turn, error)
	Append(ctx context.Context, conversationID string, turns ...Turn) error
}
