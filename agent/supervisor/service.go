// Package supervisor orchestrates one query end to end: plan the agent
// routing, execute the steps, compose the answer, and record the turns.
package supervisor

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "supervisor-agent/agent/contract"
	executorx "supervisor-agent/agent/executor"
)

// QueryRequest is the inbound query surface.
type QueryRequest struct {
	Query          string `json:"query"`
	UserID         string `json:"user_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type Supervisor struct {
	registry contractx.Registry
	planner  contractx.Planner
	executor *executorx.Executor
	composer contractx.Composer
	store    contractx.Store

	graphRunner compose.Runnable[QueryRequest, contractx.SupervisorResponse]

	now func() time.Time
}

func New(
	registry contractx.Registry,
	planner contractx.Planner,
	caller contractx.Caller,
	composer contractx.Composer,
	store contractx.Store,
) (*Supervisor, error) {
	if registry == nil {
		return nil, errors.New("agent registry is required")
	}
	if planner == nil {
		return nil, errors.New("planner is required")
	}
	if caller == nil {
		return nil, errors.New("agent caller is required")
	}
	if composer == nil {
		return nil, errors.New("answer composer is required")
	}
	if store == nil {
		store = noopStore{}
	}

	s := &Supervisor{
		registry: registry,
		planner:  planner,
		executor: executorx.New(registry, caller),
		composer: composer,
		store:    store,
		now:      time.Now,
	}

	graphRunner, err := s.compileHandleQueryGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

// HandleQuery runs the full pipeline for one query.
func (s *Supervisor) HandleQuery(ctx context.Context, req QueryRequest) (contractx.SupervisorResponse, error) {
	return s.graphRunner.Invoke(ctx, req)
}

// Agents lists the registered agents.
func (s *Supervisor) Agents() []contractx.AgentMetadata {
	return s.registry.List()
}

// queryState carries the pipeline state between graph nodes.
type queryState struct {
	OriginalQuery string
	CleanQuery    string
	Context       contractx.QueryContext

	History []contractx.Turn
	Plan    contractx.Plan
	Result  executorx.Result
	Answer  string
}

type noopStore struct{}

func (noopStore) History(context.Context, string) ([]contractx.Turn, error) {
	return nil, nil
}

func (noopStore) Append(context.Context, string, ...contractx.Turn) error {
	return nil
}
