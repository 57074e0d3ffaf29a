package supervisor

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "supervisor-agent/agent/contract"
)

func (s *Supervisor) compileHandleQueryGraph(
	ctx context.Context,
) (compose.Runnable[QueryRequest, contractx.SupervisorResponse], error) {
	graph := compose.NewGraph[QueryRequest, contractx.SupervisorResponse]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in QueryRequest) (*queryState, error) {
			return validateRequest(in, s.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("extract_uploads",
		compose.InvokableLambda(func(ctx context.Context, in *queryState) (*queryState, error) {
			return extractUploads(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node extract_uploads: %w", err)
	}

	if err := graph.AddLambdaNode("load_history",
		compose.InvokableLambda(func(ctx context.Context, in *queryState) (*queryState, error) {
			return loadHistory(ctx, in, s.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_history: %w", err)
	}

	if err := graph.AddLambdaNode("plan_steps",
		compose.InvokableLambda(func(ctx context.Context, in *queryState) (*queryState, error) {
			return planSteps(ctx, in, s.planner, s.registry)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node plan_steps: %w", err)
	}

	if err := graph.AddLambdaNode("execute_plan",
		compose.InvokableLambda(func(ctx context.Context, in *queryState) (*queryState, error) {
			return executePlan(ctx, in, s.executor)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node execute_plan: %w", err)
	}

	if err := graph.AddLambdaNode("compose_answer",
		compose.InvokableLambda(func(ctx context.Context, in *queryState) (*queryState, error) {
			return composeAnswer(ctx, in, s.composer)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node compose_answer: %w", err)
	}

	if err := graph.AddLambdaNode("append_history",
		compose.InvokableLambda(func(ctx context.Context, in *queryState) (*queryState, error) {
			return appendHistory(ctx, in, s.store, s.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node append_history: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_response",
		compose.InvokableLambda(func(ctx context.Context, in *queryState) (contractx.SupervisorResponse, error) {
			return finalizeResponse(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_response: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "extract_uploads"},
		{"extract_uploads", "load_history"},
		{"load_history", "plan_steps"},
		{"plan_steps", "execute_plan"},
		{"execute_plan", "compose_answer"},
		{"compose_answer", "append_history"},
		{"append_history", "finalize_response"},
		{"finalize_response", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("supervisor.handle_query"))
	if err != nil {
		return nil, fmt.Errorf("compile supervisor graph: %w", err)
	}
	return runner, nil
}
