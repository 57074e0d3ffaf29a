package supervisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "supervisor-agent/agent/contract"
	executorx "supervisor-agent/agent/executor"
)

func validateRequest(req QueryRequest, nowFn func() time.Time) (*queryState, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, contractx.ErrEmptyQuery
	}

	conversationID := strings.TrimSpace(req.ConversationID)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = "anonymous"
	}

	return &queryState{
		OriginalQuery: query,
		Context: contractx.QueryContext{
			UserID:         userID,
			ConversationID: conversationID,
			Timestamp:      nowFn().UTC(),
		},
	}, nil
}

func extractUploads(in *queryState) (*queryState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: query state is nil", contractx.ErrValidation)
	}

	clean, files := ExtractUploads(in.OriginalQuery)
	in.CleanQuery = clean
	in.Context.Files = files
	if len(files) > 0 {
		log.Debug().
			Int("file_count", len(files)).
			Str("conversation_id", in.Context.ConversationID).
			Msg("extracted file uploads from query")
	}
	return in, nil
}

func loadHistory(ctx context.Context, in *queryState, store contractx.Store) (*queryState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: query state is nil", contractx.ErrValidation)
	}

	history, err := store.History(ctx, in.Context.ConversationID)
	if err != nil {
		// History is best effort. The query still runs without it.
		log.Warn().Err(err).
			Str("conversation_id", in.Context.ConversationID).
			Msg("load conversation history failed")
		history = nil
	}
	in.History = history
	return in, nil
}

func planSteps(ctx context.Context, in *queryState, planner contractx.Planner, registry contractx.Registry) (*queryState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: query state is nil", contractx.ErrValidation)
	}

	plan, err := planner.Plan(ctx, contractx.PlannerRequest{
		Query:   in.CleanQuery,
		Agents:  registry.List(),
		History: in.History,
	})
	if err != nil {
		return nil, fmt.Errorf("plan query: %w", err)
	}
	in.Plan = plan

	log.Debug().
		Int("step_count", len(plan.Steps)).
		Str("conversation_id", in.Context.ConversationID).
		Msg("plan ready")
	return in, nil
}

func executePlan(ctx context.Context, in *queryState, executor *executorx.Executor) (*queryState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: query state is nil", contractx.ErrValidation)
	}

	in.Result = executor.Execute(ctx, in.CleanQuery, in.Plan, in.Context)
	return in, nil
}

func composeAnswer(ctx context.Context, in *queryState, composer contractx.Composer) (*queryState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: query state is nil", contractx.ErrValidation)
	}

	answer, err := composer.Compose(ctx, in.CleanQuery, in.Result.StepOutputs, in.History)
	if err != nil {
		return nil, fmt.Errorf("compose answer: %w", err)
	}
	in.Answer = answer
	return in, nil
}

func appendHistory(ctx context.Context, in *queryState, store contractx.Store, nowFn func() time.Time) (*queryState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: query state is nil", contractx.ErrValidation)
	}

	err := store.Append(ctx, in.Context.ConversationID,
		contractx.Turn{Role: "user", Content: in.OriginalQuery, At: in.Context.Timestamp},
		contractx.Turn{Role: "assistant", Content: in.Answer, At: nowFn().UTC()},
	)
	if err != nil {
		// A lost turn must not fail an otherwise answered query.
		log.Warn().Err(err).
			Str("conversation_id", in.Context.ConversationID).
			Msg("append conversation turns failed")
	}
	return in, nil
}

func finalizeResponse(in *queryState) (contractx.SupervisorResponse, error) {
	if in == nil {
		return contractx.SupervisorResponse{}, fmt.Errorf("%w: query state is nil", contractx.ErrValidation)
	}

	intermediate := make(map[string]contractx.AgentResponse, len(in.Result.StepOutputs))
	for stepID, resp := range in.Result.StepOutputs {
		intermediate[fmt.Sprintf("step_%d", stepID)] = resp
	}

	return contractx.SupervisorResponse{
		Success:             true,
		Answer:              in.Answer,
		UsedAgents:          in.Result.UsedAgents,
		IntermediateResults: intermediate,
		ConversationID:      in.Context.ConversationID,
	}, nil
}
