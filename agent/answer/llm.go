package answer

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	openaisdk "github.com/openai/openai-go"

	contractx "supervisor-agent/agent/contract"
)

const historyWindow = 10

// llmComposer writes the final answer with a chat completion over the
// step outputs. It degrades to the offline composer when the model call
// fails, so a flaky upstream never empties the answer field.
type llmComposer struct {
	client       *openaisdk.Client
	model        string
	systemPrompt string
	fallback     contractx.Composer
}

// NewLLM returns a composer backed by an OpenAI-compatible client.
func NewLLM(client *openaisdk.Client, model, systemPrompt string) (contractx.Composer, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: nil completion client", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: composer prompt", contractx.ErrPromptMissing)
	}
	return &llmComposer{
		client:       client,
		model:        strings.TrimSpace(model),
		systemPrompt: systemPrompt,
		fallback:     NewOffline(),
	}, nil
}

func (c *llmComposer) Compose(
	ctx context.Context,
	query string,
	steps map[int]contractx.AgentResponse,
	history []contractx.Turn,
) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: query is required", contractx.ErrValidation)
	}

	payload, err := json.Marshal(map[string]any{
		"query":        query,
		"step_results": orderedStepResults(steps),
		"history":      recentHistory(history),
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal composer payload: %v", contractx.ErrValidation, err)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(c.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(c.systemPrompt),
			openaisdk.UserMessage(string(payload)),
		},
	})
	if err != nil {
		return c.fallback.Compose(ctx, query, steps, history)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return c.fallback.Compose(ctx, query, steps, history)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func orderedStepResults(steps map[int]contractx.AgentResponse) []map[string]any {
	ids := make([]int, 0, len(steps))
	for id := range steps {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		resp := steps[id]
		entry := map[string]any{
			"step":   id,
			"agent":  resp.AgentName,
			"status": resp.Status,
		}
		if resp.Output != nil {
			entry["result"] = resp.Output.Result
		}
		if resp.Error != nil {
			entry["error"] = resp.Error.Message
		}
		out = append(out, entry)
	}
	return out
}

func recentHistory(history []contractx.Turn) []map[string]string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	out := make([]map[string]string, 0, len(history))
	for _, turn := range history {
		out = append(out, map[string]string{
			"role":    turn.Role,
			"content": turn.Content,
		})
	}
	return out
}
