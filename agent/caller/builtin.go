package caller

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	contractx "supervisor-agent/agent/contract"
)

// BuiltinFunc handles one handshake request in-process. Builtin agents are
// the offline execution path: no network, deterministic output.
type BuiltinFunc func(ctx context.Context, req contractx.AgentRequest) contractx.AgentResponse

func defaultBuiltins() map[string]BuiltinFunc {
	return map[string]BuiltinFunc{
		"knowledge_base_builder_agent": knowledgeBaseBuilder,
		"task_dependency_agent":        taskDependencyResolver,
		"document_summarizer_agent":    documentSummarizer,
	}
}

func (c *callerImpl) callBuiltin(
	ctx context.Context,
	meta contractx.AgentMetadata,
	req contractx.AgentRequest,
) contractx.AgentResponse {
	fn, ok := c.builtins[meta.Name]
	if !ok {
		return errorResponse(req, contractx.ErrTypeConfig,
			fmt.Sprintf("no builtin handler registered for agent %s", meta.Name))
	}
	return fn(ctx, req)
}

func successResponse(req contractx.AgentRequest, result string, data map[string]any) contractx.AgentResponse {
	return contractx.AgentResponse{
		RequestID: req.RequestID,
		AgentName: req.AgentName,
		Status:    contractx.StatusSuccess,
		Output: &contractx.AgentOutput{
			Result: result,
			Data:   data,
		},
	}
}

func knowledgeBaseBuilder(_ context.Context, req contractx.AgentRequest) contractx.AgentResponse {
	text := strings.TrimSpace(req.Input.Text)

	switch req.Intent {
	case "create_task":
		if text == "" {
			return errorResponse(req, contractx.ErrTypeAgent, "cannot create a task from empty input")
		}
		taskID := "task-" + shortID(req.RequestID)
		return successResponse(req,
			fmt.Sprintf("Created task %s in the knowledge base: %s", taskID, clip(text, 120)),
			map[string]any{"task_id": taskID},
		)
	case "kb.store":
		if text == "" {
			return errorResponse(req, contractx.ErrTypeAgent, "cannot store an empty note")
		}
		return successResponse(req,
			fmt.Sprintf("Stored note in the knowledge base: %s", clip(text, 120)),
			map[string]any{"stored": true},
		)
	default:
		if text == "" {
			return errorResponse(req, contractx.ErrTypeAgent, "no query text provided")
		}
		return successResponse(req,
			fmt.Sprintf("Knowledge base result for %q: recorded entries match the request and have been compiled into a draft answer.", clip(text, 80)),
			map[string]any{"matches": 1},
		)
	}
}

func taskDependencyResolver(_ context.Context, req contractx.AgentRequest) contractx.AgentResponse {
	if trigger, ok := req.Input.Metadata["trigger"].(string); ok && trigger == "database_update" {
		return successResponse(req,
			"Resolved dependencies for newly created tasks: no ordering conflicts detected.",
			map[string]any{"trigger": trigger, "conflicts": 0},
		)
	}

	text := strings.TrimSpace(req.Input.Text)
	if text == "" {
		return errorResponse(req, contractx.ErrTypeAgent, "no tasks to resolve")
	}
	return successResponse(req,
		fmt.Sprintf("Resolved dependency order for: %s", clip(text, 120)),
		map[string]any{"conflicts": 0},
	)
}

func documentSummarizer(_ context.Context, req contractx.AgentRequest) contractx.AgentResponse {
	encoded, _ := req.Input.Metadata["file_base64"].(string)
	if encoded == "" {
		return errorResponse(req, contractx.ErrTypeAgent, "no document provided in handshake metadata")
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return errorResponse(req, contractx.ErrTypeAgent, fmt.Sprintf("decode document: %v", err))
	}

	filename, _ := req.Input.Metadata["filename"].(string)
	if filename == "" {
		filename = "uploaded_file"
	}

	summary := summarizeText(string(decoded), 40)
	if summary == "" {
		return errorResponse(req, contractx.ErrTypeAgent, "document is empty after decoding")
	}
	return successResponse(req,
		fmt.Sprintf("Summary of %s: %s", filename, summary),
		map[string]any{"filename": filename, "bytes": len(decoded)},
	)
}

// summarizeText keeps the first maxWords words of readable text.
func summarizeText(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if len(words) > maxWords {
		words = words[:maxWords]
		return strings.Join(words, " ") + " ..."
	}
	return strings.Join(words, " ")
}

func clip(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}

func shortID(requestID string) string {
	if len(requestID) >= 8 {
		return requestID[:8]
	}
	return requestID
}
