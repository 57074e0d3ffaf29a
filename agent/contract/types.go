package contract

import "time"

type AgentType string

const (
	AgentTypeHTTP    AgentType = "http"
	AgentTypeBuiltin AgentType = "builtin"
	AgentTypeCLI     AgentType = "cli"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// AgentMetadata describes one registered agent: how it is addressed and
// which intents it advertises to the planner.
type AgentMetadata struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Type        AgentType `json:"type" yaml:"type"`
	Endpoint    string    `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Intents     []string  `json:"intents,omitempty" yaml:"intents,omitempty"`
	TimeoutMS   int       `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
}

// AgentInput is the payload half of the worker handshake.
type AgentInput struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// AgentRequest is the handshake sent to a worker agent for one plan step.
type AgentRequest struct {
	RequestID string         `json:"request_id"`
	AgentName string         `json:"agent_name"`
	Intent    string         `json:"intent"`
	Input     AgentInput     `json:"input"`
	Context   map[string]any `json:"context,omitempty"`
}

type AgentOutput struct {
	Result string         `json:"result"`
	Data   map[string]any `json:"data,omitempty"`
}

type ErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// AgentResponse is the worker's half of the handshake. Error is set only
// when Status is not success.
type AgentResponse struct {
	RequestID string       `json:"request_id"`
	AgentName string       `json:"agent_name"`
	Status    Status       `json:"status"`
	Output    *AgentOutput `json:"output,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
}

// PlanStep routes one unit of work to a named agent. InputSource is either
// "user_query" or "step:N" to chain a prior step's output.
type PlanStep struct {
	StepID      int    `json:"step_id"`
	Agent       string `json:"agent"`
	Intent      string `json:"intent"`
	InputSource string `json:"input_source"`
}

type Plan struct {
	Steps []PlanStep `json:"steps"`
}

type UsedAgentEntry struct {
	Name   string `json:"name"`
	Intent string `json:"intent"`
	Status Status `json:"status"`
}

// SupervisorResponse is returned to the caller once per query. Every entry
// in UsedAgents has a matching "step_<id>" key in IntermediateResults with
// the same status.
type SupervisorResponse struct {
	Success             bool                     `json:"success"`
	Answer              string                   `json:"answer"`
	UsedAgents          []UsedAgentEntry         `json:"used_agents"`
	IntermediateResults map[string]AgentResponse `json:"intermediate_results"`
	ConversationID      string                   `json:"conversation_id,omitempty"`
	Error               *ErrorDetail             `json:"error,omitempty"`
}

type Turn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// FileUpload is a file extracted from inline query markers, forwarded to
// agents through handshake metadata.
type FileUpload struct {
	Base64Data string `json:"base64_data"`
	Filename   string `json:"filename"`
	MimeType   string `json:"mime_type"`
}

// QueryContext travels with every agent call made for a single query.
type QueryContext struct {
	UserID         string       `json:"user_id"`
	ConversationID string       `json:"conversation_id"`
	Timestamp      time.Time    `json:"timestamp"`
	Files          []FileUpload `json:"file_uploads,omitempty"`
}

// AsMap renders the context in the wire shape agents expect.
func (qc QueryContext) AsMap() map[string]any {
	m := map[string]any{
		"user_id":         qc.UserID,
		"conversation_id": qc.ConversationID,
		"timestamp":       qc.Timestamp.UTC().Format(time.RFC3339),
	}
	if len(qc.Files) > 0 {
		files := make([]map[string]any, 0, len(qc.Files))
		for _, f := range qc.Files {
			files = append(files, map[string]any{
				"base64_data": f.Base64Data,
				"filename":    f.Filename,
				"mime_type":   f.MimeType,
			})
		}
		m["file_uploads"] = files
	}
	return m
}
