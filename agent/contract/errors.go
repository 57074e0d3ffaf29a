package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
	ErrEmptyQuery      = errors.New("query is empty")
	ErrAgentNotFound   = errors.New("agent not found in registry")
)

// Agent error types carried in ErrorDetail.Type.
const (
	ErrTypeHTTP           = "http_error"
	ErrTypeNetwork        = "network_error"
	ErrTypeConfig         = "config_error"
	ErrTypeNotImplemented = "not_implemented"
	ErrTypeAgent          = "agent_error"
)
