// Package caller invokes worker agents with the handshake contract. Every
// failure mode maps to a structured error response so the executor can
// record it per step instead of aborting the whole query.
package caller

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "supervisor-agent/agent/contract"
)

type callerImpl struct {
	httpClient *http.Client
	builtins   map[string]BuiltinFunc
}

type Option func(*callerImpl)

func WithHTTPClient(client *http.Client) Option {
	return func(c *callerImpl) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBuiltin registers an extra in-process handler under the given name.
func WithBuiltin(name string, fn BuiltinFunc) Option {
	return func(c *callerImpl) {
		if fn != nil {
			c.builtins[name] = fn
		}
	}
}

// New returns a Caller with the default builtin handlers registered.
func New(opts ...Option) contractx.Caller {
	c := &callerImpl{
		httpClient: &http.Client{},
		builtins:   defaultBuiltins(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *callerImpl) Call(
	ctx context.Context,
	meta contractx.AgentMetadata,
	intent, text string,
	qc contractx.QueryContext,
	opts ...contractx.CallOption,
) contractx.AgentResponse {
	var options contractx.CallOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	req := buildRequest(meta, intent, text, qc, options)
	log.Debug().
		Str("agent", meta.Name).
		Str("intent", intent).
		Str("request_id", req.RequestID).
		Msg("calling agent")

	switch meta.Type {
	case contractx.AgentTypeHTTP:
		return c.callHTTP(ctx, meta, req)
	case contractx.AgentTypeBuiltin:
		return c.callBuiltin(ctx, meta, req)
	case contractx.AgentTypeCLI:
		return errorResponse(req, contractx.ErrTypeNotImplemented, "cli agent execution is not implemented")
	default:
		return errorResponse(req, contractx.ErrTypeConfig, "agent endpoint/command not configured")
	}
}

func buildRequest(
	meta contractx.AgentMetadata,
	intent, text string,
	qc contractx.QueryContext,
	options contractx.CallOptions,
) contractx.AgentRequest {
	req := contractx.AgentRequest{
		RequestID: uuid.NewString(),
		AgentName: meta.Name,
		Intent:    intent,
		Context:   qc.AsMap(),
	}

	if options.CustomInput != nil {
		req.Input = contractx.AgentInput{Metadata: options.CustomInput}
		return req
	}

	metadata := map[string]any{"language": "en"}
	if len(qc.Files) > 0 {
		// Single-file forwarding: agents that understand uploads read the
		// first file from metadata.
		first := qc.Files[0]
		if first.Base64Data != "" {
			metadata["file_base64"] = first.Base64Data
			metadata["mime_type"] = first.MimeType
			metadata["filename"] = first.Filename
			log.Info().
				Str("agent", meta.Name).
				Str("filename", first.Filename).
				Int("base64_chars", len(first.Base64Data)).
				Msg("forwarding uploaded file to agent")
		}
	}
	req.Input = contractx.AgentInput{Text: text, Metadata: metadata}
	return req
}

func errorResponse(req contractx.AgentRequest, errType, message string) contractx.AgentResponse {
	return contractx.AgentResponse{
		RequestID: req.RequestID,
		AgentName: req.AgentName,
		Status:    contractx.StatusError,
		Error: &contractx.ErrorDetail{
			Type:    errType,
			Message: message,
		},
	}
}
