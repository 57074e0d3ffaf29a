package caller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	contractx "supervisor-agent/agent/contract"
)

const maxResponseSizeBytes = 2 << 20

func (c *callerImpl) callHTTP(
	ctx context.Context,
	meta contractx.AgentMetadata,
	req contractx.AgentRequest,
) contractx.AgentResponse {
	payload, err := json.Marshal(req)
	if err != nil {
		return errorResponse(req, contractx.ErrTypeConfig, fmt.Sprintf("marshal handshake request: %v", err))
	}

	timeout := time.Duration(meta.TimeoutMS) * time.Millisecond
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, meta.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return errorResponse(req, contractx.ErrTypeConfig, fmt.Sprintf("build request for %s: %v", meta.Endpoint, err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return errorResponse(req, contractx.ErrTypeNetwork, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorResponse(req, contractx.ErrTypeHTTP,
			fmt.Sprintf("HTTP %d calling %s", resp.StatusCode, meta.Endpoint))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return errorResponse(req, contractx.ErrTypeNetwork, fmt.Sprintf("read response from %s: %v", meta.Endpoint, err))
	}

	var agentResp contractx.AgentResponse
	if err := json.Unmarshal(body, &agentResp); err != nil {
		return errorResponse(req, contractx.ErrTypeHTTP,
			fmt.Sprintf("invalid handshake response from %s: %v", meta.Endpoint, err))
	}

	if agentResp.RequestID == "" {
		agentResp.RequestID = req.RequestID
	}
	if agentResp.AgentName == "" {
		agentResp.AgentName = meta.Name
	}
	return agentResp
}
