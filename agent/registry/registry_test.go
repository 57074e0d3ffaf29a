package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contractx "supervisor-agent/agent/contract"
)

func TestLoadBuiltinsOnly(t *testing.T) {
	t.Parallel()

	reg, err := Load("")
	require.NoError(t, err)

	names := make([]string, 0)
	for _, meta := range reg.List() {
		names = append(names, meta.Name)
	}
	assert.Contains(t, names, "knowledge_base_builder_agent")
	assert.Contains(t, names, "task_dependency_agent")
}

func TestLoadMissingFileFallsBackToBuiltins(t *testing.T) {
	t.Parallel()

	reg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	_, err = reg.Find("knowledge_base_builder_agent")
	require.NoError(t, err)
}

func TestLoadFileOverridesAndAdds(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "agents.yaml")
	content := `agents:
  - name: knowledge_base_builder_agent
    description: overridden
    type: http
    endpoint: http://kb.internal/handshake
    timeout_ms: 2500
  - name: weather_agent
    description: external weather worker
    type: http
    endpoint: http://weather.internal/handshake
    intents: [weather.lookup]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	reg, err := Load(path)
	require.NoError(t, err)

	kb, err := reg.Find("knowledge_base_builder_agent")
	require.NoError(t, err)
	assert.Equal(t, contractx.AgentTypeHTTP, kb.Type)
	assert.Equal(t, "http://kb.internal/handshake", kb.Endpoint)
	assert.Equal(t, 2500, kb.TimeoutMS)

	weather, err := reg.Find("weather_agent")
	require.NoError(t, err)
	assert.Equal(t, []string{"weather.lookup"}, weather.Intents)
}

func TestFindUnknownAgent(t *testing.T) {
	t.Parallel()

	reg, err := Load("")
	require.NoError(t, err)

	_, err = reg.Find("no_such_agent")
	assert.True(t, errors.Is(err, contractx.ErrAgentNotFound))
}

func TestNewRejectsHTTPAgentWithoutEndpoint(t *testing.T) {
	t.Parallel()

	_, err := New(contractx.AgentMetadata{
		Name: "broken_agent",
		Type: contractx.AgentTypeHTTP,
	})
	assert.True(t, errors.Is(err, contractx.ErrValidation))
}

func TestNormalizeDefaults(t *testing.T) {
	t.Parallel()

	reg, err := New(contractx.AgentMetadata{Name: "plain_agent"})
	require.NoError(t, err)

	meta, err := reg.Find("plain_agent")
	require.NoError(t, err)
	assert.Equal(t, contractx.AgentTypeBuiltin, meta.Type)
	assert.Equal(t, defaultTimeoutMS, meta.TimeoutMS)
}
