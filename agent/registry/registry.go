package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	contractx "supervisor-agent/agent/contract"
)

const defaultTimeoutMS = 10000

type registryImpl struct {
	mu     sync.RWMutex
	agents map[string]contractx.AgentMetadata
	order  []string
}

// New builds a registry from the given agents. Later entries override
// earlier ones by name, so callers can layer file config over builtins.
func New(agents ...contractx.AgentMetadata) (contractx.Registry, error) {
	r := &registryImpl{
		agents: make(map[string]contractx.AgentMetadata, len(agents)),
	}
	for _, meta := range agents {
		normalized, err := normalize(meta)
		if err != nil {
			return nil, err
		}
		if _, exists := r.agents[normalized.Name]; !exists {
			r.order = append(r.order, normalized.Name)
		}
		r.agents[normalized.Name] = normalized
	}
	if len(r.agents) == 0 {
		return nil, fmt.Errorf("%w: registry has no agents", contractx.ErrValidation)
	}
	return r, nil
}

func (r *registryImpl) List() []contractx.AgentMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contractx.AgentMetadata, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.agents[name])
	}
	return out
}

func (r *registryImpl) Find(name string) (contractx.AgentMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.agents[strings.TrimSpace(name)]
	if !ok {
		return contractx.AgentMetadata{}, fmt.Errorf("%w: %s", contractx.ErrAgentNotFound, name)
	}
	return meta, nil
}

func normalize(meta contractx.AgentMetadata) (contractx.AgentMetadata, error) {
	meta.Name = strings.TrimSpace(meta.Name)
	if meta.Name == "" {
		return contractx.AgentMetadata{}, fmt.Errorf("%w: agent name is required", contractx.ErrValidation)
	}
	if meta.Type == "" {
		meta.Type = contractx.AgentTypeBuiltin
	}
	switch meta.Type {
	case contractx.AgentTypeHTTP:
		if strings.TrimSpace(meta.Endpoint) == "" {
			return contractx.AgentMetadata{}, fmt.Errorf("%w: http agent %s requires an endpoint", contractx.ErrValidation, meta.Name)
		}
	case contractx.AgentTypeBuiltin, contractx.AgentTypeCLI:
	default:
		return contractx.AgentMetadata{}, fmt.Errorf("%w: agent %s has unsupported type %q", contractx.ErrValidation, meta.Name, meta.Type)
	}
	if meta.TimeoutMS <= 0 {
		meta.TimeoutMS = defaultTimeoutMS
	}
	sort.Strings(meta.Intents)
	return meta, nil
}
