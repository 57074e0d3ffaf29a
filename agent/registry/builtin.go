package registry

import contractx "supervisor-agent/agent/contract"

// Built-in agents are always present; a registry file can override fields
// per name or add new agents on top.
func builtinAgents() []contractx.AgentMetadata {
	return []contractx.AgentMetadata{
		{
			Name:        "knowledge_base_builder_agent",
			Description: "Builds and maintains the knowledge base: stores notes, creates tasks, answers from stored knowledge.",
			Type:        contractx.AgentTypeBuiltin,
			Intents:     []string{"create_task", "kb.store", "kb.answer"},
			TimeoutMS:   10000,
		},
		{
			Name:        "task_dependency_agent",
			Description: "Resolves ordering dependencies between tasks created in the knowledge base.",
			Type:        contractx.AgentTypeBuiltin,
			Intents:     []string{"task.resolve_dependencies"},
			TimeoutMS:   10000,
		},
		{
			Name:        "document_summarizer_agent",
			Description: "Summarizes uploaded documents passed through handshake metadata.",
			Type:        contractx.AgentTypeBuiltin,
			Intents:     []string{"document.summarize"},
			TimeoutMS:   15000,
		},
	}
}
