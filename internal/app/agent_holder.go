package app

import (
	"sync/atomic"

	"docuchat/internal/agent"
)

// AgentHolder publishes the currently loaded agent to concurrent chat
// requests. A reload swaps the pointer in one step, so in-flight requests
// keep the agent they started with and new requests see the replacement.
type AgentHolder struct {
	current atomic.Pointer[agent.Agent]
}

func NewAgentHolder() *AgentHolder {
	return &AgentHolder{}
}

func (h *AgentHolder) Load() *agent.Agent {
	return h.current.Load()
}

// Swap installs the new agent and returns the previous one. Closing the
// previous agent is safe right away: its store stays open until requests
// that acquired it have released their references.
func (h *AgentHolder) Swap(a *agent.Agent) *agent.Agent {
	return h.current.Swap(a)
}

func (h *AgentHolder) Clear() *agent.Agent {
	return h.current.Swap(nil)
}
