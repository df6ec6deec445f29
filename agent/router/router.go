// Package router maps an agent identifier to the tool-set it may invoke and
// the framing context handed to the reasoning step.
package router

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/agentdesk/agentdesk/agent/contract"
	toolx "github.com/agentdesk/agentdesk/agent/tool"
)

// Agent is a named role: a restricted subset of the action registries plus
// human-readable framing for answer synthesis.
type Agent struct {
	Type      contractx.AgentType
	Role      string
	Goal      string
	Backstory string
	Actions   []string
}

type Router struct {
	agents      map[contractx.AgentType]Agent
	dispatchers []*toolx.Dispatcher
}

// New wires agents over the given dispatchers. Every action an agent names
// must resolve in some dispatcher; a typo here is a startup error, not a
// silent no-op at request time.
func New(dispatchers []*toolx.Dispatcher, agents ...Agent) (*Router, error) {
	if len(dispatchers) == 0 {
		return nil, fmt.Errorf("at least one dispatcher is required")
	}
	if len(agents) == 0 {
		return nil, fmt.Errorf("at least one agent is required")
	}

	r := &Router{
		agents:      make(map[contractx.AgentType]Agent, len(agents)),
		dispatchers: append([]*toolx.Dispatcher(nil), dispatchers...),
	}

	for _, agent := range agents {
		if strings.TrimSpace(string(agent.Type)) == "" {
			return nil, fmt.Errorf("agent type is empty")
		}
		if _, exists := r.agents[agent.Type]; exists {
			return nil, fmt.Errorf("duplicate agent %q", agent.Type)
		}
		for _, action := range agent.Actions {
			if r.dispatcherFor(action) == nil {
				return nil, fmt.Errorf("agent %q references unregistered action %q", agent.Type, action)
			}
		}
		r.agents[agent.Type] = agent
	}

	return r, nil
}

func (r *Router) dispatcherFor(action string) *toolx.Dispatcher {
	for _, d := range r.dispatchers {
		if d.Has(action) {
			return d
		}
	}
	return nil
}

// Agents lists the registered agents in stable (sorted) order.
func (r *Router) Agents() []Agent {
	agents := make([]Agent, 0, len(r.agents))
	for _, agent := range r.agents {
		agents = append(agents, agent)
	}
	sort.Slice(agents, func(i, j int) bool {
		return agents[i].Type < agents[j].Type
	})
	return agents
}

func (r *Router) Agent(agentID string) (Agent, bool) {
	agent, ok := r.agents[contractx.AgentType(agentID)]
	return agent, ok
}

func (a Agent) allows(action string) bool {
	for _, name := range a.Actions {
		if name == action {
			return true
		}
	}
	return false
}

// Dispatch is the single logical entry point of the core:
// dispatch(agent_id, action_name, args) -> envelope.
func (r *Router) Dispatch(ctx context.Context, agentID, action string, args map[string]any) contractx.Envelope {
	agent, ok := r.Agent(agentID)
	if !ok {
		return contractx.Failure(contractx.KindUnknownAgent, fmt.Sprintf("agent %q is not registered", agentID))
	}

	if !agent.allows(action) {
		return contractx.Failure(contractx.KindUnknownAction, fmt.Sprintf("action %q is not available to agent %q", action, agentID))
	}

	// Startup validation guarantees a dispatcher exists for every allowed
	// action.
	return r.dispatcherFor(action).DispatchAction(ctx, action, args)
}

// TaskContext builds the framing passed through to the reasoning step.
func (r *Router) TaskContext(agentID, query string) (contractx.TaskContext, error) {
	agent, ok := r.Agent(agentID)
	if !ok {
		return contractx.TaskContext{}, fmt.Errorf("%w: %q", contractx.ErrUnknownAgent, agentID)
	}
	return contractx.TaskContext{
		Agent:     agent.Type,
		Role:      agent.Role,
		Goal:      agent.Goal,
		Backstory: agent.Backstory,
		Query:     query,
	}, nil
}

// ToolInfos exposes the agent's visible actions in the form the reasoning
// model binds tools with.
func (r *Router) ToolInfos(agentID string) ([]*schema.ToolInfo, error) {
	agent, ok := r.Agent(agentID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", contractx.ErrUnknownAgent, agentID)
	}

	infos := make([]*schema.ToolInfo, 0, len(agent.Actions))
	for _, action := range agent.Actions {
		d := r.dispatcherFor(action)
		if d == nil {
			continue
		}
		if act, ok := d.Registry().Lookup(action); ok {
			infos = append(infos, act.ToolInfo())
		}
	}
	return infos, nil
}
