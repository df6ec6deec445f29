package router

import (
	"context"
	"testing"
	"time"

	contractx "github.com/agentdesk/agentdesk/agent/contract"
	storex "github.com/agentdesk/agentdesk/agent/store"
	toolx "github.com/agentdesk/agentdesk/agent/tool"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	readRegistry, err := toolx.NewReadRegistry(storex.Seed(now), toolx.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewReadRegistry() error = %v", err)
	}
	readDispatcher, err := toolx.NewDispatcher(readRegistry)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	mutationRegistry, err := toolx.NewMutationRegistry(toolx.NewSimulatedMutationBackend())
	if err != nil {
		t.Fatalf("NewMutationRegistry() error = %v", err)
	}
	mutationDispatcher, err := toolx.NewDispatcher(mutationRegistry)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	r, err := New([]*toolx.Dispatcher{readDispatcher, mutationDispatcher}, DefaultAgents()...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestNewRejectsUnresolvableActions(t *testing.T) {
	t.Parallel()

	registry := toolx.MustNewRegistry(toolx.Action{
		Name:    "known",
		Handler: func(context.Context, map[string]any) (any, error) { return nil, nil },
	})
	d, err := toolx.NewDispatcher(registry)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	_, err = New([]*toolx.Dispatcher{d}, Agent{
		Type:    contractx.AgentTypeSupport,
		Actions: []string{"known", "typo_action"},
	})
	if err == nil {
		t.Fatal("expected startup error for unregistered agent action")
	}
}

func TestNewRejectsDuplicateAgents(t *testing.T) {
	t.Parallel()

	registry := toolx.MustNewRegistry(toolx.Action{
		Name:    "known",
		Handler: func(context.Context, map[string]any) (any, error) { return nil, nil },
	})
	d, err := toolx.NewDispatcher(registry)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	agent := Agent{Type: contractx.AgentTypeSupport, Actions: []string{"known"}}
	if _, err := New([]*toolx.Dispatcher{d}, agent, agent); err == nil {
		t.Fatal("expected error for duplicate agent type")
	}
}

func TestDispatchUnknownAgent(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	env := r.Dispatch(context.Background(), "finance", "calculate_revenue", map[string]any{
		"start_date": "2025-01-01",
		"end_date":   "2025-12-31",
	})
	if env.OK {
		t.Fatal("expected failure for unknown agent")
	}
	if env.Error.Kind != contractx.KindUnknownAgent {
		t.Fatalf("kind = %q, want %q", env.Error.Kind, contractx.KindUnknownAgent)
	}
}

func TestDispatchEnforcesAgentToolsets(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	ctx := context.Background()

	// calculate_revenue is registered but not granted to the support agent.
	env := r.Dispatch(ctx, "support", "calculate_revenue", map[string]any{
		"start_date": "2025-01-01",
		"end_date":   "2025-12-31",
	})
	if env.OK {
		t.Fatal("expected failure for action outside the agent's toolset")
	}
	if env.Error.Kind != contractx.KindUnknownAction {
		t.Fatalf("kind = %q, want %q", env.Error.Kind, contractx.KindUnknownAction)
	}

	// The dashboard agent is read-only.
	write := r.Dispatch(ctx, "dashboard", "create_client", map[string]any{
		"data": map[string]any{"name": "Priya"},
	})
	if write.OK || write.Error.Kind != contractx.KindUnknownAction {
		t.Fatalf("expected UnknownAction for dashboard write, got %+v", write)
	}
}

func TestDispatchRoutesAcrossDispatchers(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	ctx := context.Background()

	read := r.Dispatch(ctx, "support", "find_client", map[string]any{"email": "priya@example.com"})
	if !read.OK {
		t.Fatalf("read dispatch failed: %+v", read.Error)
	}

	write := r.Dispatch(ctx, "support", "create_enquiry", map[string]any{
		"data": map[string]any{"name": "Priya", "message": "class timings?"},
	})
	if !write.OK {
		t.Fatalf("write dispatch failed: %+v", write.Error)
	}
	if _, ok := write.Data.(contractx.MutationResult); !ok {
		t.Fatalf("expected MutationResult, got %T", write.Data)
	}

	analytics := r.Dispatch(ctx, "dashboard", "get_top_courses", nil)
	if !analytics.OK {
		t.Fatalf("analytics dispatch failed: %+v", analytics.Error)
	}
}

func TestAgentsAreSorted(t *testing.T) {
	t.Parallel()

	agents := newTestRouter(t).Agents()
	if len(agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(agents))
	}
	if agents[0].Type != contractx.AgentTypeDashboard || agents[1].Type != contractx.AgentTypeSupport {
		t.Fatalf("unexpected order: %v, %v", agents[0].Type, agents[1].Type)
	}
}

func TestTaskContextCarriesAgentFraming(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	taskCtx, err := r.TaskContext("dashboard", "how did march look?")
	if err != nil {
		t.Fatalf("TaskContext() error = %v", err)
	}
	if taskCtx.Agent != contractx.AgentTypeDashboard {
		t.Fatalf("agent = %q", taskCtx.Agent)
	}
	if taskCtx.Role == "" || taskCtx.Goal == "" || taskCtx.Backstory == "" {
		t.Fatalf("framing fields must be populated: %+v", taskCtx)
	}
	if taskCtx.Query != "how did march look?" {
		t.Fatalf("query = %q", taskCtx.Query)
	}

	if _, err := r.TaskContext("finance", "q"); err == nil {
		t.Fatal("expected error for unknown agent")
	}
}

func TestToolInfosMatchAgentActions(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	infos, err := r.ToolInfos("support")
	if err != nil {
		t.Fatalf("ToolInfos() error = %v", err)
	}

	support, _ := r.Agent("support")
	if len(infos) != len(support.Actions) {
		t.Fatalf("got %d tool infos, want %d", len(infos), len(support.Actions))
	}
	for i, info := range infos {
		if info.Name != support.Actions[i] {
			t.Fatalf("infos[%d] = %q, want %q", i, info.Name, support.Actions[i])
		}
	}
}
