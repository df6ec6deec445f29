package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	routerx "github.com/agentdesk/agentdesk/agent/router"
	storex "github.com/agentdesk/agentdesk/agent/store"
	toolx "github.com/agentdesk/agentdesk/agent/tool"
)

// fakeChatModel replays scripted replies. WithTools returns the same
// instance so all agents share one script.
type fakeChatModel struct {
	replies    []*schema.Message
	boundTools [][]*schema.ToolInfo
	seen       [][]*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, messages []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.seen = append(f.seen, messages)
	if len(f.replies) == 0 {
		return nil, errors.New("no scripted reply left")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not scripted")
}

func (f *fakeChatModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	f.boundTools = append(f.boundTools, tools)
	return f, nil
}

func newTestRouter(t *testing.T) *routerx.Router {
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

	r, err := routerx.New(
		[]*toolx.Dispatcher{readDispatcher, mutationDispatcher},
		routerx.DefaultAgents()...,
	)
	if err != nil {
		t.Fatalf("router New() error = %v", err)
	}
	return r
}

func TestNewBindsToolsPerAgent(t *testing.T) {
	t.Parallel()

	model := &fakeChatModel{}
	if _, err := New(model, newTestRouter(t)); err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(model.boundTools) != 2 {
		t.Fatalf("expected 2 tool bindings, got %d", len(model.boundTools))
	}
	for _, tools := range model.boundTools {
		if len(tools) == 0 {
			t.Fatal("agent bound with an empty toolset")
		}
	}
}

func TestAnswerDirectReply(t *testing.T) {
	t.Parallel()

	model := &fakeChatModel{replies: []*schema.Message{
		schema.AssistantMessage("  We have three active clients.  ", nil),
	}}
	a, err := New(model, newTestRouter(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	answer, err := a.Answer(context.Background(), "dashboard", "how many clients?")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if answer != "We have three active clients." {
		t.Fatalf("answer = %q", answer)
	}

	if len(model.seen) != 1 {
		t.Fatalf("expected 1 model call, got %d", len(model.seen))
	}
	system := model.seen[0][0]
	if system.Role != schema.System {
		t.Fatalf("first message role = %q", system.Role)
	}
	if !strings.Contains(system.Content, "Dashboard Analytics Agent") {
		t.Fatal("system prompt must carry the agent role")
	}
}

func TestAnswerRunsToolCallRound(t *testing.T) {
	t.Parallel()

	toolReply := schema.AssistantMessage("", []schema.ToolCall{{
		ID: "call-1",
		Function: schema.FunctionCall{
			Name:      "find_client",
			Arguments: `{"email":"priya@example.com"}`,
		},
	}})
	model := &fakeChatModel{replies: []*schema.Message{
		toolReply,
		schema.AssistantMessage("Priya Sharma is an active client.", nil),
	}}
	a, err := New(model, newTestRouter(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	answer, err := a.Answer(context.Background(), "support", "who is priya?")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if answer != "Priya Sharma is an active client." {
		t.Fatalf("answer = %q", answer)
	}

	if len(model.seen) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(model.seen))
	}
	second := model.seen[1]
	last := second[len(second)-1]
	if last.Role != schema.Tool {
		t.Fatalf("last message role = %q, want tool", last.Role)
	}
	if last.ToolCallID != "call-1" {
		t.Fatalf("tool call id = %q", last.ToolCallID)
	}
	if !strings.Contains(last.Content, `"ok":true`) {
		t.Fatalf("tool envelope not marshaled into the transcript: %s", last.Content)
	}
}

func TestAnswerToolBudgetExhausted(t *testing.T) {
	t.Parallel()

	toolReply := func() *schema.Message {
		return schema.AssistantMessage("", []schema.ToolCall{{
			ID: "call-loop",
			Function: schema.FunctionCall{
				Name:      "get_client_stats",
				Arguments: `{}`,
			},
		}})
	}
	model := &fakeChatModel{replies: []*schema.Message{toolReply(), toolReply()}}
	a, err := New(model, newTestRouter(t), WithMaxToolRounds(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = a.Answer(context.Background(), "dashboard", "stats?")
	if !errors.Is(err, ErrToolBudget) {
		t.Fatalf("err = %v, want ErrToolBudget", err)
	}
}

func TestAnswerEmptyReply(t *testing.T) {
	t.Parallel()

	model := &fakeChatModel{replies: []*schema.Message{
		schema.AssistantMessage("   ", nil),
	}}
	a, err := New(model, newTestRouter(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := a.Answer(context.Background(), "support", "hello"); !errors.Is(err, ErrEmptyReply) {
		t.Fatalf("err = %v, want ErrEmptyReply", err)
	}
}

func TestAnswerUnknownAgent(t *testing.T) {
	t.Parallel()

	a, err := New(&fakeChatModel{}, newTestRouter(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := a.Answer(context.Background(), "finance", "q"); err == nil {
		t.Fatal("expected error for unknown agent")
	}
}
