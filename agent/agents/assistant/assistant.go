// Package assistant drives the reasoning step: it binds each agent's tool
// catalog to a chat model and runs a bounded tool-calling loop over the
// dispatch core. The core never depends on this package.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/agentdesk/agentdesk/agent/contract"
	promptx "github.com/agentdesk/agentdesk/agent/prompt"
	routerx "github.com/agentdesk/agentdesk/agent/router"
)

var (
	ErrModelInvoke  = errors.New("model invoke failed")
	ErrEmptyReply   = errors.New("model returned an empty reply")
	ErrToolBudget   = errors.New("tool budget exhausted")
	ErrUnknownAgent = contractx.ErrUnknownAgent
)

const defaultMaxToolRounds = 4

type Assistant struct {
	router        *routerx.Router
	models        map[string]einomodel.ToolCallingChatModel
	prompt        string
	maxToolRounds int
}

type Option func(*Assistant)

func WithMaxToolRounds(rounds int) Option {
	return func(a *Assistant) {
		if rounds > 0 {
			a.maxToolRounds = rounds
		}
	}
}

// New binds the chat model to every registered agent's tool catalog.
func New(chatModel einomodel.ToolCallingChatModel, r *routerx.Router, opts ...Option) (*Assistant, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if r == nil {
		return nil, errors.New("router is required")
	}

	a := &Assistant{
		router:        r,
		models:        map[string]einomodel.ToolCallingChatModel{},
		prompt:        promptx.LoadPromptSet().Assistant,
		maxToolRounds: defaultMaxToolRounds,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	for _, agent := range r.Agents() {
		agentID := string(agent.Type)
		infos, err := r.ToolInfos(agentID)
		if err != nil {
			return nil, err
		}
		bound, err := chatModel.WithTools(infos)
		if err != nil {
			return nil, fmt.Errorf("%w: bind tools for agent=%s: %v", ErrModelInvoke, agentID, err)
		}
		a.models[agentID] = bound
	}

	return a, nil
}

// Answer runs one query through the agent's model, dispatching tool calls
// through the router until the model produces a final reply.
func (a *Assistant) Answer(ctx context.Context, agentID, query string) (string, error) {
	taskCtx, err := a.router.TaskContext(agentID, query)
	if err != nil {
		return "", err
	}
	model, ok := a.models[agentID]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAgent, agentID)
	}

	messages := []*schema.Message{
		schema.SystemMessage(renderPrompt(a.prompt, taskCtx)),
		schema.UserMessage(query),
	}

	for round := 0; round < a.maxToolRounds; round++ {
		reply, err := model.Generate(ctx, messages)
		if err != nil {
			return "", fmt.Errorf("%w: agent=%s: %v", ErrModelInvoke, agentID, err)
		}
		if reply == nil {
			return "", fmt.Errorf("%w: agent=%s", ErrEmptyReply, agentID)
		}

		if len(reply.ToolCalls) == 0 {
			content := strings.TrimSpace(reply.Content)
			if content == "" {
				return "", fmt.Errorf("%w: agent=%s", ErrEmptyReply, agentID)
			}
			return content, nil
		}

		messages = append(messages, reply)
		for _, call := range reply.ToolCalls {
			envelope := a.runToolCall(ctx, agentID, call)
			payload, err := json.Marshal(envelope)
			if err != nil {
				return "", fmt.Errorf("%w: marshal tool envelope: %v", ErrModelInvoke, err)
			}
			messages = append(messages, schema.ToolMessage(string(payload), call.ID))
		}
	}

	return "", fmt.Errorf("%w: agent=%s after %d rounds", ErrToolBudget, agentID, a.maxToolRounds)
}

func (a *Assistant) runToolCall(ctx context.Context, agentID string, call schema.ToolCall) contractx.Envelope {
	name := strings.TrimSpace(call.Function.Name)
	if name == "" {
		return contractx.Failure(contractx.KindMalformedInput, "tool call name is empty")
	}

	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return contractx.Failure(contractx.KindMalformedInput, fmt.Sprintf("invalid tool args for %s: %v", name, err))
		}
	}

	log.Debug().Str("agent", agentID).Str("action", name).Msg("model requested tool call")
	return a.router.Dispatch(ctx, agentID, name, args)
}

func renderPrompt(template string, taskCtx contractx.TaskContext) string {
	return strings.NewReplacer(
		"{role}", taskCtx.Role,
		"{goal}", taskCtx.Goal,
		"{backstory}", taskCtx.Backstory,
	).Replace(template)
}
