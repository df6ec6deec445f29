package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/agentdesk/agentdesk/agent/contract"
)

const defaultDispatchTimeout = 15 * time.Second

// Dispatcher resolves structured action requests against one registry and
// normalizes every outcome into an envelope. No fault crosses its boundary
// unhandled.
type Dispatcher struct {
	registry *Registry
	timeout  time.Duration
}

type DispatcherOption func(*Dispatcher)

func WithTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func NewDispatcher(registry *Registry, opts ...DispatcherOption) (*Dispatcher, error) {
	if registry == nil {
		return nil, errors.New("action registry is required")
	}
	d := &Dispatcher{
		registry: registry,
		timeout:  defaultDispatchTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

func (d *Dispatcher) Has(action string) bool {
	return d.registry.Has(action)
}

// Dispatch extracts the action name and argument bag from an already-decoded
// request mapping. Arguments may sit beside the action field or nest under
// an "args" key.
func (d *Dispatcher) Dispatch(ctx context.Context, raw map[string]any) contractx.Envelope {
	if raw == nil {
		return contractx.Failure(contractx.KindMalformedInput, "request payload is empty")
	}

	rawAction, ok := raw["action"]
	if !ok {
		return contractx.Failure(contractx.KindMissingAction, "request has no action field")
	}
	action, ok := rawAction.(string)
	if !ok {
		return contractx.Failure(contractx.KindMalformedInput, "action field must be a string")
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return contractx.Failure(contractx.KindMissingAction, "action field is empty")
	}

	args := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "action" {
			continue
		}
		args[k] = v
	}
	if nested, ok := args["args"].(map[string]any); ok {
		delete(args, "args")
		for k, v := range nested {
			args[k] = v
		}
	}

	return d.DispatchAction(ctx, action, args)
}

// DispatchAction runs one resolved action through validate and execute.
func (d *Dispatcher) DispatchAction(ctx context.Context, action string, args map[string]any) contractx.Envelope {
	act, ok := d.registry.Lookup(action)
	if !ok {
		return contractx.Failure(contractx.KindUnknownAction, fmt.Sprintf("action %q is not registered", action))
	}

	if err := d.registry.ValidateArgs(act, args); err != nil {
		return contractx.Failure(contractx.KindValidation, err.Error())
	}

	execCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	result, err := d.execute(execCtx, act, args)
	if err != nil {
		kind := contractx.KindForError(err)
		if kind == contractx.KindHandler && errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			kind = contractx.KindTimeout
		}
		log.Warn().Str("action", action).Str("kind", kind).Err(err).Msg("action failed")
		return contractx.Failure(kind, err.Error())
	}

	log.Debug().Str("action", action).Msg("action succeeded")
	return contractx.Success(result)
}

func (d *Dispatcher) execute(ctx context.Context, act Action, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return act.Handler(ctx, args)
}
