// Package tool holds the action registry, the dispatcher, and the external
// mutation strategies. A registry is built once at startup and never
// mutated afterwards, so concurrent dispatches read it without locking.
package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/agentdesk/agentdesk/agent/contract"
)

type ParamType string

const (
	ParamTypeString  ParamType = "string"
	ParamTypeDate    ParamType = "date"
	ParamTypeInteger ParamType = "integer"
	ParamTypeObject  ParamType = "object"
)

type Param struct {
	Name     string
	Type     ParamType
	Required bool
	Desc     string
}

type Handler func(ctx context.Context, args map[string]any) (any, error)

// Action binds a name to its handler and argument schema. Check runs after
// the per-param required checks for cross-field rules.
type Action struct {
	Name    string
	Desc    string
	Params  []Param
	Check   func(args map[string]any) error
	Handler Handler
}

type Registry struct {
	actions map[string]Action
	names   []string
}

func NewRegistry(actions ...Action) (*Registry, error) {
	r := &Registry{
		actions: make(map[string]Action, len(actions)),
		names:   make([]string, 0, len(actions)),
	}
	for _, act := range actions {
		name := strings.TrimSpace(act.Name)
		if name == "" {
			return nil, fmt.Errorf("action name is empty")
		}
		if act.Handler == nil {
			return nil, fmt.Errorf("action %q has no handler", name)
		}
		if _, exists := r.actions[name]; exists {
			return nil, fmt.Errorf("duplicate action name %q", name)
		}
		act.Name = name
		r.actions[name] = act
		r.names = append(r.names, name)
	}
	return r, nil
}

func MustNewRegistry(actions ...Action) *Registry {
	r, err := NewRegistry(actions...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Lookup(name string) (Action, bool) {
	act, ok := r.actions[name]
	return act, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.actions[name]
	return ok
}

// Names returns the registered action names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// ValidateArgs checks the argument bag against the action's schema. A blank
// string counts as missing.
func (r *Registry) ValidateArgs(act Action, args map[string]any) error {
	for _, p := range act.Params {
		if p.Required && !argPresent(args, p.Name) {
			return fmt.Errorf("%w: missing required argument: %s", contractx.ErrValidation, p.Name)
		}
	}
	if act.Check != nil {
		if err := act.Check(args); err != nil {
			return err
		}
	}
	return nil
}

// ToolInfo converts the action schema into the form the reasoning model
// binds tools with.
func (a Action) ToolInfo() *schema.ToolInfo {
	params := make(map[string]*schema.ParameterInfo, len(a.Params))
	for _, p := range a.Params {
		info := &schema.ParameterInfo{
			Desc:     p.Desc,
			Required: p.Required,
		}
		switch p.Type {
		case ParamTypeInteger:
			info.Type = schema.Integer
		case ParamTypeObject:
			info.Type = schema.Object
		case ParamTypeDate:
			info.Type = schema.String
			if info.Desc == "" {
				info.Desc = "ISO-8601 date"
			}
		default:
			info.Type = schema.String
		}
		params[p.Name] = info
	}

	return &schema.ToolInfo{
		Name:        a.Name,
		Desc:        a.Desc,
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}
}
