package tool

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	contractx "github.com/agentdesk/agentdesk/agent/contract"
	storex "github.com/agentdesk/agentdesk/agent/store"
)

// Accepted layouts for date arguments, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func argPresent(args map[string]any, name string) bool {
	v, ok := args[name]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return false
	}
	return true
}

func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: argument %q must be a string", contractx.ErrValidation, name)
	}
	return strings.TrimSpace(s), nil
}

func dateArg(args map[string]any, name string) (time.Time, error) {
	s, err := stringArg(args, name)
	if err != nil {
		return time.Time{}, err
	}
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: missing required argument: %s", contractx.ErrValidation, name)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: argument %q must be an ISO-8601 date, got %q", contractx.ErrValidation, name, s)
}

func intArg(args map[string]any, name string, fallback int) (int, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return fallback, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case json.Number:
		parsed, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: argument %q must be an integer", contractx.ErrValidation, name)
		}
		return int(parsed), nil
	case string:
		if strings.TrimSpace(n) == "" {
			return fallback, nil
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("%w: argument %q must be an integer", contractx.ErrValidation, name)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("%w: argument %q must be an integer", contractx.ErrValidation, name)
	}
}

func idArg(args map[string]any, name string) (storex.ID, error) {
	s, err := stringArg(args, name)
	if err != nil {
		return storex.ID{}, err
	}
	id, err := storex.ParseID(s)
	if err != nil {
		return storex.ID{}, fmt.Errorf("%w: argument %q is not a valid id: %q", contractx.ErrValidation, name, s)
	}
	return id, nil
}

func objectArg(args map[string]any, name string) (map[string]any, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: argument %q must be an object", contractx.ErrValidation, name)
	}
	return m, nil
}
