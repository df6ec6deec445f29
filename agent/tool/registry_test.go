package tool

import (
	"context"
	"testing"
)

func noopHandler(context.Context, map[string]any) (any, error) {
	return nil, nil
}

func TestNewRegistryRejectsBadActions(t *testing.T) {
	t.Parallel()

	if _, err := NewRegistry(Action{Name: "", Handler: noopHandler}); err == nil {
		t.Fatal("expected error for empty action name")
	}
	if _, err := NewRegistry(Action{Name: "a"}); err == nil {
		t.Fatal("expected error for missing handler")
	}
	if _, err := NewRegistry(
		Action{Name: "a", Handler: noopHandler},
		Action{Name: "a", Handler: noopHandler},
	); err == nil {
		t.Fatal("expected error for duplicate action name")
	}
}

func TestRegistryNamesKeepRegistrationOrder(t *testing.T) {
	t.Parallel()

	r := MustNewRegistry(
		Action{Name: "zeta", Handler: noopHandler},
		Action{Name: "alpha", Handler: noopHandler},
		Action{Name: "mid", Handler: noopHandler},
	)

	want := []string{"zeta", "alpha", "mid"}
	got := r.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestActionToolInfoConversion(t *testing.T) {
	t.Parallel()

	act := Action{
		Name: "calculate_revenue",
		Desc: "Sum payment amounts over a date range.",
		Params: []Param{
			{Name: "start_date", Type: ParamTypeDate, Required: true},
			{Name: "limit", Type: ParamTypeInteger, Desc: "Maximum rows"},
			{Name: "data", Type: ParamTypeObject},
		},
		Handler: noopHandler,
	}

	info := act.ToolInfo()
	if info.Name != "calculate_revenue" {
		t.Fatalf("ToolInfo name = %q", info.Name)
	}
	if info.ParamsOneOf == nil {
		t.Fatal("ToolInfo has no params")
	}

	openAPI, err := info.ParamsOneOf.ToOpenAPIV3()
	if err != nil {
		t.Fatalf("ToOpenAPIV3() error = %v", err)
	}
	if openAPI == nil || openAPI.Properties == nil {
		t.Fatal("expected an object schema with properties")
	}

	start, ok := openAPI.Properties["start_date"]
	if !ok || start.Value == nil {
		t.Fatal("start_date missing from schema")
	}
	if start.Value.Type != "string" {
		t.Fatalf("date param maps to %q, want string", start.Value.Type)
	}
	if start.Value.Description == "" {
		t.Fatal("date param should carry a format hint")
	}

	limit, ok := openAPI.Properties["limit"]
	if !ok || limit.Value == nil || limit.Value.Type != "integer" {
		t.Fatal("limit must map to an integer schema")
	}

	data, ok := openAPI.Properties["data"]
	if !ok || data.Value == nil || data.Value.Type != "object" {
		t.Fatal("data must map to an object schema")
	}

	if len(openAPI.Required) != 1 || openAPI.Required[0] != "start_date" {
		t.Fatalf("required = %v, want [start_date]", openAPI.Required)
	}
}
