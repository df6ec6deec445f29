package tool

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	contractx "github.com/agentdesk/agentdesk/agent/contract"
	crmapix "github.com/agentdesk/agentdesk/pkg/crmapi"
)

// NewMutationRegistry builds the registry of write actions over the external
// system. It mirrors the read registry structurally; only the backend
// differs.
func NewMutationRegistry(backend contractx.MutationBackend) (*Registry, error) {
	return NewRegistry(
		Action{
			Name: "create_client",
			Desc: "Create a client record in the external system.",
			Params: []Param{
				{Name: "data", Type: ParamTypeObject, Required: true, Desc: "Client fields: name, email, phone"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				data, err := objectArg(args, "data")
				if err != nil {
					return nil, err
				}
				return backend.CreateClient(ctx, data)
			},
		},
		Action{
			Name: "create_order",
			Desc: "Create an order record in the external system.",
			Params: []Param{
				{Name: "data", Type: ParamTypeObject, Required: true, Desc: "Order fields: client_email, course, amount"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				data, err := objectArg(args, "data")
				if err != nil {
					return nil, err
				}
				return backend.CreateOrder(ctx, data)
			},
		},
		Action{
			Name: "create_enquiry",
			Desc: "Create an enquiry record in the external system.",
			Params: []Param{
				{Name: "data", Type: ParamTypeObject, Required: true, Desc: "Enquiry fields: name, email, message"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				data, err := objectArg(args, "data")
				if err != nil {
					return nil, err
				}
				return backend.CreateEnquiry(ctx, data)
			},
		},
	)
}

// clientPayload et al. are the fully-populated forms a loose mutation
// payload decodes into. Missing optional fields degrade to defaults instead
// of faulting.
type clientPayload struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
	Phone string `mapstructure:"phone"`
}

type orderPayload struct {
	ClientEmail string  `mapstructure:"client_email"`
	Course      string  `mapstructure:"course"`
	Amount      float64 `mapstructure:"amount"`
	Status      string  `mapstructure:"status"`
}

type enquiryPayload struct {
	Name    string `mapstructure:"name"`
	Email   string `mapstructure:"email"`
	Message string `mapstructure:"message"`
}

const unknownField = "Unknown"

func decodeLoose(data map[string]any, out any) {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return
	}
	// Decode errors leave the zero value in place; defaults fill the gaps.
	_ = decoder.Decode(data)
}

func orDefault(s string) string {
	if s == "" {
		return unknownField
	}
	return s
}

// SimulatedMutationBackend is the no-connectivity strategy: every create
// succeeds with a generated identifier and an echo of the normalized
// payload.
type SimulatedMutationBackend struct {
	now func() time.Time
}

func NewSimulatedMutationBackend() *SimulatedMutationBackend {
	return &SimulatedMutationBackend{now: time.Now}
}

func (s *SimulatedMutationBackend) receipt(resource string, data map[string]any) contractx.MutationResult {
	return contractx.MutationResult{
		ID:        uuid.NewString(),
		Resource:  resource,
		Data:      data,
		CreatedAt: s.now().UTC(),
	}
}

func (s *SimulatedMutationBackend) CreateClient(_ context.Context, data map[string]any) (contractx.MutationResult, error) {
	var payload clientPayload
	decodeLoose(data, &payload)
	return s.receipt("clients", map[string]any{
		"name":  orDefault(payload.Name),
		"email": orDefault(payload.Email),
		"phone": orDefault(payload.Phone),
	}), nil
}

func (s *SimulatedMutationBackend) CreateOrder(_ context.Context, data map[string]any) (contractx.MutationResult, error) {
	var payload orderPayload
	decodeLoose(data, &payload)
	status := payload.Status
	if status == "" {
		status = "pending"
	}
	return s.receipt("orders", map[string]any{
		"client_email": orDefault(payload.ClientEmail),
		"course":       orDefault(payload.Course),
		"amount":       payload.Amount,
		"status":       status,
	}), nil
}

func (s *SimulatedMutationBackend) CreateEnquiry(_ context.Context, data map[string]any) (contractx.MutationResult, error) {
	var payload enquiryPayload
	decodeLoose(data, &payload)
	return s.receipt("enquiries", map[string]any{
		"name":    orDefault(payload.Name),
		"email":   orDefault(payload.Email),
		"message": orDefault(payload.Message),
	}), nil
}

// RealMutationBackend posts each create to the external CRM API.
type RealMutationBackend struct {
	api *crmapix.Client
	now func() time.Time
}

func NewRealMutationBackend(api *crmapix.Client) *RealMutationBackend {
	return &RealMutationBackend{api: api, now: time.Now}
}

func (r *RealMutationBackend) create(ctx context.Context, resource string, data map[string]any) (contractx.MutationResult, error) {
	resp, err := r.api.Post(ctx, "/"+resource, data)
	if err != nil {
		return contractx.MutationResult{}, err
	}

	id, _ := resp["id"].(string)
	if id == "" {
		id = uuid.NewString()
	}

	return contractx.MutationResult{
		ID:        id,
		Resource:  resource,
		Data:      data,
		CreatedAt: r.now().UTC(),
	}, nil
}

func (r *RealMutationBackend) CreateClient(ctx context.Context, data map[string]any) (contractx.MutationResult, error) {
	return r.create(ctx, "clients", data)
}

func (r *RealMutationBackend) CreateOrder(ctx context.Context, data map[string]any) (contractx.MutationResult, error) {
	return r.create(ctx, "orders", data)
}

func (r *RealMutationBackend) CreateEnquiry(ctx context.Context, data map[string]any) (contractx.MutationResult, error) {
	return r.create(ctx, "enquiries", data)
}
