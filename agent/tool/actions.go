package tool

import (
	"context"
	"fmt"
	"time"

	contractx "github.com/agentdesk/agentdesk/agent/contract"
	storex "github.com/agentdesk/agentdesk/agent/store"
)

// RevenueReport is the calculate_revenue result payload.
type RevenueReport struct {
	Total     float64   `json:"total"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type ReadOption func(*readOptions)

type readOptions struct {
	now func() time.Time
}

// WithClock overrides the time source used by time-relative actions.
func WithClock(now func() time.Time) ReadOption {
	return func(o *readOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// NewReadRegistry builds the registry of read actions over the data access
// layer. The registry is immutable once built.
func NewReadRegistry(backend contractx.DataBackend, opts ...ReadOption) (*Registry, error) {
	options := readOptions{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	return NewRegistry(
		Action{
			Name: "find_client",
			Desc: "Find a single client by name, email, or phone.",
			Params: []Param{
				{Name: "name", Type: ParamTypeString, Desc: "Client name, case-insensitive substring"},
				{Name: "email", Type: ParamTypeString, Desc: "Exact client email"},
				{Name: "phone", Type: ParamTypeString, Desc: "Exact client phone"},
			},
			Check: func(args map[string]any) error {
				if !argPresent(args, "name") && !argPresent(args, "email") && !argPresent(args, "phone") {
					return fmt.Errorf("%w: find_client requires at least one of name, email, phone", contractx.ErrValidation)
				}
				return nil
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				query := storex.ClientQuery{}
				var err error
				if query.Name, err = stringArg(args, "name"); err != nil {
					return nil, err
				}
				if query.Email, err = stringArg(args, "email"); err != nil {
					return nil, err
				}
				if query.Phone, err = stringArg(args, "phone"); err != nil {
					return nil, err
				}
				client, err := backend.FindClient(ctx, query)
				if err != nil {
					return nil, err
				}
				if client == nil {
					return contractx.NotFoundPayload("client"), nil
				}
				return client, nil
			},
		},
		Action{
			Name: "get_client_orders",
			Desc: "List all orders placed by the client with the given email.",
			Params: []Param{
				{Name: "client_email", Type: ParamTypeString, Required: true, Desc: "Exact client email"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				email, err := stringArg(args, "client_email")
				if err != nil {
					return nil, err
				}
				orders, found, err := backend.ClientOrders(ctx, email)
				if err != nil {
					return nil, err
				}
				if !found {
					return contractx.NotFoundPayload("client"), nil
				}
				return orders, nil
			},
		},
		Action{
			Name: "get_order_by_id",
			Desc: "Fetch one order by id, enriched with the client's name and email when the reference resolves.",
			Params: []Param{
				{Name: "order_id", Type: ParamTypeString, Required: true, Desc: "Order id (hex)"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				orderID, err := idArg(args, "order_id")
				if err != nil {
					return nil, err
				}
				detail, err := backend.OrderByID(ctx, orderID)
				if err != nil {
					return nil, err
				}
				if detail == nil {
					return contractx.NotFoundPayload("order"), nil
				}
				return detail, nil
			},
		},
		Action{
			Name: "get_payment_info",
			Desc: "List all payments recorded against an order.",
			Params: []Param{
				{Name: "order_id", Type: ParamTypeString, Required: true, Desc: "Order id (hex)"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				orderID, err := idArg(args, "order_id")
				if err != nil {
					return nil, err
				}
				return backend.PaymentsForOrder(ctx, orderID)
			},
		},
		Action{
			Name: "get_pending_payments",
			Desc: "List payments that are pending or partial, or whose parent order is pending.",
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return backend.PendingPayments(ctx)
			},
		},
		Action{
			Name: "get_classes_for_week",
			Desc: "List classes scheduled between two dates, inclusive on both ends.",
			Params: []Param{
				{Name: "start_date", Type: ParamTypeDate, Required: true},
				{Name: "end_date", Type: ParamTypeDate, Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				start, err := dateArg(args, "start_date")
				if err != nil {
					return nil, err
				}
				end, err := dateArg(args, "end_date")
				if err != nil {
					return nil, err
				}
				return backend.ClassesBetween(ctx, start, end)
			},
		},
		Action{
			Name: "get_courses_by_instructor",
			Desc: "List courses taught by an instructor, matched case-insensitively by substring.",
			Params: []Param{
				{Name: "instructor", Type: ParamTypeString, Required: true, Desc: "Instructor name fragment"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				instructor, err := stringArg(args, "instructor")
				if err != nil {
					return nil, err
				}
				return backend.CoursesByInstructor(ctx, instructor)
			},
		},
		Action{
			Name: "get_upcoming_classes",
			Desc: "List classes from now onward, sorted ascending by date.",
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return backend.UpcomingClasses(ctx, options.now())
			},
		},
		Action{
			Name: "calculate_revenue",
			Desc: "Sum payment amounts over a date range. Zero when no payments match.",
			Params: []Param{
				{Name: "start_date", Type: ParamTypeDate, Required: true},
				{Name: "end_date", Type: ParamTypeDate, Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				start, err := dateArg(args, "start_date")
				if err != nil {
					return nil, err
				}
				end, err := dateArg(args, "end_date")
				if err != nil {
					return nil, err
				}
				total, err := backend.Revenue(ctx, start, end)
				if err != nil {
					return nil, err
				}
				return RevenueReport{Total: total, StartDate: start, EndDate: end}, nil
			},
		},
		Action{
			Name: "get_client_stats",
			Desc: "Count clients grouped by status.",
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return backend.ClientStats(ctx)
			},
		},
		Action{
			Name: "get_attendance_stats",
			Desc: "Per-class attendance projection: name, instructor, date, attendee count.",
			Params: []Param{
				{Name: "class_name", Type: ParamTypeString, Desc: "Optional class name filter, case-insensitive substring"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				className, err := stringArg(args, "class_name")
				if err != nil {
					return nil, err
				}
				return backend.AttendanceStats(ctx, className)
			},
		},
		Action{
			Name: "get_top_courses",
			Desc: "Courses ranked by enrollment count, descending, truncated to limit.",
			Params: []Param{
				{Name: "limit", Type: ParamTypeInteger, Desc: "Maximum courses to return, default 5"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				limit, err := intArg(args, "limit", storex.DefaultTopCoursesLimit)
				if err != nil {
					return nil, err
				}
				return backend.TopCourses(ctx, limit)
			},
		},
		Action{
			Name: "get_enrollment_trends",
			Desc: "Orders grouped by year and month with enrollment counts and summed amounts.",
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return backend.EnrollmentTrends(ctx)
			},
		},
	)
}
