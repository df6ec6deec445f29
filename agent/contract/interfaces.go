package contract

import (
	"context"
	"time"

	storex "github.com/agentdesk/agentdesk/agent/store"
)

// DataBackend is the read-side data access layer: one method per registered
// read action. A nil record with a nil error is a valid "not found" outcome;
// a non-nil error always means the store itself failed.
type DataBackend interface {
	FindClient(ctx context.Context, query storex.ClientQuery) (*storex.Client, error)
	ClientOrders(ctx context.Context, clientEmail string) ([]storex.Order, bool, error)
	OrderByID(ctx context.Context, orderID storex.ID) (*storex.OrderDetail, error)
	PaymentsForOrder(ctx context.Context, orderID storex.ID) ([]storex.Payment, error)
	PendingPayments(ctx context.Context) ([]storex.Payment, error)
	ClassesBetween(ctx context.Context, start, end time.Time) ([]storex.Class, error)
	CoursesByInstructor(ctx context.Context, instructor string) ([]storex.Course, error)
	UpcomingClasses(ctx context.Context, now time.Time) ([]storex.Class, error)
	Revenue(ctx context.Context, start, end time.Time) (float64, error)
	ClientStats(ctx context.Context) ([]storex.StatusCount, error)
	AttendanceStats(ctx context.Context, className string) ([]storex.AttendanceStat, error)
	TopCourses(ctx context.Context, limit int) ([]storex.CourseEnrollment, error)
	EnrollmentTrends(ctx context.Context) ([]storex.EnrollmentTrend, error)
}

// MutationBackend is the write-side strategy behind the external mutation
// tool. Implementations must degrade gracefully on partial payloads and
// never fault on missing optional fields.
type MutationBackend interface {
	CreateClient(ctx context.Context, data map[string]any) (MutationResult, error)
	CreateOrder(ctx context.Context, data map[string]any) (MutationResult, error)
	CreateEnquiry(ctx context.Context, data map[string]any) (MutationResult, error)
}

// Dispatcher routes one structured action request to its handler and
// normalizes the outcome into an envelope.
type Dispatcher interface {
	Dispatch(ctx context.Context, raw map[string]any) Envelope
	DispatchAction(ctx context.Context, action string, args map[string]any) Envelope
	Has(action string) bool
}
