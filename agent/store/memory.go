package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryBackend keeps the whole dataset in process memory. It mirrors the
// MongoBackend semantics exactly and backs development mode and tests.
type MemoryBackend struct {
	mu       sync.RWMutex
	clients  []Client
	orders   []Order
	payments []Payment
	courses  []Course
	classes  []Class
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) AddClients(clients ...Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients = append(b.clients, clients...)
}

func (b *MemoryBackend) AddOrders(orders ...Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = append(b.orders, orders...)
}

func (b *MemoryBackend) AddPayments(payments ...Payment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payments = append(b.payments, payments...)
}

func (b *MemoryBackend) AddCourses(courses ...Course) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.courses = append(b.courses, courses...)
}

func (b *MemoryBackend) AddClasses(classes ...Class) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.classes = append(b.classes, classes...)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (b *MemoryBackend) FindClient(_ context.Context, query ClientQuery) (*Client, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i := range b.clients {
		c := &b.clients[i]
		if query.Name != "" && !containsFold(c.Name, query.Name) {
			continue
		}
		if query.Email != "" && c.Email != query.Email {
			continue
		}
		if query.Phone != "" && c.Phone != query.Phone {
			continue
		}
		clone := *c
		return &clone, nil
	}
	return nil, nil
}

func (b *MemoryBackend) ClientOrders(_ context.Context, clientEmail string) ([]Order, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var client *Client
	for i := range b.clients {
		if b.clients[i].Email == clientEmail {
			client = &b.clients[i]
			break
		}
	}
	if client == nil {
		return nil, false, nil
	}

	orders := []Order{}
	for _, o := range b.orders {
		if o.ClientID == client.ID {
			orders = append(orders, o)
		}
	}
	return orders, true, nil
}

func (b *MemoryBackend) OrderByID(_ context.Context, orderID ID) (*OrderDetail, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, o := range b.orders {
		if o.ID != orderID {
			continue
		}
		detail := &OrderDetail{Order: o}
		for _, c := range b.clients {
			if c.ID == o.ClientID {
				detail.ClientInfo = &ClientInfo{Name: c.Name, Email: c.Email}
				break
			}
		}
		return detail, nil
	}
	return nil, nil
}

func (b *MemoryBackend) PaymentsForOrder(_ context.Context, orderID ID) ([]Payment, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	payments := []Payment{}
	for _, p := range b.payments {
		if p.OrderID == orderID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

func (b *MemoryBackend) PendingPayments(_ context.Context) ([]Payment, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	orderStatus := make(map[ID]string, len(b.orders))
	for _, o := range b.orders {
		orderStatus[o.ID] = o.Status
	}

	payments := []Payment{}
	for _, p := range b.payments {
		if p.Status == "pending" || p.Status == "partial" || orderStatus[p.OrderID] == "pending" {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

func (b *MemoryBackend) ClassesBetween(_ context.Context, start, end time.Time) ([]Class, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	classes := []Class{}
	for _, c := range b.classes {
		if c.Date.Before(start) || c.Date.After(end) {
			continue
		}
		classes = append(classes, c)
	}
	sort.SliceStable(classes, func(i, j int) bool {
		return classes[i].Date.Before(classes[j].Date)
	})
	return classes, nil
}

func (b *MemoryBackend) CoursesByInstructor(_ context.Context, instructor string) ([]Course, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	courses := []Course{}
	for _, c := range b.courses {
		if containsFold(c.Instructor, instructor) {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

func (b *MemoryBackend) UpcomingClasses(_ context.Context, now time.Time) ([]Class, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	classes := []Class{}
	for _, c := range b.classes {
		if !c.Date.Before(now) {
			classes = append(classes, c)
		}
	}
	sort.SliceStable(classes, func(i, j int) bool {
		return classes[i].Date.Before(classes[j].Date)
	})
	return classes, nil
}

func (b *MemoryBackend) Revenue(_ context.Context, start, end time.Time) (float64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var total float64
	for _, p := range b.payments {
		if p.PaymentDate.Before(start) || p.PaymentDate.After(end) {
			continue
		}
		total += p.Amount
	}
	return total, nil
}

func (b *MemoryBackend) ClientStats(_ context.Context) ([]StatusCount, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	counts := map[string]int{}
	for _, c := range b.clients {
		counts[c.Status]++
	}

	stats := make([]StatusCount, 0, len(counts))
	for status, count := range counts {
		stats = append(stats, StatusCount{Status: status, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Status < stats[j].Status
	})
	return stats, nil
}

func (b *MemoryBackend) AttendanceStats(_ context.Context, className string) ([]AttendanceStat, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := []AttendanceStat{}
	for _, c := range b.classes {
		if className != "" && !containsFold(c.Name, className) {
			continue
		}
		stats = append(stats, AttendanceStat{
			Name:          c.Name,
			Instructor:    c.Instructor,
			Date:          c.Date,
			AttendeeCount: len(c.Attendees),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Date.Before(stats[j].Date)
	})
	return stats, nil
}

// TopCourses groups orders by course, then sorts by count descending, then
// truncates to limit. Ties keep first-seen order, matching the store's
// natural grouping order.
func (b *MemoryBackend) TopCourses(_ context.Context, limit int) ([]CourseEnrollment, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultTopCoursesLimit
	}

	counts := map[ID]int{}
	seen := []ID{}
	for _, o := range b.orders {
		if counts[o.CourseID] == 0 {
			seen = append(seen, o.CourseID)
		}
		counts[o.CourseID]++
	}

	names := make(map[ID]string, len(b.courses))
	for _, c := range b.courses {
		names[c.ID] = c.Name
	}

	enrollments := make([]CourseEnrollment, 0, len(seen))
	for _, id := range seen {
		enrollments = append(enrollments, CourseEnrollment{
			CourseID:    id,
			Name:        names[id],
			Enrollments: counts[id],
		})
	}
	sort.SliceStable(enrollments, func(i, j int) bool {
		return enrollments[i].Enrollments > enrollments[j].Enrollments
	})
	if len(enrollments) > limit {
		enrollments = enrollments[:limit]
	}
	return enrollments, nil
}

func (b *MemoryBackend) EnrollmentTrends(_ context.Context) ([]EnrollmentTrend, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	type bucket struct {
		year, month int
	}
	grouped := map[bucket]*EnrollmentTrend{}
	for _, o := range b.orders {
		key := bucket{year: o.OrderDate.Year(), month: int(o.OrderDate.Month())}
		trend, ok := grouped[key]
		if !ok {
			trend = &EnrollmentTrend{Year: key.year, Month: key.month}
			grouped[key] = trend
		}
		trend.Enrollments++
		trend.Revenue += o.Amount
	}

	trends := make([]EnrollmentTrend, 0, len(grouped))
	for _, t := range grouped {
		trends = append(trends, *t)
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Year != trends[j].Year {
			return trends[i].Year < trends[j].Year
		}
		return trends[i].Month < trends[j].Month
	})
	return trends, nil
}
