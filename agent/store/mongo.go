package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultOpTimeout = 10 * time.Second

// MongoBackend executes every read action against MongoDB. Each call is
// bounded by the configured per-operation timeout.
type MongoBackend struct {
	clients  *mongo.Collection
	orders   *mongo.Collection
	payments *mongo.Collection
	courses  *mongo.Collection
	classes  *mongo.Collection
	timeout  time.Duration
}

type MongoOption func(*MongoBackend)

func WithOpTimeout(timeout time.Duration) MongoOption {
	return func(b *MongoBackend) {
		if timeout > 0 {
			b.timeout = timeout
		}
	}
}

func NewMongoBackend(db *mongo.Database, opts ...MongoOption) (*MongoBackend, error) {
	if db == nil {
		return nil, errors.New("mongo database is required")
	}

	b := &MongoBackend{
		clients:  db.Collection("clients"),
		orders:   db.Collection("orders"),
		payments: db.Collection("payments"),
		courses:  db.Collection("courses"),
		classes:  db.Collection("classes"),
		timeout:  defaultOpTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b, nil
}

func (b *MongoBackend) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

// wrapErr keeps timeouts distinguishable from other store faults so the
// dispatcher can classify them.
func wrapErr(op string, err error) error {
	if mongo.IsTimeout(err) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %v: %w", op, err, context.DeadlineExceeded)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func substringMatch(value string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
}

func (b *MongoBackend) FindClient(ctx context.Context, query ClientQuery) (*Client, error) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	filter := bson.M{}
	if query.Name != "" {
		filter["name"] = substringMatch(query.Name)
	}
	if query.Email != "" {
		filter["email"] = query.Email
	}
	if query.Phone != "" {
		filter["phone"] = query.Phone
	}

	var client Client
	err := b.clients.FindOne(ctx, filter).Decode(&client)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find client", err)
	}
	return &client, nil
}

func (b *MongoBackend) ClientOrders(ctx context.Context, clientEmail string) ([]Order, bool, error) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	var client Client
	err := b.clients.FindOne(ctx, bson.M{"email": clientEmail}).Decode(&client)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrapErr("find client by email", err)
	}

	cursor, err := b.orders.Find(ctx, bson.M{"client_id": client.ID})
	if err != nil {
		return nil, true, wrapErr("find client orders", err)
	}

	orders := []Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, true, wrapErr("decode client orders", err)
	}
	return orders, true, nil
}

func (b *MongoBackend) OrderByID(ctx context.Context, orderID ID) (*OrderDetail, error) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	var order Order
	err := b.orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find order", err)
	}

	detail := &OrderDetail{Order: order}

	// Best-effort enrichment: a dangling client reference leaves ClientInfo
	// nil without failing the primary lookup.
	var client Client
	err = b.clients.FindOne(ctx, bson.M{"_id": order.ClientID}).Decode(&client)
	if err == nil {
		detail.ClientInfo = &ClientInfo{Name: client.Name, Email: client.Email}
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, wrapErr("enrich order client", err)
	}

	return detail, nil
}

func (b *MongoBackend) PaymentsForOrder(ctx context.Context, orderID ID) ([]Payment, error) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	cursor, err := b.payments.Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return nil, wrapErr("find payments", err)
	}

	payments := []Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, wrapErr("decode payments", err)
	}
	return payments, nil
}

// PendingPayments joins each payment to its parent order. A payment is
// included when its own status is pending or partial OR the parent order's
// status is pending, even if the payment itself is completed.
func (b *MongoBackend) PendingPayments(ctx context.Context) ([]Payment, error) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "orders",
			"localField":   "order_id",
			"foreignField": "_id",
			"as":           "order",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$order",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$match", Value: bson.M{
			"$or": bson.A{
				bson.M{"status": bson.M{"$in": bson.A{"pending", "partial"}}},
				bson.M{"order.status": "pending"},
			},
		}}},
		bson.D{{Key: "$project", Value: bson.M{"order": 0}}},
	}

	cursor, err := b.payments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapErr("aggregate pending payments", err)
	}

	payments := []Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, wrapErr("decode pending payments", err)
	}
	return payments, nil
}

func (b *MongoBackend) ClassesBetween(ctx context.Context, start, end time.Time) ([]Class, error) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	filter := bson.M{"date": bson.M{"$gte": start, "$lte": end}}
	cursor, err := b.classes.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, wrapErr("find classes", err)
	}

	classes := []Class{}
	if err := cursor.All(ctx, &classes); err != nil {
		return nil, wrapErr("decode classes", err)
	}
	return classes, nil
}

func (b *MongoBackend) CoursesByInstructor(ctx context.Context, instructor string) ([]Course, error) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	cursor, err := b.courses.Find(ctx, bson.M{"instructor": substringMatch(instructor)})
	if err != nil {
		return nil, wrapErr("find courses", err)
	}

	courses := []Course{}
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, wrapErr("decode courses", err)
	}
	return courses, nil
}

func (b *MongoBackend) UpcomingClasses(ctx context.Context, now time.Time) ([]Class, error) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	filter := bson.M{"date": bson.M{"$gte": now}}
	cursor, err := b.classes.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, wrapErr("find upcoming classes", err)
	}

	classes := []Class{}
	if err := cursor.All(ctx, &classes); err != nil {
		return nil, wrapErr("decode upcoming classes", err)
	}
	return classes, nil
}

func (b *MongoBackend) Revenue(ctx context.Context, start, end time.Time) (float64, error) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"payment_date": bson.M{"$gte": start, "$lte": end},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := b.payments.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, wrapErr("aggregate revenue", err)
	}

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, wrapErr("decode revenue", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func (b *MongoBackend) ClientStats(ctx context.Context) ([]StatusCount, error) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := b.clients.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapErr("aggregate client stats", err)
	}

	stats := []StatusCount{}
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, wrapErr("decode client stats", err)
	}
	return stats, nil
}

func (b *MongoBackend) AttendanceStats(ctx context.Context, className string) ([]AttendanceStat, error) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{}
	if className != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{
			"name": substringMatch(className),
		}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$project", Value: bson.M{
			"name":       1,
			"instructor": 1,
			"date":       1,
			"attendee_count": bson.M{
				"$size": bson.M{"$ifNull": bson.A{"$attendees", bson.A{}}},
			},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "date", Value: 1}}}},
	)

	cursor, err := b.classes.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapErr("aggregate attendance", err)
	}

	stats := []AttendanceStat{}
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, wrapErr("decode attendance", err)
	}
	return stats, nil
}

// TopCourses ranks courses by order count. The stage order is group, then
// sort, then limit; limiting earlier would drop the wrong groups.
func (b *MongoBackend) TopCourses(ctx context.Context, limit int) ([]CourseEnrollment, error) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	if limit <= 0 {
		limit = DefaultTopCoursesLimit
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":         "$course_id",
			"enrollments": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "enrollments", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "courses",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "course",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$course",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"enrollments": 1,
			"name":        "$course.name",
		}}},
	}

	cursor, err := b.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapErr("aggregate top courses", err)
	}

	enrollments := []CourseEnrollment{}
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, wrapErr("decode top courses", err)
	}
	return enrollments, nil
}

func (b *MongoBackend) EnrollmentTrends(ctx context.Context) ([]EnrollmentTrend, error) {
	ctx, cancel := b.opCtx(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$order_date"},
				"month": bson.M{"$month": "$order_date"},
			},
			"enrollments": bson.M{"$sum": 1},
			"revenue":     bson.M{"$sum": "$amount"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
		}}},
	}

	cursor, err := b.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapErr("aggregate enrollment trends", err)
	}

	var rows []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Enrollments int     `bson:"enrollments"`
		Revenue     float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, wrapErr("decode enrollment trends", err)
	}

	trends := make([]EnrollmentTrend, 0, len(rows))
	for _, row := range rows {
		trends = append(trends, EnrollmentTrend{
			Year:        row.ID.Year,
			Month:       row.ID.Month,
			Enrollments: row.Enrollments,
			Revenue:     row.Revenue,
		})
	}
	return trends, nil
}
