// Package store is the data access layer over the document store that owns
// clients, orders, payments, courses, and classes. Two backends implement
// the same contract: MongoBackend against a live MongoDB, and MemoryBackend
// for development mode and tests.
package store

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultTopCoursesLimit bounds the top-courses ranking when the caller
// does not supply a limit.
const DefaultTopCoursesLimit = 5

// ID is the document identifier type shared by both backends. ObjectIDs
// marshal to their stable hex form in JSON.
type ID = primitive.ObjectID

var ErrInvalidID = errors.New("invalid document id")

// ParseID decodes a hex document id.
func ParseID(raw string) (ID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

type Client struct {
	ID               ID       `bson:"_id,omitempty" json:"id"`
	Name             string   `bson:"name" json:"name"`
	Email            string   `bson:"email" json:"email"`
	Phone            string   `bson:"phone" json:"phone"`
	EnrolledServices []string `bson:"enrolled_services" json:"enrolled_services"`
	Status           string   `bson:"status" json:"status"`
}

type Course struct {
	ID         ID      `bson:"_id,omitempty" json:"id"`
	Name       string  `bson:"name" json:"name"`
	Instructor string  `bson:"instructor" json:"instructor"`
	Duration   string  `bson:"duration" json:"duration"`
	Price      float64 `bson:"price" json:"price"`
	Status     string  `bson:"status" json:"status"`
}

type Order struct {
	ID        ID        `bson:"_id,omitempty" json:"id"`
	ClientID  ID        `bson:"client_id" json:"client_id"`
	CourseID  ID        `bson:"course_id" json:"course_id"`
	Status    string    `bson:"status" json:"status"`
	Amount    float64   `bson:"amount" json:"amount"`
	OrderDate time.Time `bson:"order_date" json:"order_date"`
}

type Payment struct {
	ID          ID        `bson:"_id,omitempty" json:"id"`
	OrderID     ID        `bson:"order_id" json:"order_id"`
	ClientID    ID        `bson:"client_id" json:"client_id"`
	Amount      float64   `bson:"amount" json:"amount"`
	PaymentDate time.Time `bson:"payment_date" json:"payment_date"`
	Status      string    `bson:"status" json:"status"`
}

type Class struct {
	ID         ID        `bson:"_id,omitempty" json:"id"`
	CourseID   ID        `bson:"course_id" json:"course_id"`
	Name       string    `bson:"name" json:"name"`
	Instructor string    `bson:"instructor" json:"instructor"`
	Date       time.Time `bson:"date" json:"date"`
	Status     string    `bson:"status" json:"status"`
	Attendees  []ID      `bson:"attendees" json:"attendees"`
}

// ClientQuery selects a client by any combination of identity fields.
// Name matches case-insensitively by substring; email and phone are exact.
type ClientQuery struct {
	Name  string
	Email string
	Phone string
}

func (q ClientQuery) Empty() bool {
	return q.Name == "" && q.Email == "" && q.Phone == ""
}

// ClientInfo is the enrichment attached to an order lookup. The pointer is
// nil when the order's client reference dangles.
type ClientInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderDetail struct {
	Order
	ClientInfo *ClientInfo `json:"client_info,omitempty"`
}

type StatusCount struct {
	Status string `bson:"_id" json:"status"`
	Count  int    `bson:"count" json:"count"`
}

type AttendanceStat struct {
	Name          string    `bson:"name" json:"name"`
	Instructor    string    `bson:"instructor" json:"instructor"`
	Date          time.Time `bson:"date" json:"date"`
	AttendeeCount int       `bson:"attendee_count" json:"attendee_count"`
}

type CourseEnrollment struct {
	CourseID    ID     `bson:"_id" json:"course_id"`
	Name        string `bson:"name" json:"name"`
	Enrollments int    `bson:"enrollments" json:"enrollments"`
}

type EnrollmentTrend struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Enrollments int     `json:"enrollments"`
	Revenue     float64 `json:"revenue"`
}
