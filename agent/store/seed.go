package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Seed builds a memory backend pre-loaded with a small studio dataset.
// Dates are offsets from now so week and upcoming queries stay meaningful.
func Seed(now time.Time) *MemoryBackend {
	clients := []Client{
		{
			ID:               primitive.NewObjectID(),
			Name:             "Priya Sharma",
			Email:            "priya@example.com",
			Phone:            "+919876543210",
			EnrolledServices: []string{"Yoga Beginner", "Pilates"},
			Status:           "active",
		},
		{
			ID:               primitive.NewObjectID(),
			Name:             "John Doe",
			Email:            "john@example.com",
			Phone:            "+919876543211",
			EnrolledServices: []string{"Yoga Advanced"},
			Status:           "inactive",
		},
		{
			ID:               primitive.NewObjectID(),
			Name:             "Meera Nair",
			Email:            "meera@example.com",
			Phone:            "+919876543212",
			EnrolledServices: []string{"Pilates"},
			Status:           "active",
		},
	}

	courses := []Course{
		{
			ID:         primitive.NewObjectID(),
			Name:       "Yoga Beginner",
			Instructor: "Amit Patel",
			Duration:   "4 weeks",
			Price:      5000,
			Status:     "active",
		},
		{
			ID:         primitive.NewObjectID(),
			Name:       "Pilates",
			Instructor: "Sarah Lee",
			Duration:   "6 weeks",
			Price:      6000,
			Status:     "active",
		},
		{
			ID:         primitive.NewObjectID(),
			Name:       "Yoga Advanced",
			Instructor: "Amit Patel",
			Duration:   "8 weeks",
			Price:      8000,
			Status:     "active",
		},
	}

	orders := []Order{
		{
			ID:        primitive.NewObjectID(),
			ClientID:  clients[0].ID,
			CourseID:  courses[0].ID,
			Status:    "paid",
			Amount:    5000,
			OrderDate: now.AddDate(0, 0, -35),
		},
		{
			ID:        primitive.NewObjectID(),
			ClientID:  clients[1].ID,
			CourseID:  courses[1].ID,
			Status:    "pending",
			Amount:    6000,
			OrderDate: now.AddDate(0, 0, -2),
		},
		{
			ID:        primitive.NewObjectID(),
			ClientID:  clients[2].ID,
			CourseID:  courses[1].ID,
			Status:    "partial",
			Amount:    6000,
			OrderDate: now.AddDate(0, 0, -10),
		},
	}

	payments := []Payment{
		{
			ID:          primitive.NewObjectID(),
			OrderID:     orders[0].ID,
			ClientID:    clients[0].ID,
			Amount:      5000,
			PaymentDate: now.AddDate(0, 0, -34),
			Status:      "completed",
		},
		{
			ID:          primitive.NewObjectID(),
			OrderID:     orders[1].ID,
			ClientID:    clients[1].ID,
			Amount:      3000,
			PaymentDate: now.AddDate(0, 0, -1),
			Status:      "partial",
		},
		{
			ID:          primitive.NewObjectID(),
			OrderID:     orders[2].ID,
			ClientID:    clients[2].ID,
			Amount:      2000,
			PaymentDate: now.AddDate(0, 0, -9),
			Status:      "partial",
		},
	}

	classes := []Class{
		{
			ID:         primitive.NewObjectID(),
			CourseID:   courses[0].ID,
			Name:       "Yoga Beginner - Session 1",
			Instructor: "Amit Patel",
			Date:       now.AddDate(0, 0, 1),
			Status:     "scheduled",
			Attendees:  []ID{clients[0].ID},
		},
		{
			ID:         primitive.NewObjectID(),
			CourseID:   courses[1].ID,
			Name:       "Pilates - Session 1",
			Instructor: "Sarah Lee",
			Date:       now.AddDate(0, 0, 3),
			Status:     "scheduled",
			Attendees:  []ID{clients[0].ID, clients[1].ID},
		},
		{
			ID:         primitive.NewObjectID(),
			CourseID:   courses[2].ID,
			Name:       "Yoga Advanced - Session 1",
			Instructor: "Amit Patel",
			Date:       now.AddDate(0, 0, 6),
			Status:     "scheduled",
			Attendees:  []ID{clients[1].ID},
		},
	}

	backend := NewMemoryBackend()
	backend.AddClients(clients...)
	backend.AddCourses(courses...)
	backend.AddOrders(orders...)
	backend.AddPayments(payments...)
	backend.AddClasses(classes...)
	return backend
}
