package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

var AppointmentStatuses = []string{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

// Appointment.Date carries date-only meaning and is stored as UTC midnight.
type Appointment struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Patient     primitive.ObjectID `json:"patient" bson:"patient"`
	PatientName string             `json:"patientName,omitempty" bson:"patientName,omitempty"`
	Doctor      primitive.ObjectID `json:"doctor" bson:"doctor"`
	DoctorName  string             `json:"doctorName,omitempty" bson:"doctorName,omitempty"`
	Department  string             `json:"department,omitempty" bson:"department,omitempty"`
	Date        time.Time          `json:"date" bson:"date"`
	Time        string             `json:"time" bson:"time"`
	Status      string             `json:"status" bson:"status"`
	Purpose     string             `json:"purpose,omitempty" bson:"purpose,omitempty"`
	Notes       string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (a Appointment) ScheduledDate() string   { return a.Date.UTC().Format(time.RFC3339) }
func (a Appointment) ScheduledTime() string   { return a.Time }
func (a Appointment) ScheduledStatus() string { return a.Status }

// CalendarDate is the YYYY-MM-DD day of the appointment.
func (a Appointment) CalendarDate() string {
	return a.Date.UTC().Format(time.DateOnly)
}

func ValidStatus(status string) bool {
	for _, s := range AppointmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CanTransition reports whether status may move from one value to another.
// Completed and Cancelled are terminal.
func CanTransition(from, to string) bool {
	if !ValidStatus(to) {
		return false
	}
	if from == to {
		return true
	}
	switch from {
	case StatusCompleted, StatusCancelled:
		return false
	case StatusConfirmed:
		return to != StatusPending
	}
	return true
}
