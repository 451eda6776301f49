package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Contact struct {
	Phone string `json:"phone" bson:"phone"`
	Email string `json:"email" bson:"email"`
}

// Availability is a doctor's weekly window, e.g. Monday/Wednesday 09:00-17:00.
type Availability struct {
	Days      []string `json:"days" bson:"days"`
	StartTime string   `json:"startTime" bson:"startTime"`
	EndTime   string   `json:"endTime" bson:"endTime"`
}

type Doctor struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	DoctorID        string             `json:"doctorId" bson:"doctorId"`
	User            primitive.ObjectID `json:"user" bson:"user"`
	Name            string             `json:"name" bson:"name"`
	Specialization  string             `json:"specialization" bson:"specialization"`
	Department      string             `json:"department" bson:"department"`
	Contact         Contact            `json:"contact" bson:"contact"`
	Availability    Availability       `json:"availability" bson:"availability"`
	Qualification   []string           `json:"qualification" bson:"qualification"`
	Experience      int                `json:"experience" bson:"experience"`
	ConsultationFee float64            `json:"consultationFee" bson:"consultationFee"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}
