package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty" bson:"zipCode,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

type EmergencyContact struct {
	Name     string `json:"name,omitempty" bson:"name,omitempty"`
	Relation string `json:"relation,omitempty" bson:"relation,omitempty"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
}

type Patient struct {
	ID               primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	PatientID        string             `json:"patientId" bson:"patientId"`
	User             primitive.ObjectID `json:"user" bson:"user"`
	FullName         string             `json:"fullName" bson:"fullName"`
	Age              int                `json:"age" bson:"age"`
	Gender           string             `json:"gender" bson:"gender"`
	BloodGroup       string             `json:"bloodGroup,omitempty" bson:"bloodGroup,omitempty"`
	Contact          Contact            `json:"contact" bson:"contact"`
	Address          Address            `json:"address" bson:"address"`
	EmergencyContact *EmergencyContact  `json:"emergencyContact,omitempty" bson:"emergencyContact,omitempty"`
	MedicalHistory   []string           `json:"medicalHistory,omitempty" bson:"medicalHistory,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}
