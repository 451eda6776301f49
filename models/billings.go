package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BillPending   = "Pending"
	BillPaid      = "Paid"
	BillCancelled = "Cancelled"
)

type BillItem struct {
	Description string  `json:"description" bson:"description" binding:"required"`
	Quantity    int     `json:"quantity" bson:"quantity" binding:"gte=1"`
	UnitPrice   float64 `json:"unitPrice" bson:"unitPrice" binding:"gte=0"`
}

type Bill struct {
	ID            primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	BillNumber    string              `json:"billNumber" bson:"billNumber"`
	Patient       primitive.ObjectID  `json:"patient" bson:"patient"`
	PatientName   string              `json:"patientName,omitempty" bson:"patientName,omitempty"`
	Appointment   *primitive.ObjectID `json:"appointment,omitempty" bson:"appointment,omitempty"`
	Doctor        *primitive.ObjectID `json:"doctor,omitempty" bson:"doctor,omitempty"`
	DoctorName    string              `json:"doctorName,omitempty" bson:"doctorName,omitempty"`
	Items         []BillItem          `json:"items" bson:"items"`
	Subtotal      float64             `json:"subtotal" bson:"subtotal"`
	Tax           float64             `json:"tax" bson:"tax"`
	Discount      float64             `json:"discount" bson:"discount"`
	Total         float64             `json:"total" bson:"total"`
	Status        string              `json:"status" bson:"status"`
	PaymentMethod string              `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	PaidAt        *time.Time          `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// ComputeTotals fills Subtotal and Total from the items, tax and discount.
func (b *Bill) ComputeTotals() {
	subtotal := 0.0
	for _, it := range b.Items {
		subtotal += float64(it.Quantity) * it.UnitPrice
	}
	b.Subtotal = round2(subtotal)
	total := b.Subtotal + b.Tax - b.Discount
	if total < 0 {
		total = 0
	}
	b.Total = round2(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
