package repository

import (
	"context"
	"time"

	"MediCareHMS/db"
	"MediCareHMS/models"
	"MediCareHMS/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AppointmentFilter narrows List. Date matches the whole UTC day it falls on.
type AppointmentFilter struct {
	Patient   *primitive.ObjectID
	Doctor    *primitive.ObjectID
	Date      *time.Time
	Statuses  []string
	NotStatus string
}

func (f AppointmentFilter) bson() bson.M {
	q := bson.M{}
	if f.Patient != nil {
		q["patient"] = *f.Patient
	}
	if f.Doctor != nil {
		q["doctor"] = *f.Doctor
	}
	if f.Date != nil {
		y, m, d := f.Date.UTC().Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		q["date"] = bson.M{"$gte": start, "$lt": start.AddDate(0, 0, 1)}
	}
	status := bson.M{}
	if len(f.Statuses) > 0 {
		status["$in"] = f.Statuses
	}
	if f.NotStatus != "" {
		status["$ne"] = f.NotStatus
	}
	if len(status) > 0 {
		q["status"] = status
	}
	return q
}

type Appointments struct {
	coll *mongo.Collection
}

func NewAppointments(d *mongo.Database) *Appointments {
	return &Appointments{coll: d.Collection(db.AppointmentCollection)}
}

func (r *Appointments) Create(ctx context.Context, a *models.Appointment) error {
	ensureID(&a.ID)
	_, err := db.CreateOne(ctx, r.coll, a)
	return err
}

func (r *Appointments) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var a models.Appointment
	if err := db.FindOne(ctx, r.coll, bson.M{"_id": id}, &a); err != nil {
		return nil, notFoundOr(err, util.APPOINTMENT_NOT_FOUND)
	}
	return &a, nil
}

func (r *Appointments) List(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "time", Value: 1}})
	return db.FindAll[models.Appointment](ctx, r.coll, f.bson(), opts)
}

func (r *Appointments) Replace(ctx context.Context, a *models.Appointment) error {
	res, err := db.ReplaceOne(ctx, r.coll, bson.M{"_id": a.ID}, a)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return util.NotFound(util.APPOINTMENT_NOT_FOUND)
	}
	return nil
}
