package repository

import (
	"context"

	"MediCareHMS/db"
	"MediCareHMS/models"
	"MediCareHMS/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Patients struct {
	coll *mongo.Collection
}

func NewPatients(d *mongo.Database) *Patients {
	return &Patients{coll: d.Collection(db.PatientCollection)}
}

func (r *Patients) Create(ctx context.Context, p *models.Patient) error {
	ensureID(&p.ID)
	_, err := db.CreateOne(ctx, r.coll, p)
	return err
}

func (r *Patients) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Patient, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *Patients) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Patient, error) {
	return r.findOne(ctx, bson.M{"user": userID})
}

func (r *Patients) findOne(ctx context.Context, filter bson.M) (*models.Patient, error) {
	var p models.Patient
	if err := db.FindOne(ctx, r.coll, filter, &p); err != nil {
		return nil, notFoundOr(err, util.PATIENT_NOT_FOUND)
	}
	return &p, nil
}

func (r *Patients) List(ctx context.Context) ([]models.Patient, error) {
	return db.FindAll[models.Patient](ctx, r.coll, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *Patients) Replace(ctx context.Context, p *models.Patient) error {
	res, err := db.ReplaceOne(ctx, r.coll, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return util.NotFound(util.PATIENT_NOT_FOUND)
	}
	return nil
}

func (r *Patients) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := db.DeleteOne(ctx, r.coll, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return util.NotFound(util.PATIENT_NOT_FOUND)
	}
	return nil
}

// DoctorFilter narrows List; empty fields match everything.
type DoctorFilter struct {
	Specialization string
	Department     string
}

func (f DoctorFilter) bson() bson.M {
	q := bson.M{}
	if f.Specialization != "" {
		q["specialization"] = f.Specialization
	}
	if f.Department != "" {
		q["department"] = f.Department
	}
	return q
}

type Doctors struct {
	coll *mongo.Collection
}

func NewDoctors(d *mongo.Database) *Doctors {
	return &Doctors{coll: d.Collection(db.DoctorCollection)}
}

func (r *Doctors) Create(ctx context.Context, d *models.Doctor) error {
	ensureID(&d.ID)
	_, err := db.CreateOne(ctx, r.coll, d)
	return err
}

func (r *Doctors) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *Doctors) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error) {
	return r.findOne(ctx, bson.M{"user": userID})
}

func (r *Doctors) findOne(ctx context.Context, filter bson.M) (*models.Doctor, error) {
	var d models.Doctor
	if err := db.FindOne(ctx, r.coll, filter, &d); err != nil {
		return nil, notFoundOr(err, util.DOCTOR_NOT_FOUND)
	}
	return &d, nil
}

func (r *Doctors) List(ctx context.Context, f DoctorFilter) ([]models.Doctor, error) {
	return db.FindAll[models.Doctor](ctx, r.coll, f.bson(), options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *Doctors) Replace(ctx context.Context, d *models.Doctor) error {
	res, err := db.ReplaceOne(ctx, r.coll, bson.M{"_id": d.ID}, d)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return util.NotFound(util.DOCTOR_NOT_FOUND)
	}
	return nil
}

func (r *Doctors) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := db.DeleteOne(ctx, r.coll, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return util.NotFound(util.DOCTOR_NOT_FOUND)
	}
	return nil
}
