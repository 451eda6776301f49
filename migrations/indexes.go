package migrations

import (
	"context"

	"MediCareHMS/db"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type index struct {
	collection string
	keys       bson.D
	unique     bool
}

var indexes = []index{
	{db.UserCollection, bson.D{{Key: "email", Value: 1}}, true},
	{db.UserCollection, bson.D{{Key: "username", Value: 1}}, true},
	{db.AllowedAdminCollection, bson.D{{Key: "email", Value: 1}}, true},
	{db.PatientCollection, bson.D{{Key: "patientId", Value: 1}}, true},
	{db.PatientCollection, bson.D{{Key: "user", Value: 1}}, false},
	{db.DoctorCollection, bson.D{{Key: "doctorId", Value: 1}}, true},
	{db.DoctorCollection, bson.D{{Key: "user", Value: 1}}, false},
	{db.DoctorCollection, bson.D{{Key: "department", Value: 1}}, false},
	{db.AppointmentCollection, bson.D{{Key: "doctor", Value: 1}, {Key: "date", Value: 1}}, false},
	{db.AppointmentCollection, bson.D{{Key: "patient", Value: 1}}, false},
	{db.BillCollection, bson.D{{Key: "billNumber", Value: 1}}, true},
	{db.NotificationCollection, bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}, false},
	{db.SpecializationCollection, bson.D{{Key: "name", Value: 1}}, true},
	{db.DepartmentCollection, bson.D{{Key: "name", Value: 1}}, true},
}

// EnsureIndexes creates every index. Existing identical indexes are left alone.
func EnsureIndexes(ctx context.Context, d *mongo.Database) error {
	for _, ix := range indexes {
		model := mongo.IndexModel{Keys: ix.keys, Options: options.Index().SetUnique(ix.unique)}
		name, err := d.Collection(ix.collection).Indexes().CreateOne(ctx, model)
		if err != nil {
			log.Error().Err(err).Str("collection", ix.collection).Msg("Migration failed: index")
			return err
		}
		log.Debug().Str("collection", ix.collection).Str("index", name).Msg("index ensured")
	}
	return nil
}
