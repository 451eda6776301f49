package migrations

import (
	"context"

	"MediCareHMS/db"
	"MediCareHMS/models"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BackfillAppointmentStatus sets Pending on appointments stored without a status.
func BackfillAppointmentStatus(ctx context.Context, d *mongo.Database) error {
	result, err := d.Collection(db.AppointmentCollection).UpdateMany(
		ctx,
		bson.M{"$or": bson.A{
			bson.M{"status": bson.M{"$exists": false}},
			bson.M{"status": ""},
		}},
		bson.M{"$set": bson.M{"status": models.StatusPending}},
	)
	if err != nil {
		log.Error().Err(err).Msg("Migration failed: appointment status")
		return err
	}
	log.Info().Int64("updated", result.ModifiedCount).Msg("Migration applied: appointment status")
	return nil
}

// Run applies every migration in order.
func Run(ctx context.Context, d *mongo.Database) error {
	if err := EnsureIndexes(ctx, d); err != nil {
		return err
	}
	return BackfillAppointmentStatus(ctx, d)
}
