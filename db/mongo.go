package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UserCollection           = "users"
	AllowedAdminCollection   = "allowedadmins"
	PatientCollection        = "patients"
	DoctorCollection         = "doctors"
	AppointmentCollection    = "appointments"
	BillCollection           = "bills"
	NotificationCollection   = "notifications"
	SpecializationCollection = "specializations"
	DepartmentCollection     = "departments"
)

var DB *mongo.Database

/*
* Connect with a bounded timeout
* Ping to make sure the server is reachable
* Keep the database handle for migrations and jobs
 */
func Connect(ctx context.Context, uri, name string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Info().Str("database", name).Msg("connected to MongoDB")
	DB = client.Database(name)
	return DB, nil
}

func Disconnect(ctx context.Context) error {
	if DB == nil {
		return nil
	}
	return DB.Client().Disconnect(ctx)
}

// FindOne decodes the first match into out and returns mongo.ErrNoDocuments when none.
func FindOne(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}) error {
	return coll.FindOne(ctx, filter).Decode(out)
}

// FindAll decodes every match into a slice of T.
func FindAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func CreateOne(ctx context.Context, coll *mongo.Collection, doc interface{}) (*mongo.InsertOneResult, error) {
	return coll.InsertOne(ctx, doc)
}

func UpdateOne(ctx context.Context, coll *mongo.Collection, filter, update interface{}) (*mongo.UpdateResult, error) {
	return coll.UpdateOne(ctx, filter, update)
}

func ReplaceOne(ctx context.Context, coll *mongo.Collection, filter, doc interface{}) (*mongo.UpdateResult, error) {
	return coll.ReplaceOne(ctx, filter, doc)
}

// UpsertOne sets fields on the first match or inserts them when none exists.
func UpsertOne(ctx context.Context, coll *mongo.Collection, filter, update interface{}) (*mongo.UpdateResult, error) {
	return coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
}

func DeleteOne(ctx context.Context, coll *mongo.Collection, filter interface{}) (*mongo.DeleteResult, error) {
	return coll.DeleteOne(ctx, filter)
}

func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func IsDuplicate(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
