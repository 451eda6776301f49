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

type Bills struct {
	coll *mongo.Collection
}

func NewBills(d *mongo.Database) *Bills {
	return &Bills{coll: d.Collection(db.BillCollection)}
}

func (r *Bills) Create(ctx context.Context, b *models.Bill) error {
	ensureID(&b.ID)
	_, err := db.CreateOne(ctx, r.coll, b)
	return err
}

func (r *Bills) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bill, error) {
	var b models.Bill
	if err := db.FindOne(ctx, r.coll, bson.M{"_id": id}, &b); err != nil {
		return nil, notFoundOr(err, util.BILL_NOT_FOUND)
	}
	return &b, nil
}

// List returns every bill, or only the patient's when patient is set.
func (r *Bills) List(ctx context.Context, patient *primitive.ObjectID) ([]models.Bill, error) {
	filter := bson.M{}
	if patient != nil {
		filter["patient"] = *patient
	}
	return db.FindAll[models.Bill](ctx, r.coll, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *Bills) Replace(ctx context.Context, b *models.Bill) error {
	res, err := db.ReplaceOne(ctx, r.coll, bson.M{"_id": b.ID}, b)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return util.NotFound(util.BILL_NOT_FOUND)
	}
	return nil
}

type Notifications struct {
	coll *mongo.Collection
}

func NewNotifications(d *mongo.Database) *Notifications {
	return &Notifications{coll: d.Collection(db.NotificationCollection)}
}

func (r *Notifications) Create(ctx context.Context, n *models.Notification) error {
	ensureID(&n.ID)
	_, err := db.CreateOne(ctx, r.coll, n)
	return err
}

func (r *Notifications) ListForUser(ctx context.Context, user primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return db.FindAll[models.Notification](ctx, r.coll, bson.M{"user": user}, opts)
}

// MarkRead flags one of the user's notifications as read.
func (r *Notifications) MarkRead(ctx context.Context, user, id primitive.ObjectID) error {
	res, err := db.UpdateOne(ctx, r.coll, bson.M{"_id": id, "user": user}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return util.NotFound(util.NOTIFICATION_NOT_FOUND)
	}
	return nil
}

func (r *Notifications) MarkAllRead(ctx context.Context, user primitive.ObjectID) (int64, error) {
	res, err := r.coll.UpdateMany(ctx, bson.M{"user": user, "read": false}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *Notifications) Delete(ctx context.Context, user, id primitive.ObjectID) error {
	res, err := db.DeleteOne(ctx, r.coll, bson.M{"_id": id, "user": user})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return util.NotFound(util.NOTIFICATION_NOT_FOUND)
	}
	return nil
}
