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

// Catalog stores named lookup entries: specializations or departments.
type Catalog struct {
	Name string
	coll *mongo.Collection
}

func NewCatalog(d *mongo.Database, collection string) *Catalog {
	return &Catalog{Name: collection, coll: d.Collection(collection)}
}

func (r *Catalog) List(ctx context.Context) ([]models.CatalogItem, error) {
	return db.FindAll[models.CatalogItem](ctx, r.coll, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *Catalog) Create(ctx context.Context, item *models.CatalogItem) error {
	ensureID(&item.ID)
	_, err := db.CreateOne(ctx, r.coll, item)
	return conflictOr(err, util.CATALOG_ITEM_EXISTS)
}

// Ensure inserts name unless an entry with that name already exists.
func (r *Catalog) Ensure(ctx context.Context, name string) error {
	now := time.Now().UTC()
	_, err := db.UpsertOne(ctx, r.coll, bson.M{"name": name}, bson.M{
		"$setOnInsert": bson.M{"name": name, "createdAt": now, "updatedAt": now},
	})
	return err
}

func (r *Catalog) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := db.DeleteOne(ctx, r.coll, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return util.NotFound(util.CATALOG_ITEM_NOT_FOUND)
	}
	return nil
}
