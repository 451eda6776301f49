package repository

import (
	"context"
	"strings"

	"MediCareHMS/db"
	"MediCareHMS/models"
	"MediCareHMS/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Users struct {
	coll *mongo.Collection
}

func NewUsers(d *mongo.Database) *Users {
	return &Users{coll: d.Collection(db.UserCollection)}
}

func (r *Users) Create(ctx context.Context, u *models.User) error {
	ensureID(&u.ID)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	_, err := db.CreateOne(ctx, r.coll, u)
	return conflictOr(err, util.EMAIL_ALREADY_EXISTS)
}

func (r *Users) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := db.FindOne(ctx, r.coll, bson.M{"_id": id}, &u); err != nil {
		return nil, notFoundOr(err, util.USER_NOT_FOUND)
	}
	return &u, nil
}

// FindByLogin matches either the email (case-insensitive) or the username.
func (r *Users) FindByLogin(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	filter := bson.M{"$or": bson.A{
		bson.M{"email": strings.ToLower(identifier)},
		bson.M{"username": identifier},
	}}
	var u models.User
	if err := db.FindOne(ctx, r.coll, filter, &u); err != nil {
		return nil, notFoundOr(err, util.USER_NOT_FOUND)
	}
	return &u, nil
}

// Taken reports whether the username or email already belong to a user.
func (r *Users) Taken(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error) {
	if username = strings.TrimSpace(username); username != "" {
		n, err := r.coll.CountDocuments(ctx, bson.M{"username": username})
		if err != nil {
			return false, false, err
		}
		usernameTaken = n > 0
	}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		n, err := r.coll.CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			return false, false, err
		}
		emailTaken = n > 0
	}
	return usernameTaken, emailTaken, nil
}

func (r *Users) Replace(ctx context.Context, u *models.User) error {
	res, err := db.ReplaceOne(ctx, r.coll, bson.M{"_id": u.ID}, u)
	if err != nil {
		return conflictOr(err, util.EMAIL_ALREADY_EXISTS)
	}
	if res.MatchedCount == 0 {
		return util.NotFound(util.USER_NOT_FOUND)
	}
	return nil
}

func (r *Users) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := db.DeleteOne(ctx, r.coll, bson.M{"_id": id})
	return err
}

type AllowedAdmins struct {
	coll *mongo.Collection
}

func NewAllowedAdmins(d *mongo.Database) *AllowedAdmins {
	return &AllowedAdmins{coll: d.Collection(db.AllowedAdminCollection)}
}

func (r *AllowedAdmins) IsAllowed(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *AllowedAdmins) Upsert(ctx context.Context, a models.AllowedAdmin) error {
	email := strings.ToLower(strings.TrimSpace(a.Email))
	_, err := db.UpsertOne(ctx, r.coll, bson.M{"email": email}, bson.M{"$set": bson.M{"email": email, "name": a.Name}})
	return err
}
