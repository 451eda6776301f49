// Package repository holds the mongo-backed stores the services work against.
package repository

import (
	"MediCareHMS/db"
	"MediCareHMS/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// notFoundOr maps a missing document to a not-found error carrying msg.
func notFoundOr(err error, msg string) error {
	if db.IsNotFound(err) {
		return util.NotFound(msg)
	}
	return err
}

func conflictOr(err error, msg string) error {
	if db.IsDuplicate(err) {
		return util.Conflict(msg)
	}
	return err
}

func ensureID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}
