package services

import (
	"context"

	"MediCareHMS/models"
	"MediCareHMS/repository"
	"MediCareHMS/role"
	"MediCareHMS/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByLogin(ctx context.Context, identifier string) (*models.User, error)
	Taken(ctx context.Context, username, email string) (bool, bool, error)
	Replace(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AllowedAdminStore interface {
	IsAllowed(ctx context.Context, email string) (bool, error)
	Upsert(ctx context.Context, a models.AllowedAdmin) error
}

type PatientStore interface {
	Create(ctx context.Context, p *models.Patient) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Patient, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Patient, error)
	List(ctx context.Context) ([]models.Patient, error)
	Replace(ctx context.Context, p *models.Patient) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type DoctorStore interface {
	Create(ctx context.Context, d *models.Doctor) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error)
	List(ctx context.Context, f repository.DoctorFilter) ([]models.Doctor, error)
	Replace(ctx context.Context, d *models.Doctor) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AppointmentStore interface {
	Create(ctx context.Context, a *models.Appointment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	List(ctx context.Context, f repository.AppointmentFilter) ([]models.Appointment, error)
	Replace(ctx context.Context, a *models.Appointment) error
}

type BillStore interface {
	Create(ctx context.Context, b *models.Bill) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bill, error)
	List(ctx context.Context, patient *primitive.ObjectID) ([]models.Bill, error)
	Replace(ctx context.Context, b *models.Bill) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForUser(ctx context.Context, user primitive.ObjectID) ([]models.Notification, error)
	MarkRead(ctx context.Context, user, id primitive.ObjectID) error
	MarkAllRead(ctx context.Context, user primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, user, id primitive.ObjectID) error
}

type CatalogStore interface {
	List(ctx context.Context) ([]models.CatalogItem, error)
	Create(ctx context.Context, item *models.CatalogItem) error
	Ensure(ctx context.Context, name string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Mailer delivers a plain notification email.
type Mailer interface {
	Send(to, subject, body string) error
}

// Actor is the authenticated caller a service acts on behalf of.
type Actor struct {
	UserID primitive.ObjectID
	Role   string
}

func (a Actor) Is(r string) bool {
	return a.Role == r
}

func (a Actor) IsAdmin() bool {
	return a.Role == role.Admin
}

// ParseID turns a hex id from a path or body into an ObjectID.
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, util.Validation(util.INVALID_ID)
	}
	return id, nil
}
