package services

import (
	"context"
	"time"

	"MediCareHMS/models"
	"MediCareHMS/role"
	"MediCareHMS/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PatientUpdate carries the editable profile fields. Nil means unchanged.
type PatientUpdate struct {
	FullName         *string                  `json:"fullName"`
	Age              *int                     `json:"age" binding:"omitempty,gte=0,lte=150"`
	Gender           *string                  `json:"gender"`
	BloodGroup       *string                  `json:"bloodGroup"`
	Contact          *models.Contact          `json:"contact"`
	Address          *models.Address          `json:"address"`
	EmergencyContact *models.EmergencyContact `json:"emergencyContact"`
	MedicalHistory   []string                 `json:"medicalHistory"`
}

type PatientService struct {
	Patients PatientStore
	Users    UserStore
	Now      func() time.Time
}

func (s *PatientService) List(ctx context.Context) ([]models.Patient, error) {
	patients, err := s.Patients.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error listing patients")
	}
	return patients, err
}

func (s *PatientService) Me(ctx context.Context, actor Actor) (*models.Patient, error) {
	p, err := s.Patients.FindByUser(ctx, actor.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Error from FindByUser")
	}
	return p, err
}

/*
* Fetch the patient
* A patient may only read its own profile
 */
func (s *PatientService) Get(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.Patient, error) {
	p, err := s.Patients.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("Error from FindByID")
		return nil, err
	}
	if actor.Is(role.Patient) && p.User != actor.UserID {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	return p, nil
}

/*
* Admins update anyone, patients only themselves
* patientId, user and timestamps are never taken from the request
 */
func (s *PatientService) Update(ctx context.Context, actor Actor, id primitive.ObjectID, in PatientUpdate) (*models.Patient, error) {
	p, err := s.Patients.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("Error from FindByID")
		return nil, err
	}
	if !actor.IsAdmin() && p.User != actor.UserID {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}

	if in.FullName != nil {
		if *in.FullName == "" {
			return nil, util.Validation(util.NAME_REQUIRED)
		}
		p.FullName = *in.FullName
	}
	if in.Age != nil {
		p.Age = *in.Age
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.BloodGroup != nil {
		p.BloodGroup = *in.BloodGroup
	}
	if in.Contact != nil {
		p.Contact = *in.Contact
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.EmergencyContact != nil {
		p.EmergencyContact = in.EmergencyContact
	}
	if in.MedicalHistory != nil {
		p.MedicalHistory = in.MedicalHistory
	}
	p.UpdatedAt = now(s.Now)

	if err := s.Patients.Replace(ctx, p); err != nil {
		log.Error().Err(err).Msg("Error updating patient")
		return nil, err
	}
	return p, nil
}

// Delete removes the profile and the login that owns it.
func (s *PatientService) Delete(ctx context.Context, id primitive.ObjectID) error {
	p, err := s.Patients.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("Error from FindByID")
		return err
	}
	if err := s.Patients.Delete(ctx, id); err != nil {
		log.Error().Err(err).Msg("Error deleting patient")
		return err
	}
	if err := s.Users.Delete(ctx, p.User); err != nil {
		log.Error().Err(err).Msg("Error deleting patient user")
		return err
	}
	return nil
}

func now(fn func() time.Time) time.Time {
	if fn != nil {
		return fn().UTC()
	}
	return time.Now().UTC()
}
