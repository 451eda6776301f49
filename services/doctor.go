package services

import (
	"context"
	"strings"
	"time"

	"MediCareHMS/apptime"
	"MediCareHMS/cache"
	"MediCareHMS/models"
	"MediCareHMS/repository"
	"MediCareHMS/role"
	"MediCareHMS/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultDoctorPassword = "doctor123"

type CreateDoctorInput struct {
	Name            string              `json:"name" binding:"required"`
	Email           string              `json:"email" binding:"required,email"`
	Username        string              `json:"username"`
	Password        string              `json:"password"`
	Phone           string              `json:"phone"`
	Specialization  string              `json:"specialization" binding:"required"`
	Department      string              `json:"department"`
	Availability    models.Availability `json:"availability"`
	Qualification   []string            `json:"qualification"`
	Experience      int                 `json:"experience" binding:"gte=0"`
	ConsultationFee float64             `json:"consultationFee" binding:"gte=0"`
}

type DoctorUpdate struct {
	Name            *string              `json:"name"`
	Specialization  *string              `json:"specialization"`
	Department      *string              `json:"department"`
	Contact         *models.Contact      `json:"contact"`
	Availability    *models.Availability `json:"availability"`
	Qualification   []string             `json:"qualification"`
	Experience      *int                 `json:"experience" binding:"omitempty,gte=0"`
	ConsultationFee *float64             `json:"consultationFee" binding:"omitempty,gte=0"`
}

type DoctorService struct {
	Doctors DoctorStore
	Users   UserStore
	Auth    *AuthService
	Cache   cache.Cache
	TTL     time.Duration
	Now     func() time.Time
}

func (s *DoctorService) List(ctx context.Context, f repository.DoctorFilter) ([]models.Doctor, error) {
	doctors, err := s.Doctors.List(ctx, f)
	if err != nil {
		log.Error().Err(err).Msg("Error listing doctors")
	}
	return doctors, err
}

func (s *DoctorService) ByDepartment(ctx context.Context, department string) ([]models.Doctor, error) {
	return s.List(ctx, repository.DoctorFilter{Department: department})
}

/*
* Read through the DOCTOR: cache entry
* Fall back to the store and refill the cache
 */
func (s *DoctorService) Get(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	key := cache.DoctorKey + id.Hex()
	if s.Cache != nil {
		var cached models.Doctor
		if ok, err := s.Cache.GetCache(ctx, key, &cached); err == nil && ok {
			return &cached, nil
		}
	}
	d, err := s.Doctors.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("Error from FindByID")
		return nil, err
	}
	if s.Cache != nil {
		if err := s.Cache.SetCache(ctx, key, d, s.TTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Error caching doctor")
		}
	}
	return d, nil
}

func (s *DoctorService) forget(ctx context.Context, id primitive.ObjectID) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.DeleteCache(ctx, cache.DoctorKey+id.Hex()); err != nil {
		log.Warn().Err(err).Msg("Error dropping doctor cache")
	}
}

func (s *DoctorService) Me(ctx context.Context, actor Actor) (*models.Doctor, error) {
	d, err := s.Doctors.FindByUser(ctx, actor.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Error from FindByUser")
	}
	return d, err
}

func validateAvailability(av models.Availability) error {
	if av.StartTime == "" && av.EndTime == "" {
		return nil
	}
	start, err := apptime.Clock(av.StartTime)
	if err != nil {
		return util.Validation(util.INVALID_TIME)
	}
	end, err := apptime.Clock(av.EndTime)
	if err != nil || end <= start {
		return util.Validation(util.INVALID_TIME)
	}
	return nil
}

/*
* Validate the weekly window
* Create the doctor login, defaulting the password
* Create the doctor profile linked to it
 */
func (s *DoctorService) Create(ctx context.Context, in CreateDoctorInput) (*models.Doctor, error) {
	if err := validateAvailability(in.Availability); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = strings.SplitN(strings.ToLower(strings.TrimSpace(in.Email)), "@", 2)[0]
	}
	password := in.Password
	if password == "" {
		password = DefaultDoctorPassword
	}
	user, err := s.Auth.createUser(ctx, username, in.Email, password, role.Doctor)
	if err != nil {
		return nil, err
	}

	department := in.Department
	if department == "" {
		department = in.Specialization
	}
	d := &models.Doctor{
		DoctorID:        util.GenerateCode(util.DoctorPrefix),
		User:            user.ID,
		Name:            strings.TrimSpace(in.Name),
		Specialization:  in.Specialization,
		Department:      department,
		Contact:         models.Contact{Phone: in.Phone, Email: user.Email},
		Availability:    in.Availability,
		Qualification:   in.Qualification,
		Experience:      in.Experience,
		ConsultationFee: in.ConsultationFee,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.CreatedAt,
	}
	if err := s.Doctors.Create(ctx, d); err != nil {
		log.Error().Err(err).Msg("Error creating doctor")
		if derr := s.Users.Delete(ctx, user.ID); derr != nil {
			log.Error().Err(derr).Msg("Error rolling back doctor user")
		}
		return nil, err
	}
	return d, nil
}

/*
* Admins update anyone, doctors only themselves
* Drop the cached profile after saving
 */
func (s *DoctorService) Update(ctx context.Context, actor Actor, id primitive.ObjectID, in DoctorUpdate) (*models.Doctor, error) {
	d, err := s.Doctors.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("Error from FindByID")
		return nil, err
	}
	if !actor.IsAdmin() && d.User != actor.UserID {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, util.Validation(util.NAME_REQUIRED)
		}
		d.Name = *in.Name
	}
	if in.Specialization != nil {
		d.Specialization = *in.Specialization
	}
	if in.Department != nil {
		d.Department = *in.Department
	}
	if in.Contact != nil {
		d.Contact = *in.Contact
	}
	if in.Availability != nil {
		if err := validateAvailability(*in.Availability); err != nil {
			return nil, err
		}
		d.Availability = *in.Availability
	}
	if in.Qualification != nil {
		d.Qualification = in.Qualification
	}
	if in.Experience != nil {
		d.Experience = *in.Experience
	}
	if in.ConsultationFee != nil {
		d.ConsultationFee = *in.ConsultationFee
	}
	d.UpdatedAt = now(s.Now)

	if err := s.Doctors.Replace(ctx, d); err != nil {
		log.Error().Err(err).Msg("Error updating doctor")
		return nil, err
	}
	s.forget(ctx, d.ID)
	return d, nil
}

func (s *DoctorService) Delete(ctx context.Context, id primitive.ObjectID) error {
	d, err := s.Doctors.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("Error from FindByID")
		return err
	}
	if err := s.Doctors.Delete(ctx, id); err != nil {
		log.Error().Err(err).Msg("Error deleting doctor")
		return err
	}
	s.forget(ctx, id)
	if err := s.Users.Delete(ctx, d.User); err != nil {
		log.Error().Err(err).Msg("Error deleting doctor user")
		return err
	}
	return nil
}
