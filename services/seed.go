package services

import (
	"context"
	"errors"

	"MediCareHMS/models"
	"MediCareHMS/util"

	"github.com/rs/zerolog/log"
)

type SeedAdmin struct {
	Email    string
	Username string
	Name     string
	Password string
}

var DefaultAdmins = []SeedAdmin{
	{Email: "admin1@medicare.com", Username: "admin1", Name: "Admin One", Password: "admin123"},
	{Email: "admin2@medicare.com", Username: "admin2", Name: "Admin Two", Password: "admin123"},
}

var SampleDoctors = []CreateDoctorInput{
	{
		Name: "Dr. Sarah Wilson", Email: "sarah.wilson@medicare.com", Username: "drsarah",
		Specialization: "Cardiology", Department: "Cardiology", Phone: "555-0101",
		Availability:  models.Availability{Days: []string{"Monday", "Wednesday", "Friday"}, StartTime: "09:00", EndTime: "17:00"},
		Qualification: []string{"MD", "FACC"}, Experience: 12, ConsultationFee: 150,
	},
	{
		Name: "Dr. Michael Chen", Email: "michael.chen@medicare.com", Username: "drchen",
		Specialization: "Neurology", Department: "Neurology", Phone: "555-0102",
		Availability:  models.Availability{Days: []string{"Tuesday", "Thursday", "Saturday"}, StartTime: "10:00", EndTime: "18:00"},
		Qualification: []string{"MD", "PhD"}, Experience: 15, ConsultationFee: 120,
	},
	{
		Name: "Dr. Emily Rodriguez", Email: "emily.rodriguez@medicare.com", Username: "dremily",
		Specialization: "Orthopedics", Department: "Orthopedics", Phone: "555-0103",
		Availability:  models.Availability{Days: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}, StartTime: "08:00", EndTime: "16:00"},
		Qualification: []string{"MD", "MS Ortho"}, Experience: 10, ConsultationFee: 130,
	},
	{
		Name: "Dr. James Thompson", Email: "james.thompson@medicare.com", Username: "drjames",
		Specialization: "Pediatrics", Department: "Pediatrics", Phone: "555-0104",
		Availability:  models.Availability{Days: []string{"Monday", "Wednesday", "Friday", "Saturday"}, StartTime: "09:30", EndTime: "17:30"},
		Qualification: []string{"MD", "DCH"}, Experience: 8, ConsultationFee: 110,
	},
}

type Seeder struct {
	Auth            *AuthService
	Doctors         *DoctorService
	Specializations *CatalogService
	Departments     *CatalogService
}

/*
* Seed the specialization and department lists
* Bootstrap the default admins
* Add the sample doctors, skipping any that already exist
 */
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.Specializations.Seed(ctx, DefaultCatalog); err != nil {
		return err
	}
	if err := s.Departments.Seed(ctx, DefaultCatalog); err != nil {
		return err
	}
	for _, a := range DefaultAdmins {
		if _, err := s.Auth.BootstrapAdmin(ctx, a.Email, a.Password, a.Username, a.Name); err != nil {
			log.Error().Err(err).Str("email", a.Email).Msg("Error seeding admin")
			return err
		}
	}
	for _, d := range SampleDoctors {
		_, err := s.Doctors.Create(ctx, d)
		if errors.Is(err, util.ErrConflict) {
			log.Info().Str("email", d.Email).Msg("sample doctor already exists")
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("email", d.Email).Msg("Error seeding doctor")
			return err
		}
	}
	log.Info().Msg("seed complete")
	return nil
}
