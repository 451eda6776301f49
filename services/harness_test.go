package services

import (
	"context"
	"testing"
	"time"

	"MediCareHMS/cache"
	"MediCareHMS/events"
	"MediCareHMS/models"
	"MediCareHMS/role"
	"MediCareHMS/token"

	"github.com/stretchr/testify/require"
)

// Monday 2 June 2025, 08:00 UTC.
var testNow = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

type harness struct {
	users         *fakeUsers
	admins        *fakeAdmins
	patients      *fakePatients
	doctors       *fakeDoctors
	appointments  *fakeAppointments
	bills         *fakeBills
	notifications *fakeNotifications
	mailer        *fakeMailer
	cache         *cache.Memory
	bus           *events.MemoryBus
	tokens        *token.Manager

	auth         *AuthService
	patientSvc   *PatientService
	doctorSvc    *DoctorService
	appointment  *AppointmentService
	billing      *BillService
	notification *NotificationService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := func() time.Time { return testNow }
	h := &harness{
		users:         newFakeUsers(),
		admins:        &fakeAdmins{},
		patients:      newFakePatients(),
		doctors:       newFakeDoctors(),
		appointments:  newFakeAppointments(),
		bills:         newFakeBills(),
		notifications: &fakeNotifications{},
		mailer:        &fakeMailer{},
		cache:         cache.NewMemory(128, time.Minute),
		bus:           events.NewMemoryBus(),
		tokens:        token.NewManager("test-secret", time.Hour),
	}
	h.auth = &AuthService{Users: h.users, Admins: h.admins, Patients: h.patients, Doctors: h.doctors, Tokens: h.tokens, Now: clock}
	h.patientSvc = &PatientService{Patients: h.patients, Users: h.users, Now: clock}
	h.doctorSvc = &DoctorService{Doctors: h.doctors, Users: h.users, Auth: h.auth, Cache: h.cache, TTL: time.Minute, Now: clock}
	h.notification = &NotificationService{Notifications: h.notifications, Users: h.users, Mailer: h.mailer, Now: clock}
	h.appointment = &AppointmentService{
		Appointments: h.appointments,
		Patients:     h.patients,
		Doctors:      h.doctors,
		Notifier:     h.notification,
		Cache:        h.cache,
		TTL:          time.Minute,
		Bus:          h.bus,
		Location:     time.UTC,
		Now:          clock,
	}
	h.billing = &BillService{Bills: h.bills, Patients: h.patients, Appointments: h.appointments, Notifier: h.notification, Mailer: h.mailer, Now: clock}
	return h
}

func (h *harness) patient(t *testing.T, username string) (Actor, *models.Patient) {
	t.Helper()
	res, err := h.auth.PatientSignup(context.Background(), PatientSignupInput{
		FullName: "Patient " + username,
		Username: username,
		Email:    username + "@example.com",
		Password: "secret1",
		Phone:    "555-0000",
		Age:      30,
	})
	require.NoError(t, err)
	return Actor{UserID: res.User.ID, Role: role.Patient}, res.Patient
}

func (h *harness) doctor(t *testing.T, username string, days ...string) (Actor, *models.Doctor) {
	t.Helper()
	if len(days) == 0 {
		days = []string{"Monday", "Wednesday", "Friday"}
	}
	d, err := h.doctorSvc.Create(context.Background(), CreateDoctorInput{
		Name:           "Dr. " + username,
		Email:          username + "@medicare.com",
		Username:       username,
		Specialization: "Cardiology",
		Availability:   models.Availability{Days: days, StartTime: "09:00", EndTime: "17:00"},
	})
	require.NoError(t, err)
	return Actor{UserID: d.User, Role: role.Doctor}, d
}

func admin() Actor {
	return Actor{Role: role.Admin}
}
