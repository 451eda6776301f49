package services

import (
	"context"
	"fmt"
	"time"

	"MediCareHMS/apptime"
	"MediCareHMS/cache"
	"MediCareHMS/events"
	"MediCareHMS/models"
	"MediCareHMS/repository"
	"MediCareHMS/role"
	"MediCareHMS/slots"
	"MediCareHMS/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookAppointmentInput struct {
	PatientID  string `json:"patientId"`
	DoctorID   string `json:"doctorId" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	Department string `json:"department"`
	Purpose    string `json:"purpose"`
	Notes      string `json:"notes"`
}

// AppointmentUpdate carries the fields a PATCH may change. Nil means unchanged.
type AppointmentUpdate struct {
	Status  *string `json:"status" binding:"omitempty,appointment_status"`
	Notes   *string `json:"notes"`
	Purpose *string `json:"purpose"`
	Date    *string `json:"date"`
	Time    *string `json:"time"`
}

type SlotAvailability struct {
	Date           string       `json:"date"`
	AvailableSlots []slots.Slot `json:"availableSlots"`
}

type AppointmentService struct {
	Appointments AppointmentStore
	Patients     PatientStore
	Doctors      DoctorStore
	Notifier     *NotificationService
	Cache        cache.Cache
	TTL          time.Duration
	Bus          events.Bus
	Location     *time.Location
	Now          func() time.Time
}

func (s *AppointmentService) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

func (s *AppointmentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// calendarDay resolves a stored or submitted date to its YYYY-MM-DD day and UTC midnight.
func calendarDay(raw string) (string, time.Time, error) {
	day, err := apptime.CalendarDate(raw)
	if err != nil {
		return "", time.Time{}, util.Validation(util.INVALID_DATE)
	}
	date, err := time.Parse(time.DateOnly, day)
	if err != nil {
		return "", time.Time{}, util.Validation(util.INVALID_DATE)
	}
	return day, date, nil
}

func (s *AppointmentService) bookingPatient(ctx context.Context, actor Actor, patientID string) (*models.Patient, error) {
	switch actor.Role {
	case role.Patient:
		return s.Patients.FindByUser(ctx, actor.UserID)
	case role.Admin:
		id, err := ParseID(patientID)
		if err != nil {
			return nil, err
		}
		return s.Patients.FindByID(ctx, id)
	}
	return nil, util.Forbidden(util.ACCESS_DENIED)
}

/*
* Resolve the patient and the doctor
* Normalize the date and time
* Run the booking guard
* Insert as Pending and drop the cached slot list
 */
func (s *AppointmentService) Book(ctx context.Context, actor Actor, in BookAppointmentInput) (*models.Appointment, error) {
	patient, err := s.bookingPatient(ctx, actor, in.PatientID)
	if err != nil {
		log.Error().Err(err).Msg("Error resolving patient for booking")
		return nil, err
	}
	doctorID, err := ParseID(in.DoctorID)
	if err != nil {
		return nil, err
	}
	doctor, err := s.Doctors.FindByID(ctx, doctorID)
	if err != nil {
		log.Error().Err(err).Msg("Error from FindByID")
		return nil, err
	}

	day, date, err := calendarDay(in.Date)
	if err != nil {
		return nil, err
	}
	clock, err := apptime.Clock(in.Time)
	if err != nil {
		return nil, util.Validation(util.INVALID_TIME)
	}
	if err := s.guard(ctx, doctor, day, date, clock, primitive.NilObjectID); err != nil {
		return nil, err
	}

	department := in.Department
	if department == "" {
		department = doctor.Department
	}
	ts := now(s.Now)
	a := &models.Appointment{
		Patient:     patient.ID,
		PatientName: patient.FullName,
		Doctor:      doctor.ID,
		DoctorName:  doctor.Name,
		Department:  department,
		Date:        date,
		Time:        clock,
		Status:      models.StatusPending,
		Purpose:     in.Purpose,
		Notes:       in.Notes,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := s.Appointments.Create(ctx, a); err != nil {
		log.Error().Err(err).Msg("Error creating appointment")
		return nil, err
	}
	s.dropSlots(ctx, doctor.ID.Hex(), day)

	s.notify(ctx, doctor.User, models.NotificationAppointment, "New appointment",
		fmt.Sprintf("%s booked %s at %s", patient.FullName, day, clock))
	return a, nil
}

/*
* Reject a time in the past
* Reject a day outside the doctor's weekly window
* Reject a time that is not one of the day's slots, or one already held
* The check and the insert are separate calls, two racing bookings can both pass
 */
func (s *AppointmentService) guard(ctx context.Context, doctor *models.Doctor, day string, date time.Time, clock string, self primitive.ObjectID) error {
	at, err := apptime.Resolve(day, clock, s.location())
	if err != nil {
		return util.Validation(util.INVALID_TIME)
	}
	if !at.After(s.now()) {
		return util.Validation(util.APPOINTMENT_IN_PAST)
	}
	if !slots.WorksOn(doctor.Availability, date.Weekday()) {
		return util.Validation(util.DOCTOR_NOT_AVAILABLE_ON_DAY)
	}

	booked, err := s.bookedTimes(ctx, doctor.ID, date, self)
	if err != nil {
		return err
	}
	list, err := slots.ForDate(doctor.Availability, date, booked)
	if err != nil {
		log.Error().Err(err).Str("doctor", doctor.ID.Hex()).Msg("Error generating slots")
		return util.Validation(util.SLOT_DOES_NOT_EXIST)
	}
	slot, ok := slots.Contains(list, clock)
	if !ok {
		return util.Validation(util.SLOT_DOES_NOT_EXIST)
	}
	if !slot.Available {
		return util.Conflict(util.SLOT_ALREADY_BOOKED)
	}
	return nil
}

// bookedTimes lists the times held by non-cancelled appointments, skipping self.
func (s *AppointmentService) bookedTimes(ctx context.Context, doctor primitive.ObjectID, date time.Time, self primitive.ObjectID) ([]string, error) {
	held, err := s.Appointments.List(ctx, repository.AppointmentFilter{
		Doctor:    &doctor,
		Date:      &date,
		NotStatus: models.StatusCancelled,
	})
	if err != nil {
		log.Error().Err(err).Msg("Error listing booked appointments")
		return nil, err
	}
	out := make([]string, 0, len(held))
	for _, a := range held {
		if a.ID == self {
			continue
		}
		out = append(out, a.Time)
	}
	return out, nil
}

/*
* Serve from the SLOTS:<doctor>:<date> cache entry when present
* Otherwise derive the slots from the weekly window minus booked times
* Cache the result
 */
func (s *AppointmentService) AvailableSlots(ctx context.Context, doctorID, rawDate string) (*SlotAvailability, error) {
	id, err := ParseID(doctorID)
	if err != nil {
		return nil, err
	}
	day, date, err := calendarDay(rawDate)
	if err != nil {
		return nil, err
	}

	key := cache.SlotCacheKey(id.Hex(), day)
	if s.Cache != nil {
		var cached SlotAvailability
		if ok, err := s.Cache.GetCache(ctx, key, &cached); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Error reading slot cache")
		} else if ok {
			return &cached, nil
		}
	}

	doctor, err := s.Doctors.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("Error from FindByID")
		return nil, err
	}
	booked, err := s.bookedTimes(ctx, doctor.ID, date, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	list, err := slots.ForDate(doctor.Availability, date, booked)
	if err != nil {
		log.Error().Err(err).Str("doctor", doctor.ID.Hex()).Msg("Error generating slots")
		list = []slots.Slot{}
	}
	res := &SlotAvailability{Date: day, AvailableSlots: list}

	if s.Cache != nil {
		if err := s.Cache.SetCache(ctx, key, res, s.TTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Error writing slot cache")
		}
	}
	return res, nil
}

func (s *AppointmentService) dropSlots(ctx context.Context, doctorID, day string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.DeleteCache(ctx, cache.SlotCacheKey(doctorID, day)); err != nil {
		log.Warn().Err(err).Msg("Error dropping slot cache")
	}
}

// DropSlotsOnCancel subscribes a cache invalidation to cancellation events.
func (s *AppointmentService) DropSlotsOnCancel() (unsubscribe func()) {
	return s.Bus.Subscribe(func(e events.Event) {
		if e.Type != events.AppointmentCancelled {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.dropSlots(ctx, e.DoctorID, e.Date)
	})
}

// List returns every appointment the caller may see.
func (s *AppointmentService) List(ctx context.Context, actor Actor) ([]models.Appointment, error) {
	filter := repository.AppointmentFilter{}
	switch actor.Role {
	case role.Admin:
	case role.Doctor:
		d, err := s.Doctors.FindByUser(ctx, actor.UserID)
		if err != nil {
			log.Error().Err(err).Msg("Error from FindByUser")
			return nil, err
		}
		filter.Doctor = &d.ID
	case role.Patient:
		p, err := s.Patients.FindByUser(ctx, actor.UserID)
		if err != nil {
			log.Error().Err(err).Msg("Error from FindByUser")
			return nil, err
		}
		filter.Patient = &p.ID
	default:
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	list, err := s.Appointments.List(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("Error listing appointments")
	}
	return list, err
}

// Upcoming returns the caller's next appointments, soonest first.
func (s *AppointmentService) Upcoming(ctx context.Context, actor Actor, opts apptime.Options) ([]models.Appointment, error) {
	list, err := s.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	if opts.Location == nil {
		opts.Location = s.location()
	}
	return apptime.Records(apptime.Upcoming(list, s.now(), opts)), nil
}

// Recent returns the caller's past appointments, latest first.
func (s *AppointmentService) Recent(ctx context.Context, actor Actor, opts apptime.Options) ([]models.Appointment, error) {
	list, err := s.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	if opts.Location == nil {
		opts.Location = s.location()
	}
	return apptime.Records(apptime.Recent(list, s.now(), opts)), nil
}

func (s *AppointmentService) canAccess(ctx context.Context, actor Actor, a *models.Appointment) error {
	switch actor.Role {
	case role.Admin:
		return nil
	case role.Doctor:
		d, err := s.Doctors.FindByUser(ctx, actor.UserID)
		if err == nil && d.ID == a.Doctor {
			return nil
		}
	case role.Patient:
		p, err := s.Patients.FindByUser(ctx, actor.UserID)
		if err == nil && p.ID == a.Patient {
			return nil
		}
	}
	return util.Forbidden(util.ACCESS_DENIED)
}

func (s *AppointmentService) Get(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.Appointment, error) {
	a, err := s.Appointments.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("Error from FindByID")
		return nil, err
	}
	if err := s.canAccess(ctx, actor, a); err != nil {
		return nil, err
	}
	return a, nil
}

/*
* Load the appointment and check the caller may touch it
* Apply the status transition, patients may only cancel
* Re-run the booking guard for a new date or time
* Save, then publish appointmentCancelled when the status became Cancelled
 */
func (s *AppointmentService) Update(ctx context.Context, actor Actor, id primitive.ObjectID, in AppointmentUpdate) (*models.Appointment, error) {
	a, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	prevStatus := a.Status
	prevDay, prevTime := a.CalendarDate(), a.Time

	if in.Status != nil && *in.Status != a.Status {
		to := *in.Status
		if !models.ValidStatus(to) {
			return nil, util.Validation(util.INVALID_STATUS)
		}
		if actor.Is(role.Patient) && to != models.StatusCancelled {
			return nil, util.Forbidden(util.ACCESS_DENIED)
		}
		if !models.CanTransition(a.Status, to) {
			return nil, util.Validation(util.INVALID_STATUS_TRANSITION, a.Status, to)
		}
		a.Status = to
	}

	if in.Date != nil || in.Time != nil {
		if err := s.reschedule(ctx, a, in.Date, in.Time); err != nil {
			return nil, err
		}
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}
	if in.Purpose != nil {
		a.Purpose = *in.Purpose
	}
	a.UpdatedAt = now(s.Now)

	if err := s.Appointments.Replace(ctx, a); err != nil {
		log.Error().Err(err).Msg("Error updating appointment")
		return nil, err
	}

	moved := a.CalendarDate() != prevDay || a.Time != prevTime
	if moved {
		s.dropSlots(ctx, a.Doctor.Hex(), prevDay)
		s.dropSlots(ctx, a.Doctor.Hex(), a.CalendarDate())
	}
	if a.Status != prevStatus {
		if a.Status == models.StatusCancelled {
			s.publishCancelled(ctx, a, prevDay, prevTime)
		}
		s.notifyStatus(ctx, a)
	}
	return a, nil
}

func (s *AppointmentService) reschedule(ctx context.Context, a *models.Appointment, rawDate, rawTime *string) error {
	if a.Status == models.StatusCancelled || a.Status == models.StatusCompleted {
		return util.Validation(util.INVALID_STATUS_TRANSITION, a.Status, a.Status)
	}
	day, date := a.CalendarDate(), a.Date
	if rawDate != nil {
		var err error
		if day, date, err = calendarDay(*rawDate); err != nil {
			return err
		}
	}
	clock := a.Time
	if rawTime != nil {
		c, err := apptime.Clock(*rawTime)
		if err != nil {
			return util.Validation(util.INVALID_TIME)
		}
		clock = c
	}
	doctor, err := s.Doctors.FindByID(ctx, a.Doctor)
	if err != nil {
		return err
	}
	if err := s.guard(ctx, doctor, day, date, clock, a.ID); err != nil {
		return err
	}
	a.Date, a.Time = date, clock
	return nil
}

func (s *AppointmentService) publishCancelled(ctx context.Context, a *models.Appointment, day, clock string) {
	if s.Bus == nil {
		return
	}
	if c, err := apptime.Clock(clock); err == nil {
		clock = c
	}
	s.Bus.Publish(ctx, events.Event{
		Type:          events.AppointmentCancelled,
		DoctorID:      a.Doctor.Hex(),
		Date:          day,
		Time:          clock,
		AppointmentID: a.ID.Hex(),
		At:            s.now(),
	})
}

func (s *AppointmentService) notifyStatus(ctx context.Context, a *models.Appointment) {
	msg := fmt.Sprintf("Your appointment on %s at %s is now %s", a.CalendarDate(), a.Time, a.Status)
	if p, err := s.Patients.FindByID(ctx, a.Patient); err == nil {
		s.notify(ctx, p.User, models.NotificationAppointment, "Appointment "+a.Status, msg)
	}
	if a.Status == models.StatusCancelled {
		if d, err := s.Doctors.FindByID(ctx, a.Doctor); err == nil {
			s.notify(ctx, d.User, models.NotificationAppointment, "Appointment Cancelled",
				fmt.Sprintf("%s cancelled %s at %s", a.PatientName, a.CalendarDate(), a.Time))
		}
	}
}

func (s *AppointmentService) notify(ctx context.Context, user primitive.ObjectID, kind, title, message string) {
	if s.Notifier == nil || user.IsZero() {
		return
	}
	if err := s.Notifier.Notify(ctx, user, kind, title, message); err != nil {
		log.Warn().Err(err).Msg("Error sending notification")
	}
}

/*
* Find Pending and Confirmed appointments dated tomorrow in the configured zone
* Send each patient a reminder
 */
func (s *AppointmentService) RemindTomorrow(ctx context.Context) (int, error) {
	y, m, d := s.now().In(s.location()).AddDate(0, 0, 1).Date()
	tomorrow := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	list, err := s.Appointments.List(ctx, repository.AppointmentFilter{
		Date:     &tomorrow,
		Statuses: []string{models.StatusPending, models.StatusConfirmed},
	})
	if err != nil {
		log.Error().Err(err).Msg("Error listing appointments for reminders")
		return 0, err
	}
	sent := 0
	for _, a := range list {
		p, err := s.Patients.FindByID(ctx, a.Patient)
		if err != nil {
			log.Warn().Err(err).Str("appointment", a.ID.Hex()).Msg("Skipping reminder, patient missing")
			continue
		}
		doctor := a.DoctorName
		if doctor == "" {
			doctor = "your doctor"
		}
		msg := fmt.Sprintf("Reminder: appointment with %s on %s at %s", doctor, a.CalendarDate(), a.Time)
		if s.Notifier == nil {
			continue
		}
		if err := s.Notifier.Notify(ctx, p.User, models.NotificationReminder, "Appointment reminder", msg); err != nil {
			log.Warn().Err(err).Str("appointment", a.ID.Hex()).Msg("Error sending reminder")
			continue
		}
		sent++
	}
	return sent, nil
}
