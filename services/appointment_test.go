package services

import (
	"context"
	"testing"
	"time"

	"MediCareHMS/apptime"
	"MediCareHMS/cache"
	"MediCareHMS/events"
	"MediCareHMS/models"
	"MediCareHMS/slots"
	"MediCareHMS/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func book(t *testing.T, h *harness, actor Actor, d *models.Doctor, date, clock string) *models.Appointment {
	t.Helper()
	a, err := h.appointment.Book(context.Background(), actor, BookAppointmentInput{
		DoctorID: d.ID.Hex(), Date: date, Time: clock, Purpose: "Checkup",
	})
	require.NoError(t, err)
	return a
}

func TestBook_NormalizesAndStoresPending(t *testing.T) {
	h := newHarness(t)
	pat, p := h.patient(t, "jane")
	docActor, d := h.doctor(t, "drsarah")

	a := book(t, h, pat, d, "2025-06-04T00:00:00.000Z", "2:30 PM")
	assert.Equal(t, models.StatusPending, a.Status)
	assert.Equal(t, "14:30", a.Time)
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), a.Date)
	assert.Equal(t, p.ID, a.Patient)
	assert.Equal(t, d.ID, a.Doctor)
	assert.Equal(t, "Dr. drsarah", a.DoctorName)
	assert.Equal(t, "Cardiology", a.Department)

	notes, err := h.notification.List(context.Background(), docActor)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestBook_Guard(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	pat, _ := h.patient(t, "jane")
	other, _ := h.patient(t, "john")
	docActor, d := h.doctor(t, "drsarah")

	book(t, h, pat, d, "2025-06-04", "10:00")

	cases := map[string]struct {
		date, clock string
		want        error
	}{
		"taken slot":       {"2025-06-04", "10:00 AM", util.ErrConflict},
		"not a slot":       {"2025-06-04", "10:15", util.ErrValidation},
		"after hours":      {"2025-06-04", "17:00", util.ErrValidation},
		"day off":          {"2025-06-03", "10:00", util.ErrValidation},
		"in the past":      {"2025-06-02", "07:30", util.ErrValidation},
		"unparseable date": {"someday", "10:00", util.ErrValidation},
		"unparseable time": {"2025-06-04", "brunch", util.ErrValidation},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.appointment.Book(ctx, other, BookAppointmentInput{DoctorID: d.ID.Hex(), Date: tc.date, Time: tc.clock})
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := h.appointment.Book(ctx, docActor, BookAppointmentInput{DoctorID: d.ID.Hex(), Date: "2025-06-04", Time: "11:00"})
	assert.ErrorIs(t, err, util.ErrForbidden)

	_, err = h.appointment.Book(ctx, other, BookAppointmentInput{DoctorID: "nope", Date: "2025-06-04", Time: "11:00"})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestBook_AdminBooksForPatient(t *testing.T) {
	h := newHarness(t)
	_, p := h.patient(t, "jane")
	_, d := h.doctor(t, "drsarah")

	a, err := h.appointment.Book(context.Background(), admin(), BookAppointmentInput{
		PatientID: p.ID.Hex(), DoctorID: d.ID.Hex(), Date: "2025-06-06", Time: "09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, a.Patient)
	assert.Equal(t, p.FullName, a.PatientName)
}

func TestAvailableSlots_CachedAndInvalidated(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	pat, _ := h.patient(t, "jane")
	_, d := h.doctor(t, "drsarah")
	h.appointment.DropSlotsOnCancel()

	res, err := h.appointment.AvailableSlots(ctx, d.ID.Hex(), "2025-06-04")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-04", res.Date)
	require.Len(t, res.AvailableSlots, 16)
	assert.Equal(t, slots.Slot{Time: "09:00", Available: true}, res.AvailableSlots[0])
	assert.Equal(t, "16:30", res.AvailableSlots[15].Time)

	reads := h.doctors.reads
	_, err = h.appointment.AvailableSlots(ctx, d.ID.Hex(), "2025-06-04")
	require.NoError(t, err)
	assert.Equal(t, reads, h.doctors.reads, "second read is served from cache")

	a := book(t, h, pat, d, "2025-06-04", "09:00")
	var cached SlotAvailability
	ok, _ := h.cache.GetCache(ctx, cache.SlotCacheKey(d.ID.Hex(), "2025-06-04"), &cached)
	assert.False(t, ok, "booking drops the cached list")

	res, err = h.appointment.AvailableSlots(ctx, d.ID.Hex(), "2025-06-04")
	require.NoError(t, err)
	slot, found := slots.Contains(res.AvailableSlots, "09:00")
	require.True(t, found)
	assert.False(t, slot.Available)

	_, err = h.appointment.Update(ctx, pat, a.ID, AppointmentUpdate{Status: strPtr(models.StatusCancelled)})
	require.NoError(t, err)
	ok, _ = h.cache.GetCache(ctx, cache.SlotCacheKey(d.ID.Hex(), "2025-06-04"), &cached)
	assert.False(t, ok, "cancellation drops the cached list")

	res, err = h.appointment.AvailableSlots(ctx, d.ID.Hex(), "2025-06-04")
	require.NoError(t, err)
	slot, _ = slots.Contains(res.AvailableSlots, "09:00")
	assert.True(t, slot.Available)

	res, err = h.appointment.AvailableSlots(ctx, d.ID.Hex(), "2025-06-03")
	require.NoError(t, err)
	assert.Empty(t, res.AvailableSlots)
}

func TestCancel_PublishesEventAndFreesSlot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	pat, _ := h.patient(t, "jane")
	other, _ := h.patient(t, "john")
	_, d := h.doctor(t, "drsarah")

	ch, stop := events.Channel(h.bus, 4)
	defer stop()

	a := book(t, h, pat, d, "2025-06-04", "11:30 AM")
	updated, err := h.appointment.Update(ctx, pat, a.ID, AppointmentUpdate{Status: strPtr(models.StatusCancelled)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)

	select {
	case e := <-ch:
		assert.Equal(t, events.AppointmentCancelled, e.Type)
		assert.Equal(t, d.ID.Hex(), e.DoctorID)
		assert.Equal(t, "2025-06-04", e.Date)
		assert.Equal(t, "11:30", e.Time)
		assert.Equal(t, a.ID.Hex(), e.AppointmentID)
	default:
		t.Fatal("expected appointmentCancelled event")
	}

	book(t, h, other, d, "2025-06-04", "11:30")

	_, err = h.appointment.Update(ctx, pat, a.ID, AppointmentUpdate{Status: strPtr(models.StatusConfirmed)})
	assert.ErrorIs(t, err, util.ErrForbidden)

	select {
	case e := <-ch:
		t.Fatalf("unexpected event %+v", e)
	default:
	}
}

func TestUpdate_StatusRules(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	pat, _ := h.patient(t, "jane")
	stranger, _ := h.patient(t, "john")
	docActor, d := h.doctor(t, "drsarah")
	otherDoc, _ := h.doctor(t, "drchen")

	a := book(t, h, pat, d, "2025-06-04", "10:00")

	_, err := h.appointment.Update(ctx, stranger, a.ID, AppointmentUpdate{Status: strPtr(models.StatusCancelled)})
	assert.ErrorIs(t, err, util.ErrForbidden)
	_, err = h.appointment.Update(ctx, otherDoc, a.ID, AppointmentUpdate{Status: strPtr(models.StatusConfirmed)})
	assert.ErrorIs(t, err, util.ErrForbidden)

	updated, err := h.appointment.Update(ctx, docActor, a.ID, AppointmentUpdate{Status: strPtr(models.StatusConfirmed), Notes: strPtr("bring reports")})
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.Equal(t, "bring reports", updated.Notes)

	_, err = h.appointment.Update(ctx, docActor, a.ID, AppointmentUpdate{Status: strPtr(models.StatusPending)})
	assert.ErrorIs(t, err, util.ErrValidation)
	_, err = h.appointment.Update(ctx, docActor, a.ID, AppointmentUpdate{Status: strPtr("Archived")})
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = h.appointment.Update(ctx, docActor, a.ID, AppointmentUpdate{Status: strPtr(models.StatusCompleted)})
	require.NoError(t, err)
	_, err = h.appointment.Update(ctx, admin(), a.ID, AppointmentUpdate{Status: strPtr(models.StatusCancelled)})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestUpdate_Reschedule(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	pat, _ := h.patient(t, "jane")
	other, _ := h.patient(t, "john")
	_, d := h.doctor(t, "drsarah")

	a := book(t, h, pat, d, "2025-06-04", "10:00")
	book(t, h, other, d, "2025-06-06", "10:00")

	moved, err := h.appointment.Update(ctx, pat, a.ID, AppointmentUpdate{Time: strPtr("10:30")})
	require.NoError(t, err)
	assert.Equal(t, "10:30", moved.Time)

	_, err = h.appointment.Update(ctx, pat, a.ID, AppointmentUpdate{Date: strPtr("2025-06-06"), Time: strPtr("10:00")})
	assert.ErrorIs(t, err, util.ErrConflict)

	moved, err = h.appointment.Update(ctx, pat, a.ID, AppointmentUpdate{Date: strPtr("2025-06-06")})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-06", moved.CalendarDate())
}

func TestUpcomingAndRecent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	pat, p := h.patient(t, "jane")
	_, d := h.doctor(t, "drsarah")

	seed := func(date time.Time, clock, status string) {
		require.NoError(t, h.appointments.Create(ctx, &models.Appointment{
			Patient: p.ID, Doctor: d.ID, Date: date, Time: clock, Status: status,
		}))
	}
	seed(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "10:00", models.StatusCompleted)
	seed(time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), "09:00", models.StatusConfirmed)
	seed(time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), "11:00", models.StatusCancelled)
	seed(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), "7:30 AM", models.StatusConfirmed)
	seed(time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), "garbage", models.StatusPending)

	upcoming, err := h.appointment.Upcoming(ctx, pat, apptime.Options{})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "09:00", upcoming[0].Time)

	recent, err := h.appointment.Recent(ctx, pat, apptime.Options{})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "7:30 AM", recent[0].Time)
	assert.Equal(t, "10:00", recent[1].Time)

	recent, err = h.appointment.Recent(ctx, pat, apptime.Options{Limit: apptime.Limit(1)})
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	// In UTC-10 it is still 22:00 on 1 June, so the 07:30 visit has not happened yet.
	hawaii := time.FixedZone("HST", -10*3600)
	upcoming, err = h.appointment.Upcoming(ctx, pat, apptime.Options{Location: hawaii})
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "7:30 AM", upcoming[0].Time)
}

func TestList_ScopedByRole(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	jane, _ := h.patient(t, "jane")
	john, _ := h.patient(t, "john")
	sarah, ds := h.doctor(t, "drsarah")
	_, dc := h.doctor(t, "drchen", "Wednesday")

	book(t, h, jane, ds, "2025-06-04", "10:00")
	book(t, h, john, dc, "2025-06-04", "10:00")

	all, err := h.appointment.List(ctx, admin())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := h.appointment.List(ctx, jane)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, ds.ID, mine[0].Doctor)

	docs, err := h.appointment.List(ctx, sarah)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestRemindTomorrow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	jane, _ := h.patient(t, "jane")
	john, _ := h.patient(t, "john")
	_, d := h.doctor(t, "drsarah", "Tuesday", "Wednesday")

	book(t, h, jane, d, "2025-06-03", "10:00")
	cancelled := book(t, h, john, d, "2025-06-03", "11:00")
	_, err := h.appointment.Update(ctx, john, cancelled.ID, AppointmentUpdate{Status: strPtr(models.StatusCancelled)})
	require.NoError(t, err)
	book(t, h, john, d, "2025-06-04", "11:00")

	sent, err := h.appointment.RemindTomorrow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	notes, err := h.notification.List(ctx, jane)
	require.NoError(t, err)
	var reminders int
	for _, n := range notes {
		if n.Type == models.NotificationReminder {
			reminders++
			assert.Contains(t, n.Message, "2025-06-03 at 10:00")
		}
	}
	assert.Equal(t, 1, reminders)
}
