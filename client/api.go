package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"MediCareHMS/apptime"
	"MediCareHMS/events"
	"MediCareHMS/models"
	"MediCareHMS/slots"
)

type Session struct {
	Token   string          `json:"token"`
	User    *models.User    `json:"user"`
	Patient *models.Patient `json:"patient,omitempty"`
	Doctor  *models.Doctor  `json:"doctor,omitempty"`
}

type BookRequest struct {
	PatientID  string `json:"patientId,omitempty"`
	DoctorID   string `json:"doctorId"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Department string `json:"department,omitempty"`
	Purpose    string `json:"purpose,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

type Availability struct {
	Date           string       `json:"date"`
	AvailableSlots []slots.Slot `json:"availableSlots"`
}

// Login accepts an email or a username and keeps the returned token.
func (c *Client) Login(ctx context.Context, identifier, password string) (*Session, error) {
	body := map[string]string{"password": password}
	if strings.Contains(identifier, "@") {
		body["email"] = identifier
	} else {
		body["username"] = identifier
	}
	var s Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &s); err != nil {
		return nil, err
	}
	c.Credentials.SetToken(s.Token)
	return &s, nil
}

func (c *Client) Logout() {
	c.Credentials.Clear()
}

func (c *Client) Me(ctx context.Context) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) MyAppointments(ctx context.Context) ([]models.Appointment, error) {
	var out struct {
		Appointments []models.Appointment `json:"appointments"`
	}
	if err := c.do(ctx, http.MethodGet, "/appointments/my-appointments", nil, &out); err != nil {
		return nil, err
	}
	return out.Appointments, nil
}

// Upcoming fetches the caller's appointments and keeps the next ones after now.
func (c *Client) Upcoming(ctx context.Context, opts apptime.Options) ([]models.Appointment, error) {
	list, err := c.MyAppointments(ctx)
	if err != nil {
		return nil, err
	}
	return apptime.Records(apptime.Upcoming(list, c.now(), opts)), nil
}

// Recent fetches the caller's appointments and keeps the latest ones up to now.
func (c *Client) Recent(ctx context.Context, opts apptime.Options) ([]models.Appointment, error) {
	list, err := c.MyAppointments(ctx)
	if err != nil {
		return nil, err
	}
	return apptime.Records(apptime.Recent(list, c.now(), opts)), nil
}

func (c *Client) DoctorsByDepartment(ctx context.Context, department string) ([]models.Doctor, error) {
	var out struct {
		Doctors []models.Doctor `json:"doctors"`
	}
	path := "/appointments/doctors/" + url.PathEscape(department)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Doctors, nil
}

// AvailableSlots accepts any date format apptime understands.
func (c *Client) AvailableSlots(ctx context.Context, doctorID, date string) (*Availability, error) {
	day, err := apptime.CalendarDate(date)
	if err != nil {
		return nil, err
	}
	var out Availability
	path := "/appointments/available-slots/" + url.PathEscape(doctorID) + "/" + day
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BookAppointment(ctx context.Context, in BookRequest) (*models.Appointment, error) {
	var out struct {
		Appointment *models.Appointment `json:"appointment"`
	}
	if err := c.do(ctx, http.MethodPost, "/appointments", in, &out); err != nil {
		return nil, err
	}
	return out.Appointment, nil
}

/*
* PATCH the status to Cancelled
* Tell local slot views about the freed doctor, date and time
 */
func (c *Client) CancelAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	var out struct {
		Appointment *models.Appointment `json:"appointment"`
	}
	body := map[string]string{"status": models.StatusCancelled}
	if err := c.do(ctx, http.MethodPatch, "/appointments/"+url.PathEscape(id), body, &out); err != nil {
		return nil, err
	}
	a := out.Appointment
	if a != nil {
		c.Bus.Publish(ctx, events.Event{
			Type:          events.AppointmentCancelled,
			DoctorID:      a.Doctor.Hex(),
			Date:          a.CalendarDate(),
			Time:          a.Time,
			AppointmentID: a.ID.Hex(),
			At:            c.now(),
		})
	}
	return a, nil
}
