package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"MediCareHMS/invoice"
	"MediCareHMS/models"
	"MediCareHMS/role"
	"MediCareHMS/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateBillInput struct {
	PatientID     string            `json:"patientId" binding:"required"`
	AppointmentID string            `json:"appointmentId"`
	Items         []models.BillItem `json:"items" binding:"required,min=1,dive"`
	Tax           float64           `json:"tax" binding:"gte=0"`
	Discount      float64           `json:"discount" binding:"gte=0"`
	PaymentMethod string            `json:"paymentMethod"`
}

type PayBillInput struct {
	PaymentMethod string `json:"paymentMethod"`
}

// ReceiptMailer mails the paid invoice to the patient.
type ReceiptMailer interface {
	SendAttachment(to, subject, body, name string, data []byte) error
}

type BillService struct {
	Bills        BillStore
	Patients     PatientStore
	Appointments AppointmentStore
	Notifier     *NotificationService
	Mailer       ReceiptMailer
	Now          func() time.Time
}

/*
* Resolve the patient, and the appointment when one is linked
* Compute subtotal and total from the items
* Save as Pending and tell the patient
 */
func (s *BillService) Create(ctx context.Context, in CreateBillInput) (*models.Bill, error) {
	if len(in.Items) == 0 {
		return nil, util.Validation(util.BILL_REQUIRES_ITEMS)
	}
	patientID, err := ParseID(in.PatientID)
	if err != nil {
		return nil, err
	}
	patient, err := s.Patients.FindByID(ctx, patientID)
	if err != nil {
		log.Error().Err(err).Msg("Error from FindByID")
		return nil, err
	}

	ts := now(s.Now)
	b := &models.Bill{
		BillNumber:    util.GenerateCode(util.BillPrefix),
		Patient:       patient.ID,
		PatientName:   patient.FullName,
		Items:         in.Items,
		Tax:           in.Tax,
		Discount:      in.Discount,
		Status:        models.BillPending,
		PaymentMethod: in.PaymentMethod,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
	if in.AppointmentID != "" {
		appointmentID, err := ParseID(in.AppointmentID)
		if err != nil {
			return nil, err
		}
		a, err := s.Appointments.FindByID(ctx, appointmentID)
		if err != nil {
			log.Error().Err(err).Msg("Error from FindByID")
			return nil, err
		}
		if a.Patient != patient.ID {
			return nil, util.Validation(util.APPOINTMENT_NOT_FOUND)
		}
		b.Appointment = &a.ID
		b.Doctor = &a.Doctor
		b.DoctorName = a.DoctorName
	}
	b.ComputeTotals()

	if err := s.Bills.Create(ctx, b); err != nil {
		log.Error().Err(err).Msg("Error creating bill")
		return nil, err
	}
	if s.Notifier != nil {
		msg := fmt.Sprintf("Bill %s for %.2f has been issued", b.BillNumber, b.Total)
		if err := s.Notifier.Notify(ctx, patient.User, models.NotificationBilling, "New bill", msg); err != nil {
			log.Warn().Err(err).Msg("Error sending bill notification")
		}
	}
	return b, nil
}

func (s *BillService) List(ctx context.Context) ([]models.Bill, error) {
	bills, err := s.Bills.List(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("Error listing bills")
	}
	return bills, err
}

// ListForPatient returns the patient's bills; a patient may only list its own.
func (s *BillService) ListForPatient(ctx context.Context, actor Actor, patientID primitive.ObjectID) ([]models.Bill, error) {
	if err := s.ownsPatient(ctx, actor, patientID); err != nil {
		return nil, err
	}
	bills, err := s.Bills.List(ctx, &patientID)
	if err != nil {
		log.Error().Err(err).Msg("Error listing patient bills")
	}
	return bills, err
}

func (s *BillService) ownsPatient(ctx context.Context, actor Actor, patientID primitive.ObjectID) error {
	if !actor.Is(role.Patient) {
		return nil
	}
	p, err := s.Patients.FindByUser(ctx, actor.UserID)
	if err != nil || p.ID != patientID {
		return util.Forbidden(util.ACCESS_DENIED)
	}
	return nil
}

func (s *BillService) Get(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.Bill, error) {
	b, err := s.Bills.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("Error from FindByID")
		return nil, err
	}
	if err := s.ownsPatient(ctx, actor, b.Patient); err != nil {
		return nil, err
	}
	return b, nil
}

/*
* Only a Pending bill can be paid
* Record the method and the payment time
* Mail the receipt when a mailer is configured
 */
func (s *BillService) Pay(ctx context.Context, actor Actor, id primitive.ObjectID, in PayBillInput) (*models.Bill, error) {
	b, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	switch b.Status {
	case models.BillPaid:
		return nil, util.Conflict(util.BILL_ALREADY_PAID)
	case models.BillCancelled:
		return nil, util.Validation(util.INVALID_STATUS)
	}
	ts := now(s.Now)
	b.Status = models.BillPaid
	b.PaidAt = &ts
	b.UpdatedAt = ts
	if m := strings.TrimSpace(in.PaymentMethod); m != "" {
		b.PaymentMethod = m
	}
	if err := s.Bills.Replace(ctx, b); err != nil {
		log.Error().Err(err).Msg("Error updating bill")
		return nil, err
	}
	s.mailReceipt(ctx, b)
	return b, nil
}

func (s *BillService) mailReceipt(ctx context.Context, b *models.Bill) {
	if s.Mailer == nil {
		return
	}
	p, err := s.Patients.FindByID(ctx, b.Patient)
	if err != nil || p.Contact.Email == "" {
		return
	}
	var buf bytes.Buffer
	if err := invoice.Render(&buf, b, p); err != nil {
		log.Warn().Err(err).Msg("Error rendering receipt")
		return
	}
	body := fmt.Sprintf("Payment of %.2f received for bill %s.", b.Total, b.BillNumber)
	if err := s.Mailer.SendAttachment(p.Contact.Email, "Payment confirmation", body, b.BillNumber+".pdf", buf.Bytes()); err != nil {
		log.Warn().Err(err).Str("bill", b.BillNumber).Msg("Error mailing receipt")
	}
}

// PDF renders the bill as an invoice document.
func (s *BillService) PDF(ctx context.Context, actor Actor, id primitive.ObjectID) ([]byte, string, error) {
	b, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	var patient *models.Patient
	if p, err := s.Patients.FindByID(ctx, b.Patient); err == nil {
		patient = p
	}
	var buf bytes.Buffer
	if err := invoice.Render(&buf, b, patient); err != nil {
		log.Error().Err(err).Msg("Error rendering invoice")
		return nil, "", err
	}
	return buf.Bytes(), b.BillNumber + ".pdf", nil
}
