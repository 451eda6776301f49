package services

import (
	"bytes"
	"context"
	"testing"

	"MediCareHMS/models"
	"MediCareHMS/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBill_CreatePayAndPDF(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	jane, p := h.patient(t, "jane")
	john, _ := h.patient(t, "john")
	_, d := h.doctor(t, "drsarah")
	a := book(t, h, jane, d, "2025-06-04", "10:00")

	b, err := h.billing.Create(ctx, CreateBillInput{
		PatientID:     p.ID.Hex(),
		AppointmentID: a.ID.Hex(),
		Items: []models.BillItem{
			{Description: "Consultation", Quantity: 1, UnitPrice: 150},
			{Description: "ECG", Quantity: 2, UnitPrice: 25},
		},
		Tax:      20,
		Discount: 10,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^BILL`, b.BillNumber)
	assert.Equal(t, 200.0, b.Subtotal)
	assert.Equal(t, 210.0, b.Total)
	assert.Equal(t, models.BillPending, b.Status)
	require.NotNil(t, b.Doctor)
	assert.Equal(t, d.ID, *b.Doctor)
	assert.Equal(t, d.Name, b.DoctorName)

	mine, err := h.billing.ListForPatient(ctx, jane, p.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	_, err = h.billing.ListForPatient(ctx, john, p.ID)
	assert.ErrorIs(t, err, util.ErrForbidden)
	_, err = h.billing.Get(ctx, john, b.ID)
	assert.ErrorIs(t, err, util.ErrForbidden)

	paid, err := h.billing.Pay(ctx, jane, b.ID, PayBillInput{PaymentMethod: "Card"})
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, paid.Status)
	assert.Equal(t, "Card", paid.PaymentMethod)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, testNow, *paid.PaidAt)

	var receipt *sentMail
	for i := range h.mailer.sent {
		if h.mailer.sent[i].attachment != "" {
			receipt = &h.mailer.sent[i]
		}
	}
	require.NotNil(t, receipt)
	assert.Equal(t, "jane@example.com", receipt.to)
	assert.Equal(t, b.BillNumber+".pdf", receipt.attachment)

	_, err = h.billing.Pay(ctx, admin(), b.ID, PayBillInput{})
	assert.ErrorIs(t, err, util.ErrConflict)

	pdf, name, err := h.billing.PDF(ctx, jane, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.BillNumber+".pdf", name)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	notes, err := h.notification.List(ctx, jane)
	require.NoError(t, err)
	require.NotEmpty(t, notes)
	assert.Equal(t, models.NotificationBilling, notes[0].Type)
}

func TestBill_CreateValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	jane, p := h.patient(t, "jane")
	_, other := h.patient(t, "john")
	_, d := h.doctor(t, "drsarah")
	a := book(t, h, jane, d, "2025-06-04", "10:00")

	_, err := h.billing.Create(ctx, CreateBillInput{PatientID: p.ID.Hex()})
	assert.ErrorIs(t, err, util.ErrValidation)

	items := []models.BillItem{{Description: "Consultation", Quantity: 1, UnitPrice: 100}}
	_, err = h.billing.Create(ctx, CreateBillInput{PatientID: "bad", Items: items})
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = h.billing.Create(ctx, CreateBillInput{PatientID: other.ID.Hex(), AppointmentID: a.ID.Hex(), Items: items})
	assert.ErrorIs(t, err, util.ErrValidation)

	all, err := h.billing.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
