// Package invoice renders bills as PDF documents.
package invoice

import (
	"fmt"
	"io"
	"time"

	"MediCareHMS/models"

	"github.com/jung-kurt/gofpdf"
)

const title = "MediCare Hospital"

/*
* Header and bill details
* One row per item
* Subtotal, tax, discount and total
 */
func Render(w io.Writer, b *models.Bill, p *models.Patient) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 70, 140)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Invoice", "1", 1, "C", false, 0, "")

	detail(pdf, "Bill Number", b.BillNumber)
	detail(pdf, "Issued", b.CreatedAt.Format(time.DateOnly))
	patient := b.PatientName
	if p != nil {
		patient = fmt.Sprintf("%s (%s)", p.FullName, p.PatientID)
	}
	detail(pdf, "Patient", patient)
	if b.DoctorName != "" {
		detail(pdf, "Doctor", b.DoctorName)
	}
	detail(pdf, "Status", b.Status)
	if b.PaidAt != nil {
		detail(pdf, "Paid", b.PaidAt.Format(time.DateOnly)+" "+b.PaymentMethod)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(100, 8, "Description", "1", 0, "", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(0, 8, "Amount", "1", 1, "R", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, it := range b.Items {
		pdf.CellFormat(100, 8, it.Description, "1", 0, "", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprint(it.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, money(it.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(0, 8, money(float64(it.Quantity)*it.UnitPrice), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	total(pdf, "Subtotal", b.Subtotal, false)
	total(pdf, "Tax", b.Tax, false)
	total(pdf, "Discount", -b.Discount, false)
	total(pdf, "Total", b.Total, true)

	pdf.SetY(pdf.GetY() + 12)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 10, "This is a computer generated invoice", "", 1, "R", false, 0, "")

	return pdf.Output(w)
}

func detail(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(45, 8, label, "1", 0, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, value, "1", 1, "", false, 0, "")
}

func total(pdf *gofpdf.Fpdf, label string, v float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Arial", style, 10)
	pdf.CellFormat(155, 8, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(0, 8, money(v), "", 1, "R", false, 0, "")
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
