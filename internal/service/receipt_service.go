package service

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"go-society-manager/internal/model"
	"go-society-manager/pkg/apierror"
)

var unsafeFilenamePart = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

type ReceiptService struct {
	bills     BillStore
	societies SocietyStore
}

func NewReceiptService(bills BillStore, societies SocietyStore) *ReceiptService {
	return &ReceiptService{bills: bills, societies: societies}
}

// Receipt renders the PDF payment receipt of a paid bill and suggests a
// download filename for it.
func (s *ReceiptService) Receipt(ctx context.Context, billID string) ([]byte, string, error) {
	bill, err := s.bills.FindByID(ctx, billID)
	if err != nil {
		return nil, "", err
	}
	return s.render(ctx, bill)
}

// ReceiptForUser is Receipt restricted to bills of residents linked to
// userID.
func (s *ReceiptService) ReceiptForUser(ctx context.Context, billID string, userID string) ([]byte, string, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, "", model.ErrUnauthorized
	}
	bill, err := s.bills.FindForUser(ctx, billID, userID)
	if err != nil {
		return nil, "", err
	}
	return s.render(ctx, bill)
}

func (s *ReceiptService) render(ctx context.Context, bill model.MaintenanceBill) ([]byte, string, error) {
	if !bill.IsPaid() {
		return nil, "", apierror.Conflict(model.ErrBillNotPaid.Error(), bill.ID)
	}

	society, err := s.societies.FindByID(ctx, bill.SocietyID)
	if err != nil {
		return nil, "", err
	}

	return buildReceiptPDF(society, bill)
}

func receiptNumber(bill model.MaintenanceBill) string {
	id := strings.ToUpper(strings.ReplaceAll(bill.ID, "-", ""))
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("RCT-%s-%s", strings.ReplaceAll(bill.Period, "-", ""), id)
}

func buildReceiptPDF(society model.Society, bill model.MaintenanceBill) ([]byte, string, error) {
	number := receiptNumber(bill)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Maintenance Receipt "+number, false)
	pdf.SetAuthor(society.Name, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, safe(society.Name, "Society"))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, strings.TrimSpace(strings.Join(nonEmpty(society.Address, society.City), ", ")))
	pdf.Ln(6)
	if society.RegistrationNo != "" {
		pdf.Cell(0, 6, "Reg. No: "+society.RegistrationNo)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "MAINTENANCE PAYMENT RECEIPT")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Receipt No   : %s", number),
		fmt.Sprintf("Period       : %s", bill.Period),
		fmt.Sprintf("Unit         : %s", safe(bill.UnitLabel, "-")),
		fmt.Sprintf("Resident     : %s", safe(bill.ResidentName, "-")),
		fmt.Sprintf("Due Date     : %s", bill.DueDate.Format(dateLayout)),
		fmt.Sprintf("Paid On      : %s", formatPaidAt(bill)),
		fmt.Sprintf("Method       : %s", safe(deref(bill.PaymentMethod), "-")),
		fmt.Sprintf("Reference    : %s", safe(deref(bill.PaymentRef), "-")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 8, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	rows := []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Maintenance (area x rate)", bill.BaseAmount},
		{"Fixed charge", bill.FixedCharge},
		{"Late fee", bill.LateFee},
	}
	for _, row := range rows {
		pdf.CellFormat(120, 8, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, row.amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 8, "Total paid", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, bill.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "This is a computer generated receipt and does not require a signature.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render receipt: %w", err)
	}

	filename := fmt.Sprintf("receipt_%s_%s.pdf", bill.Period, unsafeFilenamePart.ReplaceAllString(safe(bill.UnitLabel, "unit"), "_"))
	return buf.Bytes(), filename, nil
}

func formatPaidAt(bill model.MaintenanceBill) string {
	if bill.PaidAt == nil {
		return "-"
	}
	return bill.PaidAt.UTC().Format("2006-01-02 15:04")
}

func safe(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
