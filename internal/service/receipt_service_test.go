package service

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-society-manager/internal/model"
	"go-society-manager/pkg/apierror"
)

func TestReceiptService_Receipt(t *testing.T) {
	ctx := context.Background()

	t.Run("unpaid bill has no receipt", func(t *testing.T) {
		bills := new(mockBillStore)
		svc := NewReceiptService(bills, new(mockSocietyStore))
		bills.On("FindByID", ctx, "b1").Return(model.MaintenanceBill{ID: "b1", Status: model.BillStatusPending}, nil)

		_, _, err := svc.Receipt(ctx, "b1")
		assert.Equal(t, http.StatusConflict, apierror.StatusOf(err))
	})

	t.Run("renders a pdf for a paid bill", func(t *testing.T) {
		bills := new(mockBillStore)
		societies := new(mockSocietyStore)
		svc := NewReceiptService(bills, societies)

		paidAt := time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)
		method := "upi"
		ref := "TXN-9"
		bills.On("FindByID", ctx, "b1").Return(model.MaintenanceBill{
			ID:            "0b6a3c2e-1111-2222-3333-444455556666",
			SocietyID:     "s1",
			UnitLabel:     "B-304",
			ResidentName:  "Meera Rao",
			Period:        "2024-03",
			BaseAmount:    dec("3000"),
			FixedCharge:   dec("500"),
			LateFee:       dec("0"),
			TotalAmount:   dec("3500"),
			DueDate:       day(2024, time.March, 10),
			Status:        model.BillStatusPaid,
			PaidAt:        &paidAt,
			PaymentMethod: &method,
			PaymentRef:    &ref,
		}, nil)
		societies.On("FindByID", ctx, "s1").Return(testSociety(), nil)

		pdf, filename, err := svc.Receipt(ctx, "b1")
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
		assert.Equal(t, "receipt_2024-03_B-304.pdf", filename)
	})
}

func TestReceiptNumber(t *testing.T) {
	number := receiptNumber(model.MaintenanceBill{ID: "0b6a3c2e-1111-2222", Period: "2024-03"})
	assert.Equal(t, "RCT-202403-0B6A3C2E", number)
}

func TestReceiptService_ReceiptForUser(t *testing.T) {
	ctx := context.Background()
	bills := new(mockBillStore)
	svc := NewReceiptService(bills, new(mockSocietyStore))

	bills.On("FindForUser", ctx, "b9", "u2").Return(model.MaintenanceBill{}, apierror.NotFound("bill", "b9"))

	_, _, err := svc.ReceiptForUser(ctx, "b9", "u2")
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))

	_, _, err = svc.ReceiptForUser(ctx, "b9", "")
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}
