package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-society-manager/internal/event"
	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
	"go-society-manager/pkg/apierror"
)

const periodLayout = "2006-01"

var paymentMethods = []string{"cash", "cheque", "upi", "bank_transfer", "card"}

// Amount is the breakdown of one maintenance charge.
type Amount struct {
	Base    decimal.Decimal `json:"base_amount"`
	Fixed   decimal.Decimal `json:"fixed_charge"`
	LateFee decimal.Decimal `json:"late_fee"`
	Total   decimal.Decimal `json:"total_amount"`
}

// ComputeAmount prices an unpaid bill of unit as of asOf: area times the
// society rate plus its fixed charge, plus the late fee once asOf falls on a
// day after dueDate. Every component is rounded half up to two decimals.
func ComputeAmount(society model.Society, unit model.Unit, dueDate time.Time, asOf time.Time) Amount {
	amount := Amount{
		Base:    unit.AreaSqft.Mul(society.MaintenanceRate).Round(2),
		Fixed:   society.FixedCharge.Round(2),
		LateFee: decimal.Zero,
	}
	if isPastDue(dueDate, asOf) {
		amount.LateFee = society.LateFee.Round(2)
	}
	amount.Total = amount.Base.Add(amount.Fixed).Add(amount.LateFee)
	return amount
}

func isPastDue(dueDate time.Time, asOf time.Time) bool {
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	return day.After(due)
}

// DueDate is the due date of period ("YYYY-MM") under the society's due day.
func DueDate(society model.Society, period string) (time.Time, error) {
	month, err := time.Parse(periodLayout, strings.TrimSpace(period))
	if err != nil {
		return time.Time{}, apierror.BadRequest("period must be YYYY-MM", "period")
	}
	day := society.DueDay
	if day < 1 || day > 28 {
		day = defaultDueDay
	}
	return time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, time.UTC), nil
}

type BillingService struct {
	bills     BillStore
	units     UnitStore
	residents ResidentStore
	societies SocietyStore
	bus       event.Bus
	now       func() time.Time
}

func NewBillingService(bills BillStore, units UnitStore, residents ResidentStore, societies SocietyStore, bus event.Bus) *BillingService {
	return &BillingService{
		bills:     bills,
		units:     units,
		residents: residents,
		societies: societies,
		bus:       bus,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *BillingService) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.MaintenanceBill], error) {
	return s.bills.List(ctx, societyID, req.Normalize(), filters)
}

// ListForUser pages only the bills of residents linked to the user.
func (s *BillingService) ListForUser(ctx context.Context, userID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.MaintenanceBill], error) {
	if strings.TrimSpace(userID) == "" {
		return pagination.Page[model.MaintenanceBill]{}, model.ErrUnauthorized
	}
	return s.bills.ListForUser(ctx, userID, req.Normalize(), filters)
}

func (s *BillingService) Get(ctx context.Context, id string) (model.MaintenanceBill, error) {
	return s.bills.FindByID(ctx, id)
}

// GenerateBills raises one bill per occupied unit that has none for period.
// Running it again for the same period creates nothing new.
func (s *BillingService) GenerateBills(ctx context.Context, societyID string, period string, actor model.AuditActor) (model.GenerateBillsResult, error) {
	society, err := s.societies.FindByID(ctx, societyID)
	if err != nil {
		return model.GenerateBillsResult{}, err
	}
	dueDate, err := DueDate(society, period)
	if err != nil {
		return model.GenerateBillsResult{}, err
	}
	period = dueDate.Format(periodLayout)

	units, err := s.units.ListOccupied(ctx, societyID)
	if err != nil {
		return model.GenerateBillsResult{}, err
	}

	now := s.now()
	result := model.GenerateBillsResult{Period: period, Bills: make([]model.MaintenanceBill, 0, len(units))}
	for _, unit := range units {
		amount := ComputeAmount(society, unit, dueDate, now)
		bill := model.MaintenanceBill{
			ID:          uuid.NewString(),
			SocietyID:   societyID,
			UnitID:      unit.ID,
			UnitLabel:   unit.Label(),
			Period:      period,
			BaseAmount:  amount.Base,
			FixedCharge: amount.Fixed,
			LateFee:     amount.LateFee,
			TotalAmount: amount.Total,
			DueDate:     dueDate,
			Status:      model.BillStatusPending,
			CreatedAt:   now,
		}
		if isPastDue(dueDate, now) {
			bill.Status = model.BillStatusOverdue
		}

		resident, found, err := s.residents.FindActiveByUnit(ctx, unit.ID)
		if err != nil {
			return result, err
		}
		if found {
			bill.ResidentID = &resident.ID
			bill.ResidentName = resident.FullName
		}

		created, err := s.bills.CreateIfAbsent(ctx, bill)
		if err != nil {
			return result, fmt.Errorf("generate bill for unit %s: %w", unit.Label(), err)
		}
		if !created {
			result.Skipped++
			continue
		}
		result.Created++
		result.Bills = append(result.Bills, bill)
	}

	publish(s.bus, event.TypeBillsGenerated, actor, resourceKey("society", societyID), nil,
		map[string]any{"period": period, "created": result.Created, "skipped": result.Skipped})
	return result, nil
}

// MarkOverdue moves pending bills whose due date has passed to overdue and
// adds the society's late fee. It returns how many bills changed.
func (s *BillingService) MarkOverdue(ctx context.Context, asOf time.Time) (int, error) {
	bills, err := s.bills.ListPendingDueBefore(ctx, asOf)
	if err != nil {
		return 0, err
	}

	societies := map[string]model.Society{}
	updated := 0
	for _, bill := range bills {
		if !isPastDue(bill.DueDate, asOf) {
			continue
		}

		society, ok := societies[bill.SocietyID]
		if !ok {
			society, err = s.societies.FindByID(ctx, bill.SocietyID)
			if err != nil {
				return updated, err
			}
			societies[bill.SocietyID] = society
		}

		lateFee := society.LateFee.Round(2)
		total := bill.BaseAmount.Add(bill.FixedCharge).Add(lateFee)
		if err := s.bills.MarkOverdue(ctx, bill.ID, lateFee, total); err != nil {
			return updated, err
		}
		updated++
	}

	if updated > 0 {
		slog.Info("bills marked overdue", "count", updated, "as_of", asOf.Format(dateLayout))
		publish(s.bus, event.TypeBillsOverdue, model.AuditActor{Username: "system"}, "bills", nil,
			map[string]any{"count": updated, "as_of": asOf.Format(dateLayout)})
	}
	return updated, nil
}

// Pay records a payment against a bill. Paying a paid bill is a conflict.
func (s *BillingService) Pay(ctx context.Context, billID string, req model.PayBillRequest, actor model.AuditActor) (model.MaintenanceBill, error) {
	before, err := s.bills.FindByID(ctx, billID)
	if err != nil {
		return model.MaintenanceBill{}, err
	}
	if before.IsPaid() {
		return model.MaintenanceBill{}, apierror.Conflict(model.ErrBillAlreadyPaid.Error(), billID)
	}

	method, err := oneOf(req.Method, "cash", "method", paymentMethods...)
	if err != nil {
		return model.MaintenanceBill{}, err
	}
	ref := trim(req.Reference)
	if method != "cash" && ref == "" {
		return model.MaintenanceBill{}, apierror.BadRequest("reference is required for "+method+" payments", "reference")
	}

	paidAt := s.now()
	changed, err := s.bills.MarkPaid(ctx, billID, paidAt, method, ref)
	if err != nil {
		return model.MaintenanceBill{}, err
	}
	if !changed {
		return model.MaintenanceBill{}, apierror.Conflict(model.ErrBillAlreadyPaid.Error(), billID)
	}

	bill := before
	bill.Status = model.BillStatusPaid
	bill.PaidAt = &paidAt
	bill.PaymentMethod = &method
	if ref != "" {
		bill.PaymentRef = &ref
	}

	publish(s.bus, event.TypeBillPaid, actor, resourceKey("bill", billID), before, bill)
	return bill, nil
}
