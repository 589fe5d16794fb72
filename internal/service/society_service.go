package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-society-manager/internal/event"
	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
	"go-society-manager/pkg/apierror"
)

const defaultDueDay = 10

type SocietyService struct {
	store SocietyStore
	bus   event.Bus
}

func NewSocietyService(store SocietyStore, bus event.Bus) *SocietyService {
	return &SocietyService{store: store, bus: bus}
}

func (s *SocietyService) List(ctx context.Context, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Society], error) {
	return s.store.List(ctx, req.Normalize(), filters)
}

func (s *SocietyService) Get(ctx context.Context, id string) (model.Society, error) {
	return s.store.FindByID(ctx, id)
}

func (s *SocietyService) Create(ctx context.Context, input model.SocietyInput, actor model.AuditActor) (model.Society, error) {
	society, err := applySocietyInput(model.Society{}, input)
	if err != nil {
		return model.Society{}, err
	}

	now := time.Now().UTC()
	society.ID = uuid.NewString()
	society.CreatedAt = now
	society.UpdatedAt = now

	if err := s.store.Create(ctx, society); err != nil {
		return model.Society{}, err
	}

	publish(s.bus, event.TypeSocietyCreated, actor, resourceKey("society", society.ID), nil, society)
	return society, nil
}

func (s *SocietyService) Update(ctx context.Context, id string, input model.SocietyInput, actor model.AuditActor) (model.Society, error) {
	before, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.Society{}, err
	}

	society, err := applySocietyInput(before, input)
	if err != nil {
		return model.Society{}, err
	}
	society.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, society); err != nil {
		return model.Society{}, err
	}

	publish(s.bus, event.TypeSocietyUpdated, actor, resourceKey("society", id), before, society)
	return society, nil
}

func (s *SocietyService) Delete(ctx context.Context, id string, actor model.AuditActor) error {
	before, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	publish(s.bus, event.TypeSocietyDeleted, actor, resourceKey("society", id), before, nil)
	return nil
}

// Summary reports the ledger totals and collection status of a society.
// from and to are optional YYYY-MM-DD bounds.
func (s *SocietyService) Summary(ctx context.Context, societyID string, from string, to string) (model.Summary, error) {
	if err := validateOptionalDate(from, "from"); err != nil {
		return model.Summary{}, err
	}
	if err := validateOptionalDate(to, "to"); err != nil {
		return model.Summary{}, err
	}
	if _, err := s.store.FindByID(ctx, societyID); err != nil {
		return model.Summary{}, err
	}

	summary, err := s.store.Totals(ctx, societyID, from, to)
	if err != nil {
		return model.Summary{}, err
	}

	summary.Balance = summary.TotalIncome.Add(summary.Collected).Sub(summary.TotalExpense)
	summary.Outstanding = summary.Billed.Sub(summary.Collected)
	return summary, nil
}

func applySocietyInput(society model.Society, input model.SocietyInput) (model.Society, error) {
	name, err := requireText(input.Name, "name")
	if err != nil {
		return model.Society{}, err
	}
	if err := requireNonNegative(input.MaintenanceRate, "maintenance_rate"); err != nil {
		return model.Society{}, err
	}
	if err := requireNonNegative(input.FixedCharge, "fixed_charge"); err != nil {
		return model.Society{}, err
	}
	if err := requireNonNegative(input.LateFee, "late_fee"); err != nil {
		return model.Society{}, err
	}

	dueDay := input.DueDay
	if dueDay == 0 {
		dueDay = defaultDueDay
	}
	if dueDay < 1 || dueDay > 28 {
		return model.Society{}, apierror.BadRequest("due_day must be between 1 and 28", "due_day")
	}

	society.Name = name
	society.Address = trim(input.Address)
	society.City = trim(input.City)
	society.RegistrationNo = trim(input.RegistrationNo)
	society.MaintenanceRate = input.MaintenanceRate
	society.FixedCharge = input.FixedCharge
	society.LateFee = input.LateFee
	society.DueDay = dueDay
	return society, nil
}
