package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-society-manager/internal/event"
	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
)

type IncomeService struct {
	store     IncomeStore
	societies SocietyStore
	bus       event.Bus
}

func NewIncomeService(store IncomeStore, societies SocietyStore, bus event.Bus) *IncomeService {
	return &IncomeService{store: store, societies: societies, bus: bus}
}

func (s *IncomeService) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Income], error) {
	if err := validateRangeFilters(filters); err != nil {
		return pagination.Page[model.Income]{}, err
	}
	return s.store.List(ctx, societyID, req.Normalize(), filters)
}

func (s *IncomeService) Create(ctx context.Context, societyID string, input model.IncomeInput, actor model.AuditActor) (model.Income, error) {
	if _, err := s.societies.FindByID(ctx, societyID); err != nil {
		return model.Income{}, err
	}

	title, err := requireText(input.Title, "title")
	if err != nil {
		return model.Income{}, err
	}
	if err := requirePositive(input.Amount, "amount"); err != nil {
		return model.Income{}, err
	}
	receivedOn, err := parseDateOr(input.ReceivedOn, "received_on", today())
	if err != nil {
		return model.Income{}, err
	}

	income := model.Income{
		ID:         uuid.NewString(),
		SocietyID:  societyID,
		Title:      title,
		Category:   trim(input.Category),
		Amount:     input.Amount.Round(2),
		ReceivedOn: receivedOn,
		Notes:      trim(input.Notes),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.Create(ctx, income); err != nil {
		return model.Income{}, err
	}

	publish(s.bus, event.TypeIncomeCreated, actor, resourceKey("income", income.ID), nil, income)
	return income, nil
}

func (s *IncomeService) Delete(ctx context.Context, id string, actor model.AuditActor) error {
	before, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	publish(s.bus, event.TypeIncomeDeleted, actor, resourceKey("income", id), before, nil)
	return nil
}

type ExpenseService struct {
	store       ExpenseStore
	societies   SocietyStore
	attachments *AttachmentService
	bus         event.Bus
}

func NewExpenseService(store ExpenseStore, societies SocietyStore, attachments *AttachmentService, bus event.Bus) *ExpenseService {
	return &ExpenseService{store: store, societies: societies, attachments: attachments, bus: bus}
}

func (s *ExpenseService) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Expense], error) {
	if err := validateRangeFilters(filters); err != nil {
		return pagination.Page[model.Expense]{}, err
	}
	return s.store.List(ctx, societyID, req.Normalize(), filters)
}

func (s *ExpenseService) Get(ctx context.Context, id string) (model.Expense, error) {
	return s.store.FindByID(ctx, id)
}

func (s *ExpenseService) Create(ctx context.Context, societyID string, input model.ExpenseInput, actor model.AuditActor) (model.Expense, error) {
	if _, err := s.societies.FindByID(ctx, societyID); err != nil {
		return model.Expense{}, err
	}

	title, err := requireText(input.Title, "title")
	if err != nil {
		return model.Expense{}, err
	}
	if err := requirePositive(input.Amount, "amount"); err != nil {
		return model.Expense{}, err
	}
	spentOn, err := parseDateOr(input.SpentOn, "spent_on", today())
	if err != nil {
		return model.Expense{}, err
	}

	expense := model.Expense{
		ID:        uuid.NewString(),
		SocietyID: societyID,
		Title:     title,
		Category:  trim(input.Category),
		Amount:    input.Amount.Round(2),
		SpentOn:   spentOn,
		Vendor:    trim(input.Vendor),
		Notes:     trim(input.Notes),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.Create(ctx, expense); err != nil {
		return model.Expense{}, err
	}

	publish(s.bus, event.TypeExpenseCreated, actor, resourceKey("expense", expense.ID), nil, expense)
	return expense, nil
}

// Delete removes the expense and its stored attachment.
func (s *ExpenseService) Delete(ctx context.Context, id string, actor model.AuditActor) error {
	before, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if before.AttachmentPath != nil && s.attachments != nil {
		s.attachments.discard(*before.AttachmentPath)
	}

	publish(s.bus, event.TypeExpenseDeleted, actor, resourceKey("expense", id), before, nil)
	return nil
}

func validateRangeFilters(filters pagination.Filters) error {
	if err := validateOptionalDate(filters.Get("from"), "from"); err != nil {
		return err
	}
	return validateOptionalDate(filters.Get("to"), "to")
}
