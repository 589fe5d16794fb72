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

type ResidentService struct {
	store     ResidentStore
	units     UnitStore
	societies SocietyStore
	bus       event.Bus
}

func NewResidentService(store ResidentStore, units UnitStore, societies SocietyStore, bus event.Bus) *ResidentService {
	return &ResidentService{store: store, units: units, societies: societies, bus: bus}
}

func (s *ResidentService) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Resident], error) {
	return s.store.List(ctx, societyID, req.Normalize(), filters)
}

func (s *ResidentService) Get(ctx context.Context, id string) (model.Resident, error) {
	return s.store.FindByID(ctx, id)
}

func (s *ResidentService) Create(ctx context.Context, societyID string, input model.ResidentInput, actor model.AuditActor) (model.Resident, error) {
	if _, err := s.societies.FindByID(ctx, societyID); err != nil {
		return model.Resident{}, err
	}

	resident, err := s.applyInput(ctx, model.Resident{SocietyID: societyID}, input)
	if err != nil {
		return model.Resident{}, err
	}
	resident.ID = uuid.NewString()
	resident.CreatedAt = time.Now().UTC()

	if err := s.store.Create(ctx, resident); err != nil {
		return model.Resident{}, err
	}

	publish(s.bus, event.TypeResidentCreated, actor, resourceKey("resident", resident.ID), nil, resident)
	return resident, nil
}

func (s *ResidentService) Update(ctx context.Context, id string, input model.ResidentInput, actor model.AuditActor) (model.Resident, error) {
	before, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.Resident{}, err
	}

	resident, err := s.applyInput(ctx, before, input)
	if err != nil {
		return model.Resident{}, err
	}
	if err := s.store.Update(ctx, resident); err != nil {
		return model.Resident{}, err
	}

	publish(s.bus, event.TypeResidentUpdated, actor, resourceKey("resident", id), before, resident)
	return resident, nil
}

// Delete removes a resident. Admin residents are refused.
func (s *ResidentService) Delete(ctx context.Context, id string, actor model.AuditActor) error {
	before, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if before.Role == model.RoleAdmin {
		return apierror.Conflict(model.ErrAdminNotDeletable.Error(), id)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	publish(s.bus, event.TypeResidentDeleted, actor, resourceKey("resident", id), before, nil)
	return nil
}

func (s *ResidentService) applyInput(ctx context.Context, resident model.Resident, input model.ResidentInput) (model.Resident, error) {
	name, err := requireText(input.FullName, "full_name")
	if err != nil {
		return model.Resident{}, err
	}
	email, err := validateEmail(input.Email)
	if err != nil {
		return model.Resident{}, err
	}
	role, err := oneOf(input.Role, model.RoleResident, "role", model.RoleResident, model.RoleAdmin)
	if err != nil {
		return model.Resident{}, err
	}
	status, err := oneOf(input.Status, model.ResidentStatusActive, "status", model.ResidentStatusActive, model.ResidentStatusInactive)
	if err != nil {
		return model.Resident{}, err
	}

	resident.UnitID = nil
	resident.UnitLabel = ""
	if input.UnitID != nil && trim(*input.UnitID) != "" {
		unit, err := s.units.FindByID(ctx, trim(*input.UnitID))
		if err != nil {
			return model.Resident{}, err
		}
		if unit.SocietyID != resident.SocietyID {
			return model.Resident{}, apierror.BadRequest("unit belongs to another society", "unit_id")
		}
		resident.UnitID = &unit.ID
		resident.UnitLabel = unit.Label()
	}

	resident.FullName = name
	resident.Email = email
	resident.Phone = trim(input.Phone)
	resident.Role = role
	resident.Status = status
	resident.MovedInAt = input.MovedInAt
	return resident, nil
}
