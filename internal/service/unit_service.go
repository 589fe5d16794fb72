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

type UnitService struct {
	store     UnitStore
	societies SocietyStore
	bus       event.Bus
}

func NewUnitService(store UnitStore, societies SocietyStore, bus event.Bus) *UnitService {
	return &UnitService{store: store, societies: societies, bus: bus}
}

func (s *UnitService) List(ctx context.Context, societyID string, req pagination.Request, filters pagination.Filters) (pagination.Page[model.Unit], error) {
	return s.store.List(ctx, societyID, req.Normalize(), filters)
}

func (s *UnitService) Get(ctx context.Context, id string) (model.Unit, error) {
	return s.store.FindByID(ctx, id)
}

func (s *UnitService) Create(ctx context.Context, societyID string, input model.UnitInput, actor model.AuditActor) (model.Unit, error) {
	if _, err := s.societies.FindByID(ctx, societyID); err != nil {
		return model.Unit{}, err
	}

	unit, err := applyUnitInput(model.Unit{}, input)
	if err != nil {
		return model.Unit{}, err
	}
	unit.ID = uuid.NewString()
	unit.SocietyID = societyID
	unit.CreatedAt = time.Now().UTC()

	if err := s.store.Create(ctx, unit); err != nil {
		return model.Unit{}, err
	}

	publish(s.bus, event.TypeUnitCreated, actor, resourceKey("unit", unit.ID), nil, unit)
	return unit, nil
}

func (s *UnitService) Update(ctx context.Context, id string, input model.UnitInput, actor model.AuditActor) (model.Unit, error) {
	before, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.Unit{}, err
	}

	unit, err := applyUnitInput(before, input)
	if err != nil {
		return model.Unit{}, err
	}
	if err := s.store.Update(ctx, unit); err != nil {
		return model.Unit{}, err
	}

	publish(s.bus, event.TypeUnitUpdated, actor, resourceKey("unit", id), before, unit)
	return unit, nil
}

func (s *UnitService) Delete(ctx context.Context, id string, actor model.AuditActor) error {
	before, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	publish(s.bus, event.TypeUnitDeleted, actor, resourceKey("unit", id), before, nil)
	return nil
}

func applyUnitInput(unit model.Unit, input model.UnitInput) (model.Unit, error) {
	number, err := requireText(input.Number, "number")
	if err != nil {
		return model.Unit{}, err
	}
	if err := requirePositive(input.AreaSqft, "area_sqft"); err != nil {
		return model.Unit{}, err
	}
	if input.Floor < 0 {
		return model.Unit{}, apierror.BadRequest("floor must not be negative", "floor")
	}
	unitType, err := oneOf(input.Type, model.UnitTypeFlat, "type", model.UnitTypeFlat, model.UnitTypeVilla, model.UnitTypeShop)
	if err != nil {
		return model.Unit{}, err
	}

	unit.Block = trim(input.Block)
	unit.Number = number
	unit.Floor = input.Floor
	unit.AreaSqft = input.AreaSqft
	unit.Type = unitType
	unit.Occupied = input.Occupied
	return unit, nil
}
