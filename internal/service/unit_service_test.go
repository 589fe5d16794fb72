package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-society-manager/internal/model"
	"go-society-manager/pkg/apierror"
)

func TestApplyUnitInput(t *testing.T) {
	tests := []struct {
		name    string
		input   model.UnitInput
		wantErr bool
	}{
		{name: "valid flat", input: model.UnitInput{Block: " B ", Number: "304", Floor: 3, AreaSqft: dec("1150")}},
		{name: "villa", input: model.UnitInput{Number: "V7", AreaSqft: dec("2400"), Type: "Villa"}},
		{name: "missing number", input: model.UnitInput{AreaSqft: dec("10")}, wantErr: true},
		{name: "zero area", input: model.UnitInput{Number: "1", AreaSqft: dec("0")}, wantErr: true},
		{name: "negative floor", input: model.UnitInput{Number: "1", AreaSqft: dec("10"), Floor: -1}, wantErr: true},
		{name: "unknown type", input: model.UnitInput{Number: "1", AreaSqft: dec("10"), Type: "garage"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, err := applyUnitInput(model.Unit{SocietyID: "s1"}, tt.input)
			if tt.wantErr {
				assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "s1", unit.SocietyID)
			assert.NotEmpty(t, unit.Type)
		})
	}

	unit, err := applyUnitInput(model.Unit{}, model.UnitInput{Block: " B ", Number: "304", AreaSqft: dec("1")})
	require.NoError(t, err)
	assert.Equal(t, "B-304", unit.Label())
	assert.Equal(t, model.UnitTypeFlat, unit.Type)
}
