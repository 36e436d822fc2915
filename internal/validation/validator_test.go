package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadSCI-entist/the-green-co/internal/api/models"
	"github.com/MadSCI-entist/the-green-co/internal/validation"
)

func TestStruct_ValidEmissionInput(t *testing.T) {
	in := &models.EmissionInput{
		CarKm:           1000,
		EVShare:         50,
		KmReduction:     20,
		PlaneLoadFactor: 100,
	}
	assert.Nil(t, validation.Struct(in))
}

func TestStruct_EmissionInputRanges(t *testing.T) {
	tests := []struct {
		name      string
		input     models.EmissionInput
		wantField string
		wantCode  string
	}{
		{"negative car km", models.EmissionInput{CarKm: -1}, "carKm", "gte"},
		{"negative subcontractor tons", models.EmissionInput{SubcontractorsTons: -0.5}, "subcontractorsTons", "gte"},
		{"ev share above 100", models.EmissionInput{EVShare: 101}, "evShare", "lte"},
		{"km reduction below 0", models.EmissionInput{KmReduction: -5}, "kmReduction", "gte"},
		{"plane load factor above 100", models.EmissionInput{PlaneLoadFactor: 150}, "planeLoadFactor", "lte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validation.Struct(&tt.input)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantField, errs[0].Field)
			assert.Equal(t, tt.wantCode, errs[0].Code)
			assert.True(t, strings.HasPrefix(errs[0].Message, tt.wantField), errs[0].Message)
		})
	}
}

func TestStruct_CompanyProfileInput(t *testing.T) {
	errs := validation.Struct(&models.CompanyProfileInput{
		Sector:         strings.Repeat("x", 101),
		RenewableShare: 1.5,
	})

	byField := make(map[string]models.FieldError)
	for _, e := range errs {
		byField[e.Field] = e
	}

	require.Len(t, byField, 3)
	assert.Equal(t, "companyName is required", byField["companyName"].Message)
	assert.Equal(t, "sector must be at most 100 characters", byField["sector"].Message)
	assert.Equal(t, "renewableShare must be less than or equal to 1", byField["renewableShare"].Message)
}

func TestStruct_NonStruct(t *testing.T) {
	errs := validation.Struct("not a struct")
	require.Len(t, errs, 1)
	assert.Equal(t, "body", errs[0].Field)
}

func TestGet_Singleton(t *testing.T) {
	assert.Same(t, validation.Get(), validation.Get())
}
