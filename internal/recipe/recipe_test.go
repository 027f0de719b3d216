package recipe

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ukemeny/internal/shared"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestSaveRequest_Validate(t *testing.T) {
	valid := func() SaveRequest {
		return SaveRequest{
			Name: "  Taco ",
			Items: []ItemRequest{
				{IngredientName: " Kjøttdeig", Amount: amount("400"), Unit: " g "},
			},
		}
	}

	req := valid()
	require.NoError(t, req.Validate())
	assert.Equal(t, "Taco", req.Name)
	assert.Equal(t, "Kjøttdeig", req.Items[0].IngredientName)
	assert.Equal(t, "g", req.Items[0].Unit)

	tests := []struct {
		name   string
		mutate func(*SaveRequest)
	}{
		{"blank name", func(r *SaveRequest) { r.Name = " " }},
		{"no items", func(r *SaveRequest) { r.Items = nil }},
		{"blank ingredient", func(r *SaveRequest) { r.Items[0].IngredientName = "" }},
		{"blank unit", func(r *SaveRequest) { r.Items[0].Unit = "" }},
		{"negative amount", func(r *SaveRequest) { r.Items[0].Amount = amount("-1") }},
		{"too precise", func(r *SaveRequest) { r.Items[0].Amount = amount("0.1234") }},
		{"missing amount", func(r *SaveRequest) { r.Items[0].Amount = nil }},
		{"too large", func(r *SaveRequest) { r.Items[0].Amount = amount("1000000000") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			assert.ErrorIs(t, req.Validate(), shared.ErrValidation)
		})
	}
}

func TestSaveRequest_ValidateRejectsMissingAmountInJSON(t *testing.T) {
	var req SaveRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Taco","items":[{"ingredientName":"Kjøttdeig","unit":"g"}]}`), &req))

	err := req.Validate()
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Contains(t, err.Error(), "items[0].amount is required")

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Taco","items":[{"ingredientName":"Kjøttdeig","amount":0,"unit":"g"}]}`), &req))
	assert.NoError(t, req.Validate(), "an explicit zero is allowed")
}

func TestValidateAmount(t *testing.T) {
	for _, ok := range []string{"0", "1", "0.5", "2.125", "400.000", "0.0010", "999999999.999"} {
		assert.NoError(t, ValidateAmount(decimal.RequireFromString(ok)), ok)
	}
	for _, bad := range []string{"-0.5", "0.0001", "1.2345", "1000000000"} {
		assert.ErrorIs(t, ValidateAmount(decimal.RequireFromString(bad)), shared.ErrValidation, bad)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"400":     "400",
		"400.000": "400.000",
		"0.5":     "0.5",
		"1.250":   "1.250",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatAmount(decimal.RequireFromString(in)), in)
	}
}
