package csvimport

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(line int, data map[string]string) *Row {
	return &Row{LineNumber: line, Data: data}
}

func TestFieldRuleBuilder(t *testing.T) {
	rule := Field("price").Required().Decimal().MinValue(decimal.Zero).MaxValue(decimal.NewFromInt(100)).Build()

	assert.Equal(t, "price", rule.Column)
	assert.True(t, rule.Required)
	assert.Equal(t, TypeDecimal, rule.Type)
	require.NotNil(t, rule.MinValue)
	assert.True(t, rule.MinValue.IsZero())
	assert.Equal(t, "100", rule.MaxValue.String())

	assert.Equal(t, TypeString, Field("name").Build().Type)
	assert.Equal(t, TypeBool, Field("available").Bool().Build().Type)
}

func TestValidator_ValidateRow(t *testing.T) {
	rules := []FieldRule{
		Field("name").Required().String().MaxLength(5).Unique().Build(),
		Field("price").Required().Decimal().MinValue(decimal.Zero).Build(),
		Field("is_available").Bool().Build(),
		Field("category").Custom(func(v string) error {
			if v == "misc" {
				return errors.New("category is too vague")
			}
			return nil
		}).Build(),
	}

	tests := []struct {
		name     string
		data     map[string]string
		wantOK   bool
		wantCode string
	}{
		{"valid", map[string]string{"name": "Naan", "price": "2.5", "is_available": "yes"}, true, ""},
		{"missing required", map[string]string{"name": "Dal", "price": ""}, false, ErrCodeRequiredField},
		{"bad decimal", map[string]string{"name": "Roti", "price": "two"}, false, ErrCodeInvalidType},
		{"negative price", map[string]string{"name": "Puri", "price": "-1"}, false, ErrCodeInvalidRange},
		{"bad bool", map[string]string{"name": "Kulfi", "price": "1", "is_available": "maybe"}, false, ErrCodeInvalidType},
		{"too long", map[string]string{"name": "Biryani", "price": "1"}, false, ErrCodeInvalidLength},
		{"custom rule", map[string]string{"name": "Chai", "price": "1", "category": "misc"}, false, ErrCodeValidation},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := NewErrorCollection(10)
			v := NewValidator(rules, errs)

			ok := v.ValidateRow(row(i+2, tt.data))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.False(t, errs.HasErrors())
				return
			}
			require.Len(t, errs.Errors(), 1)
			assert.Equal(t, tt.wantCode, errs.Errors()[0].Code)
			assert.Equal(t, i+2, errs.Errors()[0].Row)
		})
	}

	t.Run("duplicates are case insensitive", func(t *testing.T) {
		errs := NewErrorCollection(10)
		v := NewValidator(rules, errs)

		assert.True(t, v.ValidateRow(row(2, map[string]string{"name": "Naan", "price": "1"})))
		assert.False(t, v.ValidateRow(row(3, map[string]string{"name": "NAAN", "price": "1"})))
		require.Len(t, errs.Errors(), 1)
		assert.Equal(t, ErrCodeDuplicateInFile, errs.Errors()[0].Code)
		assert.Contains(t, errs.Errors()[0].Message, "first seen in row 2")
	})
}

func TestErrorCollection(t *testing.T) {
	errs := NewErrorCollection(2)
	errs.AddError(2, "name", ErrCodeRequiredField, "field 'name' is required", "")
	errs.AddError(2, "price", ErrCodeInvalidType, "expected decimal", "x")
	errs.AddError(5, "", ErrCodeDuplicateInDB, "already exists", "Naan")

	assert.True(t, errs.HasErrors())
	assert.Len(t, errs.Errors(), 2)
	assert.Equal(t, 3, errs.TotalCount())
	assert.Equal(t, 2, errs.RowCount())
	assert.True(t, errs.IsTruncated())
	assert.Equal(t, "row 2, column 'price': expected decimal", errs.Errors()[1].Error())
	assert.Equal(t, "row 5: already exists", RowError{Row: 5, Message: "already exists"}.Error())

	assert.Equal(t, 100, NewErrorCollection(0).maxErrors)
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "1", "yes", "Y"} {
		b, err := ParseBool(v)
		require.NoError(t, err, v)
		assert.True(t, b, v)
	}
	for _, v := range []string{"false", "0", "No", "n"} {
		b, err := ParseBool(v)
		require.NoError(t, err, v)
		assert.False(t, b, v)
	}
	_, err := ParseBool("sometimes")
	assert.Error(t, err)
}
