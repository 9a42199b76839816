package csvimport

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// FieldType is the expected type of a column
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeDecimal FieldType = "decimal"
	TypeBool    FieldType = "bool"
)

// FieldRule defines validation rules for a column
type FieldRule struct {
	Column     string
	Type       FieldType
	Required   bool
	MaxLength  int
	MinValue   *decimal.Decimal
	MaxValue   *decimal.Decimal
	Unique     bool
	CustomFunc func(value string) error
}

// FieldRuleBuilder builds a FieldRule fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field starts a rule for column
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{rule: FieldRule{Column: column, Type: TypeString}}
}

// Required marks the field as required
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// String sets the field type to string
func (b *FieldRuleBuilder) String() *FieldRuleBuilder {
	b.rule.Type = TypeString
	return b
}

// Decimal sets the field type to decimal
func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

// Bool sets the field type to boolean
func (b *FieldRuleBuilder) Bool() *FieldRuleBuilder {
	b.rule.Type = TypeBool
	return b
}

// MaxLength sets the maximum length in characters
func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// MinValue sets the minimum numeric value
func (b *FieldRuleBuilder) MinValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MinValue = &v
	return b
}

// MaxValue sets the maximum numeric value
func (b *FieldRuleBuilder) MaxValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MaxValue = &v
	return b
}

// Unique rejects repeated values within the file, compared case-insensitively
func (b *FieldRuleBuilder) Unique() *FieldRuleBuilder {
	b.rule.Unique = true
	return b
}

// Custom adds a validation function run after the built-in checks
func (b *FieldRuleBuilder) Custom(fn func(value string) error) *FieldRuleBuilder {
	b.rule.CustomFunc = fn
	return b
}

// Build returns the rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// Validator checks rows against a fixed set of rules
type Validator struct {
	rules  []FieldRule
	seen   map[string]map[string]int // column -> normalized value -> first row
	errors *ErrorCollection
}

// NewValidator creates a validator collecting into errors
func NewValidator(rules []FieldRule, errors *ErrorCollection) *Validator {
	return &Validator{
		rules:  rules,
		seen:   make(map[string]map[string]int),
		errors: errors,
	}
}

// ValidateRow checks every rule against row and reports whether it passed.
// Rules are evaluated in declaration order so errors come out stable.
func (v *Validator) ValidateRow(row *Row) bool {
	ok := true
	for _, rule := range v.rules {
		if !v.validateField(row, rule) {
			ok = false
		}
	}
	return ok
}

func (v *Validator) validateField(row *Row, rule FieldRule) bool {
	value := row.Get(rule.Column)
	line := row.LineNumber

	if value == "" {
		if rule.Required {
			v.errors.AddError(line, rule.Column, ErrCodeRequiredField,
				fmt.Sprintf("field '%s' is required", rule.Column), "")
			return false
		}
		return true
	}

	switch rule.Type {
	case TypeDecimal:
		d, err := decimal.NewFromString(value)
		if err != nil {
			v.errors.AddError(line, rule.Column, ErrCodeInvalidType, "expected decimal", value)
			return false
		}
		if rule.MinValue != nil && d.LessThan(*rule.MinValue) {
			v.errors.AddError(line, rule.Column, ErrCodeInvalidRange,
				fmt.Sprintf("value must be at least %s", rule.MinValue.String()), value)
			return false
		}
		if rule.MaxValue != nil && d.GreaterThan(*rule.MaxValue) {
			v.errors.AddError(line, rule.Column, ErrCodeInvalidRange,
				fmt.Sprintf("value must be at most %s", rule.MaxValue.String()), value)
			return false
		}
	case TypeBool:
		if _, err := ParseBool(value); err != nil {
			v.errors.AddError(line, rule.Column, ErrCodeInvalidType, "expected bool", value)
			return false
		}
	}

	if rule.MaxLength > 0 && utf8.RuneCountInString(value) > rule.MaxLength {
		v.errors.AddError(line, rule.Column, ErrCodeInvalidLength,
			fmt.Sprintf("length must be at most %d", rule.MaxLength), "")
		return false
	}

	if rule.Unique {
		key := strings.ToLower(value)
		if v.seen[rule.Column] == nil {
			v.seen[rule.Column] = make(map[string]int)
		}
		if first, dup := v.seen[rule.Column][key]; dup {
			v.errors.AddError(line, rule.Column, ErrCodeDuplicateInFile,
				fmt.Sprintf("duplicate value '%s' (first seen in row %d)", value, first), value)
			return false
		}
		v.seen[rule.Column][key] = line
	}

	if rule.CustomFunc != nil {
		if err := rule.CustomFunc(value); err != nil {
			v.errors.AddError(line, rule.Column, ErrCodeValidation, err.Error(), value)
			return false
		}
	}
	return true
}

// ParseBool accepts true/false, 1/0, yes/no and y/n in any case
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "y":
		return true, nil
	case "false", "0", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value: %s", value)
}
