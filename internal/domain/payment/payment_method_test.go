package payment

import (
	"errors"
	"testing"

	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEncrypter struct {
	err error
}

func (s stubEncrypter) Encrypt(plaintext string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "sealed:" + plaintext, nil
}

func validDetails() CardDetails {
	return CardDetails{
		CardNumber:     "4111111111111111",
		CardHolderName: "Travis",
		ExpiryDate:     "12/28",
		CVV:            "123",
	}
}

func TestCardDetails_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CardDetails)
		ok     bool
	}{
		{"valid", func(*CardDetails) {}, true},
		{"short number", func(d *CardDetails) { d.CardNumber = "411111111111" }, false},
		{"letters in number", func(d *CardDetails) { d.CardNumber = "41111111111111ab" }, false},
		{"blank holder", func(d *CardDetails) { d.CardHolderName = "  " }, false},
		{"month 13", func(d *CardDetails) { d.ExpiryDate = "13/28" }, false},
		{"month 00", func(d *CardDetails) { d.ExpiryDate = "00/28" }, false},
		{"four digit year", func(d *CardDetails) { d.ExpiryDate = "12/2028" }, false},
		{"cvv too long", func(d *CardDetails) { d.CVV = "1234" }, false},
		{"cvv letters", func(d *CardDetails) { d.CVV = "12a" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			tt.mutate(&d)
			err := d.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, shared.IsValidation(err))
		})
	}
}

func TestNewPaymentMethod(t *testing.T) {
	userID := uuid.New()

	pm, err := NewPaymentMethod(userID, validDetails(), stubEncrypter{})
	require.NoError(t, err)
	assert.Equal(t, userID, pm.UserID)
	assert.Equal(t, "1111", pm.CardNumber)
	assert.Equal(t, "sealed:123", pm.EncryptedCVV)
	assert.Equal(t, "**** **** **** 1111", pm.MaskedNumber())

	_, err = NewPaymentMethod(uuid.Nil, validDetails(), stubEncrypter{})
	assert.True(t, shared.IsValidation(err))

	_, err = NewPaymentMethod(userID, validDetails(), stubEncrypter{err: errors.New("boom")})
	assert.Equal(t, "CVV_ENCRYPTION_ERROR", shared.ErrorCode(err))
}

func TestPaymentMethod_Replace(t *testing.T) {
	pm, err := NewPaymentMethod(uuid.New(), validDetails(), stubEncrypter{})
	require.NoError(t, err)

	d := validDetails()
	d.CardNumber = "5500000000000004"
	d.CVV = "999"
	require.NoError(t, pm.Replace(d, stubEncrypter{}))
	assert.Equal(t, "0004", pm.CardNumber)
	assert.Equal(t, "sealed:999", pm.EncryptedCVV)
	assert.Equal(t, 2, pm.Version)

	bad := validDetails()
	bad.ExpiryDate = "1/28"
	assert.True(t, shared.IsValidation(pm.Replace(bad, stubEncrypter{})))
	assert.Equal(t, "0004", pm.CardNumber)
}

func TestLastFour(t *testing.T) {
	assert.Equal(t, "1234", LastFour("1234"))
	assert.Equal(t, "12", LastFour("12"))
	assert.Equal(t, "7890", LastFour("1234567890"))
}
