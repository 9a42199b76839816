package payment

import (
	"time"

	"github.com/foodorder/backend/internal/domain/payment"
	"github.com/google/uuid"
)

// PaymentMethodRequest carries card details for create and update
type PaymentMethodRequest struct {
	CardNumber     string `json:"cardNumber" binding:"required,len=16,numeric"`
	CardHolderName string `json:"cardHolderName" binding:"required,max=100"`
	ExpiryDate     string `json:"expiryDate" binding:"required,card_expiry"`
	CVV            string `json:"cvv" binding:"required,len=3,numeric"`
}

func (r PaymentMethodRequest) details() payment.CardDetails {
	return payment.CardDetails{
		CardNumber:     r.CardNumber,
		CardHolderName: r.CardHolderName,
		ExpiryDate:     r.ExpiryDate,
		CVV:            r.CVV,
	}
}

// PaymentMethodResponse represents the card on file. It never carries the
// CVV or more than the last four digits.
type PaymentMethodResponse struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	CardNumber     string    `json:"cardNumber"`
	MaskedNumber   string    `json:"maskedNumber"`
	CardHolderName string    `json:"cardHolderName"`
	ExpiryDate     string    `json:"expiryDate"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ToPaymentMethodResponse converts a domain payment method
func ToPaymentMethodResponse(pm *payment.PaymentMethod) *PaymentMethodResponse {
	return &PaymentMethodResponse{
		ID:             pm.ID,
		UserID:         pm.UserID,
		CardNumber:     pm.CardNumber,
		MaskedNumber:   pm.MaskedNumber(),
		CardHolderName: pm.CardHolderName,
		ExpiryDate:     pm.ExpiryDate,
		CreatedAt:      pm.CreatedAt,
		UpdatedAt:      pm.UpdatedAt,
	}
}
