package models

import (
	"github.com/foodorder/backend/internal/domain/payment"
	"github.com/google/uuid"
)

// PaymentMethodModel is the persistence model for a user's card on file.
type PaymentMethodModel struct {
	AggregateModel
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CardNumber     string    `gorm:"type:varchar(4);not null"`
	CardHolderName string    `gorm:"type:varchar(200);not null"`
	ExpiryDate     string    `gorm:"type:varchar(5);not null"`
	EncryptedCVV   string    `gorm:"column:cvv;type:varchar(128);not null"`
}

// TableName returns the table name for GORM
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}

// ToDomain converts the persistence model to a domain PaymentMethod.
func (m *PaymentMethodModel) ToDomain() *payment.PaymentMethod {
	return &payment.PaymentMethod{
		Aggregate:      m.aggregate(),
		UserID:         m.UserID,
		CardNumber:     m.CardNumber,
		CardHolderName: m.CardHolderName,
		ExpiryDate:     m.ExpiryDate,
		EncryptedCVV:   m.EncryptedCVV,
	}
}

// FromDomain populates the persistence model from a domain PaymentMethod.
func (m *PaymentMethodModel) FromDomain(pm *payment.PaymentMethod) {
	m.setAggregate(pm.Aggregate)
	m.UserID = pm.UserID
	m.CardNumber = pm.CardNumber
	m.CardHolderName = pm.CardHolderName
	m.ExpiryDate = pm.ExpiryDate
	m.EncryptedCVV = pm.EncryptedCVV
}

// PaymentMethodModelFromDomain creates a new persistence model from a domain PaymentMethod.
func PaymentMethodModelFromDomain(pm *payment.PaymentMethod) *PaymentMethodModel {
	m := &PaymentMethodModel{}
	m.FromDomain(pm)
	return m
}
