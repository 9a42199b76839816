package persistence

import (
	"context"
	"errors"

	"github.com/foodorder/backend/internal/domain/payment"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/foodorder/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentMethodRepository implements PaymentMethodRepository using GORM
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

// NewGormPaymentMethodRepository creates a new GormPaymentMethodRepository
func NewGormPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

// FindByUserID finds the payment method on file for a user
func (r *GormPaymentMethodRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*payment.PaymentMethod, error) {
	var model models.PaymentMethodModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Payment method")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByUserID checks if a user has a payment method on file
func (r *GormPaymentMethodRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PaymentMethodModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a payment method. The unique user index keeps it 1:1.
func (r *GormPaymentMethodRepository) Save(ctx context.Context, pm *payment.PaymentMethod) error {
	model := models.PaymentMethodModelFromDomain(pm)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError(shared.CodeAlreadyExists, "Payment method already exists for this user")
		}
		return err
	}
	return nil
}

// DeleteByUserID removes the user's payment method
func (r *GormPaymentMethodRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.PaymentMethodModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Payment method")
	}
	return nil
}

// Ensure GormPaymentMethodRepository implements PaymentMethodRepository
var _ payment.PaymentMethodRepository = (*GormPaymentMethodRepository)(nil)
