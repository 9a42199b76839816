package payment

import (
	"context"

	"github.com/google/uuid"
)

// PaymentMethodRepository persists payment methods, at most one per user
type PaymentMethodRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*PaymentMethod, error)
	ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error)
	Save(ctx context.Context, pm *PaymentMethod) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
