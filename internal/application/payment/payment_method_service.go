// Package payment implements the card-on-file use cases. A user keeps at
// most one payment method; checkout only requires that one exists.
package payment

import (
	"context"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/payment"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/foodorder/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentMethodService handles payment method use cases
type PaymentMethodService struct {
	repo      payment.PaymentMethodRepository
	encrypter payment.CVVEncrypter
	logger    *zap.Logger
}

// NewPaymentMethodService creates a new payment method service
func NewPaymentMethodService(repo payment.PaymentMethodRepository, encrypter payment.CVVEncrypter, logger *zap.Logger) *PaymentMethodService {
	return &PaymentMethodService{
		repo:      repo,
		encrypter: encrypter,
		logger:    logger,
	}
}

// Create stores the caller's card, replacing any card already on file
func (s *PaymentMethodService) Create(ctx context.Context, p access.Principal, req PaymentMethodRequest) (*PaymentMethodResponse, error) {
	if err := access.Authorize(p, access.OpPaymentMethodCreate); err != nil {
		return nil, err
	}
	return s.upsert(ctx, p.ID, req)
}

// Update replaces the caller's card. Only ADMIN may update; any role may
// create.
func (s *PaymentMethodService) Update(ctx context.Context, p access.Principal, req PaymentMethodRequest) (*PaymentMethodResponse, error) {
	if err := access.Authorize(p, access.OpPaymentMethodUpdate); err != nil {
		return nil, err
	}
	return s.upsert(ctx, p.ID, req)
}

// GetMine returns the caller's card
func (s *PaymentMethodService) GetMine(ctx context.Context, p access.Principal) (*PaymentMethodResponse, error) {
	if err := access.Authorize(p, access.OpPaymentMethodRead); err != nil {
		return nil, err
	}
	pm, err := s.repo.FindByUserID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return ToPaymentMethodResponse(pm), nil
}

// Delete removes the caller's card
func (s *PaymentMethodService) Delete(ctx context.Context, p access.Principal) error {
	if err := access.Authorize(p, access.OpPaymentMethodDelete); err != nil {
		return err
	}
	exists, err := s.repo.ExistsByUserID(ctx, p.ID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewNotFoundError("Payment method")
	}
	if err := s.repo.DeleteByUserID(ctx, p.ID); err != nil {
		return err
	}

	logger.L(ctx).Info("Payment method deleted", zap.String("user_id", p.ID.String()))
	return nil
}

func (s *PaymentMethodService) upsert(ctx context.Context, userID uuid.UUID, req PaymentMethodRequest) (*PaymentMethodResponse, error) {
	pm, err := s.repo.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		if err := pm.Replace(req.details(), s.encrypter); err != nil {
			return nil, err
		}
	case shared.IsNotFound(err):
		pm, err = payment.NewPaymentMethod(userID, req.details(), s.encrypter)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.repo.Save(ctx, pm); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Payment method saved",
		zap.String("user_id", userID.String()),
		zap.String("last4", pm.CardNumber))
	return ToPaymentMethodResponse(pm), nil
}
