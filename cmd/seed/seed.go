package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodorder/backend/internal/domain/catalog"
	"github.com/foodorder/backend/internal/domain/identity"
	"github.com/foodorder/backend/internal/domain/payment"
	"github.com/foodorder/backend/internal/infrastructure/persistence"
	"github.com/foodorder/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errAlreadySeeded = errors.New("database already contains demo users, rerun with -reset")

type seedResult struct {
	Users          int
	PaymentMethods int
	Restaurants    int
	MenuItems      int
}

// seeder loads the demo data set inside a single transaction
type seeder struct {
	db     *gorm.DB
	cipher payment.CVVEncrypter
	logger *zap.Logger
}

func (s *seeder) Run(ctx context.Context, reset bool) (*seedResult, error) {
	result := &seedResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if reset {
			if err := clearTables(tx); err != nil {
				return err
			}
			s.logger.Info("Existing data cleared")
		}

		users := persistence.NewGormUserRepository(tx)
		exists, err := users.ExistsByEmail(ctx, demoUsers[0].Email)
		if err != nil {
			return err
		}
		if exists {
			return errAlreadySeeded
		}

		if err := s.seedUsers(ctx, tx, result); err != nil {
			return err
		}
		return s.seedCatalog(ctx, tx, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *seeder) seedUsers(ctx context.Context, tx *gorm.DB, result *seedResult) error {
	users := persistence.NewGormUserRepository(tx)
	payments := persistence.NewGormPaymentMethodRepository(tx)

	for _, u := range demoUsers {
		user, err := identity.NewUser(u.Email, u.Password, u.Name, u.Role, u.Country)
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
		if err := users.Save(ctx, user); err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
		result.Users++
		s.logger.Debug("User created",
			zap.String("email", user.Email),
			zap.String("role", string(user.Role)),
			zap.String("country", string(user.Country)))

		if u.Card == nil {
			continue
		}
		pm, err := payment.NewPaymentMethod(user.ID, *u.Card, s.cipher)
		if err != nil {
			return fmt.Errorf("payment method for %s: %w", u.Email, err)
		}
		if err := payments.Save(ctx, pm); err != nil {
			return fmt.Errorf("payment method for %s: %w", u.Email, err)
		}
		result.PaymentMethods++
	}
	return nil
}

func (s *seeder) seedCatalog(ctx context.Context, tx *gorm.DB, result *seedResult) error {
	restaurants := persistence.NewGormRestaurantRepository(tx)
	menuItems := persistence.NewGormMenuItemRepository(tx)

	for _, r := range demoRestaurants {
		restaurant, err := catalog.NewRestaurant(r.Name, r.Description, r.Country, r.ImageURL)
		if err != nil {
			return fmt.Errorf("restaurant %s: %w", r.Name, err)
		}
		if err := restaurants.Save(ctx, restaurant); err != nil {
			return fmt.Errorf("restaurant %s: %w", r.Name, err)
		}
		result.Restaurants++

		for _, m := range r.Menu {
			price, err := decimal.NewFromString(m.Price)
			if err != nil {
				return fmt.Errorf("menu item %s: %w", m.Name, err)
			}
			item, err := catalog.NewMenuItem(restaurant.ID, m.Name, m.Description, price, m.Category, m.ImageURL, true)
			if err != nil {
				return fmt.Errorf("menu item %s: %w", m.Name, err)
			}
			if err := menuItems.Save(ctx, item); err != nil {
				return fmt.Errorf("menu item %s: %w", m.Name, err)
			}
			result.MenuItems++
		}
		s.logger.Debug("Restaurant created",
			zap.String("name", restaurant.Name),
			zap.Int("menu_items", len(r.Menu)))
	}
	return nil
}

// clearTables deletes every row, children first
func clearTables(tx *gorm.DB) error {
	all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{
		&models.OrderItemModel{},
		&models.OrderModel{},
		&models.PaymentMethodModel{},
		&models.MenuItemModel{},
		&models.RestaurantModel{},
		&models.UserModel{},
	} {
		if err := all.Delete(model).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", model, err)
		}
	}
	return nil
}
