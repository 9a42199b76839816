package persistence

import (
	"github.com/foodorder/backend/internal/domain/access"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CountryScope restricts a query to rows of one country. A nil country
// leaves the query untouched, which is how unrestricted principals list
// across countries.
func CountryScope(country *access.Country) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if country == nil {
			return db
		}
		return db.Where("country = ?", *country)
	}
}

// OwnerScope restricts a query to rows owned by userID
func OwnerScope(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// NewestFirst orders rows by creation time, newest first
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id")
}
