package models

import (
	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Email        string         `gorm:"type:varchar(200);not null;uniqueIndex"`
	Name         string         `gorm:"type:varchar(200);not null"`
	PasswordHash string         `gorm:"column:password;type:varchar(255);not null"`
	Role         access.Role    `gorm:"type:varchar(20);not null;default:'MEMBER';index"`
	Country      access.Country `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		Aggregate:    m.aggregate(),
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Country:      m.Country,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.setAggregate(u.Aggregate)
	m.Email = u.Email
	m.Name = u.Name
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Country = u.Country
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
