// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
// - base.go: AggregateModel, the columns shared by aggregate tables
// - identity.go: User accounts
// - catalog.go: Restaurants and menu items
// - ordering.go: Orders and order items
// - payment.go: Payment methods
package models
