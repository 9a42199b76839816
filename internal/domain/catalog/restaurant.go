// Package catalog models restaurants and the menu items they offer.
package catalog

import (
	"strings"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/shared"
)

const (
	maxRestaurantNameLength = 200
	maxDescriptionLength    = 2000
	maxImageURLLength       = 500
)

// Restaurant is the aggregate root for a restaurant. Its country decides
// which principals can see it and is copied onto every order placed with it.
type Restaurant struct {
	shared.Aggregate
	Name        string
	Description string
	Country     access.Country
	ImageURL    string

	// MenuItems holds the available menu items when loaded for reading
	MenuItems []MenuItem
}

// NewRestaurant creates a new restaurant
func NewRestaurant(name, description string, country access.Country, imageURL string) (*Restaurant, error) {
	r := &Restaurant{
		Aggregate: shared.NewAggregate(),
	}
	if err := r.setName(name); err != nil {
		return nil, err
	}
	if err := r.setCountry(country); err != nil {
		return nil, err
	}
	if err := r.setDescription(description); err != nil {
		return nil, err
	}
	if err := r.setImageURL(imageURL); err != nil {
		return nil, err
	}
	r.MenuItems = make([]MenuItem, 0)
	return r, nil
}

// RestaurantUpdate carries the optional fields of a restaurant update
type RestaurantUpdate struct {
	Name        *string
	Description *string
	Country     *access.Country
	ImageURL    *string
}

// Update applies a partial update. Changing the country does not touch
// orders already placed, which keep their own country snapshot.
func (r *Restaurant) Update(u RestaurantUpdate) error {
	if u.Name != nil {
		if err := r.setName(*u.Name); err != nil {
			return err
		}
	}
	if u.Description != nil {
		if err := r.setDescription(*u.Description); err != nil {
			return err
		}
	}
	if u.Country != nil {
		if err := r.setCountry(*u.Country); err != nil {
			return err
		}
	}
	if u.ImageURL != nil {
		if err := r.setImageURL(*u.ImageURL); err != nil {
			return err
		}
	}
	r.MarkModified()
	return nil
}

func (r *Restaurant) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Restaurant name cannot be empty")
	}
	if len(name) > maxRestaurantNameLength {
		return shared.NewValidationError("Restaurant name cannot exceed 200 characters")
	}
	r.Name = name
	return nil
}

func (r *Restaurant) setDescription(description string) error {
	if len(description) > maxDescriptionLength {
		return shared.NewValidationError("Description cannot exceed 2000 characters")
	}
	r.Description = strings.TrimSpace(description)
	return nil
}

func (r *Restaurant) setCountry(country access.Country) error {
	if !country.IsValid() {
		return shared.NewValidationError("Country must be one of INDIA, AMERICA")
	}
	r.Country = country
	return nil
}

func (r *Restaurant) setImageURL(imageURL string) error {
	if len(imageURL) > maxImageURLLength {
		return shared.NewValidationError("Image URL cannot exceed 500 characters")
	}
	r.ImageURL = strings.TrimSpace(imageURL)
	return nil
}
