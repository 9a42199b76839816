package main

import (
	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/payment"
)

type seedUser struct {
	Email    string
	Password string
	Name     string
	Role     access.Role
	Country  access.Country
	Card     *payment.CardDetails
}

type seedMenuItem struct {
	Name        string
	Description string
	Price       string
	Category    string
	ImageURL    string
}

type seedRestaurant struct {
	Name        string
	Description string
	Country     access.Country
	ImageURL    string
	Menu        []seedMenuItem
}

var demoUsers = []seedUser{
	{
		Email: "nick.fury@avengers.com", Password: "admin123", Name: "Nick Fury",
		Role: access.RoleAdmin, Country: access.CountryAmerica,
		Card: &payment.CardDetails{CardNumber: "4000000000004532", CardHolderName: "Nick Fury", ExpiryDate: "12/28", CVV: "123"},
	},
	{
		Email: "captain.marvel@avengers.com", Password: "manager123", Name: "Captain Marvel",
		Role: access.RoleManager, Country: access.CountryIndia,
		Card: &payment.CardDetails{CardNumber: "5100000000005678", CardHolderName: "Captain Marvel", ExpiryDate: "06/29", CVV: "456"},
	},
	{
		Email: "captain.america@avengers.com", Password: "manager123", Name: "Captain America",
		Role: access.RoleManager, Country: access.CountryAmerica,
		Card: &payment.CardDetails{CardNumber: "4000000000009012", CardHolderName: "Captain America", ExpiryDate: "03/30", CVV: "789"},
	},
	{
		Email: "thanos@avengers.com", Password: "member123", Name: "Thanos",
		Role: access.RoleMember, Country: access.CountryIndia,
	},
	{
		Email: "thor@avengers.com", Password: "member123", Name: "Thor",
		Role: access.RoleMember, Country: access.CountryIndia,
	},
	{
		Email: "travis@avengers.com", Password: "member123", Name: "Travis",
		Role: access.RoleMember, Country: access.CountryAmerica,
	},
}

const unsplash = "https://images.unsplash.com/"

var demoRestaurants = []seedRestaurant{
	{
		Name: "Taj Kitchen", Description: "Authentic Indian Cuisine", Country: access.CountryIndia,
		ImageURL: unsplash + "photo-1585937421612-70a008356fbe",
		Menu: []seedMenuItem{
			{"Butter Chicken", "Creamy tomato-based curry with tender chicken", "15.99", "Main Course", unsplash + "photo-1603894584373-5ac82b2ae398"},
			{"Biryani", "Fragrant rice with spiced meat", "12.99", "Main Course", unsplash + "photo-1563379091339-03b21ab4a4f8"},
			{"Naan", "Soft Indian flatbread", "2.99", "Bread", unsplash + "photo-1601050690597-df0568f70950"},
			{"Paneer Tikka", "Grilled cottage cheese with spices", "10.99", "Appetizer", unsplash + "photo-1599487488170-d11ec9c172f0"},
		},
	},
	{
		Name: "Spice Route", Description: "Traditional Indian Flavors", Country: access.CountryIndia,
		ImageURL: unsplash + "photo-1517248135467-4c7edcad34c4",
		Menu: []seedMenuItem{
			{"Dal Makhani", "Black lentils in creamy sauce", "9.99", "Main Course", unsplash + "photo-1546833999-b9f581a1996d"},
			{"Samosa", "Crispy pastry with spiced filling", "4.99", "Appetizer", unsplash + "photo-1601050690597-df0568f70950"},
			{"Masala Chai", "Spiced Indian tea", "2.99", "Beverage", unsplash + "photo-1597318112337-91346e0d215b"},
		},
	},
	{
		Name: "American Diner", Description: "Classic American Food", Country: access.CountryAmerica,
		ImageURL: unsplash + "photo-1554998171-706f21bd9b0b",
		Menu: []seedMenuItem{
			{"Classic Burger", "Beef patty with lettuce, tomato, and cheese", "10.99", "Main Course", unsplash + "photo-1568901346375-23c9450c58cd"},
			{"French Fries", "Crispy golden fries", "4.99", "Sides", unsplash + "photo-1576107232684-1279f390859f"},
			{"Chocolate Milkshake", "Rich and creamy milkshake", "5.99", "Beverage", unsplash + "photo-1572490122747-3968b75cc699"},
			{"Caesar Salad", "Fresh romaine with parmesan", "8.99", "Salad", unsplash + "photo-1546793665-c74683f339c1"},
		},
	},
	{
		Name: "Burger House", Description: "Premium Burgers & Fries", Country: access.CountryAmerica,
		ImageURL: unsplash + "photo-1571091718767-18b5b1457add",
		Menu: []seedMenuItem{
			{"BBQ Bacon Burger", "Smoky BBQ sauce with crispy bacon", "13.99", "Main Course", unsplash + "photo-1553979459-d2229ba7433b"},
			{"Onion Rings", "Crispy battered onion rings", "5.99", "Sides", unsplash + "photo-1639024471283-03518883512d"},
			{"Vanilla Shake", "Classic vanilla milkshake", "5.99", "Beverage", unsplash + "photo-1579954115545-a95591f28bfc"},
		},
	},
}
