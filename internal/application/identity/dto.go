package identity

import (
	"time"

	"github.com/foodorder/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterRequest is the public sign-up payload. Public registration always
// creates a MEMBER.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Country  string `json:"country" binding:"required,country" enums:"INDIA,AMERICA"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutInput identifies the token being revoked
type LogoutInput struct {
	TokenJTI string
	TTL      time.Duration
}

// CreateUserRequest is the administrator's user creation payload
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Role     string `json:"role" binding:"required,role" enums:"ADMIN,MANAGER,MEMBER"`
	Country  string `json:"country" binding:"required,country" enums:"INDIA,AMERICA"`
}

// UpdateUserRequest is a partial user update
type UpdateUserRequest struct {
	Email    *string `json:"email" binding:"omitempty,email,max=200"`
	Password *string `json:"password" binding:"omitempty,min=6,max=72"`
	Name     *string `json:"name" binding:"omitempty,min=1,max=200"`
	Role     *string `json:"role" binding:"omitempty,role" enums:"ADMIN,MANAGER,MEMBER"`
	Country  *string `json:"country" binding:"omitempty,country" enums:"INDIA,AMERICA"`
}

// UserListFilter narrows the user listing
type UserListFilter struct {
	Role    string `form:"role" binding:"omitempty,role" enums:"ADMIN,MANAGER,MEMBER"`
	Country string `form:"country" binding:"omitempty,country" enums:"INDIA,AMERICA"`
}

// UserResponse is a user without credentials
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthResponse is returned by register, login and refresh
type AuthResponse struct {
	AccessToken           string       `json:"accessToken"`
	RefreshToken          string       `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time    `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time    `json:"refreshTokenExpiresAt"`
	TokenType             string       `json:"tokenType"`
	User                  UserResponse `json:"user"`
}

// ToUserResponse converts a domain user
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Country:   string(u.Country),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToUserResponses converts a slice of domain users
func ToUserResponses(users []*identity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = ToUserResponse(u)
	}
	return out
}
