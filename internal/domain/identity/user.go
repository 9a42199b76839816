package identity

import (
	"regexp"
	"strings"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the bcrypt work factor used for new password hashes.
// Tests lower it to bcrypt.MinCost.
var BcryptCost = 12

const (
	minPasswordLength = 6
	maxPasswordLength = 72
	maxNameLength     = 200
	maxEmailLength    = 200
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is the aggregate root for accounts. Role and country decide what
// the user may see and do once authenticated.
type User struct {
	shared.Aggregate
	Email        string
	Name         string
	PasswordHash string
	Role         access.Role
	Country      access.Country
}

// NewUser creates a new user with a hashed password
func NewUser(email, password, name string, role access.Role, country access.Country) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be one of ADMIN, MANAGER, MEMBER")
	}
	if !country.IsValid() {
		return nil, shared.NewDomainError("INVALID_COUNTRY", "Country must be one of INDIA, AMERICA")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		Aggregate:    shared.NewAggregate(),
		Email:        normalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         role,
		Country:      country,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// Principal returns the access principal for this user
func (u *User) Principal() access.Principal {
	return access.NewPrincipal(u.ID, u.Role, u.Country)
}

// SetEmail changes the email address
func (u *User) SetEmail(email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	u.Email = normalizeEmail(email)
	u.touch()
	return nil
}

// SetName changes the display name
func (u *User) SetName(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	u.Name = strings.TrimSpace(name)
	u.touch()
	return nil
}

// SetRole changes the role
func (u *User) SetRole(role access.Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be one of ADMIN, MANAGER, MEMBER")
	}
	if u.Role == role {
		return nil
	}
	old := u.Role
	u.Role = role
	u.touch()
	u.AddDomainEvent(NewUserRoleChangedEvent(u, old))
	return nil
}

// SetCountry changes the country
func (u *User) SetCountry(country access.Country) error {
	if !country.IsValid() {
		return shared.NewDomainError("INVALID_COUNTRY", "Country must be one of INDIA, AMERICA")
	}
	u.Country = country
	u.touch()
	return nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.touch()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) touch() {
	u.MarkModified()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > maxEmailLength {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	if len(password) > maxPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > maxNameLength {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
