package identity

import (
	"context"
	"strings"
	"time"

	appevent "github.com/foodorder/backend/internal/application/event"
	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/identity"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/foodorder/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserOrderChecker reports whether a user has placed any orders
type UserOrderChecker interface {
	UserHasOrders(ctx context.Context, userID uuid.UUID) (bool, error)
}

// UserService manages accounts on behalf of administrators
type UserService struct {
	userRepo identity.UserRepository
	orders   UserOrderChecker
	// blacklist revokes every outstanding token of a user whose role or
	// country changed, or who was deleted
	blacklist     auth.TokenBlacklist
	revocationTTL time.Duration
	events        shared.EventPublisher
	logger        *zap.Logger
}

// NewUserService creates a new user service. revocationTTL should be the
// refresh token lifetime so that every token issued before a revocation
// expires before the revocation marker does.
func NewUserService(
	userRepo identity.UserRepository,
	orders UserOrderChecker,
	blacklist auth.TokenBlacklist,
	revocationTTL time.Duration,
	events shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:      userRepo,
		orders:        orders,
		blacklist:     blacklist,
		revocationTTL: revocationTTL,
		events:        events,
		logger:        logger,
	}
}

// Create creates a user with an explicit role and country
func (s *UserService) Create(ctx context.Context, p access.Principal, req CreateUserRequest) (*UserResponse, error) {
	if err := access.Authorize(p, access.OpUserCreate); err != nil {
		return nil, err
	}

	role, country, err := parseRoleCountry(req.Role, req.Country)
	if err != nil {
		return nil, err
	}

	if err := s.ensureEmailAvailable(ctx, req.Email); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(req.Email, req.Password, req.Name, role, country)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	appevent.PublishPending(ctx, s.events, s.logger, user)

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)),
		zap.String("country", string(country)),
		zap.String("created_by", p.ID.String()))

	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns users, newest first
func (s *UserService) List(ctx context.Context, p access.Principal, filter UserListFilter) ([]UserResponse, error) {
	if err := access.Authorize(p, access.OpUserList); err != nil {
		return nil, err
	}

	var f identity.UserFilter
	if filter.Role != "" {
		role, ok := access.ParseRole(filter.Role)
		if !ok {
			return nil, shared.NewValidationError("Role must be one of ADMIN, MANAGER, MEMBER")
		}
		f.Role = &role
	}
	if filter.Country != "" {
		country, ok := access.ParseCountry(filter.Country)
		if !ok {
			return nil, shared.NewValidationError("Country must be one of INDIA, AMERICA")
		}
		f.Country = &country
	}

	users, err := s.userRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	return ToUserResponses(users), nil
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, p access.Principal, id uuid.UUID) (*UserResponse, error) {
	if err := access.Authorize(p, access.OpUserRead); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Update applies a partial update. A role or country change revokes the
// user's outstanding tokens so the new claims take effect immediately.
func (s *UserService) Update(ctx context.Context, p access.Principal, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	if err := access.Authorize(p, access.OpUserUpdate); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && !strings.EqualFold(strings.TrimSpace(*req.Email), user.Email) {
		if err := s.ensureEmailAvailable(ctx, *req.Email); err != nil {
			return nil, err
		}
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		if err := user.SetName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	claimsChanged := false
	if req.Role != nil {
		role, ok := access.ParseRole(*req.Role)
		if !ok {
			return nil, shared.NewValidationError("Role must be one of ADMIN, MANAGER, MEMBER")
		}
		if role != user.Role {
			claimsChanged = true
			if err := user.SetRole(role); err != nil {
				return nil, err
			}
		}
	}
	if req.Country != nil {
		country, ok := access.ParseCountry(*req.Country)
		if !ok {
			return nil, shared.NewValidationError("Country must be one of INDIA, AMERICA")
		}
		if country != user.Country {
			claimsChanged = true
			if err := user.SetCountry(country); err != nil {
				return nil, err
			}
		}
	}

	if claimsChanged {
		if err := s.revokeTokens(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	appevent.PublishPending(ctx, s.events, s.logger, user)

	s.logger.Info("User updated",
		zap.String("user_id", user.ID.String()),
		zap.Bool("claims_changed", claimsChanged),
		zap.String("updated_by", p.ID.String()))

	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes a user together with their payment method. Users who have
// orders cannot be deleted, and administrators cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, p access.Principal, id uuid.UUID) error {
	if err := access.Authorize(p, access.OpUserDelete); err != nil {
		return err
	}
	if id == p.ID {
		return shared.NewInvalidStateError("cannot delete your own account")
	}

	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}

	hasOrders, err := s.orders.UserHasOrders(ctx, id)
	if err != nil {
		return err
	}
	if hasOrders {
		return shared.NewInvalidStateError("user has orders and cannot be deleted")
	}

	if err := s.revokeTokens(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("User deleted",
		zap.String("user_id", id.String()),
		zap.String("deleted_by", p.ID.String()))
	return nil
}

func (s *UserService) ensureEmailAvailable(ctx context.Context, email string) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Email already registered")
	}
	return nil
}

func (s *UserService) revokeTokens(ctx context.Context, userID uuid.UUID) error {
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), s.revocationTTL); err != nil {
		s.logger.Error("Failed to revoke user tokens",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return err
	}
	return nil
}

func parseRoleCountry(roleStr, countryStr string) (access.Role, access.Country, error) {
	role, ok := access.ParseRole(roleStr)
	if !ok {
		return "", "", shared.NewValidationError("Role must be one of ADMIN, MANAGER, MEMBER")
	}
	country, ok := access.ParseCountry(countryStr)
	if !ok {
		return "", "", shared.NewValidationError("Country must be one of INDIA, AMERICA")
	}
	return role, country, nil
}
