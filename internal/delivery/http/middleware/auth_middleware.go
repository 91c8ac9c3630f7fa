package middleware

import (
	"strings"

	"pethub/internal/domain/entity"
	domainerrors "pethub/internal/domain/errors"
	"pethub/internal/domain/repository"
	"pethub/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	// keyIdentity stores the verified identity on echo.Context.
	keyIdentity = "identity"
	// keyUser stores the loaded user record on echo.Context.
	keyUser = "user"
)

// AuthMiddleware runs the request authentication pipeline. Each stage is
// a separate middleware so routes compose exactly the gates they need:
// Authenticate verifies the credential, LoadUser resolves the account,
// RequireApproved and RequireRole enforce authorization from the loaded
// record. Token claims never decide authorization.
type AuthMiddleware struct {
	verifier service.IdentityVerifier
	userRepo repository.UserRepository
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(verifier service.IdentityVerifier, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, userRepo: userRepo}
}

// Authenticate validates the bearer credential with the identity provider
// and stores the verified identity on the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return domainerrors.ErrUnauthenticated.WithDetails("Authorization header is missing")
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader || token == "" {
			return domainerrors.ErrUnauthenticated.WithDetails("credential must be a Bearer token")
		}

		identity, err := m.verifier.Verify(c.Request().Context(), token)
		if err != nil {
			return err
		}

		c.Set(keyIdentity, identity)

		return next(c)
	}
}

// LoadUser resolves the verified identity to a user record. It must run
// after Authenticate. An unknown subject terminates the request; routes
// that serve unregistered callers skip this stage.
func (m *AuthMiddleware) LoadUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, err := CurrentIdentity(c)
		if err != nil {
			return err
		}

		user, err := m.userRepo.FindByIdentitySubject(c.Request().Context(), identity.Subject)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrNotRegistered
			}

			return errors.Wrap(err, "failed to load user for authorization")
		}

		c.Set(keyUser, user)

		return next(c)
	}
}

// RequireApproved rejects callers whose role status is not approved. It
// must run after LoadUser.
func (m *AuthMiddleware) RequireApproved(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}

		switch user.RoleStatus {
		case entity.RoleStatusApproved:
			return next(c)
		case entity.RoleStatusPending:
			return domainerrors.ErrPendingApproval.WithDetails("role " + user.Role.String() + " is pending approval")
		case entity.RoleStatusRejected:
			return domainerrors.ErrRequestRejected.WithDetails("role " + user.Role.String() + " was rejected")
		default:
			return domainerrors.ErrInsufficientPrivilege
		}
	}
}

// RequireRole allows only callers holding one of the given roles. It must
// run after LoadUser.
func (m *AuthMiddleware) RequireRole(allowed ...entity.Role) echo.MiddlewareFunc {
	allowedRoles := entity.Roles(allowed)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := CurrentUser(c)
			if err != nil {
				return err
			}

			if !allowedRoles.Contains(user.Role) {
				return domainerrors.ErrInsufficientPrivilege.WithDetails(
					"requires one of [" + strings.Join(allowedRoles.ToStrings(), ", ") + "], current role is " + user.Role.String())
			}

			return next(c)
		}
	}
}

// CurrentIdentity returns the verified identity set by Authenticate.
func CurrentIdentity(c echo.Context) (*service.VerifiedIdentity, error) {
	identity, ok := c.Get(keyIdentity).(*service.VerifiedIdentity)
	if !ok || identity == nil {
		return nil, domainerrors.ErrUnauthenticated.WithDetails("identity missing from request context")
	}

	return identity, nil
}

// CurrentUser returns the user record set by LoadUser.
func CurrentUser(c echo.Context) (*entity.User, error) {
	user, ok := c.Get(keyUser).(*entity.User)
	if !ok || user == nil {
		return nil, domainerrors.ErrNotRegistered
	}

	return user, nil
}
