package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"pethub/internal/domain/entity"
	domainerrors "pethub/internal/domain/errors"
	"pethub/internal/domain/repository"
	"pethub/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubVerifier resolves a fixed token to a fixed identity.
type stubVerifier struct {
	token    string
	identity *service.VerifiedIdentity
}

func (v *stubVerifier) Verify(_ context.Context, bearerToken string) (*service.VerifiedIdentity, error) {
	if bearerToken != v.token {
		return nil, domainerrors.ErrInvalidCredential
	}

	return v.identity, nil
}

// stubUserRepository serves a single user by identity subject.
type stubUserRepository struct {
	user *entity.User
}

func (r *stubUserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}

	return nil, repository.ErrUserNotFound
}

func (r *stubUserRepository) FindByIdentitySubject(_ context.Context, subject string) (*entity.User, error) {
	if r.user != nil && r.user.IdentitySubject == subject {
		return r.user, nil
	}

	return nil, repository.ErrUserNotFound
}

func (r *stubUserRepository) Create(_ context.Context, _ *entity.User) error { return nil }

func (r *stubUserRepository) UpdateRoleState(_ context.Context, _ *entity.User) error { return nil }

func (r *stubUserRepository) ListAll(_ context.Context) ([]*entity.User, error) { return nil, nil }

func newTestContext(authHeader string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}

	return e.NewContext(req, httptest.NewRecorder())
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func errorCodeOf(t *testing.T, err error) string {
	t.Helper()

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)

	return appErr.ErrorCode()
}

func TestAuthMiddleware_Authenticate_MissingHeader(t *testing.T) {
	m := NewAuthMiddleware(&stubVerifier{}, &stubUserRepository{})

	err := m.Authenticate(okHandler)(newTestContext(""))
	require.Error(t, err)
	assert.Equal(t, "UNAUTHENTICATED", errorCodeOf(t, err))
}

func TestAuthMiddleware_Authenticate_NotBearer(t *testing.T) {
	m := NewAuthMiddleware(&stubVerifier{}, &stubUserRepository{})

	err := m.Authenticate(okHandler)(newTestContext("Basic abc123"))
	require.Error(t, err)
	assert.Equal(t, "UNAUTHENTICATED", errorCodeOf(t, err))
}

func TestAuthMiddleware_Authenticate_InvalidToken(t *testing.T) {
	m := NewAuthMiddleware(&stubVerifier{token: "good"}, &stubUserRepository{})

	err := m.Authenticate(okHandler)(newTestContext("Bearer bad"))
	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIAL", errorCodeOf(t, err))
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	identity := &service.VerifiedIdentity{Subject: "sub-1", Email: "owner@example.com"}
	m := NewAuthMiddleware(&stubVerifier{token: "good", identity: identity}, &stubUserRepository{})

	c := newTestContext("Bearer good")
	err := m.Authenticate(func(c echo.Context) error {
		got, err := CurrentIdentity(c)
		require.NoError(t, err)
		assert.Equal(t, "sub-1", got.Subject)

		return nil
	})(c)
	require.NoError(t, err)
}

func TestAuthMiddleware_LoadUser_NotRegistered(t *testing.T) {
	identity := &service.VerifiedIdentity{Subject: "sub-unknown"}
	m := NewAuthMiddleware(&stubVerifier{token: "good", identity: identity}, &stubUserRepository{})

	c := newTestContext("Bearer good")
	err := m.Authenticate(m.LoadUser(okHandler))(c)
	require.Error(t, err)
	assert.Equal(t, "NOT_REGISTERED", errorCodeOf(t, err))
}

func TestAuthMiddleware_LoadUser_Success(t *testing.T) {
	user := entity.NewUser("sub-1", "owner@example.com")
	user.ID = uuid.New()
	identity := &service.VerifiedIdentity{Subject: "sub-1"}
	m := NewAuthMiddleware(&stubVerifier{token: "good", identity: identity}, &stubUserRepository{user: user})

	c := newTestContext("Bearer good")
	err := m.Authenticate(m.LoadUser(func(c echo.Context) error {
		got, err := CurrentUser(c)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		return nil
	}))(c)
	require.NoError(t, err)
}

func TestAuthMiddleware_RequireApproved(t *testing.T) {
	tests := []struct {
		name     string
		status   entity.RoleStatus
		wantCode string
	}{
		{name: "approved passes", status: entity.RoleStatusApproved, wantCode: ""},
		{name: "pending is blocked", status: entity.RoleStatusPending, wantCode: "PENDING_APPROVAL"},
		{name: "rejected is blocked", status: entity.RoleStatusRejected, wantCode: "REQUEST_REJECTED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := entity.NewUser("sub-1", "owner@example.com")
			user.ID = uuid.New()
			user.RoleStatus = tt.status
			identity := &service.VerifiedIdentity{Subject: "sub-1"}
			m := NewAuthMiddleware(&stubVerifier{token: "good", identity: identity}, &stubUserRepository{user: user})

			c := newTestContext("Bearer good")
			err := m.Authenticate(m.LoadUser(m.RequireApproved(okHandler)))(c)
			if tt.wantCode == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errorCodeOf(t, err))
			}
		})
	}
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	user := entity.NewUser("sub-1", "owner@example.com")
	user.ID = uuid.New()
	identity := &service.VerifiedIdentity{Subject: "sub-1"}
	m := NewAuthMiddleware(&stubVerifier{token: "good", identity: identity}, &stubUserRepository{user: user})

	c := newTestContext("Bearer good")
	err := m.Authenticate(m.LoadUser(m.RequireRole(entity.RoleAdmin)(okHandler)))(c)
	require.Error(t, err)
	assert.Equal(t, "INSUFFICIENT_PRIVILEGE", errorCodeOf(t, err))

	user.Role = entity.RoleAdmin
	c = newTestContext("Bearer good")
	err = m.Authenticate(m.LoadUser(m.RequireRole(entity.RoleAdmin)(okHandler)))(c)
	require.NoError(t, err)
}
