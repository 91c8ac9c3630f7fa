// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"pethub/internal/delivery/http/middleware"
	"pethub/internal/delivery/http/response"
	"pethub/internal/domain/entity"
	"pethub/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// userResponse is the wire representation of a user's role state.
type userResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	RoleStatus    string  `json:"roleStatus"`
	RequestedRole *string `json:"requestedRole,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

// roleRequestResponse is the wire representation of a role request.
type roleRequestResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	RequestedRole string  `json:"requestedRole"`
	Status        string  `json:"status"`
	ReviewedBy    *string `json:"reviewedBy,omitempty"`
	ReviewedAt    *string `json:"reviewedAt,omitempty"`
	Reason        string  `json:"reason,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

// sessionResponse is the wire representation of session info.
type sessionResponse struct {
	Registered        bool    `json:"registered"`
	Role              *string `json:"role,omitempty"`
	RoleStatus        *string `json:"roleStatus,omitempty"`
	RequestedRole     *string `json:"requestedRole,omitempty"`
	HasPendingRequest bool    `json:"hasPendingRequest"`
}

// registerPayload carries the optional upgrade fields on registration.
// Subject and email come from the verified credential, never the body.
type registerPayload struct {
	RequestedRole  string `json:"requestedRole"`
	LicenseNumber  string `json:"licenseNumber"`
	LicenseCountry string `json:"licenseCountry"`
}

// requestRolePayload carries a role upgrade request body.
type requestRolePayload struct {
	RequestedRole  string `json:"requestedRole" validate:"required"`
	LicenseNumber  string `json:"licenseNumber"`
	LicenseCountry string `json:"licenseCountry"`
}

// AccountHandler holds dependencies for registration and session handlers.
type AccountHandler struct {
	roleUC    usecase.RoleUsecase
	accountUC usecase.AccountUsecase
	logger    *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(roleUC usecase.RoleUsecase, accountUC usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		roleUC:    roleUC,
		accountUC: accountUC,
		logger:    logger,
	}
}

// Register handles the first-registration request of a verified identity.
func (h *AccountHandler) Register(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return err
	}

	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	user, err := h.roleUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Subject:        identity.Subject,
		Email:          identity.Email,
		RequestedRole:  payload.RequestedRole,
		LicenseNumber:  payload.LicenseNumber,
		LicenseCountry: payload.LicenseCountry,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toUserResponse(user), "Registration successful")
}

// GetSession returns the caller's authoritative role state. Unregistered
// identities get registered=false rather than an error.
func (h *AccountHandler) GetSession(c echo.Context) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return err
	}

	info, err := h.accountUC.GetSession(c.Request().Context(), identity.Subject)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toSessionResponse(info), "")
}

// RefreshSession repairs the caller's claims and returns current session state.
func (h *AccountHandler) RefreshSession(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	info, err := h.accountUC.RefreshSession(c.Request().Context(), user.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toSessionResponse(info), "Session refreshed")
}

// RequestRole handles a role upgrade request from a registered caller.
func (h *AccountHandler) RequestRole(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var payload requestRolePayload
	if err := c.Bind(&payload); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid role request input")
	}
	if err := c.Validate(&payload); err != nil {
		return err
	}

	request, err := h.roleUC.RequestUpgrade(c.Request().Context(), &usecase.RequestUpgradeInput{
		UserID:         user.ID,
		RequestedRole:  payload.RequestedRole,
		LicenseNumber:  payload.LicenseNumber,
		LicenseCountry: payload.LicenseCountry,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toRoleRequestResponse(request), "Role request submitted")
}

// RoleHistory returns the caller's role requests, newest first.
func (h *AccountHandler) RoleHistory(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	history, err := h.roleUC.ListHistory(c.Request().Context(), user.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	items := make([]*roleRequestResponse, 0, len(history))
	for _, request := range history {
		items = append(items, toRoleRequestResponse(request))
	}

	return response.Success(c, http.StatusOK, items, "")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}

// --- Mapper Functions ---

func toUserResponse(user *entity.User) *userResponse {
	resp := &userResponse{
		ID:         user.ID.String(),
		Email:      user.Email,
		Role:       user.Role.String(),
		RoleStatus: user.RoleStatus.String(),
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
	}
	if user.RequestedRole != nil {
		role := user.RequestedRole.String()
		resp.RequestedRole = &role
	}

	return resp
}

func toRoleRequestResponse(request *entity.RoleRequest) *roleRequestResponse {
	resp := &roleRequestResponse{
		ID:            request.ID.String(),
		UserID:        request.UserID.String(),
		RequestedRole: request.RequestedRole.String(),
		Status:        request.Status.String(),
		Reason:        request.Reason,
		CreatedAt:     request.CreatedAt.Format(time.RFC3339),
	}
	if request.ReviewedBy != nil {
		reviewedBy := request.ReviewedBy.String()
		resp.ReviewedBy = &reviewedBy
	}
	if request.ReviewedAt != nil {
		reviewedAt := request.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &reviewedAt
	}

	return resp
}

func toSessionResponse(info *usecase.SessionInfo) *sessionResponse {
	resp := &sessionResponse{
		Registered:        info.Registered,
		HasPendingRequest: info.HasPendingRequest,
	}
	if info.Role != nil {
		role := info.Role.String()
		resp.Role = &role
	}
	if info.RoleStatus != nil {
		status := info.RoleStatus.String()
		resp.RoleStatus = &status
	}
	if info.RequestedRole != nil {
		requested := info.RequestedRole.String()
		resp.RequestedRole = &requested
	}

	return resp
}
