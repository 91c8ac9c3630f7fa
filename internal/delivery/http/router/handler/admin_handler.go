package handler

import (
	"log/slog"
	"net/http"
	"time"

	"pethub/internal/delivery/http/middleware"
	"pethub/internal/delivery/http/response"
	domainerrors "pethub/internal/domain/errors"
	"pethub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// pendingRequestResponse pairs a role request with requester identity for
// the review queue.
type pendingRequestResponse struct {
	Request        *roleRequestResponse `json:"request"`
	RequesterEmail string               `json:"requesterEmail"`
	RequesterRole  string               `json:"requesterRole"`
}

// consistencyResponse reports record-store versus claims-channel role state.
type consistencyResponse struct {
	Consistent bool    `json:"consistent"`
	RecordRole string  `json:"recordRole"`
	ClaimsRole *string `json:"claimsRole,omitempty"`
}

// decidePayload identifies the request being approved or rejected.
type decidePayload struct {
	RequestID string `json:"requestId" validate:"required,uuid"`
	Reason    string `json:"reason"`
}

// AdminHandler holds dependencies for the admin review and claims
// maintenance handlers.
type AdminHandler struct {
	roleUC   usecase.RoleUsecase
	claimsUC usecase.ClaimsSyncUsecase
	logger   *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(roleUC usecase.RoleUsecase, claimsUC usecase.ClaimsSyncUsecase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		roleUC:   roleUC,
		claimsUC: claimsUC,
		logger:   logger,
	}
}

// ListPending returns all open role requests, oldest first.
func (h *AdminHandler) ListPending(c echo.Context) error {
	pending, err := h.roleUC.ListPending(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	items := make([]*pendingRequestResponse, 0, len(pending))
	for _, item := range pending {
		items = append(items, &pendingRequestResponse{
			Request:        toRoleRequestResponse(item.Request),
			RequesterEmail: item.RequesterEmail,
			RequesterRole:  item.RequesterRole.String(),
		})
	}

	return response.Success(c, http.StatusOK, items, "")
}

// Approve grants the requested role.
func (h *AdminHandler) Approve(c echo.Context) error {
	input, err := h.bindDecision(c)
	if err != nil {
		return err
	}

	user, err := h.roleUC.Approve(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserResponse(user), "Role request approved")
}

// Reject declines the request without changing the requester's role.
func (h *AdminHandler) Reject(c echo.Context) error {
	input, err := h.bindDecision(c)
	if err != nil {
		return err
	}

	request, err := h.roleUC.Reject(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toRoleRequestResponse(request), "Role request rejected")
}

// ListUsers returns all registered users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.roleUC.ListUsers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	items := make([]*userResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}

	return response.Success(c, http.StatusOK, items, "")
}

// CheckConsistency compares one user's record-store role against the
// claims channel.
func (h *AdminHandler) CheckConsistency(c echo.Context) error {
	userID, err := parseUserIDParam(c)
	if err != nil {
		return err
	}

	report, err := h.claimsUC.CheckConsistency(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := &consistencyResponse{
		Consistent: report.Consistent,
		RecordRole: report.RecordRole.String(),
	}
	if report.ClaimsRole != nil {
		claimsRole := report.ClaimsRole.String()
		resp.ClaimsRole = &claimsRole
	}

	return response.Success(c, http.StatusOK, resp, "")
}

// RepairClaims force-pushes record-store role state into the claims channel.
func (h *AdminHandler) RepairClaims(c echo.Context) error {
	userID, err := parseUserIDParam(c)
	if err != nil {
		return err
	}

	if err := h.claimsUC.Repair(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"userId":     userID.String(),
		"repairedAt": time.Now().Format(time.RFC3339),
	}, "Claims repaired")
}

func (h *AdminHandler) bindDecision(c echo.Context) (*usecase.DecideInput, error) {
	admin, err := middleware.CurrentUser(c)
	if err != nil {
		return nil, err
	}

	var payload decidePayload
	if err := c.Bind(&payload); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid decision input")
	}
	if err := c.Validate(&payload); err != nil {
		return nil, err
	}

	requestID, err := uuid.Parse(payload.RequestID)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("requestId must be a UUID")
	}

	return &usecase.DecideInput{
		AdminID:   admin.ID,
		RequestID: requestID,
		Reason:    payload.Reason,
	}, nil
}

func parseUserIDParam(c echo.Context) (uuid.UUID, error) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("userId must be a UUID")
	}

	return userID, nil
}
