package impl

import (
	"context"
	"log/slog"

	deliverycontext "pethub/internal/delivery/context"
	"pethub/internal/domain/entity"
	"pethub/internal/domain/repository"
	"pethub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	userRepo        repository.UserRepository
	roleRequestRepo repository.RoleRequestRepository
	syncer          usecase.ClaimsSyncUsecase
	logger          *slog.Logger
}

// AccountServiceParams holds dependencies for the account service, injected by Fx.
type AccountServiceParams struct {
	fx.In

	UserRepo        repository.UserRepository
	RoleRequestRepo repository.RoleRequestRepository
	Syncer          usecase.ClaimsSyncUsecase
	Logger          *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		userRepo:        params.UserRepo,
		roleRequestRepo: params.RoleRequestRepo,
		syncer:          params.Syncer,
		logger:          params.Logger,
	}
}

func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetSession returns the record-store view of the subject's authorization
// state. An unknown subject is a normal outcome here, not an error; the
// UI routes it to registration.
func (srv *accountService) GetSession(ctx context.Context, subject string) (*usecase.SessionInfo, error) {
	user, err := srv.userRepo.FindByIdentitySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return &usecase.SessionInfo{Registered: false}, nil
		}

		return nil, errors.Wrap(err, "failed to load session state")
	}

	return srv.buildSessionInfo(ctx, user)
}

// RefreshSession repairs the caller's claims from record-store state and
// returns the current session. A failed repair is logged and swallowed;
// the session read stays authoritative either way.
func (srv *accountService) RefreshSession(ctx context.Context, userID uuid.UUID) (*usecase.SessionInfo, error) {
	if err := srv.syncer.Repair(ctx, userID); err != nil {
		srv.log(ctx).Error("Claims repair failed during session refresh",
			slog.Any("userID", userID),
			slog.Any("error", err))
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user for session refresh")
	}

	return srv.buildSessionInfo(ctx, user)
}

func (srv *accountService) buildSessionInfo(ctx context.Context, user *entity.User) (*usecase.SessionInfo, error) {
	info := &usecase.SessionInfo{
		Registered:    true,
		Role:          &user.Role,
		RoleStatus:    &user.RoleStatus,
		RequestedRole: user.RequestedRole,
	}

	if _, err := srv.roleRequestRepo.FindPendingByUserID(ctx, user.ID); err == nil {
		info.HasPendingRequest = true
	} else if !errors.Is(err, repository.ErrRoleRequestNotFound) {
		return nil, errors.Wrap(err, "failed to check for pending request")
	}

	return info, nil
}
