// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "pethub/internal/delivery/context"
	"pethub/internal/domain/repository"
	"pethub/internal/domain/service"
	"pethub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// claimsSyncService implements the ClaimsSyncUsecase interface. The record
// store is authoritative; every operation here treats the claims channel
// as a cache to be overwritten, never as input.
type claimsSyncService struct {
	userRepo repository.UserRepository
	claims   service.ClaimsChannel
	logger   *slog.Logger
}

// ClaimsSyncServiceParams holds dependencies for the claims synchronizer, injected by Fx.
type ClaimsSyncServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Claims   service.ClaimsChannel
	Logger   *slog.Logger
}

// NewClaimsSyncService is the constructor for claimsSyncService.
func NewClaimsSyncService(params ClaimsSyncServiceParams) usecase.ClaimsSyncUsecase {
	return &claimsSyncService{
		userRepo: params.UserRepo,
		claims:   params.Claims,
		logger:   params.Logger,
	}
}

func (srv *claimsSyncService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Push writes the user's current (role, roleStatus) into the claims
// channel. SetClaims is an upsert, so repeated pushes with unchanged state
// converge on the same channel contents.
func (srv *claimsSyncService) Push(ctx context.Context, userID uuid.UUID) error {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "failed to load user for claims push")
	}

	claims := service.RoleClaims{
		Role:       user.Role,
		RoleStatus: user.RoleStatus,
	}

	if err := srv.claims.SetClaims(ctx, user.IdentitySubject, claims); err != nil {
		return errors.Wrap(err, "failed to set role claims")
	}

	srv.log(ctx).Debug("Pushed role claims",
		slog.Any("userID", userID),
		slog.String("role", user.Role.String()),
		slog.String("roleStatus", user.RoleStatus.String()))

	return nil
}

// CheckConsistency compares record-store role state against the claims
// channel's cached copy.
func (srv *claimsSyncService) CheckConsistency(ctx context.Context, userID uuid.UUID) (*usecase.ConsistencyReport, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user for consistency check")
	}

	channelClaims, err := srv.claims.GetClaims(ctx, user.IdentitySubject)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read role claims")
	}

	report := &usecase.ConsistencyReport{
		RecordRole: user.Role,
	}
	if channelClaims != nil {
		claimsRole := channelClaims.Role
		report.ClaimsRole = &claimsRole
		report.Consistent = claimsRole == user.Role
	}

	if !report.Consistent {
		srv.log(ctx).Warn("Role claims drift detected",
			slog.Any("userID", userID),
			slog.String("recordRole", user.Role.String()),
			slog.Any("claimsRole", report.ClaimsRole))
	}

	return report, nil
}

// Repair re-reads record-store state and pushes it into the channel.
func (srv *claimsSyncService) Repair(ctx context.Context, userID uuid.UUID) error {
	if err := srv.Push(ctx, userID); err != nil {
		return errors.Wrap(err, "failed to repair role claims")
	}

	srv.log(ctx).Info("Repaired role claims", slog.Any("userID", userID))

	return nil
}
