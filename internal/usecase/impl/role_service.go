package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "pethub/internal/delivery/context"
	"pethub/internal/domain/entity"
	domainerrors "pethub/internal/domain/errors"
	"pethub/internal/domain/repository"
	"pethub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// roleService implements the RoleUsecase interface. It is the only writer
// of user role state and role request status. Every mutation commits to
// the record store first; the claims push runs after commit and its
// failure is logged, never returned.
type roleService struct {
	txManager       repository.TransactionManager
	userRepo        repository.UserRepository
	roleRequestRepo repository.RoleRequestRepository
	syncer          usecase.ClaimsSyncUsecase
	logger          *slog.Logger
}

// RoleServiceParams holds dependencies for the role lifecycle manager, injected by Fx.
type RoleServiceParams struct {
	fx.In

	TxManager       repository.TransactionManager
	UserRepo        repository.UserRepository
	RoleRequestRepo repository.RoleRequestRepository
	Syncer          usecase.ClaimsSyncUsecase
	Logger          *slog.Logger
}

// NewRoleService is the constructor for roleService.
func NewRoleService(params RoleServiceParams) usecase.RoleUsecase {
	return &roleService{
		txManager:       params.TxManager,
		userRepo:        params.UserRepo,
		roleRequestRepo: params.RoleRequestRepo,
		syncer:          params.Syncer,
		logger:          params.Logger,
	}
}

func (srv *roleService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// pushClaims attempts a best-effort claims push after a committed role
// mutation. The record store is already authoritative; a failed push only
// widens the drift window until the next repair.
func (srv *roleService) pushClaims(ctx context.Context, userID uuid.UUID) {
	if err := srv.syncer.Push(ctx, userID); err != nil {
		srv.log(ctx).Error("Claims sync failed after role mutation",
			slog.Any("userID", userID),
			slog.String("code", domainerrors.ErrClaimsSyncFailure.ErrorCode()),
			slog.Any("error", err))
	}
}

// Register creates a user in the initial (owner, approved) state. An
// optional requested role opens a pending request alongside; it never
// blocks baseline access.
func (srv *roleService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	srv.log(ctx).Info("Registering user", slog.String("subject", input.Subject), slog.String("email", input.Email))

	var requestedRole *entity.Role
	if input.RequestedRole != "" {
		role, ok := entity.ParseRole(input.RequestedRole)
		if !ok || !role.IsUpgradable() {
			return nil, domainerrors.ErrInvalidRole.WrapMessage("requested role " + input.RequestedRole)
		}
		requestedRole = &role
	}

	var registered *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		requestRepo := repoFactory.RoleRequestRepo()

		_, err := userRepo.FindByIdentitySubject(ctx, input.Subject)
		if err == nil {
			return domainerrors.ErrAlreadyRegistered.WrapMessage("identity subject already bound")
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to look up identity subject")
		}

		newUser := entity.NewUser(input.Subject, input.Email)
		newUser.RequestedRole = requestedRole

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		if requestedRole != nil {
			request := &entity.RoleRequest{
				UserID:        newUser.ID,
				RequestedRole: *requestedRole,
				Status:        entity.RequestStatusPending,
				Reason:        evidenceReason(*requestedRole, input.LicenseNumber, input.LicenseCountry),
			}
			if err := requestRepo.Create(ctx, request); err != nil {
				return errors.Wrap(err, "failed to create role request during registration")
			}
		}

		registered = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("subject", input.Subject), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.pushClaims(ctx, registered.ID)
	srv.log(ctx).Debug("Registration completed", slog.Any("userID", registered.ID))

	return registered, nil
}

// RequestUpgrade opens a pending role request for a registered user.
func (srv *roleService) RequestUpgrade(ctx context.Context, input *usecase.RequestUpgradeInput) (*entity.RoleRequest, error) {
	srv.log(ctx).Info("Role upgrade requested", slog.Any("userID", input.UserID), slog.String("requestedRole", input.RequestedRole))

	role, ok := entity.ParseRole(input.RequestedRole)
	if !ok || !role.IsUpgradable() {
		return nil, domainerrors.ErrInvalidRole.WrapMessage("requested role " + input.RequestedRole)
	}

	if role == entity.RoleVet && input.LicenseNumber == "" {
		return nil, domainerrors.ErrMissingEvidence.WrapMessage("vet upgrade without license evidence")
	}

	var created *entity.RoleRequest
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		requestRepo := repoFactory.RoleRequestRepo()

		user, err := userRepo.FindByID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrNotFound.WrapMessage("user not found for upgrade request")
			}

			return errors.Wrap(err, "failed to load user for upgrade request")
		}

		if user.HasApprovedRole(role) {
			return domainerrors.ErrAlreadyHasRole.WrapMessage("user already holds role " + role.String())
		}

		if _, err := requestRepo.FindPendingByUserID(ctx, user.ID); err == nil {
			return domainerrors.ErrDuplicatePending.WrapMessage("pending request already open")
		} else if !errors.Is(err, repository.ErrRoleRequestNotFound) {
			return errors.Wrap(err, "failed to check for pending request")
		}

		request := &entity.RoleRequest{
			UserID:        user.ID,
			RequestedRole: role,
			Status:        entity.RequestStatusPending,
			Reason:        evidenceReason(role, input.LicenseNumber, input.LicenseCountry),
		}
		if err := requestRepo.Create(ctx, request); err != nil {
			return errors.Wrap(err, "failed to create role request")
		}

		user.RequestedRole = &role
		if err := userRepo.UpdateRoleState(ctx, user); err != nil {
			return errors.Wrap(err, "failed to record requested role on user")
		}

		created = request

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Role upgrade request failed", slog.Any("userID", input.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute upgrade request transaction")
	}

	return created, nil
}

// Approve grants the requested role. The pending check and the decision
// write are one conditional update, so a concurrent approve or reject on
// the same request id loses cleanly with AlreadyProcessed.
func (srv *roleService) Approve(ctx context.Context, input *usecase.DecideInput) (*entity.User, error) {
	srv.log(ctx).Info("Approving role request", slog.Any("requestID", input.RequestID), slog.Any("adminID", input.AdminID))

	var approved *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		requestRepo := repoFactory.RoleRequestRepo()
		profileRepo := repoFactory.VetProfileRepo()

		request, err := srv.loadDecidableRequest(ctx, requestRepo, input.RequestID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := requestRepo.Decide(ctx, request.ID, entity.RequestStatusApproved, input.AdminID, now, request.Reason); err != nil {
			if errors.Is(err, repository.ErrRoleRequestAlreadyDecided) {
				return domainerrors.ErrAlreadyProcessed.WrapMessage("request decided concurrently")
			}

			return errors.Wrap(err, "failed to record approval decision")
		}

		user, err := userRepo.FindByID(ctx, request.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to load user for approval")
		}

		user.Role = request.RequestedRole
		user.RoleStatus = entity.RoleStatusApproved
		user.RequestedRole = nil
		if err := userRepo.UpdateRoleState(ctx, user); err != nil {
			return errors.Wrap(err, "failed to apply approved role")
		}

		if request.RequestedRole == entity.RoleVet {
			if err := profileRepo.Upsert(ctx, buildVetProfile(user.ID, request.Reason, now)); err != nil {
				return errors.Wrap(err, "failed to upsert vet profile")
			}
		}

		approved = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Approval failed", slog.Any("requestID", input.RequestID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute approval transaction")
	}

	// Record store committed; claims catch up best-effort.
	srv.pushClaims(ctx, approved.ID)
	srv.log(ctx).Info("Role request approved", slog.Any("requestID", input.RequestID), slog.Any("userID", approved.ID), slog.String("role", approved.Role.String()))

	return approved, nil
}

// Reject records the decision and clears the user's requested role. The
// user keeps whatever approved role they already had.
func (srv *roleService) Reject(ctx context.Context, input *usecase.DecideInput) (*entity.RoleRequest, error) {
	srv.log(ctx).Info("Rejecting role request", slog.Any("requestID", input.RequestID), slog.Any("adminID", input.AdminID))

	var rejected *entity.RoleRequest
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		requestRepo := repoFactory.RoleRequestRepo()

		request, err := srv.loadDecidableRequest(ctx, requestRepo, input.RequestID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := requestRepo.Decide(ctx, request.ID, entity.RequestStatusRejected, input.AdminID, now, input.Reason); err != nil {
			if errors.Is(err, repository.ErrRoleRequestAlreadyDecided) {
				return domainerrors.ErrAlreadyProcessed.WrapMessage("request decided concurrently")
			}

			return errors.Wrap(err, "failed to record rejection decision")
		}

		user, err := userRepo.FindByID(ctx, request.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to load user for rejection")
		}

		user.RequestedRole = nil
		if err := userRepo.UpdateRoleState(ctx, user); err != nil {
			return errors.Wrap(err, "failed to clear requested role")
		}

		request.Status = entity.RequestStatusRejected
		request.ReviewedBy = &input.AdminID
		request.ReviewedAt = &now
		request.Reason = input.Reason
		rejected = request

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Rejection failed", slog.Any("requestID", input.RequestID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute rejection transaction")
	}

	return rejected, nil
}

// ListPending returns all open requests with requester identity for the
// admin review queue.
func (srv *roleService) ListPending(ctx context.Context) ([]*usecase.PendingRoleRequest, error) {
	requests, err := srv.roleRequestRepo.ListPending(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pending requests")
	}

	pending := make([]*usecase.PendingRoleRequest, 0, len(requests))
	for _, request := range requests {
		user, err := srv.userRepo.FindByID(ctx, request.UserID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load requester")
		}

		pending = append(pending, &usecase.PendingRoleRequest{
			Request:        request,
			RequesterEmail: user.Email,
			RequesterRole:  user.Role,
			CreatedAt:      request.CreatedAt,
		})
	}

	return pending, nil
}

// ListHistory returns one user's role requests, newest first.
func (srv *roleService) ListHistory(ctx context.Context, userID uuid.UUID) ([]*entity.RoleRequest, error) {
	history, err := srv.roleRequestRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list role history")
	}

	return history, nil
}

// ListUsers returns all registered users.
func (srv *roleService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := srv.userRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

func (srv *roleService) loadDecidableRequest(ctx context.Context, requestRepo repository.RoleRequestRepository, requestID uuid.UUID) (*entity.RoleRequest, error) {
	request, err := requestRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRoleRequestNotFound) {
			return nil, domainerrors.ErrNotFound.WrapMessage("role request not found")
		}

		return nil, errors.Wrap(err, "failed to load role request")
	}

	if !request.IsPending() {
		return nil, domainerrors.ErrAlreadyProcessed.WrapMessage("request status is " + request.Status.String())
	}

	return request, nil
}

// evidenceReason renders license fields into the canonical evidence shape
// for vet requests. Non-vet requests and missing fields leave the reason
// empty; approval then falls back to an unverified placeholder profile.
func evidenceReason(role entity.Role, licenseNumber, licenseCountry string) string {
	if role != entity.RoleVet || licenseNumber == "" || licenseCountry == "" {
		return ""
	}

	return entity.FormatLicenseEvidence(licenseNumber, licenseCountry)
}

// buildVetProfile parses license evidence from the request reason when it
// is in the expected shape, else fills placeholder values so a profile row
// always exists once a vet role is live.
func buildVetProfile(userID uuid.UUID, reason string, decidedAt time.Time) *entity.VetProfile {
	profile := &entity.VetProfile{
		UserID:             userID,
		LicenseNumber:      entity.UnverifiedLicensePlaceholder,
		LicenseCountry:     entity.UnverifiedLicensePlaceholder,
		Verified:           false,
		VerificationSource: entity.VerificationSourcePlaceholder,
	}

	if number, country, ok := entity.ParseLicenseEvidence(reason); ok {
		profile.LicenseNumber = number
		profile.LicenseCountry = country
		profile.Verified = true
		profile.VerifiedAt = &decidedAt
		profile.VerificationSource = entity.VerificationSourceRoleRequest
	}

	return profile
}
