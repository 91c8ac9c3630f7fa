package impl

import (
	"context"
	"testing"

	"pethub/internal/domain/entity"
	domainerrors "pethub/internal/domain/errors"
	"pethub/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roleServiceFixtures holds all test dependencies for role service tests.
type roleServiceFixtures struct {
	service         usecase.RoleUsecase
	userRepo        *memUserRepository
	roleRequestRepo *memRoleRequestRepository
	vetProfileRepo  *memVetProfileRepository
	claims          *recordingClaimsChannel
}

func createTestRoleService(t *testing.T) roleServiceFixtures {
	t.Helper()

	userRepo := newMemUserRepository()
	roleRequestRepo := newMemRoleRequestRepository()
	vetProfileRepo := newMemVetProfileRepository()
	claims := newRecordingClaimsChannel()
	logger := newDiscardLogger()

	txManager := &memTransactionManager{factory: &memFactory{
		userRepo:        userRepo,
		roleRequestRepo: roleRequestRepo,
		vetProfileRepo:  vetProfileRepo,
	}}

	syncer := NewClaimsSyncService(ClaimsSyncServiceParams{
		UserRepo: userRepo,
		Claims:   claims,
		Logger:   logger,
	})

	service := NewRoleService(RoleServiceParams{
		TxManager:       txManager,
		UserRepo:        userRepo,
		RoleRequestRepo: roleRequestRepo,
		Syncer:          syncer,
		Logger:          logger,
	})

	return roleServiceFixtures{
		service:         service,
		userRepo:        userRepo,
		roleRequestRepo: roleRequestRepo,
		vetProfileRepo:  vetProfileRepo,
		claims:          claims,
	}
}

func registerOwner(t *testing.T, fx roleServiceFixtures, subject, email string) *entity.User {
	t.Helper()

	user, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Subject: subject,
		Email:   email,
	})
	require.NoError(t, err)

	return user
}

func TestRoleService_Register_Baseline(t *testing.T) {
	fx := createTestRoleService(t)

	user, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Subject: "sub-1",
		Email:   "owner@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleOwner, user.Role)
	assert.Equal(t, entity.RoleStatusApproved, user.RoleStatus)
	assert.Nil(t, user.RequestedRole)

	// Baseline access is live immediately, and claims are pushed.
	assert.Equal(t, 1, fx.claims.setCalls)
	assert.Equal(t, entity.RoleOwner, fx.claims.claims["sub-1"].Role)
}

func TestRoleService_Register_WithVetRequest(t *testing.T) {
	fx := createTestRoleService(t)

	user, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Subject:        "sub-2",
		Email:          "vet@example.com",
		RequestedRole:  "vet",
		LicenseNumber:  "VET-9",
		LicenseCountry: "US",
	})
	require.NoError(t, err)

	// The account stays (owner, approved) while the request is pending.
	assert.Equal(t, entity.RoleOwner, user.Role)
	assert.Equal(t, entity.RoleStatusApproved, user.RoleStatus)
	require.NotNil(t, user.RequestedRole)
	assert.Equal(t, entity.RoleVet, *user.RequestedRole)

	pending, err := fx.roleRequestRepo.FindPendingByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVet, pending.RequestedRole)
	assert.Equal(t, "License: VET-9, Country: US", pending.Reason)
}

func TestRoleService_Register_DuplicateSubject(t *testing.T) {
	fx := createTestRoleService(t)
	registerOwner(t, fx, "sub-3", "first@example.com")

	_, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Subject: "sub-3",
		Email:   "second@example.com",
	})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyRegistered)
}

func TestRoleService_Register_InvalidRole(t *testing.T) {
	fx := createTestRoleService(t)

	_, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Subject:       "sub-4",
		Email:         "who@example.com",
		RequestedRole: "superuser",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidRole)

	// Requesting the baseline role is equally invalid.
	_, err = fx.service.Register(context.Background(), &usecase.RegisterInput{
		Subject:       "sub-4",
		Email:         "who@example.com",
		RequestedRole: "owner",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidRole)
}

func TestRoleService_RequestUpgrade_Success(t *testing.T) {
	fx := createTestRoleService(t)
	user := registerOwner(t, fx, "sub-5", "owner@example.com")

	request, err := fx.service.RequestUpgrade(context.Background(), &usecase.RequestUpgradeInput{
		UserID:         user.ID,
		RequestedRole:  "vet",
		LicenseNumber:  "VET-10",
		LicenseCountry: "DE",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RequestStatusPending, request.Status)
	assert.Equal(t, entity.RoleVet, request.RequestedRole)

	stored, err := fx.userRepo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RequestedRole)
	assert.Equal(t, entity.RoleVet, *stored.RequestedRole)
}

func TestRoleService_RequestUpgrade_DuplicatePending(t *testing.T) {
	fx := createTestRoleService(t)
	user := registerOwner(t, fx, "sub-6", "owner@example.com")

	_, err := fx.service.RequestUpgrade(context.Background(), &usecase.RequestUpgradeInput{
		UserID:        user.ID,
		RequestedRole: "admin",
	})
	require.NoError(t, err)

	_, err = fx.service.RequestUpgrade(context.Background(), &usecase.RequestUpgradeInput{
		UserID:        user.ID,
		RequestedRole: "admin",
	})
	require.ErrorIs(t, err, domainerrors.ErrDuplicatePending)
}

func TestRoleService_RequestUpgrade_MissingEvidence(t *testing.T) {
	fx := createTestRoleService(t)
	user := registerOwner(t, fx, "sub-7", "owner@example.com")

	_, err := fx.service.RequestUpgrade(context.Background(), &usecase.RequestUpgradeInput{
		UserID:        user.ID,
		RequestedRole: "vet",
	})
	require.ErrorIs(t, err, domainerrors.ErrMissingEvidence)

	// Admin requests carry no license requirement.
	_, err = fx.service.RequestUpgrade(context.Background(), &usecase.RequestUpgradeInput{
		UserID:        user.ID,
		RequestedRole: "admin",
	})
	require.NoError(t, err)
}

func TestRoleService_RequestUpgrade_AlreadyHasRole(t *testing.T) {
	fx := createTestRoleService(t)
	user := registerOwner(t, fx, "sub-8", "owner@example.com")

	user.Role = entity.RoleVet
	user.RoleStatus = entity.RoleStatusApproved
	require.NoError(t, fx.userRepo.UpdateRoleState(context.Background(), user))

	_, err := fx.service.RequestUpgrade(context.Background(), &usecase.RequestUpgradeInput{
		UserID:         user.ID,
		RequestedRole:  "vet",
		LicenseNumber:  "VET-11",
		LicenseCountry: "FR",
	})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyHasRole)
}

func TestRoleService_Approve_VetWithEvidence(t *testing.T) {
	fx := createTestRoleService(t)
	admin := registerOwner(t, fx, "sub-admin", "admin@example.com")
	user := registerOwner(t, fx, "sub-9", "vet@example.com")

	request, err := fx.service.RequestUpgrade(context.Background(), &usecase.RequestUpgradeInput{
		UserID:         user.ID,
		RequestedRole:  "vet",
		LicenseNumber:  "VET-9",
		LicenseCountry: "US",
	})
	require.NoError(t, err)

	approved, err := fx.service.Approve(context.Background(), &usecase.DecideInput{
		AdminID:   admin.ID,
		RequestID: request.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleVet, approved.Role)
	assert.Equal(t, entity.RoleStatusApproved, approved.RoleStatus)
	assert.Nil(t, approved.RequestedRole)

	// License evidence was parsed into a verified profile.
	profile, err := fx.vetProfileRepo.FindByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "VET-9", profile.LicenseNumber)
	assert.Equal(t, "US", profile.LicenseCountry)
	assert.True(t, profile.Verified)
	assert.Equal(t, entity.VerificationSourceRoleRequest, profile.VerificationSource)

	// Claims follow the committed record store state.
	assert.Equal(t, entity.RoleVet, fx.claims.claims["sub-9"].Role)

	// The decision is recorded on the request.
	decided, err := fx.roleRequestRepo.FindByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusApproved, decided.Status)
	require.NotNil(t, decided.ReviewedBy)
	assert.Equal(t, admin.ID, *decided.ReviewedBy)
	assert.NotNil(t, decided.ReviewedAt)
}

func TestRoleService_Approve_VetWithoutEvidence(t *testing.T) {
	fx := createTestRoleService(t)
	admin := registerOwner(t, fx, "sub-admin", "admin@example.com")
	user := registerOwner(t, fx, "sub-10", "vet@example.com")

	request, err := fx.service.RequestUpgrade(context.Background(), &usecase.RequestUpgradeInput{
		UserID:        user.ID,
		RequestedRole: "vet",
		LicenseNumber: "VET-12", // no country, so no parseable evidence line
	})
	require.NoError(t, err)

	_, err = fx.service.Approve(context.Background(), &usecase.DecideInput{
		AdminID:   admin.ID,
		RequestID: request.ID,
	})
	require.NoError(t, err)

	profile, err := fx.vetProfileRepo.FindByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.UnverifiedLicensePlaceholder, profile.LicenseNumber)
	assert.False(t, profile.Verified)
	assert.Equal(t, entity.VerificationSourcePlaceholder, profile.VerificationSource)
}

func TestRoleService_Approve_AlreadyProcessed(t *testing.T) {
	fx := createTestRoleService(t)
	admin := registerOwner(t, fx, "sub-admin", "admin@example.com")
	user := registerOwner(t, fx, "sub-11", "vet@example.com")

	request, err := fx.service.RequestUpgrade(context.Background(), &usecase.RequestUpgradeInput{
		UserID:         user.ID,
		RequestedRole:  "vet",
		LicenseNumber:  "VET-13",
		LicenseCountry: "JP",
	})
	require.NoError(t, err)

	_, err = fx.service.Approve(context.Background(), &usecase.DecideInput{
		AdminID:   admin.ID,
		RequestID: request.ID,
	})
	require.NoError(t, err)

	// A second decision on the same request conflicts without changing state.
	_, err = fx.service.Approve(context.Background(), &usecase.DecideInput{
		AdminID:   admin.ID,
		RequestID: request.ID,
	})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyProcessed)

	_, err = fx.service.Reject(context.Background(), &usecase.DecideInput{
		AdminID:   admin.ID,
		RequestID: request.ID,
		Reason:    "changed my mind",
	})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyProcessed)

	stored, err := fx.userRepo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVet, stored.Role)
}

func TestRoleService_Approve_UnknownRequest(t *testing.T) {
	fx := createTestRoleService(t)
	admin := registerOwner(t, fx, "sub-admin", "admin@example.com")

	_, err := fx.service.Approve(context.Background(), &usecase.DecideInput{
		AdminID:   admin.ID,
		RequestID: uuid.New(),
	})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRoleService_Reject_KeepsRole(t *testing.T) {
	fx := createTestRoleService(t)
	admin := registerOwner(t, fx, "sub-admin", "admin@example.com")
	user := registerOwner(t, fx, "sub-12", "vet@example.com")

	request, err := fx.service.RequestUpgrade(context.Background(), &usecase.RequestUpgradeInput{
		UserID:         user.ID,
		RequestedRole:  "vet",
		LicenseNumber:  "VET-14",
		LicenseCountry: "BR",
	})
	require.NoError(t, err)

	rejected, err := fx.service.Reject(context.Background(), &usecase.DecideInput{
		AdminID:   admin.ID,
		RequestID: request.ID,
		Reason:    "license could not be confirmed",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RequestStatusRejected, rejected.Status)
	assert.Equal(t, "license could not be confirmed", rejected.Reason)

	// The user keeps baseline access; only the outstanding request is cleared.
	stored, err := fx.userRepo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOwner, stored.Role)
	assert.Equal(t, entity.RoleStatusApproved, stored.RoleStatus)
	assert.Nil(t, stored.RequestedRole)

	// A rejected user may request again.
	_, err = fx.service.RequestUpgrade(context.Background(), &usecase.RequestUpgradeInput{
		UserID:         user.ID,
		RequestedRole:  "vet",
		LicenseNumber:  "VET-15",
		LicenseCountry: "BR",
	})
	require.NoError(t, err)
}

func TestRoleService_Approve_ClaimsFailureDoesNotFail(t *testing.T) {
	fx := createTestRoleService(t)
	admin := registerOwner(t, fx, "sub-admin", "admin@example.com")
	user := registerOwner(t, fx, "sub-13", "vet@example.com")

	request, err := fx.service.RequestUpgrade(context.Background(), &usecase.RequestUpgradeInput{
		UserID:         user.ID,
		RequestedRole:  "vet",
		LicenseNumber:  "VET-16",
		LicenseCountry: "CA",
	})
	require.NoError(t, err)

	fx.claims.setErr = assert.AnError

	approved, err := fx.service.Approve(context.Background(), &usecase.DecideInput{
		AdminID:   admin.ID,
		RequestID: request.ID,
	})
	require.NoError(t, err)

	// Record store committed despite the channel failure.
	assert.Equal(t, entity.RoleVet, approved.Role)
	stored, err := fx.userRepo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVet, stored.Role)
}

func TestRoleService_ListPending(t *testing.T) {
	fx := createTestRoleService(t)
	user := registerOwner(t, fx, "sub-14", "vet@example.com")

	_, err := fx.service.RequestUpgrade(context.Background(), &usecase.RequestUpgradeInput{
		UserID:         user.ID,
		RequestedRole:  "vet",
		LicenseNumber:  "VET-17",
		LicenseCountry: "AU",
	})
	require.NoError(t, err)

	pending, err := fx.service.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "vet@example.com", pending[0].RequesterEmail)
	assert.Equal(t, entity.RoleOwner, pending[0].RequesterRole)
	assert.Equal(t, entity.RoleVet, pending[0].Request.RequestedRole)
}
