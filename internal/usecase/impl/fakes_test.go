package impl

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"pethub/internal/domain/entity"
	"pethub/internal/domain/repository"
	"pethub/internal/domain/service"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memUserRepository is an in-memory UserRepository for service tests.
type memUserRepository struct {
	users map[uuid.UUID]*entity.User
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{users: make(map[uuid.UUID]*entity.User)}
}

func (r *memUserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(user), nil
}

func (r *memUserRepository) FindByIdentitySubject(_ context.Context, subject string) (*entity.User, error) {
	for _, user := range r.users {
		if user.IdentitySubject == subject {
			return cloneUser(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memUserRepository) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = cloneUser(user)

	return nil
}

func (r *memUserRepository) UpdateRoleState(_ context.Context, user *entity.User) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}

	stored.Role = user.Role
	stored.RoleStatus = user.RoleStatus
	stored.RequestedRole = cloneRolePtr(user.RequestedRole)
	stored.UpdatedAt = time.Now()

	return nil
}

func (r *memUserRepository) ListAll(_ context.Context) ([]*entity.User, error) {
	users := make([]*entity.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, cloneUser(user))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })

	return users, nil
}

// memRoleRequestRepository is an in-memory RoleRequestRepository.
type memRoleRequestRepository struct {
	requests map[uuid.UUID]*entity.RoleRequest
}

func newMemRoleRequestRepository() *memRoleRequestRepository {
	return &memRoleRequestRepository{requests: make(map[uuid.UUID]*entity.RoleRequest)}
}

func (r *memRoleRequestRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.RoleRequest, error) {
	request, ok := r.requests[id]
	if !ok {
		return nil, repository.ErrRoleRequestNotFound
	}

	return cloneRequest(request), nil
}

func (r *memRoleRequestRepository) FindPendingByUserID(_ context.Context, userID uuid.UUID) (*entity.RoleRequest, error) {
	for _, request := range r.requests {
		if request.UserID == userID && request.Status == entity.RequestStatusPending {
			return cloneRequest(request), nil
		}
	}

	return nil, repository.ErrRoleRequestNotFound
}

func (r *memRoleRequestRepository) ListByUserID(_ context.Context, userID uuid.UUID) ([]*entity.RoleRequest, error) {
	requests := make([]*entity.RoleRequest, 0)
	for _, request := range r.requests {
		if request.UserID == userID {
			requests = append(requests, cloneRequest(request))
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].CreatedAt.After(requests[j].CreatedAt) })

	return requests, nil
}

func (r *memRoleRequestRepository) ListPending(_ context.Context) ([]*entity.RoleRequest, error) {
	requests := make([]*entity.RoleRequest, 0)
	for _, request := range r.requests {
		if request.Status == entity.RequestStatusPending {
			requests = append(requests, cloneRequest(request))
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].CreatedAt.Before(requests[j].CreatedAt) })

	return requests, nil
}

func (r *memRoleRequestRepository) Create(_ context.Context, request *entity.RoleRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	request.CreatedAt = time.Now()
	r.requests[request.ID] = cloneRequest(request)

	return nil
}

func (r *memRoleRequestRepository) Decide(_ context.Context, id uuid.UUID, status entity.RequestStatus, reviewedBy uuid.UUID, reviewedAt time.Time, reason string) error {
	stored, ok := r.requests[id]
	if !ok || stored.Status != entity.RequestStatusPending {
		return repository.ErrRoleRequestAlreadyDecided
	}

	stored.Status = status
	stored.ReviewedBy = &reviewedBy
	stored.ReviewedAt = &reviewedAt
	stored.Reason = reason

	return nil
}

// memVetProfileRepository is an in-memory VetProfileRepository.
type memVetProfileRepository struct {
	profiles map[uuid.UUID]*entity.VetProfile // keyed by user id
}

func newMemVetProfileRepository() *memVetProfileRepository {
	return &memVetProfileRepository{profiles: make(map[uuid.UUID]*entity.VetProfile)}
}

func (r *memVetProfileRepository) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.VetProfile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrVetProfileNotFound
	}

	cloned := *profile

	return &cloned, nil
}

func (r *memVetProfileRepository) Upsert(_ context.Context, profile *entity.VetProfile) error {
	if existing, ok := r.profiles[profile.UserID]; ok {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	} else if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
		profile.CreatedAt = time.Now()
	}
	profile.UpdatedAt = time.Now()
	cloned := *profile
	r.profiles[profile.UserID] = &cloned

	return nil
}

// memFactory binds the in-memory repositories into a RepositoryFactory.
type memFactory struct {
	userRepo        *memUserRepository
	roleRequestRepo *memRoleRequestRepository
	vetProfileRepo  *memVetProfileRepository
}

func (f *memFactory) UserRepo() repository.UserRepository               { return f.userRepo }
func (f *memFactory) RoleRequestRepo() repository.RoleRequestRepository { return f.roleRequestRepo }
func (f *memFactory) VetProfileRepo() repository.VetProfileRepository   { return f.vetProfileRepo }

// memTransactionManager runs the unit of work directly against the
// in-memory repositories. Rollback is not simulated; tests assert state
// only after successful commits.
type memTransactionManager struct {
	factory *memFactory
}

func (tm *memTransactionManager) Execute(_ context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	return fn(tm.factory)
}

// recordingClaimsChannel records claims writes for assertions.
type recordingClaimsChannel struct {
	claims   map[string]service.RoleClaims
	setCalls int
	setErr   error
}

func newRecordingClaimsChannel() *recordingClaimsChannel {
	return &recordingClaimsChannel{claims: make(map[string]service.RoleClaims)}
}

func (c *recordingClaimsChannel) SetClaims(_ context.Context, subject string, claims service.RoleClaims) error {
	c.setCalls++
	if c.setErr != nil {
		return c.setErr
	}
	c.claims[subject] = claims

	return nil
}

func (c *recordingClaimsChannel) GetClaims(_ context.Context, subject string) (*service.RoleClaims, error) {
	claims, ok := c.claims[subject]
	if !ok {
		return nil, nil
	}

	return &claims, nil
}

func cloneUser(user *entity.User) *entity.User {
	cloned := *user
	cloned.RequestedRole = cloneRolePtr(user.RequestedRole)

	return &cloned
}

func cloneRolePtr(role *entity.Role) *entity.Role {
	if role == nil {
		return nil
	}
	cloned := *role

	return &cloned
}

func cloneRequest(request *entity.RoleRequest) *entity.RoleRequest {
	cloned := *request

	return &cloned
}
