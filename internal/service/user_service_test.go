package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"kvitto/internal/domain"
	"kvitto/internal/service"
	"kvitto/mocks"
)

func newUserService() (service.UserService, *mocks.MockUserRepo, *mocks.MockAuditService) {
	userRepo := new(mocks.MockUserRepo)
	audit := new(mocks.MockAuditService)
	return service.NewUserService(userRepo, audit), userRepo, audit
}

func TestUserCreate_HashesPasswordAndAudits(t *testing.T) {
	svc, userRepo, audit := newUserService()
	actorID := uuid.New()

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "new@example.com" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")) == nil
	})).Return(nil)
	audit.On("Record", mock.Anything, mock.MatchedBy(func(in service.RecordAuditInput) bool {
		return in.Action == domain.AuditUserCreated && in.ActorID == actorID
	})).Return(nil)

	u, err := svc.Create(context.Background(), service.CreateUserInput{
		Email:    " New@Example.com ",
		Username: "newbie",
		Password: "s3cret",
		Role:     domain.RoleMember,
		ActorID:  actorID,
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)
	assert.NotEqual(t, "s3cret", u.PasswordHash)
	audit.AssertExpectations(t)
}

func TestUserCreate_InvalidRole(t *testing.T) {
	svc, _, _ := newUserService()

	_, err := svc.Create(context.Background(), service.CreateUserInput{
		Email:    "x@example.com",
		Username: "x",
		Password: "pw",
		Role:     domain.UserRole("superuser"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	svc, userRepo, _ := newUserService()

	userRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)

	_, err := svc.Create(context.Background(), service.CreateUserInput{
		Email:    "dup@example.com",
		Username: "dup",
		Password: "pw",
		Role:     domain.RoleMember,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUpdateRole_AuditsOldAndNew(t *testing.T) {
	svc, userRepo, audit := newUserService()
	target := testMember()
	actorID := uuid.New()

	userRepo.On("GetByID", mock.Anything, target.ID).Return(target, nil)
	userRepo.On("UpdateRole", mock.Anything, target.ID, domain.RoleAdmin).Return(nil)
	audit.On("Record", mock.Anything, mock.MatchedBy(func(in service.RecordAuditInput) bool {
		return in.Action == domain.AuditUserRoleChanged && in.DetailsJSON != nil
	})).Return(nil)

	err := svc.UpdateRole(context.Background(), target.ID, domain.RoleAdmin, actorID, service.RequestMeta{})
	require.NoError(t, err)
	audit.AssertExpectations(t)
}

func TestUserDelete_NotFound(t *testing.T) {
	svc, userRepo, _ := newUserService()
	id := uuid.New()

	userRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrUserNotFound)

	err := svc.Delete(context.Background(), id, uuid.New(), service.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserDelete_Audits(t *testing.T) {
	svc, userRepo, audit := newUserService()
	target := testMember()
	actorID := uuid.New()

	userRepo.On("GetByID", mock.Anything, target.ID).Return(target, nil)
	userRepo.On("Delete", mock.Anything, target.ID).Return(nil)
	audit.On("Record", mock.Anything, mock.MatchedBy(func(in service.RecordAuditInput) bool {
		return in.Action == domain.AuditUserDeleted && in.TargetUserID != nil && *in.TargetUserID == target.ID
	})).Return(nil)

	err := svc.Delete(context.Background(), target.ID, actorID, service.RequestMeta{})
	require.NoError(t, err)
	audit.AssertExpectations(t)
}
