package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"kvitto/internal/domain"
	"kvitto/internal/port"
)

// CreateUserInput is the DTO for account creation.
type CreateUserInput struct {
	Email    string
	Username string
	Password string
	Role     domain.UserRole
	ActorID  uuid.UUID
	Meta     RequestMeta
}

// UserService handles account administration. Every mutation is recorded in
// the audit ledger under UserManagement actions.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, role domain.UserRole, actorID uuid.UUID, meta RequestMeta) error
	Delete(ctx context.Context, userID, actorID uuid.UUID, meta RequestMeta) error
}

type userService struct {
	userRepo port.UserRepository
	audit    AuditService
}

// NewUserService creates a new UserService implementation.
func NewUserService(userRepo port.UserRepository, audit AuditService) UserService {
	return &userService{userRepo: userRepo, audit: audit}
}

func (s *userService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Username == "" || input.Password == "" {
		return nil, fmt.Errorf("email, username and password are required: %w", domain.ErrInvalidCredentials)
	}
	if !domain.ValidUserRoles[input.Role] {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         input.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	targetID := u.ID
	desc := fmt.Sprintf("User created: %s (%s)", u.Username, u.Role)
	s.recordAudit(ctx, RecordAuditInput{
		Action:       domain.AuditUserCreated,
		EntityType:   domain.EntityUser,
		EntityID:     u.ID.String(),
		ActorID:      input.ActorID,
		TargetUserID: &targetID,
		DetailsJSON:  marshalDetails(map[string]interface{}{"email": u.Email, "role": u.Role}),
		Description:  &desc,
		Meta:         input.Meta,
	})

	return u, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) UpdateRole(ctx context.Context, userID uuid.UUID, role domain.UserRole, actorID uuid.UUID, meta RequestMeta) error {
	if !domain.ValidUserRoles[role] {
		return domain.ErrInvalidRole
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	oldRole := u.Role
	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return err
	}

	targetID := userID
	desc := fmt.Sprintf("Role changed for %s: %s -> %s", u.Username, oldRole, role)
	s.recordAudit(ctx, RecordAuditInput{
		Action:       domain.AuditUserRoleChanged,
		EntityType:   domain.EntityUser,
		EntityID:     userID.String(),
		ActorID:      actorID,
		TargetUserID: &targetID,
		DetailsJSON:  marshalDetails(map[string]interface{}{"old_role": oldRole, "new_role": role}),
		Description:  &desc,
		Meta:         meta,
	})
	return nil
}

func (s *userService) Delete(ctx context.Context, userID, actorID uuid.UUID, meta RequestMeta) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	targetID := userID
	desc := fmt.Sprintf("User deleted: %s", u.Username)
	s.recordAudit(ctx, RecordAuditInput{
		Action:       domain.AuditUserDeleted,
		EntityType:   domain.EntityUser,
		EntityID:     userID.String(),
		ActorID:      actorID,
		TargetUserID: &targetID,
		DetailsJSON:  marshalDetails(map[string]interface{}{"email": u.Email}),
		Description:  &desc,
		Meta:         meta,
	})
	return nil
}

func (s *userService) recordAudit(ctx context.Context, input RecordAuditInput) {
	if err := s.audit.Record(ctx, input); err != nil {
		log.Printf("userService.recordAudit: failed to write %s entry for %s: %v", input.Action, input.EntityID, err)
	}
}
