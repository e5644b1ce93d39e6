package user

import (
	"context"
	"errors"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/jdblank/fire-backend/internal/auditlog"
)

// IdentityClaims is the subset of identity-provider token claims we mirror
type IdentityClaims struct {
	Subject   string
	Email     string
	FullName  string
	AvatarURL string
}

type Service interface {
	// EnsureFromClaims JIT-provisions an account on first authenticated request
	EnsureFromClaims(claims IdentityClaims) (*User, error)
	GetByID(id uint) (User, error)

	// Admin panel
	ListUsers(limit, page int, search, role, status string) (*PaginatedUsers, error)
	UpdateRole(ctx context.Context, actorID, targetID uint, roleName, ip string) error
	UpdateStatus(ctx context.Context, actorID, targetID uint, status, ip string) error
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
}

func NewService(repo Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, auditSvc: auditSvc}
}

// ===========================
// 👤 JIT provisioning
func (s *service) EnsureFromClaims(claims IdentityClaims) (*User, error) {
	if claims.Subject == "" {
		return nil, errors.New("missing subject in token claims")
	}

	existing, err := s.repo.FindByExternalID(claims.Subject)
	if err == nil {
		// Keep the mirrored profile fresh
		changed := false
		if claims.Email != "" && existing.Email != claims.Email {
			existing.Email = claims.Email
			changed = true
		}
		if claims.FullName != "" && existing.FullName != claims.FullName {
			existing.FullName = claims.FullName
			changed = true
		}
		if changed {
			if err := s.repo.Update(existing); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// First sight of this account: create it with the default role
	role, err := s.repo.FindRoleByName("member")
	if err != nil {
		return nil, errors.New("default role not seeded")
	}

	u := &User{
		ExternalID: claims.Subject,
		Email:      claims.Email,
		FullName:   claims.FullName,
		AvatarURL:  claims.AvatarURL,
		RoleID:     role.ID,
		Status:     "active",
	}
	if err := s.repo.Create(u); err != nil {
		return nil, err
	}
	u.Role = *role
	return u, nil
}

func (s *service) GetByID(id uint) (User, error) {
	return s.repo.FindByID(id)
}

// ===========================
// 📄 Admin: list users
func (s *service) ListUsers(limit, page int, search, role, status string) (*PaginatedUsers, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	users, total, err := s.repo.List(limit, (page-1)*limit, search, role, status)
	if err != nil {
		return nil, err
	}

	data := make([]UserResponse, 0, len(users))
	for i := range users {
		data = append(data, toResponse(&users[i]))
	}

	return &PaginatedUsers{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// ===========================
// 🛠 Admin: change role
func (s *service) UpdateRole(ctx context.Context, actorID, targetID uint, roleName, ip string) error {
	roleName = strings.ToLower(strings.TrimSpace(roleName))

	role, err := s.repo.FindRoleByName(roleName)
	if err != nil {
		return errors.New("invalid role")
	}

	target, err := s.repo.FindByID(targetID)
	if err != nil {
		s.auditSvc.LogAction(ctx, &actorID, "USER_ROLE_CHANGED", "user", &targetID, map[string]interface{}{
			"error": "user not found",
		}, ip, "failure")
		return err
	}

	previous := target.Role.RoleName
	target.RoleID = role.ID
	target.Role = *role

	if err := s.repo.Update(&target); err != nil {
		s.auditSvc.LogAction(ctx, &actorID, "USER_ROLE_CHANGED", "user", &targetID, map[string]interface{}{
			"error": err.Error(),
		}, ip, "failure")
		return err
	}

	s.auditSvc.LogAction(ctx, &actorID, "USER_ROLE_CHANGED", "user", &targetID, map[string]interface{}{
		"email": target.Email,
		"from":  previous,
		"to":    roleName,
	}, ip, "success")

	return nil
}

// ===========================
// 🛠 Admin: activate / suspend
func (s *service) UpdateStatus(ctx context.Context, actorID, targetID uint, status, ip string) error {
	if actorID == targetID {
		return errors.New("cannot change your own status")
	}

	target, err := s.repo.FindByID(targetID)
	if err != nil {
		return err
	}

	previous := target.Status
	target.Status = status

	if err := s.repo.Update(&target); err != nil {
		s.auditSvc.LogAction(ctx, &actorID, "USER_STATUS_CHANGED", "user", &targetID, map[string]interface{}{
			"error": err.Error(),
		}, ip, "failure")
		return err
	}

	s.auditSvc.LogAction(ctx, &actorID, "USER_STATUS_CHANGED", "user", &targetID, map[string]interface{}{
		"email": target.Email,
		"from":  previous,
		"to":    status,
	}, ip, "success")

	return nil
}
