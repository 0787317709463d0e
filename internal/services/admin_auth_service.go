package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"partnerhub/internal/caching"
	"partnerhub/internal/models"
	"partnerhub/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AdminAuthService interface {
	Load(ctx context.Context) error
	// Fetch returns the registered admin or nil
	Fetch() *models.Admin
	Register(ctx context.Context, name, email, password string) (*models.Admin, error)
	ValidateLogin(password string) bool
	ChangePassword(ctx context.Context, email, oldPassword, newPassword string) (bool, error)
}

type adminAuthService struct {
	repo   repositories.AdminRepository
	mirror *caching.Mirror[*models.Admin]
	logger *zap.SugaredLogger
}

func NewAdminAuthService(repo repositories.AdminRepository, lg *zap.SugaredLogger) AdminAuthService {
	return &adminAuthService{
		repo:   repo,
		mirror: caching.NewMirror[*models.Admin](nil),
		logger: lg,
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *adminAuthService) Load(ctx context.Context) error {
	err := s.mirror.Reload(ctx, func(ctx context.Context) (*models.Admin, error) {
		admin, err := s.repo.Get(ctx)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return admin, err
	})
	if err != nil {
		s.logger.Errorw("failed to load admin", "error", err)
		return fmt.Errorf("load admin: %w", err)
	}
	return nil
}

func (s *adminAuthService) Fetch() *models.Admin {
	var admin *models.Admin
	s.mirror.Read(func(a *models.Admin) { admin = a })
	return admin
}

func (s *adminAuthService) Register(ctx context.Context, name, email, password string) (*models.Admin, error) {
	if s.Fetch() != nil {
		return nil, ErrAdminExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin, err := s.repo.Create(ctx, strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(email)), hash)
	if errors.Is(err, repositories.ErrAlreadyExists) {
		return nil, ErrAdminExists
	}
	if err != nil {
		s.logger.Errorw("failed to register admin", "error", err)
		return nil, fmt.Errorf("register admin: %w", err)
	}

	s.mirror.Update(func(*models.Admin) *models.Admin { return admin })
	s.logger.Infow("admin registered", "admin_id", admin.ID)
	return admin, nil
}

func (s *adminAuthService) ValidateLogin(password string) bool {
	admin := s.Fetch()
	if admin == nil {
		return false
	}
	return CheckPassword(admin.PasswordHash, password)
}

func (s *adminAuthService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) (bool, error) {
	admin := s.Fetch()
	if admin == nil {
		return false, nil
	}
	if !strings.EqualFold(strings.TrimSpace(email), admin.Email) {
		return false, nil
	}
	if !CheckPassword(admin.PasswordHash, oldPassword) {
		return false, nil
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, admin.ID, hash); err != nil {
		s.logger.Errorw("failed to change admin password", "admin_id", admin.ID, "error", err)
		return false, fmt.Errorf("change password: %w", err)
	}

	updated := *admin
	updated.PasswordHash = hash
	s.mirror.Update(func(*models.Admin) *models.Admin { return &updated })
	s.logger.Infow("admin password changed", "admin_id", admin.ID)
	return true, nil
}
