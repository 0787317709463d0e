package services

import (
	"context"
	"fmt"
	"strings"

	"partnerhub/internal/caching"
	"partnerhub/internal/models"
	"partnerhub/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PartnerService interface {
	Load(ctx context.Context) error
	List() []*models.Partner
	FindByID(id uuid.UUID) (*models.Partner, bool)
	FindByEmail(email string) (*models.Partner, bool)

	Add(ctx context.Context, input *models.PartnerInput) (*models.Partner, error)
	Update(ctx context.Context, id uuid.UUID, update *models.PartnerUpdate) (*models.Partner, error)
	// Delete does not cascade; callers remove leads and partner products first
	Delete(ctx context.Context, id uuid.UUID) error
}

type partnerService struct {
	repo   repositories.PartnerRepository
	mirror *caching.Mirror[[]*models.Partner]
	logger *zap.SugaredLogger
}

func NewPartnerService(repo repositories.PartnerRepository, lg *zap.SugaredLogger) PartnerService {
	return &partnerService{
		repo:   repo,
		mirror: caching.NewMirror([]*models.Partner{}),
		logger: lg,
	}
}

func (s *partnerService) Load(ctx context.Context) error {
	err := s.mirror.Reload(ctx, s.repo.List)
	if err != nil {
		s.logger.Errorw("failed to load partners", "error", err)
		return fmt.Errorf("load partners: %w", err)
	}
	return nil
}

func (s *partnerService) List() []*models.Partner {
	var out []*models.Partner
	s.mirror.Read(func(partners []*models.Partner) {
		out = append(out, partners...)
	})
	return out
}

func (s *partnerService) FindByID(id uuid.UUID) (*models.Partner, bool) {
	var found *models.Partner
	s.mirror.Read(func(partners []*models.Partner) {
		for _, p := range partners {
			if p.ID == id {
				found = p
				return
			}
		}
	})
	return found, found != nil
}

func (s *partnerService) FindByEmail(email string) (*models.Partner, bool) {
	needle := strings.ToLower(strings.TrimSpace(email))
	if needle == "" {
		return nil, false
	}
	var found *models.Partner
	s.mirror.Read(func(partners []*models.Partner) {
		for _, p := range partners {
			if strings.ToLower(strings.TrimSpace(p.Email)) == needle {
				found = p
				return
			}
		}
	})
	return found, found != nil
}

func (s *partnerService) Add(ctx context.Context, input *models.PartnerInput) (*models.Partner, error) {
	partner, err := s.repo.Create(ctx, input)
	if err != nil {
		s.logger.Errorw("failed to add partner", "email", input.Email, "error", err)
		return nil, fmt.Errorf("add partner: %w", err)
	}
	s.mirror.Update(func(partners []*models.Partner) []*models.Partner {
		return append([]*models.Partner{partner}, partners...)
	})
	s.logger.Infow("partner added", "partner_id", partner.ID)
	return partner, nil
}

func (s *partnerService) Update(ctx context.Context, id uuid.UUID, update *models.PartnerUpdate) (*models.Partner, error) {
	partner, err := s.repo.Update(ctx, id, update)
	if err != nil {
		s.logger.Errorw("failed to update partner", "partner_id", id, "error", err)
		return nil, fmt.Errorf("update partner: %w", err)
	}
	s.mirror.Update(func(partners []*models.Partner) []*models.Partner {
		out := make([]*models.Partner, len(partners))
		for i, p := range partners {
			if p.ID == id {
				out[i] = partner
			} else {
				out[i] = p
			}
		}
		return out
	})
	return partner, nil
}

func (s *partnerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Errorw("failed to delete partner", "partner_id", id, "error", err)
		return fmt.Errorf("delete partner: %w", err)
	}
	s.mirror.Update(func(partners []*models.Partner) []*models.Partner {
		out := make([]*models.Partner, 0, len(partners))
		for _, p := range partners {
			if p.ID != id {
				out = append(out, p)
			}
		}
		return out
	})
	s.logger.Infow("partner deleted", "partner_id", id)
	return nil
}
