package services

import (
	"context"
	"fmt"

	"partnerhub/internal/caching"
	"partnerhub/internal/models"
	"partnerhub/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LeadService interface {
	Load(ctx context.Context) error
	List() []*models.Lead
	ByPartner(partnerID uuid.UUID) []*models.Lead
	FindByID(id uuid.UUID) (*models.Lead, bool)
	ByOwnerFilter(filter models.OwnerFilter, actorID uuid.UUID) []*models.Lead

	Add(ctx context.Context, partnerID uuid.UUID, input *models.LeadInput, owner models.LeadOwner) (*models.Lead, error)
	Update(ctx context.Context, partnerID, leadID uuid.UUID, update *models.LeadUpdate) (*models.Lead, error)
	Delete(ctx context.Context, partnerID, leadID uuid.UUID) error
	DeleteAllForPartner(ctx context.Context, partnerID uuid.UUID) error
}

// leadState keeps byPartner derived from leads; both change together
type leadState struct {
	leads     []*models.Lead
	byPartner map[uuid.UUID][]*models.Lead
}

func newLeadState(leads []*models.Lead) leadState {
	st := leadState{leads: leads, byPartner: make(map[uuid.UUID][]*models.Lead)}
	for _, l := range leads {
		st.byPartner[l.PartnerID] = append(st.byPartner[l.PartnerID], l)
	}
	return st
}

type leadService struct {
	repo   repositories.LeadRepository
	mirror *caching.Mirror[leadState]
	logger *zap.SugaredLogger
}

func NewLeadService(repo repositories.LeadRepository, lg *zap.SugaredLogger) LeadService {
	return &leadService{
		repo:   repo,
		mirror: caching.NewMirror(newLeadState(nil)),
		logger: lg,
	}
}

func (s *leadService) Load(ctx context.Context) error {
	err := s.mirror.Reload(ctx, func(ctx context.Context) (leadState, error) {
		leads, err := s.repo.List(ctx)
		if err != nil {
			return leadState{}, err
		}
		return newLeadState(leads), nil
	})
	if err != nil {
		s.logger.Errorw("failed to load leads", "error", err)
		return fmt.Errorf("load leads: %w", err)
	}
	return nil
}

func (s *leadService) List() []*models.Lead {
	var out []*models.Lead
	s.mirror.Read(func(st leadState) {
		out = append(out, st.leads...)
	})
	return out
}

func (s *leadService) ByPartner(partnerID uuid.UUID) []*models.Lead {
	var out []*models.Lead
	s.mirror.Read(func(st leadState) {
		out = append(out, st.byPartner[partnerID]...)
	})
	return out
}

func (s *leadService) FindByID(id uuid.UUID) (*models.Lead, bool) {
	var found *models.Lead
	s.mirror.Read(func(st leadState) {
		for _, l := range st.leads {
			if l.ID == id {
				found = l
				return
			}
		}
	})
	return found, found != nil
}

// ByOwnerFilter treats any unrecognised filter as all
func (s *leadService) ByOwnerFilter(filter models.OwnerFilter, actorID uuid.UUID) []*models.Lead {
	var out []*models.Lead
	s.mirror.Read(func(st leadState) {
		for _, l := range st.leads {
			switch filter {
			case models.OwnerFilterSuperadmin:
				if l.OwnerType == models.OwnerTypeSuperadmin && l.OwnerID == actorID {
					out = append(out, l)
				}
			case models.OwnerFilterPartner:
				if l.OwnerType == models.OwnerTypePartner {
					out = append(out, l)
				}
			default:
				out = append(out, l)
			}
		}
	})
	return out
}

func (s *leadService) Add(ctx context.Context, partnerID uuid.UUID, input *models.LeadInput, owner models.LeadOwner) (*models.Lead, error) {
	lead, err := s.repo.Create(ctx, partnerID, input, owner)
	if err != nil {
		s.logger.Errorw("failed to add lead", "partner_id", partnerID, "error", err)
		return nil, fmt.Errorf("add lead: %w", err)
	}
	s.mirror.Update(func(st leadState) leadState {
		return newLeadState(append([]*models.Lead{lead}, st.leads...))
	})
	return lead, nil
}

func (s *leadService) Update(ctx context.Context, partnerID, leadID uuid.UUID, update *models.LeadUpdate) (*models.Lead, error) {
	lead, err := s.repo.Update(ctx, partnerID, leadID, update)
	if err != nil {
		s.logger.Errorw("failed to update lead", "partner_id", partnerID, "lead_id", leadID, "error", err)
		return nil, fmt.Errorf("update lead: %w", err)
	}
	s.mirror.Update(func(st leadState) leadState {
		leads := make([]*models.Lead, len(st.leads))
		for i, l := range st.leads {
			if l.ID == leadID {
				leads[i] = lead
			} else {
				leads[i] = l
			}
		}
		return newLeadState(leads)
	})
	return lead, nil
}

func (s *leadService) Delete(ctx context.Context, partnerID, leadID uuid.UUID) error {
	if err := s.repo.Delete(ctx, partnerID, leadID); err != nil {
		s.logger.Errorw("failed to delete lead", "partner_id", partnerID, "lead_id", leadID, "error", err)
		return fmt.Errorf("delete lead: %w", err)
	}
	s.remove(func(l *models.Lead) bool { return l.ID == leadID })
	return nil
}

func (s *leadService) DeleteAllForPartner(ctx context.Context, partnerID uuid.UUID) error {
	n, err := s.repo.DeleteByPartnerID(ctx, partnerID)
	if err != nil {
		s.logger.Errorw("failed to delete partner leads", "partner_id", partnerID, "error", err)
		return fmt.Errorf("delete leads for partner: %w", err)
	}
	s.remove(func(l *models.Lead) bool { return l.PartnerID == partnerID })
	s.logger.Infow("partner leads deleted", "partner_id", partnerID, "count", n)
	return nil
}

func (s *leadService) remove(match func(*models.Lead) bool) {
	s.mirror.Update(func(st leadState) leadState {
		leads := make([]*models.Lead, 0, len(st.leads))
		for _, l := range st.leads {
			if !match(l) {
				leads = append(leads, l)
			}
		}
		return newLeadState(leads)
	})
}
