package handlers

import (
	"context"

	"partnerhub/internal/models"
	"partnerhub/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// The service mocks answer mirror reads from their fields and record
// store-backed mutations through testify.

type MockPartnerService struct {
	mock.Mock
	partners []*models.Partner
}

func (m *MockPartnerService) Load(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockPartnerService) List() []*models.Partner       { return m.partners }

func (m *MockPartnerService) FindByID(id uuid.UUID) (*models.Partner, bool) {
	for _, p := range m.partners {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (m *MockPartnerService) FindByEmail(email string) (*models.Partner, bool) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, false
	}
	return args.Get(0).(*models.Partner), args.Bool(1)
}

func (m *MockPartnerService) Add(ctx context.Context, input *models.PartnerInput) (*models.Partner, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Partner), args.Error(1)
}

func (m *MockPartnerService) Update(ctx context.Context, id uuid.UUID, update *models.PartnerUpdate) (*models.Partner, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Partner), args.Error(1)
}

func (m *MockPartnerService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockLeadService struct {
	mock.Mock
	leads []*models.Lead
}

func (m *MockLeadService) Load(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockLeadService) List() []*models.Lead          { return m.leads }

func (m *MockLeadService) ByPartner(partnerID uuid.UUID) []*models.Lead {
	var out []*models.Lead
	for _, l := range m.leads {
		if l.PartnerID == partnerID {
			out = append(out, l)
		}
	}
	return out
}

func (m *MockLeadService) FindByID(id uuid.UUID) (*models.Lead, bool) {
	for _, l := range m.leads {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

func (m *MockLeadService) ByOwnerFilter(filter models.OwnerFilter, actorID uuid.UUID) []*models.Lead {
	args := m.Called(filter, actorID)
	return args.Get(0).([]*models.Lead)
}

func (m *MockLeadService) Add(ctx context.Context, partnerID uuid.UUID, input *models.LeadInput, owner models.LeadOwner) (*models.Lead, error) {
	args := m.Called(ctx, partnerID, input, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *MockLeadService) Update(ctx context.Context, partnerID, leadID uuid.UUID, update *models.LeadUpdate) (*models.Lead, error) {
	args := m.Called(ctx, partnerID, leadID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *MockLeadService) Delete(ctx context.Context, partnerID, leadID uuid.UUID) error {
	return m.Called(ctx, partnerID, leadID).Error(0)
}

func (m *MockLeadService) DeleteAllForPartner(ctx context.Context, partnerID uuid.UUID) error {
	return m.Called(ctx, partnerID).Error(0)
}

type MockProductService struct {
	mock.Mock
	products  []*models.Product
	partners  map[uuid.UUID][]uuid.UUID
	documents map[uuid.UUID][]*models.Document
}

func (m *MockProductService) Load(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockProductService) List() []*models.Product        { return m.products }

func (m *MockProductService) FindByID(id uuid.UUID) (*models.Product, bool) {
	for _, p := range m.products {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (m *MockProductService) ByPartner(partnerID uuid.UUID) []*models.Product {
	var out []*models.Product
	for _, p := range m.products {
		for _, id := range m.partners[p.ID] {
			if id == partnerID {
				out = append(out, p)
			}
		}
	}
	return out
}

func (m *MockProductService) DocumentsOf(productID uuid.UUID) []*models.Document {
	return m.documents[productID]
}

func (m *MockProductService) PartnersOf(productID uuid.UUID) []uuid.UUID {
	return m.partners[productID]
}

func (m *MockProductService) Add(ctx context.Context, input *models.ProductInput, partnerIDs []uuid.UUID, files []services.FileUpload) (*models.Product, error) {
	args := m.Called(ctx, input, partnerIDs, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id uuid.UUID, input *models.ProductInput, partnerIDs []uuid.UUID, newFiles []services.FileUpload, removedDocIDs []uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id, input, partnerIDs, newFiles, removedDocIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductService) UnassignPartner(partnerID uuid.UUID) {
	m.Called(partnerID)
}

type MockPartnerProductService struct {
	mock.Mock
	items     []*models.PartnerProduct
	documents map[uuid.UUID][]*models.Document
}

func (m *MockPartnerProductService) Load(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockPartnerProductService) ListAll() []*models.PartnerProduct {
	return m.items
}

func (m *MockPartnerProductService) ByPartner(partnerID uuid.UUID) []*models.PartnerProduct {
	var out []*models.PartnerProduct
	for _, pp := range m.items {
		if pp.PartnerID == partnerID {
			out = append(out, pp)
		}
	}
	return out
}

func (m *MockPartnerProductService) GetPartnerProduct(partnerID uuid.UUID) (*models.PartnerProduct, bool) {
	if mine := m.ByPartner(partnerID); len(mine) > 0 {
		return mine[0], true
	}
	return nil, false
}

func (m *MockPartnerProductService) FindByID(id uuid.UUID) (*models.PartnerProduct, bool) {
	for _, pp := range m.items {
		if pp.ID == id {
			return pp, true
		}
	}
	return nil, false
}

func (m *MockPartnerProductService) DocumentsOf(id uuid.UUID) []*models.Document {
	return m.documents[id]
}

func (m *MockPartnerProductService) Add(ctx context.Context, partnerID uuid.UUID, input *models.ProductInput, files []services.FileUpload) (*models.PartnerProduct, error) {
	args := m.Called(ctx, partnerID, input, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PartnerProduct), args.Error(1)
}

func (m *MockPartnerProductService) Update(ctx context.Context, id uuid.UUID, input *models.ProductInput, newFiles []services.FileUpload, removedDocIDs []uuid.UUID) (*models.PartnerProduct, error) {
	args := m.Called(ctx, id, input, newFiles, removedDocIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PartnerProduct), args.Error(1)
}

func (m *MockPartnerProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPartnerProductService) DeleteAllForPartner(ctx context.Context, partnerID uuid.UUID) error {
	return m.Called(ctx, partnerID).Error(0)
}

type MockAdminAuthService struct {
	mock.Mock
	admin *models.Admin
}

func (m *MockAdminAuthService) Load(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockAdminAuthService) Fetch() *models.Admin           { return m.admin }

func (m *MockAdminAuthService) Register(ctx context.Context, name, email, password string) (*models.Admin, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminAuthService) ValidateLogin(password string) bool {
	return m.Called(password).Bool(0)
}

func (m *MockAdminAuthService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) (bool, error) {
	args := m.Called(ctx, email, oldPassword, newPassword)
	return args.Bool(0), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) GenerateTokens(ctx context.Context, role models.Role, subjectID uuid.UUID, name string) (*models.TokenResponse, error) {
	args := m.Called(ctx, role, subjectID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*services.TokenClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenClaims), args.Error(1)
}

func (m *MockAuthService) Revoke(ctx context.Context, claims *services.TokenClaims, refreshToken string) error {
	return m.Called(ctx, claims, refreshToken).Error(0)
}
