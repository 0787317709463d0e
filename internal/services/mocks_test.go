package services

import (
	"context"
	"io"
	"time"

	"partnerhub/internal/models"
	"partnerhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) Create(ctx context.Context, input *models.PartnerInput) (*models.Partner, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Partner), args.Error(1)
}

func (m *MockPartnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Partner), args.Error(1)
}

func (m *MockPartnerRepository) GetByEmail(ctx context.Context, email string) (*models.Partner, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Partner), args.Error(1)
}

func (m *MockPartnerRepository) Update(ctx context.Context, id uuid.UUID, update *models.PartnerUpdate) (*models.Partner, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Partner), args.Error(1)
}

func (m *MockPartnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPartnerRepository) List(ctx context.Context) ([]*models.Partner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Partner), args.Error(1)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, partnerID uuid.UUID, input *models.LeadInput, owner models.LeadOwner) (*models.Lead, error) {
	args := m.Called(ctx, partnerID, input, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, partnerID, id uuid.UUID, update *models.LeadUpdate) (*models.Lead, error) {
	args := m.Called(ctx, partnerID, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *MockLeadRepository) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	args := m.Called(ctx, partnerID, id)
	return args.Error(0)
}

func (m *MockLeadRepository) DeleteByPartnerID(ctx context.Context, partnerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context) ([]*models.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Lead), args.Error(1)
}

type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Get(ctx context.Context) (*models.Admin, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminRepository) Create(ctx context.Context, name, email, passwordHash string) (*models.Admin, error) {
	args := m.Called(ctx, name, email, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockProductRepository returns itself from WithTx so expectations cover both paths
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) WithTx(tx pgx.Tx) repositories.ProductRepository {
	return m
}

func (m *MockProductRepository) Create(ctx context.Context, input *models.ProductInput) (*models.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, id uuid.UUID, input *models.ProductInput) (*models.Product, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) List(ctx context.Context) ([]*models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) ListAssignments(ctx context.Context) ([]models.ProductPartner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProductPartner), args.Error(1)
}

func (m *MockProductRepository) AssignPartners(ctx context.Context, productID uuid.UUID, partnerIDs []uuid.UUID) error {
	args := m.Called(ctx, productID, partnerIDs)
	return args.Error(0)
}

func (m *MockProductRepository) ClearPartners(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type MockPartnerProductRepository struct {
	mock.Mock
}

func (m *MockPartnerProductRepository) WithTx(tx pgx.Tx) repositories.PartnerProductRepository {
	return m
}

func (m *MockPartnerProductRepository) Create(ctx context.Context, partnerID uuid.UUID, input *models.ProductInput) (*models.PartnerProduct, error) {
	args := m.Called(ctx, partnerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PartnerProduct), args.Error(1)
}

func (m *MockPartnerProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PartnerProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PartnerProduct), args.Error(1)
}

func (m *MockPartnerProductRepository) Update(ctx context.Context, id uuid.UUID, input *models.ProductInput) (*models.PartnerProduct, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PartnerProduct), args.Error(1)
}

func (m *MockPartnerProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPartnerProductRepository) List(ctx context.Context) ([]*models.PartnerProduct, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PartnerProduct), args.Error(1)
}

func (m *MockPartnerProductRepository) ListByPartnerID(ctx context.Context, partnerID uuid.UUID) ([]*models.PartnerProduct, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PartnerProduct), args.Error(1)
}

type MockDocumentRepository struct {
	mock.Mock
	scope repositories.DocumentScope
}

func (m *MockDocumentRepository) WithTx(tx pgx.Tx) repositories.DocumentRepository {
	return m
}

func (m *MockDocumentRepository) Scope() repositories.DocumentScope {
	return m.scope
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) List(ctx context.Context) ([]*models.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListByParent(ctx context.Context, parentID uuid.UUID) ([]*models.Document, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Document), args.Error(1)
}

// MockBlobStore keeps the real URL scheme so stored URLs round-trip
type MockBlobStore struct {
	mock.Mock
	bucketURLs
}

func newMockBlobStore() *MockBlobStore {
	return &MockBlobStore{bucketURLs: bucketURLs{baseURL: "http://blobs.test", bucket: "product-documents"}}
}

func (m *MockBlobStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *MockBlobStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockBlobStore) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) SetRefreshToken(ctx context.Context, tokenID, subject string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, subject, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetRefreshToken(ctx context.Context, tokenID string) (string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockCacheService) RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, ttl)
	return args.Error(0)
}

func (m *MockCacheService) IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
