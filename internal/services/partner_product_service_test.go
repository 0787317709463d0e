package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"partnerhub/internal/models"
	"partnerhub/internal/repositories"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type PartnerProductServiceTestSuite struct {
	suite.Suite
	db        pgxmock.PgxPoolIface
	repo      *MockPartnerProductRepository
	docRepo   *MockDocumentRepository
	blobs     *MockBlobStore
	service   PartnerProductService
	partnerID uuid.UUID
	now       time.Time
	ctx       context.Context
}

func (suite *PartnerProductServiceTestSuite) SetupTest() {
	db, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.db = db
	suite.repo = &MockPartnerProductRepository{}
	suite.docRepo = &MockDocumentRepository{scope: repositories.PartnerProductDocuments}
	suite.blobs = newMockBlobStore()
	suite.partnerID = uuid.New()
	suite.now = time.UnixMilli(1700000000000)
	suite.ctx = context.Background()

	svc := NewPartnerProductService(db, suite.repo, suite.docRepo, suite.blobs, zap.NewNop().Sugar())
	svc.(*partnerProductService).docs.now = func() time.Time { return suite.now }
	suite.service = svc
}

func (suite *PartnerProductServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
	suite.docRepo.AssertExpectations(suite.T())
	suite.blobs.AssertExpectations(suite.T())
	assert.NoError(suite.T(), suite.db.ExpectationsWereMet())
	suite.db.Close()
}

func TestPartnerProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PartnerProductServiceTestSuite))
}

func (suite *PartnerProductServiceTestSuite) seed(products []*models.PartnerProduct, docs []*models.Document) {
	suite.repo.On("List", mock.Anything).Return(products, nil).Once()
	suite.docRepo.On("List", mock.Anything).Return(docs, nil).Once()
	require.NoError(suite.T(), suite.service.Load(suite.ctx))
}

func (suite *PartnerProductServiceTestSuite) TestByPartnerAndLegacyAccessor() {
	other := uuid.New()
	newest := &models.PartnerProduct{ID: uuid.New(), PartnerID: suite.partnerID, Name: "newest"}
	older := &models.PartnerProduct{ID: uuid.New(), PartnerID: suite.partnerID, Name: "older"}
	foreign := &models.PartnerProduct{ID: uuid.New(), PartnerID: other, Name: "foreign"}
	suite.seed([]*models.PartnerProduct{newest, foreign, older}, nil)

	assert.Equal(suite.T(), []*models.PartnerProduct{newest, older}, suite.service.ByPartner(suite.partnerID))
	first, ok := suite.service.GetPartnerProduct(suite.partnerID)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), newest, first)
	assert.Len(suite.T(), suite.service.ListAll(), 3)

	_, ok = suite.service.GetPartnerProduct(uuid.New())
	assert.False(suite.T(), ok)
}

func (suite *PartnerProductServiceTestSuite) TestAdd_WithDocuments() {
	input := &models.ProductInput{Name: "Referral kit"}
	pp := &models.PartnerProduct{ID: uuid.New(), PartnerID: suite.partnerID, Name: input.Name}
	f := upload("kit.pdf")
	key := ObjectKey(pp.ID, 0, "kit.pdf", suite.now)

	suite.db.ExpectBegin()
	suite.repo.On("Create", mock.Anything, suite.partnerID, input).Return(pp, nil).Once()
	suite.blobs.On("Upload", mock.Anything, key, f.Reader, f.Size, f.ContentType).Return(nil).Once()
	suite.docRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *models.Document) bool {
		return d.ParentID == pp.ID && d.FileURL == suite.blobs.PublicURL(key)
	})).Return(&models.Document{ID: uuid.New(), ParentID: pp.ID, FileName: "kit.pdf"}, nil).Once()
	suite.db.ExpectCommit()

	got, err := suite.service.Add(suite.ctx, suite.partnerID, input, []FileUpload{f})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), pp, got)
	assert.Len(suite.T(), suite.service.DocumentsOf(pp.ID), 1)
	assert.Len(suite.T(), suite.service.ByPartner(suite.partnerID), 1)
}

func (suite *PartnerProductServiceTestSuite) TestAdd_CommitFailureRemovesBlobs() {
	input := &models.ProductInput{Name: "Referral kit"}
	pp := &models.PartnerProduct{ID: uuid.New(), PartnerID: suite.partnerID}
	key := ObjectKey(pp.ID, 0, "kit.pdf", suite.now)

	suite.db.ExpectBegin()
	suite.repo.On("Create", mock.Anything, suite.partnerID, input).Return(pp, nil).Once()
	suite.blobs.On("Upload", mock.Anything, key, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.docRepo.On("Create", mock.Anything, mock.Anything).Return(&models.Document{ID: uuid.New()}, nil).Once()
	suite.db.ExpectCommit().WillReturnError(errors.New("serialization failure"))
	suite.blobs.On("Remove", mock.Anything, key).Return(nil).Once()

	_, err := suite.service.Add(suite.ctx, suite.partnerID, input, []FileUpload{upload("kit.pdf")})
	assert.Error(suite.T(), err)
	assert.Empty(suite.T(), suite.service.ListAll())
}

func (suite *PartnerProductServiceTestSuite) TestUpdate_RemovesAndAdds() {
	pp := &models.PartnerProduct{ID: uuid.New(), PartnerID: suite.partnerID, Name: "kit"}
	doc := &models.Document{ID: uuid.New(), ParentID: pp.ID, FileURL: suite.blobs.PublicURL(pp.ID.String() + "/1-old.pdf")}
	suite.seed([]*models.PartnerProduct{pp}, []*models.Document{doc})

	input := &models.ProductInput{Name: "kit v2"}
	updated := &models.PartnerProduct{ID: pp.ID, PartnerID: suite.partnerID, Name: "kit v2"}

	suite.db.ExpectBegin()
	suite.repo.On("Update", mock.Anything, pp.ID, input).Return(updated, nil).Once()
	suite.docRepo.On("Delete", mock.Anything, doc.ID).Return(nil).Once()
	suite.db.ExpectCommit()
	suite.blobs.On("Remove", mock.Anything, pp.ID.String()+"/1-old.pdf").Return(nil).Once()

	got, err := suite.service.Update(suite.ctx, pp.ID, input, nil, []uuid.UUID{doc.ID})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "kit v2", got.Name)
	assert.Empty(suite.T(), suite.service.DocumentsOf(pp.ID))
}

func (suite *PartnerProductServiceTestSuite) TestDeleteAllForPartner() {
	mine := &models.PartnerProduct{ID: uuid.New(), PartnerID: suite.partnerID}
	theirs := &models.PartnerProduct{ID: uuid.New(), PartnerID: uuid.New()}
	doc := &models.Document{ID: uuid.New(), ParentID: mine.ID, FileURL: suite.blobs.PublicURL(mine.ID.String() + "/1-a.pdf")}
	suite.seed([]*models.PartnerProduct{mine, theirs}, []*models.Document{doc})

	suite.repo.On("Delete", mock.Anything, mine.ID).Return(nil).Once()
	suite.blobs.On("Remove", mock.Anything, mine.ID.String()+"/1-a.pdf").Return(nil).Once()

	require.NoError(suite.T(), suite.service.DeleteAllForPartner(suite.ctx, suite.partnerID))
	assert.Empty(suite.T(), suite.service.ByPartner(suite.partnerID))
	assert.Len(suite.T(), suite.service.ListAll(), 1)
	assert.Empty(suite.T(), suite.service.DocumentsOf(mine.ID))
}
