package repositories

import (
	"context"
	"testing"
	"time"

	"partnerhub/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var leadCols = []string{
	"id", "partner_id", "owner_type", "owner_id", "name", "email", "phone", "company", "title",
	"company_url", "industry", "headcount", "status", "notes", "product_id", "product_type", "created_at",
}

type LeadRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      LeadRepository
	partnerID uuid.UUID
	context   context.Context
}

func (suite *LeadRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewLeadRepo(mock)
	suite.partnerID = uuid.New()
	suite.context = context.Background()
}

func (suite *LeadRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestLeadRepoTestSuite(t *testing.T) {
	suite.Run(t, new(LeadRepoTestSuite))
}

func (suite *LeadRepoTestSuite) leadRow(id uuid.UUID, ownerType string, ownerID uuid.UUID, status string, productID interface{}, productType interface{}) *pgxmock.Rows {
	return pgxmock.NewRows(leadCols).AddRow(
		id, suite.partnerID, ownerType, ownerID, "Jo Buyer", "jo@corp.io", "", "Corp", "CTO",
		"https://corp.io", "Technology", "100-249", status, "", productID, productType, time.Now(),
	)
}

func (suite *LeadRepoTestSuite) TestCreate_PartnerOwnedWithOwnProduct() {
	leadID := uuid.New()
	ppID := uuid.New()
	own := models.ProductTypeOwn
	input := &models.LeadInput{
		Name: "Jo Buyer", Email: "jo@corp.io", Company: "Corp", Title: "CTO",
		CompanyURL: "https://corp.io", Industry: "Technology", Headcount: "100-249",
		ProductID: &ppID, ProductType: &own,
	}
	productType := "own"

	suite.mock.ExpectQuery(`INSERT INTO leads`).
		WithArgs(
			suite.partnerID, "partner", suite.partnerID,
			input.Name, input.Email, input.Phone, input.Company, input.Title,
			input.CompanyURL, input.Industry, input.Headcount, "identified", input.Notes,
			&ppID, &productType,
		).
		WillReturnRows(suite.leadRow(leadID, "partner", suite.partnerID, "identified", &ppID, &productType))

	lead, err := suite.repo.Create(suite.context, suite.partnerID, input, models.PartnerOwner{PartnerID: suite.partnerID})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), leadID, lead.ID)
	assert.Equal(suite.T(), models.OwnerTypePartner, lead.OwnerType)
	assert.Equal(suite.T(), models.LeadStatusIdentified, lead.Status)
	assert.Equal(suite.T(), models.OwnProduct{PartnerProductID: ppID}, lead.Product())
	assert.Equal(suite.T(), models.PartnerOwner{PartnerID: suite.partnerID}, lead.Owner())
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *LeadRepoTestSuite) TestCreate_RejectsMissingOwner() {
	_, err := suite.repo.Create(suite.context, suite.partnerID, &models.LeadInput{Name: "x"}, nil)
	assert.Error(suite.T(), err)
}

func (suite *LeadRepoTestSuite) TestCreate_RejectsInvalidStatus() {
	_, err := suite.repo.Create(suite.context, suite.partnerID, &models.LeadInput{Status: "pending"}, models.SuperadminOwner{AdminID: uuid.New()})
	assert.Error(suite.T(), err)
}

func (suite *LeadRepoTestSuite) TestUpdate_StatusJumpIsAllowed() {
	leadID := uuid.New()
	won := models.LeadStatusWon

	suite.mock.ExpectQuery(`UPDATE leads SET status = \$1 WHERE id = \$2 AND partner_id = \$3`).
		WithArgs("won", leadID, suite.partnerID).
		WillReturnRows(suite.leadRow(leadID, "superadmin", uuid.New(), "won", nil, nil))

	lead, err := suite.repo.Update(suite.context, suite.partnerID, leadID, &models.LeadUpdate{Status: &won})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.LeadStatusWon, lead.Status)
	assert.Nil(suite.T(), lead.Product())
}

func (suite *LeadRepoTestSuite) TestUpdate_ClearProduct() {
	leadID := uuid.New()

	suite.mock.ExpectQuery(`UPDATE leads SET product_id = \$1, product_type = \$2 WHERE id = \$3 AND partner_id = \$4`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), leadID, suite.partnerID).
		WillReturnRows(suite.leadRow(leadID, "partner", suite.partnerID, "introduced", nil, nil))

	lead, err := suite.repo.Update(suite.context, suite.partnerID, leadID, &models.LeadUpdate{ClearProduct: true})
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), lead.ProductID)
}

func (suite *LeadRepoTestSuite) TestUpdate_ProductTypeWithoutID() {
	own := models.ProductTypeOwn

	_, err := suite.repo.Update(suite.context, suite.partnerID, uuid.New(), &models.LeadUpdate{ProductType: &own})
	assert.Error(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *LeadRepoTestSuite) TestUpdate_WrongPartnerIsNotFound() {
	leadID := uuid.New()
	notes := "call back"

	suite.mock.ExpectQuery(`UPDATE leads SET notes = \$1`).
		WithArgs(notes, leadID, suite.partnerID).
		WillReturnRows(pgxmock.NewRows(leadCols))

	_, err := suite.repo.Update(suite.context, suite.partnerID, leadID, &models.LeadUpdate{Notes: &notes})
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *LeadRepoTestSuite) TestDeleteByPartnerID_ReturnsCount() {
	suite.mock.ExpectExec(`DELETE FROM leads WHERE partner_id = \$1`).
		WithArgs(suite.partnerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := suite.repo.DeleteByPartnerID(suite.context, suite.partnerID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), n)
}

func (suite *LeadRepoTestSuite) TestDelete_ScopedToPartner() {
	leadID := uuid.New()
	suite.mock.ExpectExec(`DELETE FROM leads WHERE id = \$1 AND partner_id = \$2`).
		WithArgs(leadID, suite.partnerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(suite.T(), suite.repo.Delete(suite.context, suite.partnerID, leadID))
}
