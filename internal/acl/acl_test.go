package acl

import (
	"testing"

	"partnerhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func leadOwnedBy(partnerID uuid.UUID, owner models.LeadOwner) *models.Lead {
	ownerType, ownerID := models.OwnerColumns(owner)
	return &models.Lead{ID: uuid.New(), PartnerID: partnerID, OwnerType: ownerType, OwnerID: ownerID}
}

func TestDisplayOwner(t *testing.T) {
	adminID := uuid.New()
	partnerID := uuid.New()
	admin := Admin{ID: adminID, Name: "Dana"}
	partner := PartnerActor{ID: partnerID, Name: "Acme"}

	names := map[uuid.UUID]string{partnerID: "Acme Partners"}
	lookup := func(id uuid.UUID) (string, bool) {
		n, ok := names[id]
		return n, ok
	}
	missing := func(uuid.UUID) (string, bool) { return "", false }

	adminLead := leadOwnedBy(partnerID, models.SuperadminOwner{AdminID: adminID})
	partnerLead := leadOwnedBy(partnerID, models.PartnerOwner{PartnerID: partnerID})

	tests := []struct {
		name   string
		lead   *models.Lead
		viewer Actor
		lookup PartnerLookup
		want   string
	}{
		{"admin owner shows admin name", adminLead, partner, lookup, "Dana"},
		{"partner owner resolved", partnerLead, admin, lookup, "Acme Partners"},
		{"unresolved partner seen by partner", partnerLead, partner, missing, "Acme"},
		{"unresolved partner seen by admin", partnerLead, admin, missing, UnknownOwner},
		{"nil lookup seen by admin", partnerLead, admin, nil, UnknownOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayOwner(tt.lead, tt.viewer, "Dana", tt.lookup))
		})
	}
}

func TestVisibleProducts(t *testing.T) {
	p1 := &models.Product{ID: uuid.New(), Name: "one"}
	p2 := &models.Product{ID: uuid.New(), Name: "two"}
	partnerID := uuid.New()
	joins := map[uuid.UUID][]uuid.UUID{p1.ID: {uuid.New(), partnerID}}
	partnersOf := func(id uuid.UUID) []uuid.UUID { return joins[id] }
	all := []*models.Product{p1, p2}

	assert.Equal(t, all, VisibleProducts(Admin{ID: uuid.New()}, all, partnersOf))
	assert.Equal(t, []*models.Product{p1}, VisibleProducts(PartnerActor{ID: partnerID}, all, partnersOf))
	assert.Empty(t, VisibleProducts(PartnerActor{ID: uuid.New()}, all, partnersOf))
}

func TestVisiblePartnerProducts(t *testing.T) {
	me := uuid.New()
	mine := &models.PartnerProduct{ID: uuid.New(), PartnerID: me}
	theirs := &models.PartnerProduct{ID: uuid.New(), PartnerID: uuid.New()}
	all := []*models.PartnerProduct{mine, theirs}

	assert.Equal(t, all, VisiblePartnerProducts(Admin{}, all))
	assert.Equal(t, []*models.PartnerProduct{mine}, VisiblePartnerProducts(PartnerActor{ID: me}, all))
}

func TestCanMutatePartnerProduct(t *testing.T) {
	owner := uuid.New()
	pp := &models.PartnerProduct{ID: uuid.New(), PartnerID: owner}

	assert.True(t, CanMutatePartnerProduct(PartnerActor{ID: owner}, pp))
	assert.False(t, CanMutatePartnerProduct(PartnerActor{ID: uuid.New()}, pp))
	assert.False(t, CanMutatePartnerProduct(Admin{ID: owner}, pp))
	assert.False(t, CanMutatePartnerProduct(PartnerActor{ID: owner}, nil))
}

func TestCanAccessLead(t *testing.T) {
	partnerID := uuid.New()
	lead := leadOwnedBy(partnerID, models.SuperadminOwner{AdminID: uuid.New()})

	assert.True(t, CanAccessLead(Admin{}, lead))
	assert.True(t, CanAccessLead(PartnerActor{ID: partnerID}, lead))
	assert.False(t, CanAccessLead(PartnerActor{ID: uuid.New()}, lead))
}

func TestOwnerFor(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, models.SuperadminOwner{AdminID: id}, OwnerFor(Admin{ID: id}))
	assert.Equal(t, models.PartnerOwner{PartnerID: id}, OwnerFor(PartnerActor{ID: id}))
	assert.True(t, CanActForPartner(Admin{}, uuid.New()))
	assert.False(t, CanActForPartner(PartnerActor{ID: id}, uuid.New()))
}

func TestProductLabel(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Name: "Payroll"}
	own := &models.PartnerProduct{ID: uuid.New(), Name: "Kit"}
	assigned := models.ProductTypeAssigned
	ownType := models.ProductTypeOwn

	assert.Equal(t, "Payroll", ProductLabel(&models.Lead{ProductID: &product.ID, ProductType: &assigned}, []*models.Product{product}, nil))
	assert.Equal(t, "Kit", ProductLabel(&models.Lead{ProductID: &own.ID, ProductType: &ownType}, nil, []*models.PartnerProduct{own}))
	// the type decides which catalog is searched
	assert.Equal(t, "", ProductLabel(&models.Lead{ProductID: &own.ID, ProductType: &assigned}, nil, []*models.PartnerProduct{own}))
	assert.Equal(t, "", ProductLabel(&models.Lead{}, []*models.Product{product}, nil))
}
