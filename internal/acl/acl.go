// Package acl holds the ownership rules deciding what each portal role may
// see and change. Everything here is pure and works on already-loaded data.
package acl

import (
	"partnerhub/internal/models"

	"github.com/google/uuid"
)

const UnknownOwner = "Unknown"

// Actor is the authenticated caller: Admin or PartnerActor
type Actor interface {
	actorID() uuid.UUID
}

type Admin struct {
	ID   uuid.UUID
	Name string
}

type PartnerActor struct {
	ID   uuid.UUID
	Name string
}

func (a Admin) actorID() uuid.UUID        { return a.ID }
func (a PartnerActor) actorID() uuid.UUID { return a.ID }

// ActorID returns the id of either actor kind
func ActorID(a Actor) uuid.UUID {
	return a.actorID()
}

// PartnerLookup resolves a partner name by id
type PartnerLookup func(id uuid.UUID) (string, bool)

// DisplayOwner names who created a lead. When a partner owner can't be
// resolved, a partner viewer sees their own name and anyone else sees Unknown.
func DisplayOwner(lead *models.Lead, viewer Actor, adminName string, lookup PartnerLookup) string {
	switch owner := lead.Owner().(type) {
	case models.SuperadminOwner:
		return adminName
	case models.PartnerOwner:
		if lookup != nil {
			if name, ok := lookup(owner.PartnerID); ok {
				return name
			}
		}
	}
	if p, ok := viewer.(PartnerActor); ok {
		return p.Name
	}
	return UnknownOwner
}

// VisibleProducts returns every product for admins and only assigned ones for partners
func VisibleProducts(actor Actor, products []*models.Product, partnersOf func(productID uuid.UUID) []uuid.UUID) []*models.Product {
	switch a := actor.(type) {
	case Admin:
		return products
	case PartnerActor:
		var out []*models.Product
		for _, p := range products {
			for _, id := range partnersOf(p.ID) {
				if id == a.ID {
					out = append(out, p)
					break
				}
			}
		}
		return out
	}
	return nil
}

func VisiblePartnerProducts(actor Actor, all []*models.PartnerProduct) []*models.PartnerProduct {
	switch a := actor.(type) {
	case Admin:
		return all
	case PartnerActor:
		var out []*models.PartnerProduct
		for _, pp := range all {
			if pp.PartnerID == a.ID {
				out = append(out, pp)
			}
		}
		return out
	}
	return nil
}

// CanMutatePartnerProduct allows only the owning partner; admins are read-only
func CanMutatePartnerProduct(actor Actor, pp *models.PartnerProduct) bool {
	p, ok := actor.(PartnerActor)
	return ok && pp != nil && pp.PartnerID == p.ID
}

func CanAccessLead(actor Actor, lead *models.Lead) bool {
	switch a := actor.(type) {
	case Admin:
		return true
	case PartnerActor:
		return lead != nil && lead.PartnerID == a.ID
	}
	return false
}

// CanActForPartner reports whether the actor may manage leads under partnerID
func CanActForPartner(actor Actor, partnerID uuid.UUID) bool {
	switch a := actor.(type) {
	case Admin:
		return true
	case PartnerActor:
		return a.ID == partnerID
	}
	return false
}

// OwnerFor is the owner recorded on leads the actor creates
func OwnerFor(actor Actor) models.LeadOwner {
	switch a := actor.(type) {
	case Admin:
		return models.SuperadminOwner{AdminID: a.ID}
	case PartnerActor:
		return models.PartnerOwner{PartnerID: a.ID}
	}
	return nil
}

// ProductLabel names the product a lead points at, or "" when there is none
func ProductLabel(lead *models.Lead, products []*models.Product, partnerProducts []*models.PartnerProduct) string {
	switch ref := lead.Product().(type) {
	case models.AssignedProduct:
		for _, p := range products {
			if p.ID == ref.ProductID {
				return p.Name
			}
		}
	case models.OwnProduct:
		for _, pp := range partnerProducts {
			if pp.ID == ref.PartnerProductID {
				return pp.Name
			}
		}
	}
	return ""
}
