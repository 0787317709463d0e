package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type LeadStatus string

const (
	LeadStatusIdentified LeadStatus = "identified"
	LeadStatusIntroduced LeadStatus = "introduced"
	LeadStatusWon        LeadStatus = "won"
	LeadStatusLost       LeadStatus = "lost"
)

// LeadStatuses lists the pipeline in display order. Any status may follow any other.
var LeadStatuses = []LeadStatus{LeadStatusIdentified, LeadStatusIntroduced, LeadStatusWon, LeadStatusLost}

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusIdentified, LeadStatusIntroduced, LeadStatusWon, LeadStatusLost:
		return true
	}
	return false
}

// Label is the human readable pipeline name
func (s LeadStatus) Label() string {
	switch s {
	case LeadStatusIdentified:
		return "Identified"
	case LeadStatusIntroduced:
		return "Introduced"
	case LeadStatusWon:
		return "Closed Won"
	case LeadStatusLost:
		return "Closed Lost"
	}
	return string(s)
}

type OwnerType string

const (
	OwnerTypeSuperadmin OwnerType = "superadmin"
	OwnerTypePartner    OwnerType = "partner"
)

type ProductType string

const (
	ProductTypeAssigned ProductType = "assigned"
	ProductTypeOwn      ProductType = "own"
)

// LeadOwner identifies who created a lead. It is either SuperadminOwner or PartnerOwner.
type LeadOwner interface {
	ownerColumns() (OwnerType, uuid.UUID)
}

type SuperadminOwner struct {
	AdminID uuid.UUID
}

type PartnerOwner struct {
	PartnerID uuid.UUID
}

func (o SuperadminOwner) ownerColumns() (OwnerType, uuid.UUID) {
	return OwnerTypeSuperadmin, o.AdminID
}

func (o PartnerOwner) ownerColumns() (OwnerType, uuid.UUID) {
	return OwnerTypePartner, o.PartnerID
}

// OwnerColumns flattens an owner into its owner_type/owner_id columns
func OwnerColumns(o LeadOwner) (OwnerType, uuid.UUID) {
	return o.ownerColumns()
}

// ProductRef points a lead at either an admin Product or a PartnerProduct
type ProductRef interface {
	productColumns() (ProductType, uuid.UUID)
}

type AssignedProduct struct {
	ProductID uuid.UUID
}

type OwnProduct struct {
	PartnerProductID uuid.UUID
}

func (p AssignedProduct) productColumns() (ProductType, uuid.UUID) {
	return ProductTypeAssigned, p.ProductID
}

func (p OwnProduct) productColumns() (ProductType, uuid.UUID) {
	return ProductTypeOwn, p.PartnerProductID
}

// ProductColumns flattens a product reference into product_type/product_id
func ProductColumns(p ProductRef) (ProductType, uuid.UUID) {
	return p.productColumns()
}

// ParseProductRef builds a ProductRef from its stored columns. A nil id means no product.
func ParseProductRef(productType *ProductType, productID *uuid.UUID) (ProductRef, error) {
	if productID == nil {
		return nil, nil
	}
	if productType == nil {
		return nil, fmt.Errorf("product_type is required when product_id is set")
	}
	switch *productType {
	case ProductTypeAssigned:
		return AssignedProduct{ProductID: *productID}, nil
	case ProductTypeOwn:
		return OwnProduct{PartnerProductID: *productID}, nil
	}
	return nil, fmt.Errorf("unknown product_type %q", *productType)
}

type Lead struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	PartnerID   uuid.UUID    `json:"partner_id" db:"partner_id"`
	OwnerType   OwnerType    `json:"owner_type" db:"owner_type"`
	OwnerID     uuid.UUID    `json:"owner_id" db:"owner_id"`
	Name        string       `json:"name" db:"name"`
	Email       string       `json:"email" db:"email"`
	Phone       string       `json:"phone" db:"phone"`
	Company     string       `json:"company" db:"company"`
	Title       string       `json:"title" db:"title"`
	CompanyURL  string       `json:"company_url" db:"company_url"`
	Industry    string       `json:"industry" db:"industry"`
	Headcount   string       `json:"headcount" db:"headcount"`
	Status      LeadStatus   `json:"status" db:"status"`
	Notes       string       `json:"notes" db:"notes"`
	ProductID   *uuid.UUID   `json:"product_id" db:"product_id"`
	ProductType *ProductType `json:"product_type" db:"product_type"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

// Owner decodes the owner columns. Unknown owner types yield nil.
func (l *Lead) Owner() LeadOwner {
	switch l.OwnerType {
	case OwnerTypeSuperadmin:
		return SuperadminOwner{AdminID: l.OwnerID}
	case OwnerTypePartner:
		return PartnerOwner{PartnerID: l.OwnerID}
	}
	return nil
}

// Product decodes the product columns, nil when the lead has no product
func (l *Lead) Product() ProductRef {
	ref, err := ParseProductRef(l.ProductType, l.ProductID)
	if err != nil {
		return nil
	}
	return ref
}

// LeadInput is the payload for creating a lead
type LeadInput struct {
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Company     string       `json:"company"`
	Title       string       `json:"title"`
	CompanyURL  string       `json:"company_url"`
	Industry    string       `json:"industry"`
	Headcount   string       `json:"headcount"`
	Status      LeadStatus   `json:"status"`
	Notes       string       `json:"notes"`
	ProductID   *uuid.UUID   `json:"product_id"`
	ProductType *ProductType `json:"product_type"`
}

// LeadUpdate carries a partial update; nil fields are left unchanged.
// ClearProduct removes the product reference.
type LeadUpdate struct {
	Name         *string      `json:"name,omitempty"`
	Email        *string      `json:"email,omitempty"`
	Phone        *string      `json:"phone,omitempty"`
	Company      *string      `json:"company,omitempty"`
	Title        *string      `json:"title,omitempty"`
	CompanyURL   *string      `json:"company_url,omitempty"`
	Industry     *string      `json:"industry,omitempty"`
	Headcount    *string      `json:"headcount,omitempty"`
	Status       *LeadStatus  `json:"status,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
	ProductID    *uuid.UUID   `json:"product_id,omitempty"`
	ProductType  *ProductType `json:"product_type,omitempty"`
	ClearProduct bool         `json:"clear_product,omitempty"`
}

// OwnerFilter selects leads by who created them
type OwnerFilter string

const (
	OwnerFilterAll        OwnerFilter = "all"
	OwnerFilterSuperadmin OwnerFilter = "superadmin"
	OwnerFilterPartner    OwnerFilter = "partner"
)

// ParseOwnerFilter accepts the three filter names; empty means all
func ParseOwnerFilter(s string) (OwnerFilter, error) {
	switch OwnerFilter(s) {
	case "", OwnerFilterAll:
		return OwnerFilterAll, nil
	case OwnerFilterSuperadmin, OwnerFilterPartner:
		return OwnerFilter(s), nil
	}
	return "", fmt.Errorf("unknown owner filter %q", s)
}
