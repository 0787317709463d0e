package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxDocumentsPerProduct caps the attachments of a product or partner product
const MaxDocumentsPerProduct = 5

// Product is an admin-owned catalog entry assignable to partners
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	IdealLeads  string    `json:"ideal_leads" db:"ideal_leads"`
	URL         string    `json:"url" db:"url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PartnerProduct is a partner-submitted catalog entry
type PartnerProduct struct {
	ID          uuid.UUID `json:"id" db:"id"`
	PartnerID   uuid.UUID `json:"partner_id" db:"partner_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	IdealLeads  string    `json:"ideal_leads" db:"ideal_leads"`
	URL         string    `json:"url" db:"url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ProductInput holds the editable fields shared by both catalogs
type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IdealLeads  string `json:"ideal_leads"`
	URL         string `json:"url"`
}

// ProductPartner is a row of the product_partners join table
type ProductPartner struct {
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	PartnerID uuid.UUID `json:"partner_id" db:"partner_id"`
}
