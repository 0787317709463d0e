package models

import (
	"time"

	"github.com/google/uuid"
)

type Partner struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Company   string    `json:"company" db:"company"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PartnerInput is the payload for creating a partner
type PartnerInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

// PartnerUpdate carries a partial update; nil fields are left unchanged
type PartnerUpdate struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
}
