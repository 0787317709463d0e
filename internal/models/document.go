package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is a file attached to a Product or a PartnerProduct.
// ParentID points at whichever parent the owning table scopes it to.
type Document struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ParentID  uuid.UUID `json:"parent_id" db:"parent_id"`
	FileName  string    `json:"file_name" db:"file_name"`
	FileURL   string    `json:"file_url" db:"file_url"`
	FileType  string    `json:"file_type" db:"file_type"`
	FileSize  int64     `json:"file_size" db:"file_size"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
