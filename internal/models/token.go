package models

import "time"

// Role is the portal role carried in access tokens
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RolePartner    Role = "partner"
)

// Access Token Response
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	RefreshToken string    `json:"refresh_token"`
	Role         Role      `json:"role"`
	SubjectID    string    `json:"subject_id"`
	Name         string    `json:"name"`
	TokenID      string    `json:"token_id"`
	IssuedAt     time.Time `json:"issued_at"`
}

// Token Refresh Request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}
