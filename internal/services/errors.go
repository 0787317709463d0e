package services

import (
	"errors"
	"fmt"

	"partnerhub/internal/models"
)

var (
	ErrTooManyDocuments   = fmt.Errorf("a product can have at most %d documents", models.MaxDocumentsPerProduct)
	ErrAdminExists        = errors.New("an admin account already exists")
	ErrAdminNotRegistered = errors.New("no admin account is registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
