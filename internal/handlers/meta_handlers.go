package handlers

import (
	"net/http"

	"partnerhub/internal/models"

	"github.com/labstack/echo/v4"
)

// OptionsResponse lists the select options shared by the portal forms
type OptionsResponse struct {
	Statuses        []models.Option `json:"statuses"`
	Industries      []models.Option `json:"industries"`
	Headcounts      []models.Option `json:"headcounts"`
	OwnerFilters    []models.Option `json:"owner_filters"`
	MaxDocuments    int             `json:"max_documents"`
	MaxUploadMBytes int             `json:"max_upload_mb"`
}

// Options handles GET /v1/meta/options
func Options(c echo.Context) error {
	return c.JSON(http.StatusOK, OptionsResponse{
		Statuses:        models.StatusOptions(),
		Industries:      models.IndustryOptions,
		Headcounts:      models.HeadcountOptions,
		OwnerFilters:    models.OwnerFilterOptions,
		MaxDocuments:    models.MaxDocumentsPerProduct,
		MaxUploadMBytes: maxUploadBytes >> 20,
	})
}
