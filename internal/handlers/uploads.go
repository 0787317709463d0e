package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"partnerhub/internal/models"
	"partnerhub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// maxUploadBytes bounds a single attached document
const maxUploadBytes = 25 << 20

// ProductPayload is the JSON carried in the multipart "payload" field
type ProductPayload struct {
	models.ProductInput
	PartnerIDs         []uuid.UUID `json:"partner_ids"`
	RemovedDocumentIDs []uuid.UUID `json:"removed_document_ids"`
}

// productForm is a decoded product write request
type productForm struct {
	payload ProductPayload
	files   []services.FileUpload
	closers []io.Closer
}

func (f *productForm) Close() {
	for _, c := range f.closers {
		c.Close()
	}
}

// bindProductForm accepts either multipart (payload + files + removed_document_ids)
// or a plain JSON body without files.
func bindProductForm(c echo.Context) (*productForm, error) {
	form := &productForm{}

	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		if err := c.Bind(&form.payload); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
		}
		return form, validatePayload(&form.payload)
	}

	mf, err := c.MultipartForm()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form")
	}

	if raw := mf.Value["payload"]; len(raw) > 0 {
		if err := json.Unmarshal([]byte(raw[0]), &form.payload); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid payload JSON")
		}
	}
	for _, raw := range mf.Value["removed_document_ids"] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s == "" {
				continue
			}
			id, err := uuid.Parse(s)
			if err != nil {
				return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid removed_document_ids")
			}
			form.payload.RemovedDocumentIDs = append(form.payload.RemovedDocumentIDs, id)
		}
	}
	if err := validatePayload(&form.payload); err != nil {
		return nil, err
	}

	if err := form.openFiles(mf.File["files"]); err != nil {
		form.Close()
		return nil, err
	}
	return form, nil
}

func (f *productForm) openFiles(headers []*multipart.FileHeader) error {
	for _, fh := range headers {
		if fh.Size > maxUploadBytes {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("%s exceeds the %d MB limit", fh.Filename, maxUploadBytes>>20))
		}
		file, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Unreadable upload")
		}
		f.closers = append(f.closers, file)

		contentType := fh.Header.Get(echo.HeaderContentType)
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		f.files = append(f.files, services.FileUpload{
			FileName:    fh.Filename,
			ContentType: contentType,
			Size:        fh.Size,
			Reader:      file,
		})
	}
	return nil
}

func validatePayload(p *ProductPayload) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Product name is required")
	}
	return nil
}
