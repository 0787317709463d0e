package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"partnerhub/internal/models"
	"partnerhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// FileUpload is one file received for attachment to a product
type FileUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// documentManager runs the upload/removal protocol shared by both catalogs.
// SQL writes go through the transaction handed in; blobs it uploaded are tracked
// so a failed transaction can remove them again.
type documentManager struct {
	blobs  BlobStore
	logger *zap.SugaredLogger
	now    func() time.Time
}

func newDocumentManager(blobs BlobStore, lg *zap.SugaredLogger) *documentManager {
	return &documentManager{blobs: blobs, logger: lg, now: time.Now}
}

// idSet collapses repeated ids
func idSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// removable returns the attached documents named by removedIDs, each once
func removable(existing []*models.Document, removedIDs []uuid.UUID) []*models.Document {
	set := idSet(removedIDs)
	var out []*models.Document
	for _, doc := range existing {
		if _, ok := set[doc.ID]; ok {
			out = append(out, doc)
		}
	}
	return out
}

// checkCap enforces existing - removed + added <= MaxDocumentsPerProduct.
// Only removed ids that belong to the parent are counted.
func checkCap(existing []*models.Document, removedIDs []uuid.UUID, added int) error {
	removing := len(removable(existing, removedIDs))
	if len(existing)-removing+added > models.MaxDocumentsPerProduct {
		return ErrTooManyDocuments
	}
	return nil
}

// attach uploads each file in order and inserts its row. The returned keys
// cover every blob written, including on error.
func (d *documentManager) attach(ctx context.Context, docs repositories.DocumentRepository, parentID uuid.UUID, files []FileUpload) ([]*models.Document, []string, error) {
	created := make([]*models.Document, 0, len(files))
	var uploaded []string

	at := d.now()
	for i, f := range files {
		key := ObjectKey(parentID, i, f.FileName, at)
		if err := d.blobs.Upload(ctx, key, f.Reader, f.Size, f.ContentType); err != nil {
			return nil, uploaded, fmt.Errorf("upload %s: %w", f.FileName, err)
		}
		uploaded = append(uploaded, key)

		doc, err := docs.Create(ctx, &models.Document{
			ParentID: parentID,
			FileName: f.FileName,
			FileURL:  d.blobs.PublicURL(key),
			FileType: f.ContentType,
			FileSize: f.Size,
		})
		if err != nil {
			return nil, uploaded, fmt.Errorf("create document row for %s: %w", f.FileName, err)
		}
		created = append(created, doc)
	}
	return created, uploaded, nil
}

// detach deletes the rows of removed documents and returns them for blob cleanup
func (d *documentManager) detach(ctx context.Context, docs repositories.DocumentRepository, existing []*models.Document, removedIDs []uuid.UUID) ([]*models.Document, error) {
	removed := removable(existing, removedIDs)
	for _, doc := range removed {
		if err := docs.Delete(ctx, doc.ID); err != nil {
			return nil, fmt.Errorf("delete document %s: %w", doc.ID, err)
		}
	}
	return removed, nil
}

// compensate removes blobs uploaded by an operation that did not commit
func (d *documentManager) compensate(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := d.blobs.Remove(ctx, key); err != nil {
			d.logger.Errorw("failed to remove orphaned blob", "key", key, "error", err)
		}
	}
}

// purge removes the blobs behind documents whose rows are already gone
func (d *documentManager) purge(ctx context.Context, docs []*models.Document) {
	for _, doc := range docs {
		key, ok := d.blobs.KeyFromURL(doc.FileURL)
		if !ok {
			d.logger.Warnw("document url does not belong to the bucket", "document_id", doc.ID, "url", doc.FileURL)
			continue
		}
		if err := d.blobs.Remove(ctx, key); err != nil {
			d.logger.Errorw("failed to remove document blob", "document_id", doc.ID, "key", key, "error", err)
		}
	}
}

// inTx runs fn inside a transaction, rolling back on error
func inTx(ctx context.Context, db repositories.TxBeginner, lg *zap.SugaredLogger, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			lg.Errorw("rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func withoutDocuments(docs []*models.Document, removed []*models.Document) []*models.Document {
	out := make([]*models.Document, 0, len(docs))
	for _, doc := range docs {
		drop := false
		for _, r := range removed {
			if r.ID == doc.ID {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, doc)
		}
	}
	return out
}
