package repositories

import (
	"context"
	"fmt"

	"partnerhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DocumentScope names the table a document set lives in and its parent column
type DocumentScope struct {
	Table        string
	ParentColumn string
}

var (
	ProductDocuments        = DocumentScope{Table: "product_documents", ParentColumn: "product_id"}
	PartnerProductDocuments = DocumentScope{Table: "partner_product_documents", ParentColumn: "partner_product_id"}
)

type DocumentRepository interface {
	WithTx(tx pgx.Tx) DocumentRepository
	Scope() DocumentScope
	Create(ctx context.Context, doc *models.Document) (*models.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Document, error)
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]*models.Document, error)
}

type documentRepo struct {
	db    Database
	scope DocumentScope
}

func NewDocumentRepo(db Database, scope DocumentScope) DocumentRepository {
	return &documentRepo{db: db, scope: scope}
}

func (r *documentRepo) WithTx(tx pgx.Tx) DocumentRepository {
	return &documentRepo{db: tx, scope: r.scope}
}

func (r *documentRepo) Scope() DocumentScope {
	return r.scope
}

func (r *documentRepo) columns() string {
	return fmt.Sprintf(`id, %s, file_name, file_url, file_type, file_size, created_at`, r.scope.ParentColumn)
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	doc := &models.Document{}
	if err := row.Scan(&doc.ID, &doc.ParentID, &doc.FileName, &doc.FileURL, &doc.FileType, &doc.FileSize, &doc.CreatedAt); err != nil {
		return nil, mapNoRows(err)
	}
	return doc, nil
}

func (r *documentRepo) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, file_name, file_url, file_type, file_size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, r.scope.Table, r.scope.ParentColumn, r.columns())
	return scanDocument(r.db.QueryRow(ctx, query, doc.ParentID, doc.FileName, doc.FileURL, doc.FileType, doc.FileSize))
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, r.columns(), r.scope.Table)
	return scanDocument(r.db.QueryRow(ctx, query, id))
}

func (r *documentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.scope.Table), id)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

// List returns every document in the scope, oldest first
func (r *documentRepo) List(ctx context.Context) ([]*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at ASC`, r.columns(), r.scope.Table)
	return r.list(ctx, query)
}

func (r *documentRepo) ListByParent(ctx context.Context, parentID uuid.UUID) ([]*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY created_at ASC`, r.columns(), r.scope.Table, r.scope.ParentColumn)
	return r.list(ctx, query, parentID)
}

func (r *documentRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.Document, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
