package repositories

import (
	"context"
	"errors"

	"partnerhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AdminRepository interface {
	Get(ctx context.Context) (*models.Admin, error)
	Create(ctx context.Context, name, email, passwordHash string) (*models.Admin, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type adminRepo struct {
	db Database
}

func NewAdminRepo(db Database) AdminRepository {
	return &adminRepo{db: db}
}

const adminColumns = `id, name, email, password_hash, created_at`

func scanAdmin(row pgx.Row) (*models.Admin, error) {
	admin := &models.Admin{}
	if err := row.Scan(&admin.ID, &admin.Name, &admin.Email, &admin.PasswordHash, &admin.CreatedAt); err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *adminRepo) Get(ctx context.Context) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admin ORDER BY created_at ASC LIMIT 1`
	admin, err := scanAdmin(r.db.QueryRow(ctx, query))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return admin, nil
}

// Create inserts the admin only while the table is empty
func (r *adminRepo) Create(ctx context.Context, name, email, passwordHash string) (*models.Admin, error) {
	query := `
		INSERT INTO admin (name, email, password_hash)
		SELECT $1, $2, $3
		WHERE NOT EXISTS (SELECT 1 FROM admin)
		RETURNING ` + adminColumns
	admin, err := scanAdmin(r.db.QueryRow(ctx, query, name, email, passwordHash))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *adminRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE admin SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}
