package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"partnerhub/internal/models"
	"partnerhub/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TestDB holds the database connection for integration tests
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. Tests are skipped when no database is configured.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, connString, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	_, err = pool.Exec(ctx, `TRUNCATE partners, admin, products, product_partners, product_documents,
		partner_products, partner_product_documents, leads CASCADE`)
	if err != nil {
		pool.Close()
		t.Fatalf("Failed to reset test database: %v", err)
	}

	db := &TestDB{Pool: pool, Cleanup: pool.Close}
	t.Cleanup(db.Cleanup)
	return db
}

// SetupTestPartner inserts a partner row
func SetupTestPartner(t *testing.T, db *TestDB, name, email string) *models.Partner {
	t.Helper()

	partner := &models.Partner{ID: uuid.New(), Name: name, Email: email}
	err := db.Pool.QueryRow(context.Background(),
		`INSERT INTO partners (id, name, email) VALUES ($1, $2, $3) RETURNING created_at`,
		partner.ID, partner.Name, partner.Email,
	).Scan(&partner.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test partner: %v", err)
	}
	return partner
}

// SetupTestProduct inserts an admin product row
func SetupTestProduct(t *testing.T, db *TestDB, name string) *models.Product {
	t.Helper()

	product := &models.Product{ID: uuid.New(), Name: name, Description: "Test product description"}
	err := db.Pool.QueryRow(context.Background(),
		`INSERT INTO products (id, name, description) VALUES ($1, $2, $3) RETURNING created_at`,
		product.ID, product.Name, product.Description,
	).Scan(&product.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return product
}
