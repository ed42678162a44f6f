package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"menuhub/internal/models"
	"menuhub/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// SetupTestDB connects to TEST_DATABASE_URL and migrates it. Tests are
// skipped when the variable is unset.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	db := &TestDB{Pool: pool}
	db.Cleanup = func() { pool.Close() }
	return db
}

// ResetTenant deletes every row owned by tenantID.
func ResetTenant(t *testing.T, db *TestDB, tenantID string) {
	t.Helper()

	ctx := context.Background()
	statements := []string{
		`DELETE FROM orders WHERE tenant_id = $1`,
		`DELETE FROM tenant_order_sequences WHERE tenant_id = $1`,
		`DELETE FROM products WHERE tenant_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := db.Pool.Exec(ctx, stmt, tenantID); err != nil {
			t.Fatalf("Failed to reset tenant %s: %v", tenantID, err)
		}
	}
}

// SetupTestProduct inserts a catalog product for tenantID
func SetupTestProduct(t *testing.T, db *TestDB, tenantID, productID, name string, price decimal.Decimal) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:        productID,
		TenantID:  tenantID,
		Name:      name,
		Price:     price,
		Active:    true,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO products (id, tenant_id, name, price, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := db.Pool.Exec(context.Background(), query,
		product.ID, product.TenantID, product.Name, product.Price, product.Active, product.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}

	return product
}
