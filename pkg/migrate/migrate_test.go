package migrate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
	if err := ValidateFS(Embedded()); err != nil {
		t.Fatalf("ValidateFS(embedded): %v", err)
	}
}

func TestSourceDefaultsToEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(Source(DefaultDir), ".")
	if err != nil {
		t.Fatalf("read embedded: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 embedded migrations, got %d", len(entries))
	}
}

func TestStorefrontMigrationsContainSchema(t *testing.T) {
	checks := map[string][]string{
		"*_create_users.sql": {
			"CREATE TABLE IF NOT EXISTS users",
			"CREATE UNIQUE INDEX IF NOT EXISTS users_email_key",
		},
		"*_create_cart_items.sql": {
			"CREATE TABLE IF NOT EXISTS cart_items",
			"CHECK (quantity >= 1)",
			"cart_items_user_product_key ON cart_items (user_id, product_id)",
		},
		"*_create_favorites.sql": {
			"favorites_user_product_key ON favorites (user_id, product_id)",
		},
		"*_create_orders.sql": {
			"CREATE TABLE IF NOT EXISTS orders",
			"CREATE TABLE IF NOT EXISTS order_items",
			"price_at_purchase NUMERIC(10,2) NOT NULL",
			"REFERENCES orders(id) ON DELETE CASCADE",
			"DROP TABLE IF EXISTS order_items",
		},
	}

	for pattern, subs := range checks {
		matches, err := filepath.Glob(filepath.Join("migrations", pattern))
		if err != nil {
			t.Fatalf("glob migrations: %v", err)
		}
		if len(matches) != 1 {
			t.Fatalf("expected one migration for %s, got %d", pattern, len(matches))
		}
		data, err := os.ReadFile(matches[0])
		if err != nil {
			t.Fatalf("read migration file: %v", err)
		}
		for _, sub := range subs {
			if !strings.Contains(string(data), sub) {
				t.Errorf("%s missing expected statement %q", matches[0], sub)
			}
		}
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Order Notes!")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_order_notes.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
}

func TestCreateSQLMigrationStaysAfterLatest(t *testing.T) {
	dir := t.TempDir()
	future := "29991231235959_far_future.sql"
	if err := os.WriteFile(filepath.Join(dir, future), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	path, err := CreateSQLMigration(dir, "next")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}
	if filepath.Base(path) != "30000101000000_next.sql" {
		t.Fatalf("unexpected filename %s", filepath.Base(path))
	}
}

func TestValidateFSRejectsSwappedSections(t *testing.T) {
	fsys := fstest.MapFS{
		"20250101000000_swapped.sql": {Data: []byte("-- +goose Down\n-- +goose Up\n")},
	}
	if err := ValidateFS(fsys); err == nil {
		t.Fatalf("expected section order error")
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "oops.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected invalid filename error")
	}
}

func TestValidateDirRejectsEmpty(t *testing.T) {
	if err := ValidateDir(t.TempDir()); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}
