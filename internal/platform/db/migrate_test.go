package db

import (
	"testing"
	"testing/fstest"

	"hrportal/migrations"
)

func TestMigrationFilesSorted(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_b.sql":   {Data: []byte("SELECT 2")},
		"0001_a.sql":   {Data: []byte("SELECT 1")},
		"README.md":    {Data: []byte("docs")},
		"nested/x.sql": {Data: []byte("SELECT 3")},
	}
	files, err := migrationFiles(fsys)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(files) != 2 || files[0] != "0001_a.sql" || files[1] != "0002_b.sql" {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	files, err := migrationFiles(migrations.FS)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("expected embedded migrations")
	}
}
