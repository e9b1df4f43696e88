package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(ctx, db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}
	if err := MigrateUp(ctx, db); err != nil {
		t.Fatalf("repeated migrate up failed: %v", err)
	}
	if err := MigrateDown(ctx, db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}
	if err := MigrateUp(ctx, db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	slot, err := NewSQLiteSlot(db)
	if err != nil {
		t.Fatalf("new slot: %v", err)
	}
	if err := slot.Set(ctx, "todos", "[]"); err != nil {
		t.Fatalf("set after roundtrip failed: %v", err)
	}
	got, ok, err := slot.Get(ctx, "todos")
	if err != nil || !ok {
		t.Fatalf("get after roundtrip failed: ok=%v err=%v", ok, err)
	}
	if got != "[]" {
		t.Fatalf("unexpected value after roundtrip: %q", got)
	}
}
