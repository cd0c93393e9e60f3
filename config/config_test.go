package config

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.WorkerCount != 1 {
		t.Fatalf("WorkerCount = %d, want 1", cfg.WorkerCount)
	}
	if cfg.SpillBatchSize <= 0 {
		t.Fatalf("SpillBatchSize = %d, want positive", cfg.SpillBatchSize)
	}
}

func TestLoadFromDBOverridesDefaults(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE config (key TEXT, value INTEGER)`); err != nil {
		t.Fatalf("CREATE TABLE: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO config (key, value) VALUES ('worker_count', 8), ('spill_batch_size', 128)`); err != nil {
		t.Fatalf("INSERT: %v", err)
	}

	cfg, err := LoadFromDB(db)
	if err != nil {
		t.Fatalf("LoadFromDB: %v", err)
	}
	if cfg.WorkerCount != 8 {
		t.Errorf("WorkerCount = %d, want 8", cfg.WorkerCount)
	}
	if cfg.SpillBatchSize != 128 {
		t.Errorf("SpillBatchSize = %d, want 128", cfg.SpillBatchSize)
	}
	if cfg.StrandsPerThread != Default().StrandsPerThread {
		t.Errorf("StrandsPerThread should keep default when not overridden")
	}
}
