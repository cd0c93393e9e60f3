// Package config holds the runtime's tunable defaults and a loader that
// overrides them from a sqlite database, mirroring the teacher's
// bootstrap-from-sqlite phase (open db, read rows, populate struct) before
// any back-end starts.
package config

import (
	"database/sql"

	"github.com/SwarmArch/runtime/constants"
)

// Config groups the runtime's tunables. The back-end constructors take
// their parameters directly and do not read a Config.
type Config struct {
	WorkerCount      int
	SpillBatchSize   int
	StrandsPerThread int
	HWBufferCapacity int
}

// Default returns a Config populated with the compile-time constants.
func Default() Config {
	return Config{
		WorkerCount:      1,
		SpillBatchSize:   constants.SpillBatchSize,
		StrandsPerThread: constants.DefaultStrandsPerThread,
		HWBufferCapacity: constants.HWBufferWindow,
	}
}

// LoadFromDB reads a single "config" table (key TEXT, value INTEGER) from a
// sqlite database opened with the go-sqlite3 driver and applies any rows it
// finds on top of Default(), the same pattern the teacher's main.go uses to
// load its pools/cycles tables before constructing the runtime.
func LoadFromDB(db *sql.DB) (Config, error) {
	cfg := Default()
	rows, err := db.Query(`SELECT key, value FROM config`)
	if err != nil {
		return cfg, err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return cfg, err
		}
		switch key {
		case "worker_count":
			cfg.WorkerCount = value
		case "spill_batch_size":
			cfg.SpillBatchSize = value
		case "strands_per_thread":
			cfg.StrandsPerThread = value
		case "hw_buffer_capacity":
			cfg.HWBufferCapacity = value
		}
	}
	return cfg, rows.Err()
}
