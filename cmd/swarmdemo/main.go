// Command swarmdemo loads a benchmark task workload and runs it through
// one of the four scheduler back-ends, the same bootstrap-then-run shape
// as the arbitrage detector's main.go: load phase, build phase, run phase.
package main

import (
	"database/sql"
	"flag"
	"os"
	"strconv"
	"sync/atomic"

	swarmarch "github.com/SwarmArch/runtime"
	"github.com/SwarmArch/runtime/debug"
	"github.com/SwarmArch/runtime/sim"
	"github.com/SwarmArch/runtime/ts"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sugawarayuuta/sonnet"
)

// workloadItem is one row of the benchmark workload: a timestamp, a
// spatial hint key, and a scalar argument passed to the demo task body.
type workloadItem struct {
	TS   uint64 `json:"ts"`
	Hint uint64 `json:"hint"`
	Arg  uint64 `json:"arg"`
}

func main() {
	backend := flag.String("backend", "sequential", "sequential|oracle|tls|hardware")
	workers := flag.Int("workers", 4, "worker count for tls/hardware")
	dbPath := flag.String("db", "", "sqlite file to load the workload from (table: tasks(ts, hint, arg))")
	jsonPath := flag.String("json", "", "JSON file to load the workload from, an alternative to -db")
	flag.Parse()

	debug.DropMessage("INIT", "loading workload")

	var items []workloadItem
	switch {
	case *dbPath != "":
		db := openDatabase(*dbPath)
		items = loadWorkloadFromDatabase(db)
		db.Close()
	case *jsonPath != "":
		items = loadWorkloadFromJSON(*jsonPath)
	default:
		items = syntheticWorkload(1000)
	}

	debug.DropMessage("LOADED", strconv.Itoa(len(items))+" tasks")

	rt := buildRuntime(*backend, *workers)

	var executed atomic.Int64
	for _, item := range items {
		it := item
		swarmarch.EnqueueLambda(rt, ts.Timestamp(it.TS), ts.Hint{Key: it.Hint}, 0, func() {
			runDemoTask(rt, it)
			executed.Add(1)
		})
	}

	debug.DropMessage("READY", "running "+*backend+" with "+strconv.Itoa(*workers)+" workers")
	swarmarch.Run(rt)
	debug.DropStat("EXECUTED", executed.Load())
	debug.DropJSON("SUMMARY", struct {
		Backend  string `json:"backend"`
		Workers  int    `json:"workers"`
		Tasks    int    `json:"tasks"`
		Executed int64  `json:"executed"`
	}{*backend, *workers, len(items), executed.Load()})
}

// buildRuntime constructs the back-end named by kind, defaulting to
// sequential for an unrecognised name rather than aborting, since this is
// a demo harness and not a programmer-contract boundary.
func buildRuntime(kind string, workers int) swarmarch.Runtime {
	switch kind {
	case "oracle":
		return swarmarch.NewOracle(sim.NewFakeBackend(workers * 4))
	case "tls":
		return swarmarch.NewTLS(workers)
	case "hardware":
		return swarmarch.NewHardware(workers, workers*4)
	default:
		return swarmarch.NewSequential()
	}
}

// runDemoTask is the workload body: it does no work of its own beyond
// spawning one child task (with Arg+1) when Arg is a multiple of 37, so Run
// exercises enqueue-from-within-a-task, not just a flat batch.
func runDemoTask(rt swarmarch.Runtime, it workloadItem) {
	if it.Arg%37 == 0 {
		child := it
		child.Arg++
		swarmarch.EnqueueLambda(rt, swarmarch.Timestamp(rt)+1, ts.Hint{Key: it.Hint}, 0, func() {
			runDemoTask(rt, child)
		})
	}
}

func syntheticWorkload(n int) []workloadItem {
	items := make([]workloadItem, n)
	for i := range items {
		items[i] = workloadItem{TS: uint64(i), Hint: uint64(i % 16), Arg: uint64(i)}
	}
	return items
}

// openDatabase establishes the sqlite connection for loading only; the
// demo closes it once the workload is read, mirroring the teacher's
// load-then-close pattern since nothing downstream needs the handle.
func openDatabase(path string) *sql.DB {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		debug.Fatalf("swarmdemo", "failed to open database "+path+": "+err.Error())
	}
	return db
}

// loadWorkloadFromDatabase reads every row of the tasks table with exact
// capacity pre-allocated from a COUNT query, the teacher's
// loadPoolsFromDatabase shape applied to a different table.
func loadWorkloadFromDatabase(db *sql.DB) []workloadItem {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&count); err != nil {
		debug.Fatalf("swarmdemo", "failed to count tasks: "+err.Error())
	}

	items := make([]workloadItem, 0, count)
	rows, err := db.Query(`SELECT ts, hint, arg FROM tasks ORDER BY ts`)
	if err != nil {
		debug.Fatalf("swarmdemo", "failed to query tasks: "+err.Error())
	}
	defer rows.Close()

	for rows.Next() {
		var it workloadItem
		if err := rows.Scan(&it.TS, &it.Hint, &it.Arg); err != nil {
			debug.Fatalf("swarmdemo", "failed to scan task row: "+err.Error())
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		debug.Fatalf("swarmdemo", "database iteration error: "+err.Error())
	}
	return items
}

// loadWorkloadFromJSON decodes a JSON array of workloadItem with sonnet, an
// alternative entry point to the sqlite path above for workloads generated
// by tooling that would rather not shell out to sqlite3.
func loadWorkloadFromJSON(path string) []workloadItem {
	data, err := os.ReadFile(path)
	if err != nil {
		debug.Fatalf("swarmdemo", "failed to read "+path+": "+err.Error())
	}
	var items []workloadItem
	if err := sonnet.Unmarshal(data, &items); err != nil {
		debug.Fatalf("swarmdemo", "failed to decode "+path+": "+err.Error())
	}
	return items
}
