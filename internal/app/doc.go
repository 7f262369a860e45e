// Package app assembles the executor process.
//
//	config ──► store (duckdb, migrations)
//	       ──► journal ◄──observer── scheduler ──observer──► metrics
//	       ──► services ──► handlers ──► server (/api/v1, /metrics, /health)
//
// Run blocks until a signal, a cancelled context or a shutdown of the pool
// through the API. Shutdown order: pool (graceful, then forced after
// Scheduler.ShutdownTimeout), HTTP server, journal flush, store.
package app
