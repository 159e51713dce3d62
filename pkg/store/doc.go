// Package store implements read-only lookups against the user directory
// database.
//
// # Overview
//
// Store wraps a PostgreSQL connection pool and queries a single configured
// source, either the full authuser table or a restricted view exposing only
// the columns federation needs. All operations are reads; the package never
// issues INSERT, UPDATE or DELETE statements.
//
// # Sources
//
// The source name is validated by the config package and interpolated into
// queries; every value is bound as a placeholder. Running against the
// restricted view is the recommended deployment: the database account then
// needs nothing beyond SELECT on the view. Columns the view does not expose
// come back as zero values on the record, and legacy identifier resolution
// reports a query failure because the uniqueid column is absent.
//
// # Errors
//
// Lookups distinguish a missing row from a failing database. A zero-row
// outcome is ErrNotFound and errors.Is-able; any driver or connectivity
// failure is wrapped and propagated so callers never mistake an outage for
// an absent user.
//
//	rec, err := st.FindByUsername(ctx, "mventnor")
//	if errors.Is(err, store.ErrNotFound) {
//		// genuinely no such user
//	}
//
// # Metrics
//
// Attach a Metrics value to observe lookups:
//
//	reg := prometheus.NewRegistry()
//	m := store.NewMetrics(reg)
//	st := store.NewWithDB(db, "authuser_view", store.WithMetrics(m))
//
// Each Store tracks per-operation counts and durations plus connection pool
// gauges. Register one Metrics value per process.
package store
