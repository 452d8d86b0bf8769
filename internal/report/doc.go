// Package report implements the attendance report transformation: a
// single synchronous pass that normalizes register dates through a
// format-fallback chain, resolves the month to display, classifies
// rows into the two weekday buckets and the special-event bucket,
// builds the per-weekday pivot views and flattens the special-event
// list.
//
// The pipeline is side-effect-free: the same table and month always
// produce the same report, and nothing is persisted between runs.
// Per-row failures (unparseable dates, blank locations, non-numeric
// attendance) are logged and skipped; only a missing table or a table
// with no parseable dates is terminal.
package report
