// Package tabref keeps locally cached IBPT tax table files current.
//
// The single entry point is Reconciler.Reconcile, which guarantees that on
// success the canonical file exists and has not passed its end-of-validity
// date. Expired files are archived under a date-stamped name and replaced by
// a fresh download; every failure is converted into a typed Result rather
// than propagated.
//
// Filesystem access goes through afero.Fs and downloads through the Fetcher
// interface, so the whole package runs against in-memory stubs in tests.
package tabref
