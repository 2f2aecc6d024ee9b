// Package preflight provides readiness checks for the interpreter, packages
// and filesystem paths that romkit depends on.
//
// "romkit doctor" runs RunAll and renders the results as a table. Checks for
// optional features are gated by their config toggle: the catalog file is only
// checked when the catalog backend is selected, the cache directory only when
// the cache is enabled.
package preflight
