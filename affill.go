// Package affill provides the reporting engine behind the affiliate dashboard.
//
// Usage:
//
//	import "github.com/rebtools/affill/engine"
//
//	summary := engine.AnalyzeCommissions(records, engine.DefaultCommissionSort(),
//	    engine.WithLocation(loc),
//	)
//
// The engine takes records already fetched from the affiliate API and returns
// render-ready output (summary totals, chart series, sorted tables).
//
// Ingestion and export live in the helpers package.
// The engine never calls an external service; all computation is local.
package affill
