// Package deals implements the flight-deal errand.
//
// It models destination records, flight quotes, and deals, drives the
// comparison of freshly found fares against the prices recorded in the
// spreadsheet store, and orchestrates a full run through Service: fetch the
// destinations, compare, notify, persist, and report.
package deals
