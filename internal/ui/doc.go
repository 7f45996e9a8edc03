// Package ui provides helpers for formatting human-readable console output.
//
// The helpers translate HTTP request events into concise messages so that
// errand feedback remains actionable for CLI users while detailed telemetry
// continues to flow through structured loggers, and render run reports as
// tables.
package ui
