// Package errands provides the cobra commands that run a single errand: flight-deals, stock-alert and workout-log.
package errands
