// Package workouts turns a natural-language exercise description into
// spreadsheet rows through the nutrition API.
package workouts
