// Package cli constructs the errands command-line interface, wiring the
// Cobra command hierarchy, configuration loader, structured logging and the
// services each errand command runs against.
package cli
