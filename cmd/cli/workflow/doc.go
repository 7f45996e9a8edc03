// Package workflow provides the command that runs a workflow file.
package workflow
