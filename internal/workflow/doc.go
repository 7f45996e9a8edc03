// Package workflow runs several errands in order from one YAML or JSON file.
package workflow
