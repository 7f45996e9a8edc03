// Package credentials resolves secret references used by errand configuration.
//
// A reference names where a secret lives rather than holding it: env:NAME reads
// an environment variable, file:/path reads a file (a leading ~ expands to the
// home directory), and a bare identifier is treated as an environment variable
// name. Resolution happens once, when a command assembles its collaborators.
package credentials
