// Package notify delivers text messages about deals and market moves.
//
// A Notifier built from incomplete credentials is disabled: it reports the
// missing settings through Status and never touches the network.
package notify
