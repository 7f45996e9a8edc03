// Package flights queries the flight-offers API for airport codes and the
// cheapest round trip between two cities.
//
// The client obtains a client-credentials access token once at construction
// and reuses it for the lifetime of the process.
package flights
