// Package sheet talks to the spreadsheet REST gateway that stores destination
// and workout rows.
package sheet
