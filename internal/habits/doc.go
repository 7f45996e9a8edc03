// Package habits manages a pixel-tracking habit graph: the user account, the
// graph definition, and the daily pixels recording progress.
package habits
