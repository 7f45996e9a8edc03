// Package habit provides the habit tracker commands: account and graph setup plus daily pixels.
package habit
