// Package testutil provides helpers for tests that touch the filesystem
// or the process environment.
package testutil
