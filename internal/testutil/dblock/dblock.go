// Package dblock serializes test packages that share the integration
// database. Packages run in parallel under go test ./..., and each one
// truncates the core tables on setup, so only one may hold the database at a
// time.
package dblock

import (
	"net"
	"time"
)

const lockAddr = "127.0.0.1:45431"

// Acquire blocks until this process holds the cross-package lock and returns
// the release function.
func Acquire() func() {
	for {
		ln, err := net.Listen("tcp", lockAddr)
		if err == nil {
			return func() { ln.Close() }
		}
		time.Sleep(50 * time.Millisecond)
	}
}
