// Package session keeps the transient per-identity workflow cursors and
// serializes event handling per identity: no two events from the same
// user are ever processed concurrently, while different users proceed
// in parallel.
package session
