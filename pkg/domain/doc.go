// Package domain contains the core entities and value types of the
// questboard workflow: groups, tasks, memberships, per-user sessions,
// inbound events, parsed actions and render views.
//
// The package has no dependencies on storage or transport. Entities are
// plain data; the only behavior here is the task status machine and the
// parsing of boundary payloads (callback ids, join tokens) into typed
// values.
package domain
