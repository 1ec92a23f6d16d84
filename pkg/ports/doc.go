// Package ports defines the interfaces between the questboard core and
// its adapters, plus reusable contract test suites that every adapter
// implementation must pass.
package ports
