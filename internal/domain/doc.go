// Package domain defines the core business entities and errors for the
// photo generation service: credit accounts and their append-only history.
package domain
