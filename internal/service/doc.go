// Package service contains the application's orchestration layer: the
// generation service that coordinates vendor calls with the credit ledger,
// and the credit service for balance reads and grants.
package service
