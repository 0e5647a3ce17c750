// Package repo contains the VotingRepository adapters.
//
// PostgresRepository is the production adapter (pgx); MemoryRepository keeps
// the same constraints in process for local runs and tests. Both implement
// ports.VotingRepository and are selected by APP_STORAGE_DRIVER.
package repo
