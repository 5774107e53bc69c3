// Package ledger implements an append-only, hash-chained log of the runs of
// a simulation.
//
// # Core Components
//
// Ledger: the chain of blocks of one simulation, starting from a genesis
// block. Safe for concurrent use by the simulation workers.
//
// Block: a single completed run with the outcome of every strategy, linked
// to the previous block by its hash.
//
// # Verification
//
// Every block hash covers the index, the timestamp, the previous hash, the
// run record and the metadata. Changing any recorded outcome, reordering
// blocks or dropping one breaks the chain, and Verify reports where.
//
// # Usage
//
// Create a ledger with the simulation ID, hand it to the simulation and
// call Verify once the runs are done. FromBlocks rebuilds a ledger read
// back from storage and verifies it.
package ledger
