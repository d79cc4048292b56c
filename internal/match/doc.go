// Package match scores name similarity and pairs catalog entities.
//
// Key functions:
//   - Scorer.Score: 0-100 similarity using exact, substring and edit-distance rules
//   - All: greedy best-target matching of sources against targets above a threshold
//   - Tables / Columns: All bound to a core.MatchConfig at table or column granularity
//
// Matching is deterministic for a given input order. Each source keeps the
// first target that reaches its best score; later targets with the same score
// never displace it.
package match
