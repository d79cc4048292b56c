// Package core defines the shared language of the lineagesync system.
//
// This package contains:
//   - Catalog entities (Connection, Table, Column) built on a common Entity
//   - Match results (Pair, TableMatch) and the MatchConfig that governs them
//   - Lineage records (LineageEdge, EdgeKind, EdgeOutcome)
//   - Service interfaces (Catalog, LineageWriter, Store)
//   - Error taxonomy (ConfigurationError, CollaboratorError)
//
// The Golden Rule: pkg/core imports ONLY pkg/ident and stdlib.
// All other packages depend on core, not the reverse.
package core
