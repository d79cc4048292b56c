package core

// EdgeKind distinguishes table-level from column-level lineage.
type EdgeKind string

// Edge kinds.
const (
	EdgeTable  EdgeKind = "TABLE"
	EdgeColumn EdgeKind = "COLUMN"
)

// LineageEdge is a directed lineage relationship materialized as a process.
// ProcessKey is deterministic for a given pair of endpoints, so writers can
// treat creation as an idempotent upsert.
type LineageEdge struct {
	ProcessName string   `json:"process_name" yaml:"process_name"`
	ProcessKey  string   `json:"process_key" yaml:"process_key"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	SourceRef   string   `json:"source_ref" yaml:"source_ref"`
	TargetRef   string   `json:"target_ref" yaml:"target_ref"`
	Kind        EdgeKind `json:"kind" yaml:"kind"`
}

// EdgeOutcome reports what a LineageWriter did with an edge.
type EdgeOutcome int

// Edge outcomes.
const (
	// EdgeCreated means a new process was written.
	EdgeCreated EdgeOutcome = iota
	// EdgeConfirmed means a process with the same key already existed.
	EdgeConfirmed
)

// String returns the string representation of the outcome.
func (o EdgeOutcome) String() string {
	switch o {
	case EdgeCreated:
		return "created"
	case EdgeConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}
