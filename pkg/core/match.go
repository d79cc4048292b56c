package core

import "fmt"

// Default matching thresholds.
const (
	DefaultTableThreshold  = 80
	DefaultColumnThreshold = 80
)

// MatchConfig controls how names are compared and which scores are accepted.
type MatchConfig struct {
	// NormalizeNames compares normalized names instead of raw display names.
	NormalizeNames bool `koanf:"normalize_names" json:"normalize_names" yaml:"normalize_names"`
	// TableThreshold is the minimum score (0-100) for a table match.
	TableThreshold int `koanf:"table_threshold" json:"table_threshold" yaml:"table_threshold"`
	// ColumnThreshold is the minimum score (0-100) for a column match.
	ColumnThreshold int `koanf:"column_threshold" json:"column_threshold" yaml:"column_threshold"`
}

// DefaultMatchConfig returns the configuration the tool ships with.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		NormalizeNames:  true,
		TableThreshold:  DefaultTableThreshold,
		ColumnThreshold: DefaultColumnThreshold,
	}
}

// Validate checks both thresholds are within [0,100].
func (c MatchConfig) Validate() error {
	if c.TableThreshold < 0 || c.TableThreshold > 100 {
		return fmt.Errorf("table threshold must be between 0 and 100, got %d", c.TableThreshold)
	}
	if c.ColumnThreshold < 0 || c.ColumnThreshold > 100 {
		return fmt.Errorf("column threshold must be between 0 and 100, got %d", c.ColumnThreshold)
	}
	return nil
}

// Pair is an accepted source/target correspondence with its similarity score.
type Pair[T Named] struct {
	Source T   `json:"source" yaml:"source"`
	Target T   `json:"target" yaml:"target"`
	Score  int `json:"score" yaml:"score"`
}

// ColumnMatch is a matched column pair inside a TableMatch.
type ColumnMatch = Pair[Column]

// TableMatch is a matched table pair together with its matched columns.
type TableMatch struct {
	Source     Table         `json:"source" yaml:"source"`
	Target     Table         `json:"target" yaml:"target"`
	Similarity int           `json:"similarity" yaml:"similarity"`
	Columns    []ColumnMatch `json:"columns" yaml:"columns"`
}
