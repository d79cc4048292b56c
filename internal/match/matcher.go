package match

import (
	"github.com/leapstack-labs/lineagesync/pkg/core"
)

// All pairs each source with its best-scoring target.
//
// Targets are scanned in order. A target replaces the current best only when
// its score is strictly greater and at least threshold, so on ties the first
// target seen wins. Sources without an acceptable target are left out of the
// result. The result preserves source order.
//
// Cost is len(sources) * len(targets) score evaluations.
func All[T core.Named](sources, targets []T, threshold int, scorer Scorer) []core.Pair[T] {
	if len(sources) == 0 || len(targets) == 0 {
		return []core.Pair[T]{}
	}

	pairs := make([]core.Pair[T], 0, len(sources))
	for _, source := range sources {
		src := source.Identity()

		bestIdx := -1
		bestScore := 0
		for i, target := range targets {
			score := scorer.ScoreEntities(src, target.Identity())
			if score > bestScore && score >= threshold {
				bestIdx = i
				bestScore = score
			}
		}

		if bestIdx >= 0 {
			pairs = append(pairs, core.Pair[T]{
				Source: source,
				Target: targets[bestIdx],
				Score:  bestScore,
			})
		}
	}

	return pairs
}

// Tables matches tables using the table threshold from cfg.
func Tables(sources, targets []core.Table, cfg core.MatchConfig) []core.Pair[core.Table] {
	return All(sources, targets, cfg.TableThreshold, Scorer{Normalize: cfg.NormalizeNames})
}

// Columns matches the columns of one matched table pair using the column
// threshold from cfg. targets must be the columns of the matched target
// table only; never pass a wider column set.
func Columns(sources, targets []core.Column, cfg core.MatchConfig) []core.ColumnMatch {
	return All(sources, targets, cfg.ColumnThreshold, Scorer{Normalize: cfg.NormalizeNames})
}
