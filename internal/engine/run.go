package engine

// run.go - Two-stage orchestration

import (
	"context"
	"time"

	"github.com/leapstack-labs/lineagesync/internal/lineage"
	"github.com/leapstack-labs/lineagesync/internal/match"
	"github.com/leapstack-labs/lineagesync/pkg/core"
)

// StageResult describes one source -> target stage of a run.
type StageResult struct {
	ProcessName  string            `json:"process_name" yaml:"process_name"`
	Source       string            `json:"source" yaml:"source"`
	Target       string            `json:"target" yaml:"target"`
	SourceTables int               `json:"source_tables" yaml:"source_tables"`
	TargetTables int               `json:"target_tables" yaml:"target_tables"`
	Matches      []core.TableMatch `json:"matches" yaml:"matches"`
	// SkippedPairs counts matched table pairs dropped because either side
	// had no columns or its columns could not be listed.
	SkippedPairs int `json:"skipped_pairs" yaml:"skipped_pairs"`
	// Edges is the lineage the stage writes (or would write in a dry run).
	Edges  []core.LineageEdge `json:"edges,omitempty" yaml:"edges,omitempty"`
	Report lineage.Report     `json:"report" yaml:"report"`
}

// ColumnMatches returns the number of column pairs across all matches.
func (s StageResult) ColumnMatches() int {
	n := 0
	for _, m := range s.Matches {
		n += len(m.Columns)
	}
	return n
}

// Result is the outcome of Run.
type Result struct {
	DryRun    bool          `json:"dry_run" yaml:"dry_run"`
	Namespace string        `json:"namespace" yaml:"namespace"`
	Stages    []StageResult `json:"stages" yaml:"stages"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Run executes both stages.
//
// The three connections must resolve; otherwise a *core.ConfigurationError is
// returned and nothing is written. The object store's tables and columns are
// listed once and serve as the target of the first stage and the source of
// the second. All other collaborator failures are logged and skipped.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	e.logger.Info("starting sync", "dry_run", e.cfg.DryRun)

	conns := e.cfg.Connections
	source, err := e.reader.Resolve(ctx, conns.Source, "source")
	if err != nil {
		return nil, err
	}
	objectStore, err := e.reader.Resolve(ctx, conns.ObjectStore, "object store")
	if err != nil {
		return nil, err
	}
	warehouse, err := e.reader.Resolve(ctx, conns.Warehouse, "warehouse")
	if err != nil {
		return nil, err
	}

	sourceTables := e.reader.Tables(ctx, source)
	objectTables := e.reader.Tables(ctx, objectStore)
	warehouseTables := e.reader.Tables(ctx, warehouse)

	result := &Result{DryRun: e.cfg.DryRun, Namespace: e.cfg.Namespace}

	stages := []struct {
		process        string
		source, target *core.Connection
		from, to       []core.Table
	}{
		{e.cfg.Stages.SourceToObjectStore, source, objectStore, sourceTables, objectTables},
		{e.cfg.Stages.ObjectStoreToWarehouse, objectStore, warehouse, objectTables, warehouseTables},
	}

	for _, st := range stages {
		stage, err := e.runStage(ctx, st.process, st.source, st.target, st.from, st.to)
		if err != nil {
			return result, err
		}
		result.Stages = append(result.Stages, stage)
	}

	result.Duration = time.Since(start)
	e.logger.Info("sync completed", "dry_run", e.cfg.DryRun, "duration", result.Duration)
	return result, nil
}

func (e *Engine) runStage(ctx context.Context, process string, source, target *core.Connection, from, to []core.Table) (StageResult, error) {
	stage := StageResult{
		ProcessName:  process,
		Source:       source.Name,
		Target:       target.Name,
		SourceTables: len(from),
		TargetTables: len(to),
	}

	e.logger.Debug("matching tables", "process", process, "sources", len(from), "targets", len(to))
	pairs := match.Tables(from, to, e.cfg.Match)
	e.logger.Info("matched tables", "process", process, "pairs", len(pairs))

	matches, skipped, err := e.matchColumns(ctx, pairs)
	if err != nil {
		return stage, err
	}
	stage.Matches = matches
	stage.SkippedPairs = skipped
	stage.Edges = lineage.Plan(e.cfg.Namespace, process, matches)

	if e.cfg.DryRun {
		stage.Report = lineage.Report{ProcessName: process}
		return stage, nil
	}

	report, err := e.builder.Build(ctx, process, matches)
	stage.Report = report
	return stage, err
}

// matchColumns pairs the columns of each matched table pair. Target columns
// are always those of the pair's own target table.
func (e *Engine) matchColumns(ctx context.Context, pairs []core.Pair[core.Table]) ([]core.TableMatch, int, error) {
	matches := make([]core.TableMatch, 0, len(pairs))
	skipped := 0

	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return matches, skipped, err
		}

		srcCols, err := e.reader.Columns(ctx, p.Source)
		if err != nil {
			e.logger.Warn("skipping table pair", "source", p.Source.Name, "target", p.Target.Name, "error", err)
			skipped++
			continue
		}
		tgtCols, err := e.reader.Columns(ctx, p.Target)
		if err != nil {
			e.logger.Warn("skipping table pair", "source", p.Source.Name, "target", p.Target.Name, "error", err)
			skipped++
			continue
		}
		if len(srcCols) == 0 || len(tgtCols) == 0 {
			e.logger.Warn("skipping table pair with missing columns",
				"source", p.Source.Name, "source_columns", len(srcCols),
				"target", p.Target.Name, "target_columns", len(tgtCols))
			skipped++
			continue
		}

		cols := match.Columns(srcCols, tgtCols, e.cfg.Match)
		e.logger.Debug("matched columns", "source", p.Source.Name, "target", p.Target.Name, "pairs", len(cols))

		matches = append(matches, core.TableMatch{
			Source:     p.Source,
			Target:     p.Target,
			Similarity: p.Score,
			Columns:    cols,
		})
	}

	return matches, skipped, nil
}
