package commands

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/lineagesync/internal/cli/output"
	"github.com/leapstack-labs/lineagesync/internal/engine"
	"github.com/leapstack-labs/lineagesync/internal/lineage"
)

// renderSyncResult prints a run. Dry runs list every column pair; real runs
// list edge counts instead.
func renderSyncResult(cc *CommandContext, result *engine.Result) error {
	r := cc.Renderer
	if done, err := r.Structured(result); done {
		return err
	}

	title := "Lineage Sync"
	if result.DryRun {
		title = "Lineage Match (dry run)"
	}
	r.Header(1, title)
	r.KeyValue("Namespace", result.Namespace)
	r.KeyValue("Catalog", cc.Cfg.CatalogPath)
	r.KeyValue("Duration", result.Duration.Round(time.Millisecond))
	r.Println()

	for _, stage := range result.Stages {
		r.Header(2, stage.ProcessName)
		r.KeyValue("Route", fmt.Sprintf("%s -> %s", stage.Source, stage.Target))
		r.KeyValue("Tables", fmt.Sprintf("%d source, %d target", stage.SourceTables, stage.TargetTables))
		r.KeyValue("Matched tables", len(stage.Matches))
		r.KeyValue("Matched columns", stage.ColumnMatches())
		if result.DryRun {
			r.KeyValue("Planned edges", len(stage.Edges))
		}
		if stage.SkippedPairs > 0 {
			r.KeyValue("Skipped pairs", stage.SkippedPairs)
		}
		r.Println()

		rows := make([][]any, 0, len(stage.Matches))
		for _, m := range stage.Matches {
			rows = append(rows, []any{m.Source.Name, m.Target.Name, output.Percent(m.Similarity), len(m.Columns)})
		}
		r.Table([]string{"Source table", "Target table", "Similarity", "Columns"}, rows)

		if result.DryRun {
			renderColumnPairs(r, stage)
		} else {
			renderEdgeCounts(r, stage.Report)
		}
		r.Println()
	}

	if result.DryRun {
		r.Muted("Dry run: no lineage was written")
	} else {
		r.Success(fmt.Sprintf("Created %d and confirmed %d lineage processes", created(result), confirmed(result)))
	}
	return nil
}

func renderColumnPairs(r *output.Renderer, stage engine.StageResult) {
	rows := make([][]any, 0, stage.ColumnMatches())
	for _, m := range stage.Matches {
		for _, c := range m.Columns {
			rows = append(rows, []any{
				m.Source.Name + "." + c.Source.Name,
				m.Target.Name + "." + c.Target.Name,
				output.Percent(c.Score),
			})
		}
	}
	if len(rows) == 0 {
		return
	}
	r.Println()
	r.Table([]string{"Source column", "Target column", "Similarity"}, rows)
}

func renderEdgeCounts(r *output.Renderer, report lineage.Report) {
	r.Println()
	r.Table([]string{"Edges", "Created", "Confirmed", "Failed", "Skipped"}, [][]any{
		{"table", report.TableEdges.Created, report.TableEdges.Confirmed, report.TableEdges.Failed, report.TableEdges.Skipped},
		{"column", report.ColumnEdges.Created, report.ColumnEdges.Confirmed, report.ColumnEdges.Failed, report.ColumnEdges.Skipped},
	})
}

func created(result *engine.Result) int {
	n := 0
	for _, s := range result.Stages {
		n += s.Report.TableEdges.Created + s.Report.ColumnEdges.Created
	}
	return n
}

func confirmed(result *engine.Result) int {
	n := 0
	for _, s := range result.Stages {
		n += s.Report.TableEdges.Confirmed + s.Report.ColumnEdges.Confirmed
	}
	return n
}
