package lineage

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/lineagesync/pkg/core"
)

// EdgeCounts tallies what happened to the edges of one kind.
type EdgeCounts struct {
	Created   int `json:"created" yaml:"created"`
	Confirmed int `json:"confirmed" yaml:"confirmed"`
	Failed    int `json:"failed" yaml:"failed"`
	// Skipped counts column edges never attempted because their table edge failed.
	Skipped int `json:"skipped" yaml:"skipped"`
}

// Total returns the number of edges accounted for.
func (c EdgeCounts) Total() int {
	return c.Created + c.Confirmed + c.Failed + c.Skipped
}

func (c *EdgeCounts) record(outcome core.EdgeOutcome) {
	switch outcome {
	case core.EdgeCreated:
		c.Created++
	case core.EdgeConfirmed:
		c.Confirmed++
	}
}

// Report summarizes one Build call.
type Report struct {
	ProcessName string     `json:"process_name" yaml:"process_name"`
	TableEdges  EdgeCounts `json:"table_edges" yaml:"table_edges"`
	ColumnEdges EdgeCounts `json:"column_edges" yaml:"column_edges"`
}

// Builder writes lineage edges for matched tables through a LineageWriter.
type Builder struct {
	writer    core.LineageWriter
	namespace string
	logger    *slog.Logger
}

// NewBuilder creates a builder. An empty namespace uses DefaultNamespace and
// a nil logger discards output.
func NewBuilder(writer core.LineageWriter, namespace string, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{
		writer:    writer,
		namespace: namespaceOrDefault(namespace),
		logger:    logger,
	}
}

// Namespace returns the process key namespace in use.
func (b *Builder) Namespace() string {
	return b.namespace
}

// Build writes one table edge per match followed by its column edges.
//
// A column edge is only attempted after its table edge was created or
// confirmed. Individual write failures are logged and counted; they do not
// stop the build. The only error returned is the context's.
func (b *Builder) Build(ctx context.Context, processName string, matches []core.TableMatch) (Report, error) {
	report := Report{ProcessName: processName}

	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		edge := TableEdge(b.namespace, processName, m.Source, m.Target)
		outcome, err := b.writer.CreateOrConfirmEdge(ctx, edge)
		if err != nil {
			report.TableEdges.Failed++
			report.ColumnEdges.Skipped += len(m.Columns)
			b.logger.Warn("failed to write table lineage, skipping its columns",
				"process_key", edge.ProcessKey,
				"columns", len(m.Columns),
				"error", err)
			continue
		}
		report.TableEdges.record(outcome)
		b.logger.Debug("table lineage written", "process_key", edge.ProcessKey, "outcome", outcome.String())

		for _, c := range m.Columns {
			colEdge := ColumnEdge(b.namespace, processName, m, c)
			outcome, err := b.writer.CreateOrConfirmEdge(ctx, colEdge)
			if err != nil {
				report.ColumnEdges.Failed++
				b.logger.Warn("failed to write column lineage",
					"process_key", colEdge.ProcessKey,
					"error", err)
				continue
			}
			report.ColumnEdges.record(outcome)
			b.logger.Debug("column lineage written", "process_key", colEdge.ProcessKey, "outcome", outcome.String())
		}
	}

	b.logger.Info("lineage built",
		"process", processName,
		"tables_created", report.TableEdges.Created,
		"tables_confirmed", report.TableEdges.Confirmed,
		"tables_failed", report.TableEdges.Failed,
		"columns_created", report.ColumnEdges.Created,
		"columns_confirmed", report.ColumnEdges.Confirmed,
		"columns_failed", report.ColumnEdges.Failed,
		"columns_skipped", report.ColumnEdges.Skipped)

	return report, nil
}
