package lineage

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/lineagesync/pkg/core"
)

// DefaultNamespace prefixes every process key unless configured otherwise.
const DefaultNamespace = "process/lineagesync"

func tableLabel(t core.Table) string {
	return t.Connection + "-" + t.Name
}

func columnLabel(t core.Table, c core.Column) string {
	return tableLabel(t) + "-" + c.Name
}

func namespaceOrDefault(ns string) string {
	ns = strings.TrimRight(ns, "/")
	if ns == "" {
		return DefaultNamespace
	}
	return ns
}

// TableProcessKey returns the process key for a table edge:
// <namespace>/<srcConn>-<srcTable>_to_<tgtConn>-<tgtTable>.
func TableProcessKey(namespace string, source, target core.Table) string {
	return fmt.Sprintf("%s/%s_to_%s", namespaceOrDefault(namespace), tableLabel(source), tableLabel(target))
}

// ColumnProcessKey returns the process key for a column edge. It extends the
// table key with both column names.
func ColumnProcessKey(namespace string, sourceTable core.Table, source core.Column, targetTable core.Table, target core.Column) string {
	return fmt.Sprintf("%s/%s_to_%s",
		namespaceOrDefault(namespace), columnLabel(sourceTable, source), columnLabel(targetTable, target))
}

// TableEdge builds the edge for a matched table pair.
func TableEdge(namespace, processName string, source, target core.Table) core.LineageEdge {
	return core.LineageEdge{
		ProcessName: processName,
		ProcessKey:  TableProcessKey(namespace, source, target),
		Description: fmt.Sprintf("Lineage from %s to %s", tableLabel(source), tableLabel(target)),
		SourceRef:   source.ID,
		TargetRef:   target.ID,
		Kind:        core.EdgeTable,
	}
}

// ColumnEdge builds the edge for a matched column pair of a matched table pair.
func ColumnEdge(namespace, processName string, m core.TableMatch, c core.ColumnMatch) core.LineageEdge {
	return core.LineageEdge{
		ProcessName: processName,
		ProcessKey:  ColumnProcessKey(namespace, m.Source, c.Source, m.Target, c.Target),
		Description: fmt.Sprintf("Lineage from %s to %s",
			columnLabel(m.Source, c.Source), columnLabel(m.Target, c.Target)),
		SourceRef: c.Source.ID,
		TargetRef: c.Target.ID,
		Kind:      core.EdgeColumn,
	}
}

// Plan lists the edges Build would write for matches, table edge first and
// then its column edges, in match order. Nothing is written.
func Plan(namespace, processName string, matches []core.TableMatch) []core.LineageEdge {
	edges := make([]core.LineageEdge, 0, len(matches))
	for _, m := range matches {
		edges = append(edges, TableEdge(namespace, processName, m.Source, m.Target))
		for _, c := range m.Columns {
			edges = append(edges, ColumnEdge(namespace, processName, m, c))
		}
	}
	return edges
}
