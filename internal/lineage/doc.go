// Package lineage turns matched table and column pairs into lineage edges.
//
// Every edge is materialized as a process with a deterministic key derived
// from both endpoints, so writing the same matches twice confirms the
// existing processes instead of duplicating them.
//
// # Basic Usage
//
//	b := lineage.NewBuilder(store, "process/lineagesync", logger)
//	report, err := b.Build(ctx, "PostgreSQL to S3 ETL Process", matches)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.TableEdges.Created, report.ColumnEdges.Created)
package lineage
