package objstore

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/lineagesync/internal/state"
	"github.com/leapstack-labs/lineagesync/pkg/core"
)

// Registrar is the part of the catalog a crawl writes to.
type Registrar interface {
	UpsertTable(ctx context.Context, conn *core.Connection, spec state.TableSpec) (core.Table, error)
	UpsertColumns(ctx context.Context, table core.Table, specs []state.ColumnSpec) ([]core.Column, error)
}

// Summary counts what a registration wrote.
type Summary struct {
	Connection string `json:"connection" yaml:"connection"`
	Objects    int    `json:"objects" yaml:"objects"`
	Tables     int    `json:"tables" yaml:"tables"`
	Columns    int    `json:"columns" yaml:"columns"`
	// Unsampled counts CSV objects without a usable schema.
	Unsampled int `json:"unsampled" yaml:"unsampled"`
	Failed    int `json:"failed" yaml:"failed"`
}

// Register creates a table for every CSV object with a schema. The table
// lives in database <bucket> and schema <connection name>; column order is
// the position after blank and unnamed columns were dropped.
func Register(ctx context.Context, reg Registrar, conn *core.Connection, bucket string, objects []ObjectInfo, logger *slog.Logger) (Summary, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	summary := Summary{Connection: conn.Name, Objects: len(objects)}

	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if obj.FileFormat != "csv" {
			continue
		}
		if obj.Schema == nil {
			summary.Unsampled++
			continue
		}

		table, err := reg.UpsertTable(ctx, conn, state.TableSpec{
			Name:          obj.TableName(),
			QualifiedName: conn.QualifiedName + "/" + bucket + "/" + obj.Key,
			Database:      bucket,
			Schema:        conn.Name,
			Kind:          state.KindFile,
			FileFormat:    obj.FileFormat,
			ObjectKey:     obj.Key,
			SizeBytes:     obj.Size,
		})
		if err != nil {
			summary.Failed++
			logger.Warn("failed to register table", "key", obj.Key, "error", err)
			continue
		}

		specs := make([]state.ColumnSpec, len(obj.Schema.Columns))
		for i, col := range obj.Schema.Columns {
			specs[i] = state.ColumnSpec{
				Name:     col.Name,
				DataType: col.DataType,
				Order:    core.IntPtr(i + 1),
			}
		}
		cols, err := reg.UpsertColumns(ctx, table, specs)
		if err != nil {
			summary.Failed++
			logger.Warn("failed to register columns", "key", obj.Key, "error", err)
			continue
		}

		summary.Tables++
		summary.Columns += len(cols)
		logger.Debug("registered table", "table", table.Name, "key", obj.Key, "columns", len(cols))
	}

	logger.Info("registered objects", "connection", conn.Name, "objects", summary.Objects,
		"tables", summary.Tables, "columns", summary.Columns, "unsampled", summary.Unsampled, "failed", summary.Failed)
	return summary, nil
}
