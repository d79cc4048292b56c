package lineage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leapstack-labs/lineagesync/internal/testutil"
	"github.com/leapstack-labs/lineagesync/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const process = "PostgreSQL to S3 ETL Process"

// customersMatch builds pg.customers -> s3.CUSTOMERS with two column matches.
func customersMatch(store *testutil.MemStore) core.TableMatch {
	pg := store.AddConnection("pg", core.ConnectorPostgres)
	s3 := store.AddConnection("s3", core.ConnectorS3)
	src := store.AddTable(pg, "customers", "id", "email")
	tgt := store.AddTable(s3, "CUSTOMERS", "ID", "EMAIL")

	srcCols, _ := store.ListColumns(context.Background(), src)
	tgtCols, _ := store.ListColumns(context.Background(), tgt)

	return core.TableMatch{
		Source:     src,
		Target:     tgt,
		Similarity: 100,
		Columns: []core.ColumnMatch{
			{Source: srcCols[0], Target: tgtCols[0], Score: 100},
			{Source: srcCols[1], Target: tgtCols[1], Score: 100},
		},
	}
}

func TestBuild_WritesTableThenColumns(t *testing.T) {
	store := testutil.NewMemStore()
	m := customersMatch(store)
	b := NewBuilder(store, "process/vv", testutil.NewTestLogger(t))

	report, err := b.Build(context.Background(), process, []core.TableMatch{m})
	require.NoError(t, err)

	assert.Equal(t, EdgeCounts{Created: 1}, report.TableEdges)
	assert.Equal(t, EdgeCounts{Created: 2}, report.ColumnEdges)

	require.Len(t, store.Writes, 3)
	assert.Equal(t, core.EdgeTable, store.Writes[0].Kind)
	assert.Equal(t, core.EdgeColumn, store.Writes[1].Kind)
	assert.Equal(t, core.EdgeColumn, store.Writes[2].Kind)

	table := store.Writes[0]
	assert.Equal(t, "process/vv/pg-customers_to_s3-CUSTOMERS", table.ProcessKey)
	assert.Equal(t, "Lineage from pg-customers to s3-CUSTOMERS", table.Description)
	assert.Equal(t, process, table.ProcessName)
	assert.Equal(t, "pg/customers", table.SourceRef)
	assert.Equal(t, "s3/CUSTOMERS", table.TargetRef)

	col := store.Writes[2]
	assert.Equal(t, "process/vv/pg-customers-email_to_s3-CUSTOMERS-EMAIL", col.ProcessKey)
	assert.Equal(t, "Lineage from pg-customers-email to s3-CUSTOMERS-EMAIL", col.Description)
	assert.Equal(t, "pg/customers/email", col.SourceRef)
	assert.Equal(t, "s3/CUSTOMERS/EMAIL", col.TargetRef)
}

func TestBuild_Idempotent(t *testing.T) {
	store := testutil.NewMemStore()
	m := customersMatch(store)
	b := NewBuilder(store, "", nil)

	first, err := b.Build(context.Background(), process, []core.TableMatch{m})
	require.NoError(t, err)
	second, err := b.Build(context.Background(), process, []core.TableMatch{m})
	require.NoError(t, err)

	assert.Equal(t, EdgeCounts{Created: 1}, first.TableEdges)
	assert.Equal(t, EdgeCounts{Confirmed: 1}, second.TableEdges)
	assert.Equal(t, EdgeCounts{Confirmed: 2}, second.ColumnEdges)
	assert.Len(t, store.Edges(""), 3, "a second run must not add edges")
}

func TestBuild_FailedTableEdgeSkipsColumns(t *testing.T) {
	store := testutil.NewMemStore()
	m := customersMatch(store)
	store.FailEdge = func(e core.LineageEdge) error {
		if e.Kind == core.EdgeTable {
			return errors.New("catalog unavailable")
		}
		return nil
	}

	report, err := NewBuilder(store, "", testutil.NewTestLogger(t)).
		Build(context.Background(), process, []core.TableMatch{m})
	require.NoError(t, err)

	assert.Equal(t, EdgeCounts{Failed: 1}, report.TableEdges)
	assert.Equal(t, EdgeCounts{Skipped: 2}, report.ColumnEdges)
	assert.Len(t, store.Writes, 1, "no column edge may be attempted")
	assert.Empty(t, store.Edges(core.EdgeColumn))
}

func TestBuild_FailedColumnEdgeContinues(t *testing.T) {
	store := testutil.NewMemStore()
	m := customersMatch(store)
	store.FailEdge = func(e core.LineageEdge) error {
		if e.SourceRef == "pg/customers/id" {
			return errors.New("rejected")
		}
		return nil
	}

	report, err := NewBuilder(store, "", nil).Build(context.Background(), process, []core.TableMatch{m})
	require.NoError(t, err)

	assert.Equal(t, EdgeCounts{Created: 1}, report.TableEdges)
	assert.Equal(t, EdgeCounts{Created: 1, Failed: 1}, report.ColumnEdges)
	assert.Equal(t, 2, report.ColumnEdges.Total())
}

func TestBuild_NoMatches(t *testing.T) {
	store := testutil.NewMemStore()
	report, err := NewBuilder(store, "", nil).Build(context.Background(), process, nil)
	require.NoError(t, err)

	assert.Zero(t, report.TableEdges.Total())
	assert.Zero(t, report.ColumnEdges.Total())
	assert.Empty(t, store.Writes)
}

func TestBuild_CanceledContext(t *testing.T) {
	store := testutil.NewMemStore()
	m := customersMatch(store)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(store, "", nil).Build(ctx, process, []core.TableMatch{m})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.Writes)
}

func TestBuild_FailureIsolatedToItsPair(t *testing.T) {
	store := testutil.NewMemStore()
	p := customersMatch(store)

	pg, _ := store.ResolveConnection(context.Background(), "pg")
	s3, _ := store.ResolveConnection(context.Background(), "s3")
	src := store.AddTable(pg, "orders", "order_id")
	tgt := store.AddTable(s3, "ORDERS", "ORDER_ID")
	srcCols, _ := store.ListColumns(context.Background(), src)
	tgtCols, _ := store.ListColumns(context.Background(), tgt)
	q := core.TableMatch{
		Source:  src,
		Target:  tgt,
		Columns: []core.ColumnMatch{{Source: srcCols[0], Target: tgtCols[0], Score: 100}},
	}

	store.FailEdge = func(e core.LineageEdge) error {
		if e.Kind == core.EdgeTable && e.SourceRef == p.Source.ID {
			return errors.New("conflict")
		}
		return nil
	}

	report, err := NewBuilder(store, "ns", nil).Build(context.Background(), process, []core.TableMatch{p, q})
	require.NoError(t, err)

	assert.Equal(t, EdgeCounts{Created: 1, Failed: 1}, report.TableEdges)
	assert.Equal(t, EdgeCounts{Created: 1, Skipped: 2}, report.ColumnEdges)

	_, ok := store.Edge("ns/pg-orders_to_s3-ORDERS")
	assert.True(t, ok)
	_, ok = store.Edge("ns/pg-orders-order_id_to_s3-ORDERS-ORDER_ID")
	assert.True(t, ok)
	for _, e := range store.Edges(core.EdgeColumn) {
		assert.False(t, strings.HasPrefix(e.SourceRef, p.Source.ID+"/"), "no column edge for the failed pair")
	}
}
