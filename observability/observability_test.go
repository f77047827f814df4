package observability

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/lib/tree"
)

func TestConsoleMetricsExporter(t *testing.T) {
	buf := &bytes.Buffer{}
	shutdown, err := NewConsoleMetricsExporter(buf, time.Hour, time.Second)
	require.NoError(t, err)
	require.NoError(t, InitAppStats("test"))
	require.NoError(t, InitAppStats("ignored"))
	require.NotNil(t, app)

	bst := tree.NewBSTree[int](tree.WithBSTreeStats[int]("exporter"))
	require.ErrorIs(t, bst.InsertAll(4, 2, 5, 1, 3, 3), tree.ErrDuplicateValue)
	require.True(t, bst.Remove(4))

	require.NoError(t, shutdown(context.Background()))
	out := buf.String()
	require.Contains(t, out, "xtree/bst/exporter")
	require.Contains(t, out, "xtree.bst.node.count")
	require.Contains(t, out, "xtree.bst.insert.duplicate.count")
	require.Contains(t, out, "xtree.bst.remove.count")
	require.Contains(t, out, "two-children")
	require.Contains(t, out, "app.core.goroutines")
}

func TestPrometheusMetricsExporter(t *testing.T) {
	shutdown, err := NewPrometheusMetricsExporter()
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
