package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectInt64Sums(t *testing.T, reader metric.Reader) map[string]metricdata.Sum[int64] {
	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	sums := make(map[string]metricdata.Sum[int64], 8)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				sums[m.Name] = sum
			}
		}
	}
	return sums
}

func sumOf(sum metricdata.Sum[int64], kv ...attribute.KeyValue) int64 {
	want := attribute.NewSet(kv...)
	total := int64(0)
	for _, dp := range sum.DataPoints {
		if len(kv) == 0 || dp.Attributes.Equals(&want) {
			total += dp.Value
		}
	}
	return total
}

func TestBSTreeStats(t *testing.T) {
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))
	otel.SetMeterProvider(mp)
	defer func() {
		_ = mp.Shutdown(context.Background())
	}()

	tree := NewBSTree[int](WithBSTreeStats[int]("test"))
	require.Error(t, tree.InsertAll(4, 2, 5, 1, 3, 4, 2))
	require.True(t, tree.Remove(1))  // leaf
	require.True(t, tree.Remove(2))  // one child
	require.True(t, tree.Remove(4))  // two children
	require.False(t, tree.Remove(9)) // absent

	sums := collectInt64Sums(t, reader)
	require.Equal(t, int64(2), sumOf(sums["xtree.bst.node.count"]))
	require.Equal(t, int64(2), sumOf(sums["xtree.bst.insert.duplicate.count"]))
	require.Equal(t, int64(1), sumOf(sums["xtree.bst.remove.miss.count"]))
	removes := sums["xtree.bst.remove.count"]
	require.Equal(t, int64(3), sumOf(removes))
	require.Equal(t, int64(1), sumOf(removes, attribute.String("xtree.bst.remove.case", "leaf")))
	require.Equal(t, int64(1), sumOf(removes, attribute.String("xtree.bst.remove.case", "one-child")))
	require.Equal(t, int64(1), sumOf(removes, attribute.String("xtree.bst.remove.case", "two-children")))

	tree.Release()
	sums = collectInt64Sums(t, reader)
	require.Equal(t, int64(0), sumOf(sums["xtree.bst.node.count"]))
}

func TestBSTreeNilStats(t *testing.T) {
	var stats *bstStats
	stats.RecordNodeCount(1)
	stats.IncreaseDuplicateCount()
	stats.IncreaseRemoveCount(RemoveLeaf)
	stats.IncreaseRemoveMissCount()
	require.Nil(t, stats)
}
