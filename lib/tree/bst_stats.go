package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	BSTStatsName = "xtree/bst"
)

type bstStats struct {
	nodeCount      metric.Int64UpDownCounter
	duplicateCount metric.Int64Counter
	removeCount    metric.Int64Counter
	removeMissed   metric.Int64Counter
	removeCaseSets [3]attribute.Set
}

func (stats *bstStats) RecordNodeCount(delta int64) {
	if stats == nil || delta == 0 {
		return
	}
	stats.nodeCount.Add(context.Background(), delta)
}

func (stats *bstStats) IncreaseDuplicateCount() {
	if stats == nil {
		return
	}
	stats.duplicateCount.Add(context.Background(), 1)
}

func (stats *bstStats) IncreaseRemoveCount(c BSTRemoveCase) {
	if stats == nil || int(c) >= len(stats.removeCaseSets) {
		return
	}
	stats.removeCount.Add(context.Background(), 1, metric.WithAttributeSet(stats.removeCaseSets[c]))
}

func (stats *bstStats) IncreaseRemoveMissCount() {
	if stats == nil {
		return
	}
	stats.removeMissed.Add(context.Background(), 1)
}

func newBSTStats(name string) *bstStats {
	meterName := BSTStatsName
	if len(strings.TrimSpace(name)) > 0 {
		meterName = fmt.Sprintf("%s/%s", BSTStatsName, name)
	}
	meter := otel.Meter(meterName)
	stats := &bstStats{
		nodeCount: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			"xtree.bst.node.count",
			metric.WithDescription("The number of nodes in the tree."),
		)),
		duplicateCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.bst.insert.duplicate.count",
			metric.WithDescription("The number of inserts rejected by a duplicated value."),
		)),
		removeCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.bst.remove.count",
			metric.WithDescription("The number of removed nodes, by the removal case."),
		)),
		removeMissed: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.bst.remove.miss.count",
			metric.WithDescription("The number of removals of an absent value."),
		)),
	}
	for _, c := range []BSTRemoveCase{RemoveLeaf, RemoveOneChild, RemoveTwoChildren} {
		stats.removeCaseSets[c] = attribute.NewSet(attribute.String("xtree.bst.remove.case", c.String()))
	}
	return stats
}
