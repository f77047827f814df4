package infra

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderedKeyCompare(t *testing.T) {
	require.Equal(t, int64(-1), OrderedKeyCompare(1, 2))
	require.Equal(t, int64(1), OrderedKeyCompare(2, 1))
	require.Equal(t, int64(0), OrderedKeyCompare(7, 7))
	require.Equal(t, int64(-1), OrderedKeyCompare("a", "b"))
	require.Equal(t, int64(1), OrderedKeyCompare(math.Inf(1), math.MaxFloat64))
	require.Equal(t, int64(0), OrderedKeyCompare(uint8('x'), byte('x')))

	var cmp OrderedKeyComparator[int32] = OrderedKeyCompare[int32]
	require.Equal(t, int64(-1), cmp(-5, 0))
}
