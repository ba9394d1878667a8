package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlices(t *testing.T) {
	require.Equal(t, 6, Sum([]int{1, 2, 3}))
	require.Equal(t, uint8(0), Sum([]uint8{}))
	require.True(t, AllNonNegative([]int{0, 1, 2}))
	require.False(t, AllNonNegative([]int{0, -1}))

	m := Matrix[int](2, 3)
	require.Len(t, m, 2)
	require.Len(t, m[1], 3)
}
