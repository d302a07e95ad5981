package planar

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func TestPlanarize(t *testing.T) {
	in := []int{1, 11, 2, 12, 3, 13, 4, 14}
	planes, err := Planarize(2, in)
	require.NoError(t, err)
	require.Equal(t, [][]int{{1, 2, 3, 4}, {11, 12, 13, 14}}, planes, spew.Sdump(in))

	_, err = Planarize(3, in)
	require.Error(t, err)

	_, err = Planarize(0, in)
	require.Error(t, err)
}

func TestPlanarizeFloat(t *testing.T) {
	in := []float64{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}
	planes, err := Planarize(2, in)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0.1, 0.2, 0.3}, {-0.1, -0.2, -0.3}}, planes, spew.Sdump(in))

	planes, err = Planarize(1, in)
	require.NoError(t, err)
	require.Equal(t, [][]float64{in}, planes)
}
