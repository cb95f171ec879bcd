package indicator

import (
	"testing"

	"github.com/quantware/finfeat/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSI_FirstRowIsNull(t *testing.T) {
	tbl := closeTable(
		series{"AAA", []float64{10, 11, 12}},
		series{"BBB", []float64{5, 4}},
	)
	out, err := RSI(tbl, core.ColClose, 14)
	require.NoError(t, err)

	_, ok := out.Float("RSI_14", 0)
	assert.False(t, ok, "no delta exists for a ticker's first row")
	_, ok = out.Float("RSI_14", 3)
	assert.False(t, ok, "chains reset at the ticker boundary")
	_, ok = out.Float("RSI_14", 1)
	assert.True(t, ok)
}

func TestRSI_AllGainsIsExactly100(t *testing.T) {
	tbl := closeTable(series{"AAA", []float64{10, 11, 12, 13, 14}})
	out, err := RSI(tbl, core.ColClose, 14)
	require.NoError(t, err)

	for i := 1; i < out.Len(); i++ {
		v, ok := out.Float("RSI_14", i)
		require.True(t, ok)
		assert.Equal(t, 100.0, v, "row %d: zero average loss with gains must resolve to 100, not a non-finite ratio", i)
	}
}

// Flat tape: both averages are zero. The 0/0 case resolves to the
// neutral 50 by policy.
func TestRSI_FlatTapeIsNeutral(t *testing.T) {
	tbl := closeTable(series{"AAA", []float64{7, 7, 7, 7}})
	out, err := RSI(tbl, core.ColClose, 14)
	require.NoError(t, err)

	for i := 1; i < out.Len(); i++ {
		v, ok := out.Float("RSI_14", i)
		require.True(t, ok)
		assert.Equal(t, 50.0, v, "row %d", i)
	}
}

func TestRSI_Bounded(t *testing.T) {
	closes := []float64{10, 10.4, 10.1, 10.8, 10.2, 9.9, 10.5, 11.2, 10.7, 10.9, 11.4, 11.1}
	tbl := closeTable(series{"AAA", closes})
	out, err := RSI(tbl, core.ColClose, 5)
	require.NoError(t, err)

	for i := 1; i < out.Len(); i++ {
		v, ok := out.Float("RSI_5", i)
		require.True(t, ok)
		assert.GreaterOrEqual(t, v, 0.0, "row %d", i)
		assert.LessOrEqual(t, v, 100.0, "row %d", i)
	}
}

func TestRSI_SmoothedAverages(t *testing.T) {
	// closes 10, 11, 10.5: deltas +1, -0.5.
	// With window 14 (alpha 2/15):
	//   avg gain chain: 1, 13/15
	//   avg loss chain: 0, 1/15
	// Row 1: loss 0, gain > 0 -> 100.
	// Row 2: RS = 13, RSI = 100 - 100/14.
	tbl := closeTable(series{"AAA", []float64{10, 11, 10.5}})
	out, err := RSI(tbl, core.ColClose, 14)
	require.NoError(t, err)

	v1, ok := out.Float("RSI_14", 1)
	require.True(t, ok)
	assert.Equal(t, 100.0, v1)

	v2, ok := out.Float("RSI_14", 2)
	require.True(t, ok)
	assert.InDelta(t, 100.0-100.0/14.0, v2, 1e-12)
}

func TestRSI_SingleRowPartition(t *testing.T) {
	tbl := closeTable(series{"AAA", []float64{42}})
	out, err := RSI(tbl, core.ColClose, 14)
	require.NoError(t, err)

	_, ok := out.Float("RSI_14", 0)
	assert.False(t, ok)
}

func TestRSI_InvalidInputs(t *testing.T) {
	tbl := closeTable(series{"AAA", []float64{1, 2}})
	_, err := RSI(tbl, core.ColClose, 0)
	assert.Error(t, err)
	_, err = RSI(tbl, "MISSING", 14)
	assert.ErrorIs(t, err, core.ErrColumnMissing)
}
