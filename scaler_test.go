package insarlib

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRobustRangeLinear(t *testing.T) {
	t.Parallel()
	g := constGrid(3, 3, 5)
	r := RobustRange(g, true)
	assert.InDelta(t, -5.5, r.Min, 1e-9)
	assert.InDelta(t, 5.5, r.Max, 1e-9)
}

func TestRobustRangeAllNaN(t *testing.T) {
	t.Parallel()
	g := constGrid(2, 2, math.NaN())
	r := RobustRange(g, true)
	assert.Equal(t, ClipRange{Min: -RobustFallbackLimit, Max: RobustFallbackLimit}, r)

	r = RobustRange(g, false)
	assert.Equal(t, ClipRange{Min: -RobustFallbackLimit, Max: RobustFallbackLimit}, r)
}

func TestRobustRangeFloor(t *testing.T) {
	t.Parallel()
	g := constGrid(2, 2, 0)
	r := RobustRange(g, true)
	assert.Equal(t, -RobustLimitFloor, r.Min)
	assert.Equal(t, RobustLimitFloor, r.Max)
	assert.GreaterOrEqual(t, r.Max-r.Min, 0.1, "range width must never collapse")
}

func TestRobustRangePercentile(t *testing.T) {
	t.Parallel()
	g := NewGrid(1, 1001)
	for i := range g.Data {
		g.Data[i] = 1
	}
	g.Data[1000] = 100 // 单点离群值不应拉满色标
	r := RobustRange(g, true)
	assert.InDelta(t, -1.2, r.Min, 1e-6)
	assert.InDelta(t, 1.2, r.Max, 1e-6)
}

func TestRobustRangeAsymmetric(t *testing.T) {
	t.Parallel()
	g := NewGrid(1, 100)
	for i := range g.Data {
		g.Data[i] = float64(i + 1)
	}
	r := RobustRange(g, false)
	assert.InDelta(t, 2.98, r.Min, 1e-9)
	assert.InDelta(t, 98.02, r.Max, 1e-9)
}

func TestPercentile(t *testing.T) {
	t.Parallel()
	g := NewGrid(1, 5)
	copy(g.Data, []float64{5, 1, math.NaN(), 3, 2})
	v, ok := Percentile(g, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 2.5, v, 1e-12)

	_, ok = Percentile(constGrid(1, 2, math.NaN()), 0.98)
	assert.False(t, ok)
}
