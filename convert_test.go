package insarlib

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleGrid(t *testing.T) {
	t.Parallel()
	g := NewGrid(1, 3)
	g.Data[0] = 2
	g.Data[1] = math.NaN()
	g.Data[2] = -0.5
	out := ScaleGrid(g, LosScale)
	assert.InDelta(t, 2*LosScale, out.Data[0], 1e-15)
	assert.True(t, math.IsNaN(out.Data[1]))
	assert.InDelta(t, -0.5*LosScale, out.Data[2], 1e-15)
	assert.Equal(t, 2.0, g.Data[0], "source grid must stay untouched")
}

func TestWrapValue(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1, 1},
		{math.Pi, -math.Pi},
		{-math.Pi, -math.Pi},
		{3 * math.Pi, -math.Pi},
		{2.5 * math.Pi, 0.5 * math.Pi},
		{-2.5 * math.Pi, -0.5 * math.Pi},
		{7.5, 7.5 - 2*math.Pi},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, wrapValue(c.in), 1e-12, "wrap(%v)", c.in)
	}
	assert.True(t, math.IsNaN(wrapValue(math.NaN())))
}

func TestWrapPhaseIdempotentInRange(t *testing.T) {
	t.Parallel()
	g := NewGrid(1, 9)
	for i := range g.Data {
		g.Data[i] = float64(i-4) * 2.3
	}
	once := WrapPhase(g)
	twice := WrapPhase(once)
	for i, v := range once.Data {
		assert.GreaterOrEqual(t, v, -math.Pi)
		assert.Less(t, v, math.Pi)
		assert.InDelta(t, v, twice.Data[i], 1e-12, "wrapping must be idempotent")
	}
}

func TestConvertAzimuth(t *testing.T) {
	t.Parallel()
	g := NewGrid(1, 3)
	g.Data[0] = -190
	g.Data[1] = 0
	g.Data[2] = math.NaN()
	out := ConvertAzimuth(g)
	assert.InDelta(t, 10, out.Data[0], 1e-12)
	assert.InDelta(t, -180, out.Data[1], 1e-12)
	assert.True(t, math.IsNaN(out.Data[2]))
}

func TestDecomposeUnitNorm(t *testing.T) {
	t.Parallel()
	look := NewGrid(2, 3)
	az := NewGrid(2, 3)
	looks := []float64{15, 30, 33.7, 41, 45.9, 28.4}
	azs := []float64{10, -12.3, 102, -168, 77.7, 0.4}
	copy(look.Data, looks)
	copy(az.Data, azs)

	e, n, u, err := Decompose(look, az)
	require.NoError(t, err)
	for i := range look.Data {
		norm := e.Data[i]*e.Data[i] + n.Data[i]*n.Data[i] + u.Data[i]*u.Data[i]
		assert.InDelta(t, 1, norm, 1e-6, "unit vector at %d", i)
	}
	// 视角15度、方位角10度的符号约定
	assert.InDelta(t, -math.Sin(10*degToRad)*math.Sin(15*degToRad), e.Data[0], 1e-12)
	assert.InDelta(t, -math.Cos(10*degToRad)*math.Sin(15*degToRad), n.Data[0], 1e-12)
	assert.InDelta(t, math.Cos(15*degToRad), u.Data[0], 1e-12)
}

func TestDecomposeNaNAndShape(t *testing.T) {
	t.Parallel()
	look := NewGrid(1, 2)
	look.Data[0] = math.NaN()
	look.Data[1] = 30
	az := NewGrid(1, 2)
	az.Data[0] = 10
	az.Data[1] = math.NaN()

	e, n, u, err := Decompose(look, az)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(e.Data[0]))
	assert.True(t, math.IsNaN(n.Data[0]))
	assert.True(t, math.IsNaN(u.Data[0]))
	assert.True(t, math.IsNaN(e.Data[1]))
	assert.False(t, math.IsNaN(u.Data[1]), "U depends on look angle only")

	_, _, _, err = Decompose(look, NewGrid(2, 2))
	assert.ErrorIs(t, err, ErrRasterShape)
}

func TestMeanAzimuth(t *testing.T) {
	t.Parallel()
	g := NewGrid(1, 5)
	copy(g.Data, []float64{-10, 0, 180, math.NaN(), 20})
	assert.InDelta(t, 5, MeanAzimuth(g), 1e-12)

	deg := NewGrid(1, 4)
	copy(deg.Data, []float64{0, 180, -180, math.NaN()})
	assert.Equal(t, 0.0, MeanAzimuth(deg), "all-degenerate input defaults to 0")
}

func TestDirectionLabel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, DIR_ASCENDING, DirectionLabel(5))
	assert.Equal(t, DIR_ASCENDING, DirectionLabel(0))
	assert.Equal(t, DIR_DESCENDING, DirectionLabel(-0.1))
}
