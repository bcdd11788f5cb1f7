package insarlib

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/palette"
)

func TestCyclicHueMapEndpoints(t *testing.T) {
	t.Parallel()
	m := NewCyclicHueMap()
	assert.Equal(t, -math.Pi, m.Min())
	assert.Equal(t, math.Pi, m.Max())

	red := color.NRGBA{R: 255, A: 255}
	lo, err := m.At(-math.Pi)
	require.NoError(t, err)
	hi, err := m.At(math.Pi)
	require.NoError(t, err)
	// 回卷相位在±π处应闭合为同一颜色
	assert.Equal(t, red, lo)
	assert.Equal(t, red, hi)
}

func TestCyclicHueMapErrors(t *testing.T) {
	t.Parallel()
	m := NewCyclicHueMap()
	_, err := m.At(math.NaN())
	assert.ErrorIs(t, err, palette.ErrNaN)
	_, err = m.At(-4)
	assert.ErrorIs(t, err, palette.ErrUnderflow)
	_, err = m.At(4)
	assert.ErrorIs(t, err, palette.ErrOverflow)
}

func TestGrayMap(t *testing.T) {
	t.Parallel()
	m := NewGrayMap()
	black, err := m.At(0)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{A: 255}, black)

	white, err := m.At(1)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, white)

	mid, err := m.At(0.5)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, mid)
}

func TestGrayMapRescale(t *testing.T) {
	t.Parallel()
	m := NewGrayMap()
	m.SetMin(10)
	m.SetMax(30)
	c, err := m.At(20)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, c)
}

func TestPaletteSampling(t *testing.T) {
	t.Parallel()
	p := NewGrayMap().Palette(5).Colors()
	require.Len(t, p, 5)
	assert.Equal(t, color.NRGBA{A: 255}, p[0])
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, p[4])

	assert.Len(t, NewCyclicHueMap().Palette(1).Colors(), 2)
}

func TestHsvToRGBPrimaries(t *testing.T) {
	t.Parallel()
	r, g, b := hsvToRGB(0, 1, 1)
	assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})
	r, g, b = hsvToRGB(1.0/3, 1, 1)
	assert.Equal(t, [3]uint8{0, 255, 0}, [3]uint8{r, g, b})
	r, g, b = hsvToRGB(2.0/3, 1, 1)
	assert.Equal(t, [3]uint8{0, 0, 255}, [3]uint8{r, g, b})
}
