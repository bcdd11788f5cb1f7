package insarlib

import (
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"
)

var (
	_ palette.ColorMap = (*CyclicHueMap)(nil)
	_ palette.ColorMap = (*GrayMap)(nil)
)

// 色带区间与透明度公共状态
type mapRange struct {
	min, max float64
	alpha    float64
}

func (m *mapRange) Min() float64       { return m.min }
func (m *mapRange) SetMin(v float64)   { m.min = v }
func (m *mapRange) Max() float64       { return m.max }
func (m *mapRange) SetMax(v float64)   { m.max = v }
func (m *mapRange) Alpha() float64     { return m.alpha }
func (m *mapRange) SetAlpha(v float64) { m.alpha = v }

func (m *mapRange) unit(v float64) (t float64, err error) {
	if math.IsNaN(v) {
		err = palette.ErrNaN
		return
	}
	if v < m.min {
		err = palette.ErrUnderflow
		return
	}
	if v > m.max {
		err = palette.ErrOverflow
		return
	}
	if m.max > m.min {
		t = (v - m.min) / (m.max - m.min)
	}
	return
}

// CyclicHueMap 环形HSV色带，首尾同色，用于回卷相位
type CyclicHueMap struct {
	mapRange
}

func NewCyclicHueMap() *CyclicHueMap {
	return &CyclicHueMap{mapRange{min: -math.Pi, max: math.Pi, alpha: 1}}
}

func (m *CyclicHueMap) At(v float64) (color.Color, error) {
	t, err := m.unit(v)
	if err != nil {
		return nil, err
	}
	r, g, b := hsvToRGB(t, 1, 1)
	return color.NRGBA{R: r, G: g, B: b, A: uint8(m.alpha*255 + 0.5)}, nil
}

func (m *CyclicHueMap) Palette(n int) palette.Palette {
	return samplePalette(m, n)
}

// GrayMap 线性灰度色带，用于相干性
type GrayMap struct {
	mapRange
}

func NewGrayMap() *GrayMap {
	return &GrayMap{mapRange{max: 1, alpha: 1}}
}

func (m *GrayMap) At(v float64) (color.Color, error) {
	t, err := m.unit(v)
	if err != nil {
		return nil, err
	}
	g := uint8(t*255 + 0.5)
	return color.NRGBA{R: g, G: g, B: g, A: uint8(m.alpha*255 + 0.5)}, nil
}

func (m *GrayMap) Palette(n int) palette.Palette {
	return samplePalette(m, n)
}

type gridPalette []color.Color

func (p gridPalette) Colors() []color.Color { return p }

func samplePalette(m palette.ColorMap, n int) palette.Palette {
	if n < 2 {
		n = 2
	}
	out := make(gridPalette, n)
	span := m.Max() - m.Min()
	for i := range out {
		c, err := m.At(m.Min() + span*float64(i)/float64(n-1))
		if err != nil {
			c = color.NRGBA{A: 255}
		}
		out[i] = c
	}
	return out
}

func hsvToRGB(h, s, v float64) (r, g, b uint8) {
	i := int(math.Floor(h*6)) % 6
	f := h*6 - math.Floor(h*6)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	var rf, gf, bf float64
	switch i {
	case 0:
		rf, gf, bf = v, t, p
	case 1:
		rf, gf, bf = q, v, p
	case 2:
		rf, gf, bf = p, v, t
	case 3:
		rf, gf, bf = p, q, v
	case 4:
		rf, gf, bf = t, p, v
	default:
		rf, gf, bf = v, p, q
	}
	r = uint8(rf*255 + 0.5)
	g = uint8(gf*255 + 0.5)
	b = uint8(bf*255 + 0.5)
	return
}
