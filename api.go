package insarlib

import "math"

// 经纬度坐标点
type LonLat struct {
	Lon float64
	Lat float64
}

// 以中心点和半宽生成经纬度范围 [minLon, maxLon, minLat, maxLat]
func (p LonLat) Span(halfWidth float64) (span [4]float64) {
	span[0] = p.Lon - halfWidth
	span[1] = p.Lon + halfWidth
	span[2] = p.Lat - halfWidth
	span[3] = p.Lat + halfWidth
	return
}

// 行主序二维栅格数组，第0行为最北行，NaN为无效值
type Grid struct {
	Rows int
	Cols int
	Data []float64
}

func NewGrid(rows, cols int) Grid {
	return Grid{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

func (g Grid) At(i, j int) float64 {
	return g.Data[i*g.Cols+j]
}

func (g Grid) Set(i, j int, v float64) {
	g.Data[i*g.Cols+j] = v
}

func (g Grid) IsEmpty() bool {
	return len(g.Data) == 0
}

func (g Grid) SameShape(o Grid) bool {
	return g.Rows == o.Rows && g.Cols == o.Cols
}

func (g Grid) Clone() Grid {
	c := Grid{Rows: g.Rows, Cols: g.Cols, Data: make([]float64, len(g.Data))}
	copy(c.Data, g.Data)
	return c
}

// 有效（非NaN）值列表
func (g Grid) ValidValues() []float64 {
	vs := make([]float64, 0, len(g.Data))
	for _, v := range g.Data {
		if !math.IsNaN(v) {
			vs = append(vs, v)
		}
	}
	return vs
}

// 地理参考元信息，随栅格传递且不可变：仿射变换参数与投影描述
type GeoRef struct {
	Transform  [6]float64 // (originLon, pixelWidthLon, 0, originLat, 0, pixelHeightLat)，纬向步长为负（北向上）
	Projection string
}

// 按仿射参数推导经度坐标向量
func (r GeoRef) Lons(cols int) []float64 {
	vs := make([]float64, cols)
	for i := range vs {
		vs[i] = r.Transform[0] + float64(i)*r.Transform[1]
	}
	return vs
}

// 按仿射参数推导纬度坐标向量
func (r GeoRef) Lats(rows int) []float64 {
	vs := make([]float64, rows)
	for j := range vs {
		vs[j] = r.Transform[3] + float64(j)*r.Transform[5]
	}
	return vs
}

// 地理参考栅格
type GeoRaster struct {
	Grid Grid
	Ref  GeoRef
}

// 一次后处理所需的全部输入栅格，除解缠相位外均可缺失
type RasterSet struct {
	Unwrapped *GeoRaster // 解缠相位（必需）
	Coherence *GeoRaster // 相干性
	Look      *GeoRaster // 入射角（度）
	Azimuth   *GeoRaster // 方位角原始值（度）
	AzOffset  *GeoRaster // 方位向偏移（像素）
	RgOffset  *GeoRaster // 距离向偏移（像素）
	SNR       *GeoRaster // 偏移量信噪比
}

// 像素索引窗口，半开区间 [X0,X1)x[Y0,Y1)
type Window struct {
	X0 int
	X1 int
	Y0 int
	Y1 int
}

func FullWindow(rows, cols int) Window {
	return Window{X1: cols, Y1: rows}
}

func (w Window) Width() int {
	return w.X1 - w.X0
}

func (w Window) Height() int {
	return w.Y1 - w.Y0
}

// 无效像元掩膜，true表示该像元在产品中应置为NaN
type Mask struct {
	Rows int
	Cols int
	Bits []bool
}

func NewMask(rows, cols int) Mask {
	return Mask{Rows: rows, Cols: cols, Bits: make([]bool, rows*cols)}
}

func (m Mask) Clone() Mask {
	c := Mask{Rows: m.Rows, Cols: m.Cols, Bits: make([]bool, len(m.Bits))}
	copy(c.Bits, m.Bits)
	return c
}

// 显示拉伸范围，仅用于出图，不改变数据本身
type ClipRange struct {
	Min float64
	Max float64
}
