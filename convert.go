package insarlib

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const degToRad = math.Pi / 180

// 栅格整体乘以系数，NaN保持NaN
func ScaleGrid(g Grid, scale float64) (out Grid) {
	out = g.Clone()
	for i, v := range out.Data {
		out.Data[i] = v * scale
	}
	return
}

// 解缠相位回卷到[-π,π)，按原始弧度值计算
func WrapPhase(g Grid) (out Grid) {
	out = g.Clone()
	for i, v := range out.Data {
		out.Data[i] = wrapValue(v)
	}
	return
}

func wrapValue(x float64) float64 {
	m := math.Mod(x+math.Pi, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}
	return m - math.Pi
}

// 原始方位角转航向角：-raw-180
func ConvertAzimuth(g Grid) (out Grid) {
	out = g.Clone()
	for i, v := range out.Data {
		out.Data[i] = -v - 180
	}
	return
}

// 视线向单位向量分解为东北天分量，look与azimuth均为角度制
func Decompose(look, azimuth Grid) (e, n, u Grid, err error) {
	if !look.SameShape(azimuth) {
		err = ErrRasterShape
		return
	}
	e = NewGrid(look.Rows, look.Cols)
	n = NewGrid(look.Rows, look.Cols)
	u = NewGrid(look.Rows, look.Cols)
	for i, lk := range look.Data {
		theta := lk * degToRad
		alpha := azimuth.Data[i] * degToRad
		sinT := math.Sin(theta)
		e.Data[i] = -math.Sin(alpha) * sinT
		n.Data[i] = -math.Cos(alpha) * sinT
		u.Data[i] = math.Cos(theta)
	}
	return
}

// 平均航向角，剔除0、±180与NaN后取均值，无有效像元时为0
func MeanAzimuth(azimuth Grid) float64 {
	valid := make([]float64, 0, len(azimuth.Data))
	for _, v := range azimuth.Data {
		if v == 0 || v == 180 || v == -180 || math.IsNaN(v) {
			continue
		}
		valid = append(valid, v)
	}
	if len(valid) == 0 {
		return 0
	}
	return stat.Mean(valid, nil)
}

// 轨道方向标签，平均航向角非负视为升轨
func DirectionLabel(meanAzimuth float64) string {
	if meanAzimuth >= 0 {
		return DIR_ASCENDING
	}
	return DIR_DESCENDING
}
