package insarlib

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// 稳健色标范围：小值域按最大绝对值线性放大，大值域按高分位裁剪离群值，全NaN退化为±0.1。
// symmetric为false时直接取2%与98%分位作为区间，不做对称化与下限保护
func RobustRange(g Grid, symmetric bool) ClipRange {
	valid := g.ValidValues()
	if len(valid) == 0 {
		return ClipRange{Min: -RobustFallbackLimit, Max: RobustFallbackLimit}
	}
	if !symmetric {
		sort.Float64s(valid)
		return ClipRange{
			Min: stat.Quantile(0.02, stat.LinInterp, valid, nil),
			Max: stat.Quantile(0.98, stat.LinInterp, valid, nil),
		}
	}
	maxAbs := 0.0
	for i, v := range valid {
		a := math.Abs(v)
		valid[i] = a
		if a > maxAbs {
			maxAbs = a
		}
	}
	var limit float64
	if maxAbs <= RobustLinearMax {
		limit = maxAbs * RobustLinearHeadroom
	} else {
		sort.Float64s(valid)
		limit = stat.Quantile(0.999, stat.LinInterp, valid, nil) * RobustPercentileHeadroom
	}
	if limit < RobustLimitFloor {
		limit = RobustLimitFloor
	}
	return ClipRange{Min: -limit, Max: limit}
}

// 数据的上分位值，无有效像元时ok为false
func Percentile(g Grid, p float64) (v float64, ok bool) {
	valid := g.ValidValues()
	if len(valid) == 0 {
		return
	}
	sort.Float64s(valid)
	v = stat.Quantile(p, stat.LinInterp, valid, nil)
	ok = true
	return
}
