package insarlib

import "math"

// 几何失效掩膜：雷达视角为0或LOS位移为NaN的像元；look缺失时仅按NaN判定
func GeometryMask(los Grid, look *Grid) (m Mask) {
	m = NewMask(los.Rows, los.Cols)
	for i, v := range los.Data {
		m.Bits[i] = math.IsNaN(v)
	}
	if look != nil {
		for i, v := range look.Data {
			if v == 0 {
				m.Bits[i] = true
			}
		}
	}
	return
}

// 质量掩膜：相干性低于阈值或几何失效；相干性缺失时退化为几何掩膜。
// NaN相干性与阈值比较恒为false，不会单凭NaN触发剔除
func QualityMask(geom Mask, coh *Grid, threshold float64) (m Mask) {
	m = geom.Clone()
	if coh == nil {
		return
	}
	for i, v := range coh.Data {
		if v < threshold {
			m.Bits[i] = true
		}
	}
	return
}

// 零视角掩膜，只剔除look==0的像元
func ZeroMask(look Grid) (m Mask) {
	m = NewMask(look.Rows, look.Cols)
	for i, v := range look.Data {
		m.Bits[i] = v == 0
	}
	return
}

// 掩膜后的栅格拷贝，命中像元置NaN，原栅格不变
func (g Grid) Masked(m Mask) (out Grid) {
	out = g.Clone()
	for i, hit := range m.Bits {
		if hit {
			out.Data[i] = math.NaN()
		}
	}
	return
}

func (m Mask) Count() (n int) {
	for _, hit := range m.Bits {
		if hit {
			n++
		}
	}
	return
}
