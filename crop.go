package insarlib

// 计算经纬度范围对应的像元窗口，span为[minLon,maxLon,minLat,maxLat]，两端均含。
// 选区为空时回退到全幅窗口并返回false，由调用方决定是否告警
func ComputeWindow(lons, lats []float64, span [4]float64) (win Window, ok bool) {
	x0, x1 := matchRange(lons, span[0], span[1])
	y0, y1 := matchRange(lats, span[2], span[3])
	if x0 < 0 || y0 < 0 {
		win = FullWindow(len(lats), len(lons))
		return
	}
	win = Window{X0: x0, X1: x1 + 1, Y0: y0, Y1: y1 + 1}
	ok = true
	return
}

// 单调坐标向量上的含端点区间匹配，返回首末下标；无命中返回-1
func matchRange(vec []float64, lo, hi float64) (first, last int) {
	first, last = -1, -1
	for i, v := range vec {
		if v >= lo && v <= hi {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return
}

// 窗口内栅格拷贝，原栅格不变
func (w Window) Slice(g Grid) Grid {
	rows, cols := w.Height(), w.Width()
	out := NewGrid(rows, cols)
	for i := 0; i < rows; i++ {
		lo := (w.Y0+i)*g.Cols + w.X0
		copy(out.Data[i*cols:(i+1)*cols], g.Data[lo:lo+cols])
	}
	return out
}

func (w Window) SliceLons(lons []float64) []float64 {
	return copyRange(lons, w.X0, w.X1)
}

func (w Window) SliceLats(lats []float64) []float64 {
	return copyRange(lats, w.Y0, w.Y1)
}

func copyRange(v []float64, lo, hi int) []float64 {
	out := make([]float64, hi-lo)
	copy(out, v[lo:hi])
	return out
}

// 按窗口裁剪整套栅格，nil成员保持nil；参考系原样保留，写出时原点会按裁剪后坐标重置
func (s RasterSet) Crop(win Window) (out RasterSet) {
	crop := func(r *GeoRaster) *GeoRaster {
		if r == nil {
			return nil
		}
		return &GeoRaster{Grid: win.Slice(r.Grid), Ref: r.Ref}
	}
	out.Unwrapped = crop(s.Unwrapped)
	out.Coherence = crop(s.Coherence)
	out.Look = crop(s.Look)
	out.Azimuth = crop(s.Azimuth)
	out.AzOffset = crop(s.AzOffset)
	out.RgOffset = crop(s.RgOffset)
	out.SNR = crop(s.SNR)
	return
}
