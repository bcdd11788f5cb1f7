package insarlib

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/wgdzlh/insarlib/log"

	"go.uber.org/zap"
	"gonum.org/v1/plot/palette/moreland"
)

// PostOptions 后处理选项
type PostOptions struct {
	WorkDir      string  // 工作目录，其下应有process/merged
	Center       *LonLat // 裁剪与标注中心点，空则全幅且不打标
	HalfWidth    float64 // 裁剪半宽（度）
	CohThreshold float64 // 相干性掩膜阈值
	Orbit        string  // 轨道号，仅用于出图目录命名
}

func DefaultPostOptions(workDir string) PostOptions {
	return PostOptions{
		WorkDir:      workDir,
		HalfWidth:    DefaultHalfWidth,
		CohThreshold: DefaultCohThreshold,
		Orbit:        UNKNOWN_ORBIT,
	}
}

// Products 一次后处理运行推导出的全部产品与元信息。
// Work为几何掩膜的高保真工作版（供出图），Save为叠加相干性质量掩膜的落盘版
type Products struct {
	Lons []float64
	Lats []float64
	Ref  GeoRef

	LosWork   Grid
	LosSave   Grid
	WrapWork  Grid
	WrapSave  Grid
	Coherence *Grid
	VecE      *Grid
	VecN      *Grid
	VecU      *Grid
	RgOff     *Grid
	AzOff     *Grid
	SNR       *Grid

	MeanAzimuth float64
	Direction   string
}

// LoadRasterSet 从merged目录读取全套输入栅格，解缠相位缺失为致命错误；
// 形状与解缠相位不一致的可选栅格会被丢弃并告警
func (g *GdalToolbox) LoadRasterSet(mergedDir string) (rs RasterSet, err error) {
	if _, err = os.Stat(mergedDir); err != nil {
		if os.IsNotExist(err) {
			log.Error(g.logTag+"merged dir not found", zap.String("dir", mergedDir))
			err = ErrMergedDirMissing
		}
		return
	}
	if rs.Unwrapped, err = g.ReadGeoRaster(filepath.Join(mergedDir, FILE_UNWRAPPED), BAND_UNWRAPPED); err != nil {
		return
	}
	if rs.Unwrapped == nil {
		err = ErrUnwrappedMissing
		return
	}
	base := rs.Unwrapped.Grid
	check := func(r *GeoRaster, name string) *GeoRaster {
		if r == nil || r.Grid.SameShape(base) {
			return r
		}
		log.Warn(g.logTag+"drop mismatched raster", zap.String("file", name),
			zap.Int("rows", r.Grid.Rows), zap.Int("cols", r.Grid.Cols),
			zap.Int("wantRows", base.Rows), zap.Int("wantCols", base.Cols))
		return nil
	}
	var r *GeoRaster
	if r, err = g.ReadGeoRaster(filepath.Join(mergedDir, FILE_COHERENCE), BAND_COHERENCE); err != nil {
		return
	}
	rs.Coherence = check(r, FILE_COHERENCE)
	geomPath := filepath.Join(mergedDir, FILE_GEOMETRY)
	if r, err = g.ReadGeoRaster(geomPath, BAND_LOOK); err != nil {
		return
	}
	rs.Look = check(r, FILE_GEOMETRY)
	if rs.Look != nil {
		if r, err = g.ReadGeoRaster(geomPath, BAND_AZIMUTH); err != nil {
			return
		}
		rs.Azimuth = check(r, FILE_GEOMETRY)
	}
	offPath := filepath.Join(mergedDir, FILE_OFFSETS)
	if r, err = g.ReadGeoRaster(offPath, BAND_OFF_AZ); err != nil {
		return
	}
	rs.AzOffset = check(r, FILE_OFFSETS)
	if rs.AzOffset != nil {
		if r, err = g.ReadGeoRaster(offPath, BAND_OFF_RG); err != nil {
			return
		}
		rs.RgOffset = check(r, FILE_OFFSETS)
	}
	if r, err = g.ReadGeoRaster(filepath.Join(mergedDir, FILE_SNR), BAND_SNR); err != nil {
		return
	}
	rs.SNR = check(r, FILE_SNR)
	return
}

// DeriveProducts 由裁剪后的栅格集推导全部产品，纯内存计算，各产品持有独立缓冲。
// 几何掩膜作用于位移、相位与偏移量，质量掩膜只作用于落盘版位移与相位，
// SNR仅按视角为零剔除，相干性不掩膜
func DeriveProducts(rs RasterSet, lons, lats []float64, cohThreshold float64) (p *Products, err error) {
	if rs.Unwrapped == nil {
		err = ErrUnwrappedMissing
		return
	}
	unw := rs.Unwrapped.Grid
	p = &Products{Lons: lons, Lats: lats, Ref: rs.Unwrapped.Ref}

	var look *Grid
	if rs.Look != nil {
		look = &rs.Look.Grid
	}
	los := ScaleGrid(unw, LosScale)
	geom := GeometryMask(los, look)
	var coh *Grid
	if rs.Coherence != nil {
		coh = &rs.Coherence.Grid
	}
	qual := QualityMask(geom, coh, cohThreshold)

	p.LosWork = los.Masked(geom)
	p.LosSave = los.Masked(qual)
	wrap := WrapPhase(unw)
	p.WrapWork = wrap.Masked(geom)
	p.WrapSave = wrap.Masked(qual)
	if coh != nil {
		c := coh.Clone()
		p.Coherence = &c
	}

	if rs.Look != nil && rs.Azimuth != nil {
		az := ConvertAzimuth(rs.Azimuth.Grid)
		p.MeanAzimuth = MeanAzimuth(az)
		var e, n, u Grid
		if e, n, u, err = Decompose(rs.Look.Grid, az); err != nil {
			return
		}
		e = e.Masked(geom)
		n = n.Masked(geom)
		u = u.Masked(geom)
		p.VecE, p.VecN, p.VecU = &e, &n, &u
	}
	p.Direction = DirectionLabel(p.MeanAzimuth)

	if rs.RgOffset != nil {
		g := ScaleGrid(rs.RgOffset.Grid, RgOffsetScale).Masked(geom)
		p.RgOff = &g
	}
	if rs.AzOffset != nil {
		g := ScaleGrid(rs.AzOffset.Grid, AzOffsetScale).Masked(geom)
		p.AzOff = &g
	}
	if rs.SNR != nil {
		var g Grid
		if look != nil {
			g = rs.SNR.Grid.Masked(ZeroMask(*look))
		} else {
			g = rs.SNR.Grid.Clone()
		}
		p.SNR = &g
	}
	return
}

// RunPost 执行后处理全流程：读取、裁剪、推导、落盘GRD、出图
func RunPost(tb *GdalToolbox, opt PostOptions) (err error) {
	start := time.Now()
	mergedDir := filepath.Join(opt.WorkDir, PROCESS_DIR_NAME, MERGED_DIR_NAME)
	rs, err := tb.LoadRasterSet(mergedDir)
	if err != nil {
		return
	}
	ref := rs.Unwrapped.Ref
	lons := ref.Lons(rs.Unwrapped.Grid.Cols)
	lats := ref.Lats(rs.Unwrapped.Grid.Rows)

	win := FullWindow(len(lats), len(lons))
	if opt.Center != nil {
		var ok bool
		if win, ok = ComputeWindow(lons, lats, opt.Center.Span(opt.HalfWidth)); !ok {
			log.Warn("post: ROI outside raster extent, fallback to full frame",
				zap.Float64("lon", opt.Center.Lon), zap.Float64("lat", opt.Center.Lat),
				zap.Float64("halfWidth", opt.HalfWidth))
		}
	}
	cropped := rs.Crop(win)
	cLons := win.SliceLons(lons)
	cLats := win.SliceLats(lats)
	log.Info("post: rasters cropped", zap.Int("rows", win.Height()), zap.Int("cols", win.Width()))

	prods, err := DeriveProducts(cropped, cLons, cLats, opt.CohThreshold)
	if err != nil {
		return
	}
	log.Info("post: products derived", zap.String("direction", prods.Direction),
		zap.Float64("meanAzimuth", prods.MeanAzimuth))

	resultDir := filepath.Join(opt.WorkDir, RESULT_DIR_NAME)
	if err = writeProducts(tb, resultDir, prods); err != nil {
		return
	}
	plotDir := filepath.Join(resultDir, fmt.Sprintf(PLOT_DIR_TEMPLATE, prods.Direction, opt.Orbit))
	if err = os.MkdirAll(plotDir, os.ModePerm); err != nil {
		return
	}
	if err = renderProducts(plotDir, prods, opt.Center); err != nil {
		return
	}
	log.Info("post: done", zap.Duration("cost", time.Since(start)))
	return
}

// 逐个落盘存在的产品，缺失的直接跳过不留空文件
func writeProducts(tb *GdalToolbox, dir string, p *Products) (err error) {
	write := func(name string, g *Grid) {
		if err != nil || g == nil {
			return
		}
		err = tb.WriteGRD(filepath.Join(dir, name), *g, p.Lons, p.Lats, p.Ref)
	}
	write(GRD_LOS_DISP, &p.LosSave)
	write(GRD_COHERENCE, p.Coherence)
	write(GRD_WRAP, &p.WrapSave)
	write(GRD_VEC_E, p.VecE)
	write(GRD_VEC_N, p.VecN)
	write(GRD_VEC_U, p.VecU)
	write(GRD_OFF_RG, p.RgOff)
	write(GRD_OFF_AZ, p.AzOff)
	write(GRD_SNR, p.SNR)
	return
}

// 组装全部成图任务并渲染；偏移量单图沿用LOS色标区间，汇总图各面板独立拉伸
func renderProducts(plotDir string, p *Products, marker *LonLat) error {
	r := NewRenderer(plotDir, p.Lons, p.Lats, p.MeanAzimuth, marker)
	losClim := RobustRange(p.LosWork, true)
	wrapClim := ClipRange{Min: -math.Pi, Max: math.Pi}

	singles := []plotTask{{
		file:    PNG_LOS_DISP,
		title:   "LOS Displacement (m)",
		grid:    p.LosWork,
		cm:      moreland.SmoothBlueRed(),
		clim:    losClim,
		arrows:  arrowsBoth,
		markerR: markerRadiusSingle,
	}, {
		file:    PNG_WRAP,
		title:   "Wrapped Phase (rad)",
		grid:    p.WrapWork,
		cm:      NewCyclicHueMap(),
		clim:    wrapClim,
		markerR: markerRadiusSingle,
	}}
	if p.Coherence != nil {
		singles = append(singles, plotTask{
			file:    PNG_COHERENCE,
			title:   "Coherence",
			grid:    *p.Coherence,
			cm:      NewGrayMap(),
			clim:    ClipRange{Max: 1},
			markerR: markerRadiusSingle,
		})
	}
	if p.RgOff != nil {
		singles = append(singles, plotTask{
			file:    PNG_OFF_RG,
			title:   "Range Offset (m)",
			grid:    *p.RgOff,
			cm:      moreland.SmoothBlueRed(),
			clim:    losClim,
			arrows:  arrowsLook,
			markerR: markerRadiusSingle,
		})
	}
	if p.AzOff != nil {
		singles = append(singles, plotTask{
			file:    PNG_OFF_AZ,
			title:   "Azimuth Offset (m)",
			grid:    *p.AzOff,
			cm:      moreland.SmoothBlueRed(),
			clim:    losClim,
			arrows:  arrowsFlight,
			markerR: markerRadiusSingle,
		})
	}
	if p.SNR != nil {
		snrClim := ClipRange{Max: 1}
		if hi, ok := Percentile(*p.SNR, 0.98); ok {
			snrClim.Max = hi
		}
		singles = append(singles, plotTask{
			file:    PNG_SNR,
			title:   "SNR",
			grid:    *p.SNR,
			cm:      moreland.ExtendedBlackBody(),
			clim:    snrClim,
			markerR: markerRadiusSingle,
		})
	}

	// 汇总图固定四格，缺失的偏移量面板留空
	summary := []plotTask{
		{title: "LOS Displacement", grid: p.LosWork, cm: moreland.SmoothBlueRed(),
			clim: losClim, markerR: markerRadiusSummary},
		{title: "Wrapped Phase", grid: p.WrapWork, cm: NewCyclicHueMap(),
			clim: wrapClim, markerR: markerRadiusSummary},
		{},
		{},
	}
	if p.RgOff != nil {
		summary[2] = plotTask{title: "Range Offset", grid: *p.RgOff, cm: moreland.SmoothBlueRed(),
			clim: RobustRange(*p.RgOff, true), markerR: markerRadiusSummary}
	}
	if p.AzOff != nil {
		summary[3] = plotTask{title: "Azimuth Offset", grid: *p.AzOff, cm: moreland.SmoothBlueRed(),
			clim: RobustRange(*p.AzOff, true), markerR: markerRadiusSummary}
	}
	return r.RenderAll(singles, PNG_SUMMARY, summary)
}
