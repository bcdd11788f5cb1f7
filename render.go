package insarlib

import (
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/wgdzlh/insarlib/log"

	"go.uber.org/zap"
	stdfnt "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	singlePlotW  = 10 * vg.Inch
	singlePlotH  = 8 * vg.Inch
	summaryPlotW = 16 * vg.Inch
	summaryPlotH = 12 * vg.Inch
	plotDPI      = 300

	titleFontSize = 14
	arrowFontSize = 12

	// 箭头注记的图面分数坐标与尺寸
	arrowAnchorX     = 0.80
	arrowAnchorY     = 0.20
	arrowFlightLen   = 0.12
	arrowFlightWidth = 0.005
	arrowLookLen     = 0.06
	arrowLookWidth   = 0.010
	arrowHeadLen     = 0.02

	markerRadiusSingle  vg.Length = 9
	markerRadiusSummary vg.Length = 8

	flightArrowLabel = "Azimuth"
	lookArrowLabel   = "Look"
)

var markerRed = color.NRGBA{R: 0xff, A: 0xff}

type arrowMode int

const (
	arrowsNone arrowMode = iota
	arrowsBoth
	arrowsFlight
	arrowsLook
)

// 单幅成图任务，色带实例不得跨任务共用（渲染会改写其值域）
type plotTask struct {
	file    string
	title   string
	grid    Grid
	cm      palette.ColorMap
	clim    ClipRange
	arrows  arrowMode
	markerR vg.Length
}

// Renderer 固定一套裁剪后坐标、航向与标注点的成图器
type Renderer struct {
	plotDir string
	lons    []float64
	lats    []float64
	meanAz  float64
	marker  *LonLat
	logTag  string
}

func NewRenderer(plotDir string, lons, lats []float64, meanAz float64, marker *LonLat) *Renderer {
	return &Renderer{
		plotDir: plotDir,
		lons:    lons,
		lats:    lats,
		meanAz:  meanAz,
		marker:  marker,
		logTag:  "Renderer:",
	}
}

// RenderAll 并发渲染全部单幅图与汇总图，返回首个失败
func (r *Renderer) RenderAll(singles []plotTask, summaryFile string, summary []plotTask) (err error) {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	take := func(e error) {
		if e == nil {
			return
		}
		mu.Lock()
		if err == nil {
			err = e
		}
		mu.Unlock()
	}
	for _, t := range singles {
		wg.Add(1)
		go func(t plotTask) {
			defer wg.Done()
			take(r.renderSingle(t))
		}(t)
	}
	if len(summary) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			take(r.renderSummary(summaryFile, summary))
		}()
	}
	wg.Wait()
	return
}

func (r *Renderer) renderSingle(t plotTask) (err error) {
	c := vgimg.NewWith(vgimg.UseWH(singlePlotW, singlePlotH), vgimg.UseDPI(plotDPI))
	if err = r.renderPanel(draw.New(c), t); err != nil {
		return
	}
	out := filepath.Join(r.plotDir, t.file)
	if err = writePNG(out, c); err != nil {
		log.Error(r.logTag+"save plot failed", zap.String("file", out), zap.Error(err))
		return
	}
	log.Info(r.logTag+"saved plot", zap.String("file", out))
	return
}

// renderSummary 2x2拼版，面板序为LOS位移、回卷相位、距离向偏移、方位向偏移，空任务对应格位留白
func (r *Renderer) renderSummary(file string, tasks []plotTask) (err error) {
	c := vgimg.NewWith(vgimg.UseWH(summaryPlotW, summaryPlotH), vgimg.UseDPI(plotDPI))
	dc := draw.New(c)
	tiles := draw.Tiles{
		Rows: 2,
		Cols: 2,
		PadX: vg.Millimeter * 4,
		PadY: vg.Millimeter * 4,
	}
	for i, t := range tasks {
		if t.grid.IsEmpty() {
			continue
		}
		if err = r.renderPanel(tiles.At(dc, i%2, i/2), t); err != nil {
			return
		}
	}
	out := filepath.Join(r.plotDir, file)
	if err = writePNG(out, c); err != nil {
		log.Error(r.logTag+"save summary failed", zap.String("file", out), zap.Error(err))
		return
	}
	log.Info(r.logTag+"saved summary", zap.String("file", out))
	return
}

// renderPanel 在给定画布内绘制图面与底部横置色标条
func (r *Renderer) renderPanel(dc draw.Canvas, t plotTask) (err error) {
	n, m := len(r.lons), len(r.lats)
	if t.grid.IsEmpty() || t.grid.Cols != n || t.grid.Rows != m {
		return ErrRasterShape
	}
	t.cm.SetMin(t.clim.Min)
	t.cm.SetMax(t.clim.Max)

	plt := plot.New()
	plt.Title.Text = t.title
	plt.Title.TextStyle.Font.Size = vg.Points(titleFontSize)
	plt.X.Label.Text = "Longitude"
	plt.Y.Label.Text = "Latitude"
	plt.Add(plotter.NewImage(rasterize(t.grid, t.cm), r.lons[0], r.lats[m-1], r.lons[n-1], r.lats[0]))

	if r.marker != nil {
		var sc *plotter.Scatter
		if sc, err = plotter.NewScatter(plotter.XYs{{X: r.marker.Lon, Y: r.marker.Lat}}); err != nil {
			return
		}
		sc.GlyphStyle = draw.GlyphStyle{Color: markerRed, Radius: t.markerR, Shape: starGlyph{}}
		plt.Add(sc)
	}

	barH := dc.Size().Y / 6
	mapArea := draw.Crop(dc, 0, 0, barH, 0)
	barArea := draw.Crop(dc, 0, 0, 0, barH-dc.Size().Y)
	plt.Draw(mapArea)

	if t.arrows != arrowsNone {
		r.drawArrows(plt, mapArea, t.arrows)
	}

	bar := plot.New()
	bar.HideY()
	bar.X.Label.Text = t.title
	bar.Add(&plotter.ColorBar{ColorMap: t.cm})
	bar.Draw(barArea)
	return
}

// drawArrows 在图面数据区叠加航向/视向箭头及文字注记
func (r *Renderer) drawArrows(plt *plot.Plot, area draw.Canvas, mode arrowMode) {
	dataC := plt.DataCanvas(area)
	w, h := dataC.Size().X, dataC.Size().Y
	scale := w
	if h < w {
		scale = h
	}
	anchor := vg.Point{X: dataC.Min.X + arrowAnchorX*w, Y: dataC.Min.Y + arrowAnchorY*h}

	sty := plt.Title.TextStyle
	sty.Font.Size = vg.Points(arrowFontSize)
	sty.Font.Weight = stdfnt.WeightBold
	sty.Color = color.Black
	sty.XAlign = text.XCenter
	sty.YAlign = text.YCenter

	if mode == arrowsBoth || mode == arrowsFlight {
		delta := arrowDelta((180-r.meanAz)*degToRad, arrowFlightLen*scale)
		drawArrow(dataC, anchor, delta, arrowFlightWidth*scale, arrowHeadLen*scale)
		dataC.FillText(sty, anchor.Add(delta.Scale(1.3)), flightArrowLabel)
	}
	if mode == arrowsBoth || mode == arrowsLook {
		delta := arrowDelta((90-r.meanAz)*degToRad, arrowLookLen*scale)
		drawArrow(dataC, anchor, delta, arrowLookWidth*scale, arrowHeadLen*scale)
		dataC.FillText(sty, anchor.Add(delta.Scale(2)), lookArrowLabel)
	}
}

func arrowDelta(ang float64, ln vg.Length) vg.Point {
	return vg.Point{X: vg.Length(math.Cos(ang)) * ln, Y: vg.Length(math.Sin(ang)) * ln}
}

// drawArrow 由起点与位移画实心箭头，杆宽与头长均为画布长度
func drawArrow(c draw.Canvas, from, delta vg.Point, width, head vg.Length) {
	ln := vg.Length(math.Hypot(float64(delta.X), float64(delta.Y)))
	if ln == 0 {
		return
	}
	ux, uy := delta.X/ln, delta.Y/ln
	tip := from.Add(delta)
	base := vg.Point{X: tip.X - ux*head, Y: tip.Y - uy*head}
	c.StrokeLine2(draw.LineStyle{Color: color.Black, Width: width}, from.X, from.Y, base.X, base.Y)
	hw := head / 2
	c.FillPolygon(color.Black, []vg.Point{
		tip,
		{X: base.X - uy*hw, Y: base.Y + ux*hw},
		{X: base.X + uy*hw, Y: base.Y - ux*hw},
	})
}

// 五角星标记，填充色取自GlyphStyle，黑色描边
type starGlyph struct{}

func (starGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	var pts [11]vg.Point
	inner := sty.Radius * 2 / 5
	for i := 0; i < 10; i++ {
		rad := sty.Radius
		if i%2 == 1 {
			rad = inner
		}
		a := math.Pi/2 + float64(i)*math.Pi/5
		pts[i] = vg.Point{
			X: pt.X + vg.Length(math.Cos(a))*rad,
			Y: pt.Y + vg.Length(math.Sin(a))*rad,
		}
	}
	pts[10] = pts[0]
	c.FillPolygon(sty.Color, pts[:10])
	c.StrokeLines(draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)}, pts[:])
}

// rasterize 栅格按色带转为图像，NaN像元透明，越界值钳到色标区间
func rasterize(g Grid, cm palette.ColorMap) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Cols, g.Rows))
	lo, hi := cm.Min(), cm.Max()
	for i, v := range g.Data {
		if math.IsNaN(v) {
			continue
		}
		if v < lo {
			v = lo
		} else if v > hi {
			v = hi
		}
		c, err := cm.At(v)
		if err != nil {
			continue
		}
		img.Set(i%g.Cols, i/g.Cols, c)
	}
	return img
}

func writePNG(path string, c *vgimg.Canvas) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	_, err = vgimg.PngCanvas{Canvas: c}.WriteTo(f)
	return
}
