package insarlib

import (
	"fmt"
	"math"
	"sync"

	"github.com/wgdzlh/insarlib/log"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

type GdalToolbox struct {
	refMap map[int]gdal.SpatialReference
	rLock  sync.Mutex
	logTag string
}

// 由GDAL库C语言创建的内存对象，需要手动调用Destroy回收
type destroyable interface {
	Destroy()
}

// 初始化GDAL工具箱
func NewGdalToolbox() *GdalToolbox {
	registerDrivers()
	return &GdalToolbox{
		refMap: map[int]gdal.SpatialReference{},
		logTag: "GdalToolbox:",
	}
}

// 获取srid对应的坐标系（可复用，故无需回收）
func (g *GdalToolbox) getSridRef(srid int) (ref gdal.SpatialReference, err error) {
	g.rLock.Lock()
	defer g.rLock.Unlock()
	ref, ok := g.refMap[srid]
	if ok {
		return
	}
	ref = gdal.CreateSpatialReference("")
	if err = ref.FromEPSG(srid); err != nil { // 设定坐标系ID
		log.Error(g.logTag+"set ref srid failed", zap.Int("srid", srid), zap.Error(err))
		ref.Destroy()
		return
	}
	// 这里应设置坐标系对应的数据轴次序为固定的(经度,纬度)（传统GIS坐标序），而不是新标准中与CRS相关的次序。否则在转换坐标系或者转GeoJSON时，可能出现次序倒置问题
	// 目前我们处理的空间坐标数据都为固定的(经度,纬度)次序
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	// OAMS_TRADITIONAL_GIS_ORDER means that for geographic CRS with lat/long order, the data will still be long/lat ordered. Similarly for a projected CRS with northing/easting order, the data will still be easting/northing ordered.
	// OAMS_AUTHORITY_COMPLIANT means that the data axis will be identical to the CRS axis. This is the default value when instantiating OGRSpatialReference.
	// OAMS_CUSTOM means that the data axes are customly defined with SetDataAxisToSRSAxisMapping().
	g.refMap[srid] = ref
	return
}

func (g *GdalToolbox) parseWKT(wkt string, ref gdal.SpatialReference) (ret gdal.Geometry, err error) {
	ret, err = gdal.CreateFromWKT(wkt, ref)
	if err != nil {
		log.Error(g.logTag+"parse wkt failed", zap.Error(err))
		err = ErrInvalidWKT
	}
	return
}

// 获取WKT经纬度范围
func (g *GdalToolbox) GetWktSpan(wkt string, srid int) (span [4]float64, err error) {
	ref, err := g.getSridRef(srid)
	if err != nil {
		return
	}
	geo, err := g.parseWKT(wkt, ref)
	if err != nil {
		return
	}
	defer geo.Destroy()
	envelop := geo.Envelope()
	span[0] = envelop.MinX()
	span[1] = envelop.MaxX()
	span[2] = envelop.MinY()
	span[3] = envelop.MaxY()
	return
}

// 计算多个WKT矢量面的经纬度并集范围，无效WKT跳过
func (g *GdalToolbox) UnionSpan(wkts []string) (span [4]float64, err error) {
	ref, err := g.getSridRef(UNIVERSAL_SRID)
	if err != nil {
		return
	}
	var (
		geo gdal.Geometry
		gc  []destroyable
		n   int
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	for _, wkt := range wkts {
		if wkt == "" {
			continue
		}
		if geo, err = g.parseWKT(wkt, ref); err != nil {
			log.Warn(g.logTag+"skip invalid footprint", zap.String("wkt", wkt))
			err = nil
			continue
		}
		gc = append(gc, geo)
		envelop := geo.Envelope()
		if n == 0 {
			span = [4]float64{envelop.MinX(), envelop.MaxX(), envelop.MinY(), envelop.MaxY()}
		} else {
			span[0] = math.Min(span[0], envelop.MinX())
			span[1] = math.Max(span[1], envelop.MaxX())
			span[2] = math.Min(span[2], envelop.MinY())
			span[3] = math.Max(span[3], envelop.MaxY())
		}
		n++
	}
	if n == 0 {
		err = ErrEmptySpan
	}
	return
}

func PointsToWkt(lon1, lon2, lat1, lat2 float64) string {
	return fmt.Sprintf("POLYGON((%[1]f %[3]f, %[1]f %[4]f, %[2]f %[4]f, %[2]f %[3]f, %[1]f %[3]f))", lon1, lon2, lat1, lat2)
}

func SpanToWkt(span [4]float64) string {
	return PointsToWkt(span[0], span[1], span[2], span[3])
}
