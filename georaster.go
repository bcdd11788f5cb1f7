package insarlib

import (
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/wgdzlh/insarlib/log"
	"github.com/wgdzlh/insarlib/utils"

	gdal "github.com/airbusgeo/godal"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var driverOnce sync.Once

func registerDrivers() {
	driverOnce.Do(gdal.RegisterAll)
}

// 读取单波段地理栅格，band为1基波段序号；文件不存在时返回nil（软缺失），由调用方决定是否致命
func (g *GdalToolbox) ReadGeoRaster(path string, band int) (ret *GeoRaster, err error) {
	if _, err = os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			log.Warn(g.logTag+"raster file not found", zap.String("path", path))
			err = nil
		}
		return
	}
	sds, err := gdal.Open(path, gdal.RasterOnly())
	if err != nil {
		log.Error(g.logTag+"open raster failed", zap.String("path", path), zap.Error(err))
		err = ErrInvalidRaster
		return
	}
	defer sds.Close()
	bands := sds.Bands()
	if band < 1 || band > len(bands) {
		log.Error(g.logTag+"band index out of range", zap.String("path", path), zap.Int("band", band), zap.Int("bands", len(bands)))
		err = ErrRasterBandIndex
		return
	}
	bd := bands[band-1]
	bandStruct := bd.Structure()
	x := bandStruct.SizeX
	y := bandStruct.SizeY
	log.Info(g.logTag+"read raster band", zap.String("path", path), zap.Int("band", band),
		zap.String("dt", bandStruct.DataType.String()), zap.Int("width", x), zap.Int("height", y))
	data := make([]float64, x*y)
	if err = bd.Read(0, 0, data, x, y); err != nil {
		log.Error(g.logTag+"read raster band failed", zap.String("path", path), zap.Int("band", band), zap.Error(err))
		err = ErrRasterReadFailed
		return
	}
	gt, err := sds.GeoTransform()
	if err != nil {
		log.Error(g.logTag+"read geotransform failed", zap.String("path", path), zap.Error(err))
		err = ErrInvalidRaster
		return
	}
	ret = &GeoRaster{
		Grid: Grid{Rows: y, Cols: x, Data: data},
		Ref:  GeoRef{Transform: gt, Projection: sds.Projection()},
	}
	return
}

// 将栅格写出为GMT GRD文件，原点替换为裁剪后首坐标，像元间距与投影不变。
// 覆盖已有文件，成功后不残留aux.xml附属文件（GMT驱动经由临时目录落盘再移入）
func (g *GdalToolbox) WriteGRD(path string, grid Grid, lons, lats []float64, ref GeoRef) (err error) {
	if grid.IsEmpty() || len(lons) != grid.Cols || len(lats) != grid.Rows {
		return ErrRasterShape
	}
	mds, err := gdal.Create(gdal.Memory, uuid.NewString(), 1, gdal.Float32, grid.Cols, grid.Rows)
	if err != nil {
		log.Error(g.logTag+"create mem raster failed", zap.Error(err))
		err = ErrRasterWrite
		return
	}
	defer mds.Close()
	gt := ref.Transform
	gt[0] = lons[0]
	gt[3] = lats[0]
	if err = mds.SetGeoTransform(gt); err != nil {
		return
	}
	if ref.Projection != "" {
		if err = mds.SetProjection(ref.Projection); err != nil {
			return
		}
	}
	bd := mds.Bands()[0]
	if err = bd.SetNoData(math.NaN()); err != nil {
		return
	}
	if err = bd.Write(0, 0, grid.Data, grid.Cols, grid.Rows); err != nil {
		log.Error(g.logTag+"write mem raster failed", zap.Error(err))
		err = ErrRasterWrite
		return
	}
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, os.ModePerm); err != nil {
		return
	}
	scratch, err := utils.GetUniqSubDir(dir)
	if err != nil {
		return
	}
	defer os.RemoveAll(scratch)
	staged := filepath.Join(scratch, filepath.Base(path))
	ods, err := mds.Translate(staged, []string{"-of", GMT_DRIVER_NAME})
	if err != nil {
		log.Error(g.logTag+"translate to grd failed", zap.String("path", path), zap.Error(err))
		err = ErrRasterWrite
		return
	}
	ods.Close()
	if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
		return
	}
	if err = os.Rename(staged, path); err != nil {
		return
	}
	os.Remove(path + AUX_XML_EXT)
	log.Info(g.logTag+"saved grd", zap.String("path", path), zap.Int("rows", grid.Rows), zap.Int("cols", grid.Cols))
	return
}
