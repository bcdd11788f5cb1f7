package insarlib

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
)

func TestReadGeoRasterMissing(t *testing.T) {
	g := NewGdalToolbox()
	if g == nil {
		t.Fatal()
	}
	ret, err := g.ReadGeoRaster(filepath.Join(t.TempDir(), "absent.grd"), 1)
	if err != nil {
		t.Fatal(err)
	}
	if ret != nil {
		t.Fatal("missing file should yield nil raster")
	}
}

func TestGrdRoundTrip(t *testing.T) {
	g := NewGdalToolbox()
	if g == nil {
		t.Fatal()
	}
	grid := NewGrid(2, 3)
	copy(grid.Data, []float64{0.25, -0.5, 1.5, math.NaN(), 0, 2.75})
	lons := []float64{100, 100.25, 100.5}
	lats := []float64{32, 31.75}
	ref := GeoRef{Transform: [6]float64{99, 0.25, 0, 33, 0, -0.25}}

	path := filepath.Join(t.TempDir(), "results", "los_disp.grd")
	err := g.WriteGRD(path, grid, lons, lats, ref)
	if errors.Is(err, ErrRasterWrite) {
		t.Skip("GMT driver unavailable:", err)
	}
	if err != nil {
		t.Fatal(err)
	}
	// 覆盖写不应报错
	if err = g.WriteGRD(path, grid, lons, lats, ref); err != nil {
		t.Fatal(err)
	}

	back, err := g.ReadGeoRaster(path, 1)
	if err != nil {
		t.Fatal(err)
	}
	if back == nil {
		t.Fatal("round trip lost the file")
	}
	if back.Grid.Rows != 2 || back.Grid.Cols != 3 {
		t.Fatal("bad shape:", back.Grid.Rows, back.Grid.Cols)
	}
	for i, want := range grid.Data {
		got := back.Grid.Data[i]
		if math.IsNaN(want) {
			if !math.IsNaN(got) {
				t.Fatal("lost NaN at", i, got)
			}
			continue
		}
		if math.Abs(got-want) > 1e-6 {
			t.Fatal("value mismatch at", i, got, want)
		}
	}
	// 原点应替换为传入首坐标，GMT网格配准可能引入半像元偏移
	if math.Abs(back.Ref.Transform[0]-100) > 0.13 || math.Abs(back.Ref.Transform[3]-32) > 0.13 {
		t.Fatal("bad origin:", back.Ref.Transform)
	}

	if _, err = g.ReadGeoRaster(path, 5); !errors.Is(err, ErrRasterBandIndex) {
		t.Fatal("expected band index error, got", err)
	}
}

func TestWriteGRDShapeCheck(t *testing.T) {
	g := NewGdalToolbox()
	err := g.WriteGRD(filepath.Join(t.TempDir(), "bad.grd"), NewGrid(2, 2), []float64{1}, []float64{1, 2}, GeoRef{})
	if !errors.Is(err, ErrRasterShape) {
		t.Fatal("expected shape error, got", err)
	}
}
