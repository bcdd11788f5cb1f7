package insarlib

import "errors"

var (
	ErrMergedDirMissing = errors.New("merged dir not found")
	ErrUnwrappedMissing = errors.New("unwrapped phase not found")
	ErrInvalidRaster    = errors.New("invalid raster")
	ErrRasterBandIndex  = errors.New("raster band index out of range")
	ErrRasterReadFailed = errors.New("raster read failed")
	ErrRasterWrite      = errors.New("raster write failed")
	ErrRasterShape      = errors.New("raster shape mismatch")
	ErrInvalidWKT       = errors.New("invalid WKT")
	ErrEmptySpan        = errors.New("empty lon/lat span")
)
