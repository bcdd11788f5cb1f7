package insarlib

const (
	SLC_DIR_NAME     = "SLC"
	ORBIT_DIR_NAME   = "orbits"
	DEM_DIR_NAME     = "DEM"
	PROCESS_DIR_NAME = "process"
	MERGED_DIR_NAME  = "merged"
	RESULT_DIR_NAME  = "results"

	FILE_UNWRAPPED = "filt_topophase.unw.geo"
	FILE_COHERENCE = "phsig.cor.geo"
	FILE_GEOMETRY  = "los.rdr.geo"
	FILE_OFFSETS   = "filt_dense_offsets.bil.geo"
	FILE_SNR       = "dense_offsets_snr.bil.geo"

	BAND_UNWRAPPED = 2
	BAND_COHERENCE = 1
	BAND_LOOK      = 1
	BAND_AZIMUTH   = 2
	BAND_OFF_AZ    = 1
	BAND_OFF_RG    = 2
	BAND_SNR       = 1

	GRD_LOS_DISP  = "los_disp.grd"
	GRD_COHERENCE = "coherence.grd"
	GRD_WRAP      = "wrap_phase.grd"
	GRD_VEC_E     = "vec_E.grd"
	GRD_VEC_N     = "vec_N.grd"
	GRD_VEC_U     = "vec_U.grd"
	GRD_OFF_RG    = "offset_range.grd"
	GRD_OFF_AZ    = "offset_azimuth.grd"
	GRD_SNR       = "snr.grd"

	PNG_LOS_DISP  = "los_disp.png"
	PNG_WRAP      = "wrap_phase.png"
	PNG_COHERENCE = "coherence.png"
	PNG_OFF_RG    = "offset_range.png"
	PNG_OFF_AZ    = "offset_azimuth.png"
	PNG_SNR       = "snr.png"
	PNG_SUMMARY   = "summary_plot.png"

	PLOT_DIR_TEMPLATE = "plot_%s_%s"

	GMT_DRIVER_NAME = "GMT"
	AUX_XML_EXT     = ".aux.xml"

	UNIVERSAL_SRID = 4326

	DIR_ASCENDING  = "asc"
	DIR_DESCENDING = "des"

	UNKNOWN_ORBIT = "UNKNOWN"
)

// 物理换算常数，均为Sentinel-1 C波段IW模式的固定标称值
const (
	// 视线向形变换算系数，米/弧度；即 -λ/4π（λ≈5.5cm），负号为视线向缩短为正的约定
	LosScale = -0.0044
	// 距离向偏移换算系数，米/像素（斜距像元间距）
	RgOffsetScale = -2.32956
	// 方位向偏移换算系数，米/像素（方位像元间距）
	AzOffsetScale = 13.9332

	// 默认相干性掩膜阈值
	DefaultCohThreshold = 0.3
	// 默认裁剪半宽（度）
	DefaultHalfWidth = 0.2

	// 稳健拉伸：最大绝对值不超过该值时按线性余量放大
	RobustLinearMax = 10.0
	// 线性余量倍率
	RobustLinearHeadroom = 1.1
	// 分位数截断倍率（p99.9）
	RobustPercentileHeadroom = 1.2
	// 拉伸半宽下限
	RobustLimitFloor = 0.05
	// 全无效数据时的固定回退范围半宽
	RobustFallbackLimit = 0.1
)
