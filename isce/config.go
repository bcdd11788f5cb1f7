package isce

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/wgdzlh/insarlib/log"
	"github.com/wgdzlh/insarlib/utils"

	"go.uber.org/zap"
)

const (
	REFERENCE_XML = "reference.xml"
	SECONDARY_XML = "secondary.xml"
	TOPS_XML      = "tops.xml"

	SENSOR_NAME    = "SENTINEL1"
	UNWRAPPER_NAME = "snaphu_mcf"

	DefaultRangeLooks     = 20
	DefaultAzimuthLooks   = 5
	DefaultFilterStrength = 0.4
)

var slcDateRe = regexp.MustCompile(`S1[ABC]_.*?_(\d{8})T`)

// 参考/次级组件配置模板，safe属性为Python列表字面量
const pairCompTpl = `<component name="%s">
    <property name="orbit directory">%s</property>
    <property name="output directory">./%s</property>
    <property name="safe">%s</property>
</component>
`

const topsTpl = `<topsApp>
    <component name="topsinsar">
        <property name="Sensor name">%s</property>
        <component name="reference">
            <catalog>%s</catalog>
        </component>
        <component name="secondary">
            <catalog>%s</catalog>
        </component>
        <property name="swaths">[1, 2, 3]</property>
        <property name="range looks">%d</property>
        <property name="azimuth looks">%d</property>
        <property name="region of interest">%s</property>
%s        <property name="do unwrap">%s</property>
        <property name="unwrapper name">%s</property>
        <property name="do denseoffsets">%s</property>
        <property name="filter strength">%g</property>
        <property name="useGPU">%s</property>
    </component>
</topsApp>
`

// PairConfig 一个干涉对的topsApp处理配置
type PairConfig struct {
	ProcessDir string
	OrbitDir   string
	RefSafes   []string    // 参考日期SLC压缩包绝对路径
	SecSafes   []string    // 次级日期SLC压缩包绝对路径
	DemPath    string      // 可空，空则由ISCE自行下载DEM
	Roi        *[4]float64 // [minLat, maxLat, minLon, maxLon]，可空表示全幅

	RangeLooks     int
	AzimuthLooks   int
	FilterStrength float64
	DoUnwrap       bool
	DoDenseOffsets bool
	UseGPU         bool
}

func DefaultPairConfig(processDir, orbitDir string) PairConfig {
	return PairConfig{
		ProcessDir:     processDir,
		OrbitDir:       orbitDir,
		RangeLooks:     DefaultRangeLooks,
		AzimuthLooks:   DefaultAzimuthLooks,
		FilterStrength: DefaultFilterStrength,
		DoUnwrap:       true,
		DoDenseOffsets: true,
		UseGPU:         true,
	}
}

// GroupPair 将SLC目录内压缩包按采集日期分组，要求恰好两个日期，较早者为参考组
func GroupPair(slcDir string) (ref, sec []string, err error) {
	files, err := filepath.Glob(filepath.Join(slcDir, "*.zip"))
	if err != nil || len(files) == 0 {
		err = ErrNoSlcFiles
		return
	}
	groups := make(map[string][]string, 2)
	for _, f := range files {
		m := slcDateRe.FindStringSubmatch(filepath.Base(f))
		if m == nil {
			continue
		}
		abs, e := filepath.Abs(f)
		if e != nil {
			abs = f
		}
		groups[m[1]] = append(groups[m[1]], abs)
	}
	if len(groups) != 2 {
		log.Error("isce: want exactly two acquisition dates", zap.Int("got", len(groups)), zap.String("dir", slcDir))
		err = ErrNotScenePair
		return
	}
	dates := make([]string, 0, 2)
	for d := range groups {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	ref, sec = groups[dates[0]], groups[dates[1]]
	sort.Strings(ref)
	sort.Strings(sec)
	log.Info("isce: slc pair grouped", zap.String("reference", dates[0]), zap.String("secondary", dates[1]),
		zap.Int("refFiles", len(ref)), zap.Int("secFiles", len(sec)))
	return
}

// DetectDem 在DEM目录查找wgs84高程文件，未找到返回空串
func DetectDem(demDir string) string {
	matches, err := filepath.Glob(filepath.Join(demDir, "*.dem.wgs84"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	if abs, e := filepath.Abs(matches[0]); e == nil {
		return abs
	}
	return matches[0]
}

// WriteConfigs 在处理目录生成reference.xml、secondary.xml与tops.xml
func (cfg *PairConfig) WriteConfigs() (err error) {
	refXML := fmt.Sprintf(pairCompTpl, "reference", cfg.OrbitDir, "reference", pyList(cfg.RefSafes))
	if err = utils.WriteFileAtomic(filepath.Join(cfg.ProcessDir, REFERENCE_XML), utils.S2B(refXML)); err != nil {
		return
	}
	secXML := fmt.Sprintf(pairCompTpl, "secondary", cfg.OrbitDir, "secondary", pyList(cfg.SecSafes))
	if err = utils.WriteFileAtomic(filepath.Join(cfg.ProcessDir, SECONDARY_XML), utils.S2B(secXML)); err != nil {
		return
	}
	roi := "[]"
	if cfg.Roi != nil {
		roi = fmt.Sprintf("[%.4f, %.4f, %.4f, %.4f]", cfg.Roi[0], cfg.Roi[1], cfg.Roi[2], cfg.Roi[3])
	}
	demLine := ""
	if cfg.DemPath != "" {
		demLine = fmt.Sprintf("        <property name=%q>%s</property>\n", "demFilename", cfg.DemPath)
	}
	topsXML := fmt.Sprintf(topsTpl, SENSOR_NAME, REFERENCE_XML, SECONDARY_XML,
		cfg.RangeLooks, cfg.AzimuthLooks, roi, demLine,
		pyBool(cfg.DoUnwrap), UNWRAPPER_NAME, pyBool(cfg.DoDenseOffsets),
		cfg.FilterStrength, pyBool(cfg.UseGPU))
	if err = utils.WriteFileAtomic(filepath.Join(cfg.ProcessDir, TOPS_XML), utils.S2B(topsXML)); err != nil {
		return
	}
	log.Info("isce: config files saved", zap.String("dir", cfg.ProcessDir),
		zap.String("roi", roi), zap.Bool("withDem", cfg.DemPath != ""))
	return
}

// Python列表字面量，topsApp对safe等属性要求此格式
func pyList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
