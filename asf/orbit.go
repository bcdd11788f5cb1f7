package asf

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/wgdzlh/insarlib/log"
	"github.com/wgdzlh/insarlib/utils"

	"go.uber.org/zap"
)

// 轨道文件类型：精密定轨(POEORB)与快速定轨(RESORB)
type OrbitKind string

const (
	PreciseOrbit    OrbitKind = "POEORB"
	RestitutedOrbit OrbitKind = "RESORB"

	POE_ORBIT_URL = "https://s1qc.asf.alaska.edu/aux_poeorb/"
	RES_ORBIT_URL = "https://s1qc.asf.alaska.edu/aux_resorb/"

	orbitTimeLayout = "20060102T150405"
)

var (
	orbitFileRe   = regexp.MustCompile(`(S1[ABC])_OPER_AUX_(POEORB|RESORB)_OPOD_\d{8}T\d{6}_V(\d{8}T\d{6})_(\d{8}T\d{6})\.EOF`)
	acquisitionRe = regexp.MustCompile(`(S1[ABC])_.*?_(\d{8}T\d{6})_`)
)

// OrbitFile 轨道文件条目及其有效期
type OrbitFile struct {
	Name     string
	Platform string
	Start    time.Time
	End      time.Time
}

// Acquisition 场景清单中解析出的一次采集
type Acquisition struct {
	Platform string
	Time     time.Time
}

func (c *Client) orbitURL(kind OrbitKind) string {
	if kind == RestitutedOrbit {
		return c.resOrbit
	}
	return c.poeOrbit
}

// ParseOrbitIndex 从索引页内容解析指定类型的轨道文件条目，按文件名去重
func ParseOrbitIndex(content string, kind OrbitKind) (files []OrbitFile) {
	seen := make(map[string]struct{})
	for _, m := range orbitFileRe.FindAllStringSubmatch(content, -1) {
		if OrbitKind(m[2]) != kind {
			continue
		}
		if _, ok := seen[m[0]]; ok {
			continue
		}
		start, e1 := time.Parse(orbitTimeLayout, m[3])
		end, e2 := time.Parse(orbitTimeLayout, m[4])
		if e1 != nil || e2 != nil {
			continue
		}
		seen[m[0]] = struct{}{}
		files = append(files, OrbitFile{Name: m[0], Platform: m[1], Start: start, End: end})
	}
	return
}

// ReadAcquisitions 解析场景清单中的采集列表，按(平台,时刻)去重后升序
func ReadAcquisitions(listPath string) (acqs []Acquisition, err error) {
	data, err := os.ReadFile(listPath)
	if err != nil {
		return
	}
	seen := make(map[string]struct{})
	for _, line := range strings.Split(utils.B2S(data), "\n") {
		m := acquisitionRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		t, e := time.Parse(orbitTimeLayout, m[2])
		if e != nil {
			continue
		}
		k := m[1] + m[2]
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		acqs = append(acqs, Acquisition{Platform: m[1], Time: t})
	}
	sort.Slice(acqs, func(i, j int) bool { return acqs[i].Time.Before(acqs[j].Time) })
	return
}

// MatchOrbit 选取有效期覆盖采集时刻的轨道文件，多个命中时取按起始时间排序的居中者
func MatchOrbit(files []OrbitFile, acq Acquisition) (best OrbitFile, ok bool) {
	var hits []OrbitFile
	for _, f := range files {
		if f.Platform == acq.Platform && f.Start.Before(acq.Time) && f.End.After(acq.Time) {
			hits = append(hits, f)
		}
	}
	if len(hits) == 0 {
		return
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Start.Before(hits[j].Start) })
	return hits[len(hits)/2], true
}

// FetchOrbitIndex 拉取轨道索引页并解析
func (c *Client) FetchOrbitIndex(ctx context.Context, kind OrbitKind) (files []OrbitFile, err error) {
	body, err := c.get(ctx, c.orbitURL(kind))
	if err != nil {
		return
	}
	if files = ParseOrbitIndex(string(body), kind); len(files) == 0 {
		err = ErrEmptyIndex
	}
	return
}

func (c *Client) get(ctx context.Context, target string) (body []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Error(c.logTag+"bad status", zap.String("url", target), zap.Int("status", resp.StatusCode))
		err = ErrBadStatus
		return
	}
	return io.ReadAll(resp.Body)
}

// DownloadOrbit 下载单个轨道文件到目标目录，已存在时跳过
func (c *Client) DownloadOrbit(ctx context.Context, kind OrbitKind, name, destDir string) (err error) {
	dest := filepath.Join(destDir, name)
	if _, err = os.Stat(dest); err == nil {
		log.Info(c.logTag+"orbit file exists, skip", zap.String("file", name))
		return
	}
	body, err := c.get(ctx, c.orbitURL(kind)+name)
	if err != nil {
		return
	}
	if err = utils.WriteFileAtomic(dest, body); err != nil {
		return
	}
	log.Info(c.logTag+"orbit file saved", zap.String("file", name), zap.Int("bytes", len(body)))
	return
}

// FetchOrbits 为清单中全部采集下载轨道文件：优先精密轨道，缺失者回退快速轨道
func (c *Client) FetchOrbits(ctx context.Context, listPath, destDir string) (err error) {
	acqs, err := ReadAcquisitions(listPath)
	if err != nil {
		return
	}
	if len(acqs) == 0 {
		err = ErrNoAcquisitions
		return
	}
	if err = os.MkdirAll(destDir, os.ModePerm); err != nil {
		return
	}
	poe, err := c.FetchOrbitIndex(ctx, PreciseOrbit)
	if err != nil {
		return
	}
	var missing []Acquisition
	for _, a := range acqs {
		f, ok := MatchOrbit(poe, a)
		if !ok {
			missing = append(missing, a)
			continue
		}
		if err = c.DownloadOrbit(ctx, PreciseOrbit, f.Name, destDir); err != nil {
			return
		}
	}
	if len(missing) == 0 {
		return
	}
	log.Warn(c.logTag+"precise orbit missing, fallback to restituted", zap.Int("count", len(missing)))
	res, err := c.FetchOrbitIndex(ctx, RestitutedOrbit)
	if err != nil {
		return
	}
	for _, a := range missing {
		f, ok := MatchOrbit(res, a)
		if !ok {
			// ISCE可对无轨道文件的场景使用SAFE内粗轨道，此处不中断
			log.Error(c.logTag+"no orbit file for acquisition",
				zap.String("platform", a.Platform), zap.Time("time", a.Time))
			continue
		}
		if err = c.DownloadOrbit(ctx, RestitutedOrbit, f.Name, destDir); err != nil {
			return
		}
	}
	return
}
