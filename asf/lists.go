package asf

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/wgdzlh/insarlib/log"
	"github.com/wgdzlh/insarlib/utils"

	"go.uber.org/zap"
)

const (
	LIST_FILE_TEMPLATE = "list_%s_%s.txt"
	URL_FILE_TEMPLATE  = "url_%s_%s.txt"
	EXTENT_FILE_NAME   = "extent.txt"
)

var listOrbitRe = regexp.MustCompile(`_(\d+)\.txt$`)

// WriteSceneLists 落盘场景文件名清单与下载地址清单，均按处理时间升序，返回文件名清单路径
func WriteSceneLists(dir, platform, orbit string, scenes []Scene) (listPath string, err error) {
	SortByProcessingDate(scenes)
	names := make([]string, 0, len(scenes))
	urls := make([]string, 0, len(scenes))
	for _, s := range scenes {
		names = append(names, s.FileName)
		urls = append(urls, s.DownloadURL)
	}
	listPath = filepath.Join(dir, fmt.Sprintf(LIST_FILE_TEMPLATE, platform, orbit))
	if err = utils.WriteFileAtomic(listPath, utils.S2B(strings.Join(names, "\n")+"\n")); err != nil {
		return
	}
	urlPath := filepath.Join(dir, fmt.Sprintf(URL_FILE_TEMPLATE, platform, orbit))
	if err = utils.WriteFileAtomic(urlPath, utils.S2B(strings.Join(urls, "\n")+"\n")); err != nil {
		return
	}
	log.Info("asf: scene lists saved", zap.String("list", listPath), zap.Int("scenes", len(scenes)))
	return
}

// WriteExtent 落盘场景覆盖范围，4行依次为minLat、maxLat、minLon、maxLon
func WriteExtent(dir string, span [4]float64) error {
	content := fmt.Sprintf("%.4f\n%.4f\n%.4f\n%.4f\n", span[2], span[3], span[0], span[1])
	return utils.WriteFileAtomic(filepath.Join(dir, EXTENT_FILE_NAME), utils.S2B(content))
}

// DetectListFile 在工作目录查找场景清单：先按轨道号过滤，再按平台名收窄，取最新修改者
func DetectListFile(dir, platform, orbit string) (path string, err error) {
	matches, err := filepath.Glob(filepath.Join(dir, "list_*.txt"))
	if err != nil || len(matches) == 0 {
		err = ErrNoListFile
		return
	}
	if orbit != "" {
		matches = filterContains(matches, "_"+orbit+".txt")
	}
	if platform != "" {
		if narrowed := filterContains(matches, platform); len(narrowed) > 0 {
			matches = narrowed
		}
	}
	var latest time.Time
	for _, m := range matches {
		fi, e := os.Stat(m)
		if e != nil {
			continue
		}
		if path == "" || fi.ModTime().After(latest) {
			path, latest = m, fi.ModTime()
		}
	}
	if path == "" {
		err = ErrNoListFile
	}
	return
}

func filterContains(paths []string, sub string) (out []string) {
	for _, p := range paths {
		if strings.Contains(filepath.Base(p), sub) {
			out = append(out, p)
		}
	}
	return
}

// OrbitFromListFile 从清单文件名提取轨道号，无法提取时返回空串
func OrbitFromListFile(path string) string {
	if m := listOrbitRe.FindStringSubmatch(filepath.Base(path)); len(m) == 2 {
		return m[1]
	}
	return ""
}
