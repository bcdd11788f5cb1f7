package asf

import (
	"sort"

	"github.com/wgdzlh/insarlib/utils"
)

// Scene ASF检索接口返回的单景SLC元数据，旧版param接口的JSON字段均为字符串
type Scene struct {
	SceneID         string `json:"sceneId"`
	FileName        string `json:"fileName"`
	DownloadURL     string `json:"downloadUrl"`
	Platform        string `json:"platform"`
	StartTime       string `json:"startTime"`
	ProcessingDate  string `json:"processingDate"`
	FlightDirection string `json:"flightDirection"`
	RelativeOrbit   string `json:"relativeOrbit"`
	SizeMB          string `json:"sizeMB"`
	Footprint       string `json:"stringFootprint"`
}

// 场景唯一标识，sceneId缺失时退化为文件名
func (s *Scene) Key() string {
	if s.SceneID != "" {
		return s.SceneID
	}
	return s.FileName
}

// 采集日期，取startTime前10位
func (s *Scene) Date() string {
	if len(s.StartTime) < 10 {
		return s.StartTime
	}
	return s.StartTime[:10]
}

// Dedup 按场景标识去重，保持原序
func Dedup(scenes []Scene) (out []Scene) {
	seen := make(map[string]struct{}, len(scenes))
	for _, s := range scenes {
		k := s.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return
}

// OrbitDirections 各相对轨道号对应的飞行方向
func OrbitDirections(scenes []Scene) map[string]string {
	dirs := make(map[string]string)
	for _, s := range scenes {
		dirs[s.RelativeOrbit] = s.FlightDirection
	}
	return dirs
}

// OrbitCounts 各相对轨道号的场景数
func OrbitCounts(scenes []Scene) map[string]int {
	counts := make(map[string]int)
	for _, s := range scenes {
		counts[s.RelativeOrbit]++
	}
	return counts
}

// SortedOrbits 相对轨道号按数值升序排列
func SortedOrbits(dirs map[string]string) []string {
	obs := make([]string, 0, len(dirs))
	for ob := range dirs {
		obs = append(obs, ob)
	}
	sort.Slice(obs, func(i, j int) bool {
		return utils.StrToInt(obs[i]) < utils.StrToInt(obs[j])
	})
	return obs
}

// FilterByOrbit 只保留指定相对轨道号的场景
func FilterByOrbit(scenes []Scene, orbit string) (out []Scene) {
	for _, s := range scenes {
		if s.RelativeOrbit == orbit {
			out = append(out, s)
		}
	}
	return
}

// UniqueDates 升序的唯一采集日期列表
func UniqueDates(scenes []Scene) (dates []string) {
	seen := make(map[string]struct{}, 2)
	for _, s := range scenes {
		d := s.Date()
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return
}

// SortByProcessingDate 按处理时间原地升序排序
func SortByProcessingDate(scenes []Scene) {
	sort.SliceStable(scenes, func(i, j int) bool {
		return scenes[i].ProcessingDate < scenes[j].ProcessingDate
	})
}

// TotalSizeMB 列表总数据量（MB）
func TotalSizeMB(scenes []Scene) (total float64) {
	for _, s := range scenes {
		total += utils.StrToFloat64(s.SizeMB)
	}
	return
}

// Footprints 非空的场景WKT边界列表
func Footprints(scenes []Scene) (wkts []string) {
	for _, s := range scenes {
		if s.Footprint != "" {
			wkts = append(wkts, s.Footprint)
		}
	}
	return
}
