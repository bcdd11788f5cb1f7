package asf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wgdzlh/insarlib/log"

	"go.uber.org/zap"
)

const (
	SEARCH_ENDPOINT = "https://api.daac.asf.alaska.edu/services/search/param"

	PROCESSING_LEVEL = "SLC"
	BEAM_MODE        = "IW"

	// 事件模式检索窗口半宽（天）
	EventWindowDays = 12

	searchTimeFormat = "2006-01-02T15:04:05.000Z"
	maxSearchResults = 200
	httpTimeout      = 5 * time.Minute
)

// Client ASF场景检索与轨道文件下载客户端
type Client struct {
	hc       *http.Client
	api      string
	poeOrbit string
	resOrbit string
	logTag   string
}

func NewClient() *Client {
	return &Client{
		hc:       &http.Client{Timeout: httpTimeout},
		api:      SEARCH_ENDPOINT,
		poeOrbit: POE_ORBIT_URL,
		resOrbit: RES_ORBIT_URL,
		logTag:   "AsfClient:",
	}
}

// SearchParams 单次检索条件，时间区间两端均含
type SearchParams struct {
	Platform string
	Start    time.Time
	End      time.Time
	Span     [4]float64 // [minLon, maxLon, minLat, maxLat]
	Orbit    string     // 相对轨道号，可空
}

// Search 调用ASF param接口检索指定范围与时段内的SLC场景
func (c *Client) Search(ctx context.Context, p SearchParams) (scenes []Scene, err error) {
	q := url.Values{}
	q.Set("platform", p.Platform)
	q.Set("processingLevel", PROCESSING_LEVEL)
	q.Set("beamMode", BEAM_MODE)
	q.Set("start", p.Start.UTC().Format(searchTimeFormat))
	q.Set("end", p.End.UTC().Format(searchTimeFormat))
	q.Set("bbox", fmt.Sprintf("%.4f,%.4f,%.4f,%.4f", p.Span[0], p.Span[2], p.Span[1], p.Span[3]))
	q.Set("output", "json")
	q.Set("maxResults", strconv.Itoa(maxSearchResults))
	if p.Orbit != "" {
		q.Set("relativeOrbit", p.Orbit)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.api+"?"+q.Encode(), nil)
	if err != nil {
		return
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		log.Error(c.logTag+"search request failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Error(c.logTag+"search bad status", zap.Int("status", resp.StatusCode))
		err = ErrBadStatus
		return
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return
	}
	if scenes, err = decodeScenes(body); err != nil {
		log.Error(c.logTag+"decode search result failed", zap.Error(err))
		return
	}
	log.Info(c.logTag+"search done", zap.Int("scenes", len(scenes)),
		zap.String("start", q.Get("start")), zap.String("end", q.Get("end")))
	return
}

// param接口正常返回按数据集嵌套的列表，部分情况下为平铺列表
func decodeScenes(body []byte) (scenes []Scene, err error) {
	var nested [][]Scene
	if err = json.Unmarshal(body, &nested); err == nil {
		for _, part := range nested {
			scenes = append(scenes, part...)
		}
		return
	}
	err = json.Unmarshal(body, &scenes)
	return
}

// SearchPair 对参考/次级两个单日窗口各检索一次，合并去重
func (c *Client) SearchPair(ctx context.Context, p SearchParams, ref, sec time.Time) (scenes []Scene, err error) {
	var part []Scene
	for _, day := range []time.Time{ref, sec} {
		p.Start, p.End = DayWindow(day)
		if part, err = c.Search(ctx, p); err != nil {
			return
		}
		scenes = append(scenes, part...)
	}
	scenes = Dedup(scenes)
	return
}

// SearchEvent 以事件日为中心的前后各12天窗口检索
func (c *Client) SearchEvent(ctx context.Context, p SearchParams, event time.Time) (scenes []Scene, err error) {
	p.Start, p.End = EventWindow(event)
	if scenes, err = c.Search(ctx, p); err != nil {
		return
	}
	scenes = Dedup(scenes)
	return
}

// DayWindow 单个自然日的起止时刻（UTC）
func DayWindow(day time.Time) (start, end time.Time) {
	start = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end = start.Add(24*time.Hour - time.Second)
	return
}

// EventWindow 事件日前后各12天的起止时刻（UTC）
func EventWindow(event time.Time) (start, end time.Time) {
	day := time.Date(event.Year(), event.Month(), event.Day(), 0, 0, 0, 0, time.UTC)
	start = day.AddDate(0, 0, -EventWindowDays)
	end = day.AddDate(0, 0, EventWindowDays+1).Add(-time.Second)
	return
}
