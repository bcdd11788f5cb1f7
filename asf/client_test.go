package asf

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(api string) *Client {
	c := NewClient()
	c.api = api
	return c
}

func TestSearchNestedResponse(t *testing.T) {
	t.Parallel()
	var gotQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode([][]Scene{sampleScenes()[:2], sampleScenes()[2:]})
	}))
	defer ts.Close()

	p := SearchParams{
		Platform: "Sentinel-1A",
		Start:    time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2023, 1, 3, 23, 59, 59, 0, time.UTC),
		Span:     [4]float64{100, 101, 30, 31},
	}
	scenes, err := testClient(ts.URL).Search(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, scenes, 3)

	assert.Equal(t, "Sentinel-1A", gotQuery.Get("platform"))
	assert.Equal(t, PROCESSING_LEVEL, gotQuery.Get("processingLevel"))
	assert.Equal(t, BEAM_MODE, gotQuery.Get("beamMode"))
	assert.Equal(t, "2023-01-03T00:00:00.000Z", gotQuery.Get("start"))
	assert.Equal(t, "2023-01-03T23:59:59.000Z", gotQuery.Get("end"))
	// bbox为 minLon,minLat,maxLon,maxLat
	assert.Equal(t, "100.0000,30.0000,101.0000,31.0000", gotQuery.Get("bbox"))
	assert.Equal(t, "json", gotQuery.Get("output"))
	assert.Equal(t, "200", gotQuery.Get("maxResults"))
	assert.False(t, gotQuery.Has("relativeOrbit"))
}

func TestSearchFlatResponse(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "55", r.URL.Query().Get("relativeOrbit"))
		json.NewEncoder(w).Encode(sampleScenes())
	}))
	defer ts.Close()

	scenes, err := testClient(ts.URL).Search(context.Background(), SearchParams{Orbit: "55"})
	require.NoError(t, err)
	assert.Len(t, scenes, 3)
	assert.Equal(t, "55", scenes[0].RelativeOrbit)
}

func TestSearchBadStatus(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).Search(context.Background(), SearchParams{})
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestSearchPair(t *testing.T) {
	t.Parallel()
	var starts []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		starts = append(starts, r.URL.Query().Get("start"))
		// 两个窗口返回重叠场景，合并后应去重
		json.NewEncoder(w).Encode(sampleScenes()[:2])
	}))
	defer ts.Close()

	ref := time.Date(2023, 1, 3, 10, 20, 0, 0, time.UTC)
	sec := time.Date(2023, 1, 15, 10, 20, 0, 0, time.UTC)
	scenes, err := testClient(ts.URL).SearchPair(context.Background(), SearchParams{}, ref, sec)
	require.NoError(t, err)
	assert.Len(t, scenes, 2)
	assert.Equal(t, []string{"2023-01-03T00:00:00.000Z", "2023-01-15T00:00:00.000Z"}, starts)
}

func TestSearchEvent(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2023-01-25T00:00:00.000Z", r.URL.Query().Get("start"))
		assert.Equal(t, "2023-02-18T23:59:59.000Z", r.URL.Query().Get("end"))
		json.NewEncoder(w).Encode([][]Scene{sampleScenes()})
	}))
	defer ts.Close()

	scenes, err := testClient(ts.URL).SearchEvent(context.Background(), SearchParams{},
		time.Date(2023, 2, 6, 8, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, scenes, 3)
}

func TestDayWindow(t *testing.T) {
	t.Parallel()
	start, end := DayWindow(time.Date(2023, 1, 3, 15, 33, 12, 0, time.UTC))
	assert.Equal(t, time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2023, 1, 3, 23, 59, 59, 0, time.UTC), end)
}

func TestEventWindow(t *testing.T) {
	t.Parallel()
	start, end := EventWindow(time.Date(2023, 2, 6, 8, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2023, 1, 25, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2023, 2, 18, 23, 59, 59, 0, time.UTC), end)
}
