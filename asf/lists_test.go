package asf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSceneLists(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	scenes := sampleScenes()[:2]
	scenes[0], scenes[1] = scenes[1], scenes[0] // 乱序输入，落盘应按处理时间排好
	listPath, err := WriteSceneLists(dir, "Sentinel-1A", "55", scenes)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "list_Sentinel-1A_55.txt"), listPath)

	names, err := os.ReadFile(listPath)
	require.NoError(t, err)
	assert.Equal(t,
		"S1A_IW_SLC__1SDV_20230103T102015_A.zip\nS1A_IW_SLC__1SDV_20230115T102016_B.zip\n",
		string(names))

	urls, err := os.ReadFile(filepath.Join(dir, "url_Sentinel-1A_55.txt"))
	require.NoError(t, err)
	assert.Equal(t,
		"https://datapool.asf.alaska.edu/SLC/SA/a.zip\nhttps://datapool.asf.alaska.edu/SLC/SA/b.zip\n",
		string(urls))
}

func TestWriteExtent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, WriteExtent(dir, [4]float64{100.12342, 101.5, 30.1, 31.9876}))
	got, err := os.ReadFile(filepath.Join(dir, EXTENT_FILE_NAME))
	require.NoError(t, err)
	// 4行依次为纬度下上界与经度左右界
	assert.Equal(t, "30.1000\n31.9876\n100.1234\n101.5000\n", string(got))
}

func TestDetectListFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	old := filepath.Join(dir, "list_Sentinel-1A_55.txt")
	newer := filepath.Join(dir, "list_Sentinel-1B_55.txt")
	other := filepath.Join(dir, "list_Sentinel-1A_62.txt")
	for _, p := range []string{old, newer, other} {
		require.NoError(t, os.WriteFile(p, []byte("x\n"), 0o644))
	}
	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, base, base))
	require.NoError(t, os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)))
	require.NoError(t, os.Chtimes(other, base.Add(2*time.Minute), base.Add(2*time.Minute)))

	// 平台名优先收窄，其次取最新
	path, err := DetectListFile(dir, "Sentinel-1A", "55")
	require.NoError(t, err)
	assert.Equal(t, old, path)

	path, err = DetectListFile(dir, "", "55")
	require.NoError(t, err)
	assert.Equal(t, newer, path)

	// 平台不匹配时退回轨道过滤结果
	path, err = DetectListFile(dir, "Sentinel-1C", "55")
	require.NoError(t, err)
	assert.Equal(t, newer, path)

	_, err = DetectListFile(dir, "", "99")
	assert.ErrorIs(t, err, ErrNoListFile)
	_, err = DetectListFile(t.TempDir(), "", "")
	assert.ErrorIs(t, err, ErrNoListFile)
}

func TestOrbitFromListFile(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "55", OrbitFromListFile("/work/list_Sentinel-1A_55.txt"))
	assert.Equal(t, "", OrbitFromListFile("/work/extent.txt"))
}
