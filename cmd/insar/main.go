package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/wgdzlh/insarlib"
	"github.com/wgdzlh/insarlib/asf"
	"github.com/wgdzlh/insarlib/isce"
	"github.com/wgdzlh/insarlib/log"

	"go.uber.org/zap"
)

const dateLayout = "20060102"

var (
	lon       = flag.Float64("lon", math.NaN(), "target longitude in degrees")
	lat       = flag.Float64("lat", math.NaN(), "target latitude in degrees")
	eventDate = flag.String("event-date", "", "event date YYYYMMDD, searches 12 days around it")
	refDate   = flag.String("reference-date", "", "reference acquisition date YYYYMMDD")
	secDate   = flag.String("secondary-date", "", "secondary acquisition date YYYYMMDD")
	platform  = flag.String("platform", "Sentinel-1", "satellite platform: S1|S1A|S1B|S1C or full name")
	orbit     = flag.String("orbit", "", "relative orbit number")
	dLonLat   = flag.Float64("dlonlat", insarlib.DefaultHalfWidth, "search/crop half width in degrees")
	cohTh     = flag.Float64("coh", insarlib.DefaultCohThreshold, "coherence threshold for the quality mask")
	workDir   = flag.String("work-dir", ".", "working directory")
	step      = flag.String("step", "all", "step to run: search|orbit|xml|isce|post|all")
)

// 平台简称到ASF接口平台名的映射
var platformNames = map[string]string{
	"S1":  "Sentinel-1",
	"S1A": "Sentinel-1A",
	"S1B": "Sentinel-1B",
	"S1C": "Sentinel-1C",
}

func platformName() string {
	if full, ok := platformNames[*platform]; ok {
		return full
	}
	return *platform
}

func main() {
	flag.Parse()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Error("run failed", zap.String("step", *step), zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context) (err error) {
	switch *step {
	case "search":
		return runSearch(ctx)
	case "orbit":
		return runOrbit(ctx)
	case "xml":
		return runXML()
	case "isce":
		return runIsce(ctx)
	case "post":
		return runPost()
	case "all":
		if err = runOrbit(ctx); err != nil {
			return
		}
		if err = runXML(); err != nil {
			return
		}
		if err = runIsce(ctx); err != nil {
			return
		}
		return runPost()
	default:
		return fmt.Errorf("unknown step: %s", *step)
	}
}

func center() *insarlib.LonLat {
	if math.IsNaN(*lon) || math.IsNaN(*lat) {
		return nil
	}
	return &insarlib.LonLat{Lon: *lon, Lat: *lat}
}

// 检索场景并落盘清单与覆盖范围；未指定轨道号且结果跨多轨道时报错并列出候选
func runSearch(ctx context.Context) (err error) {
	c := center()
	if c == nil {
		return errors.New("search requires -lon and -lat")
	}
	params := asf.SearchParams{
		Platform: platformName(),
		Span:     c.Span(*dLonLat),
		Orbit:    *orbit,
	}
	client := asf.NewClient()
	var scenes []asf.Scene
	switch {
	case *eventDate != "":
		var day time.Time
		if day, err = time.Parse(dateLayout, *eventDate); err != nil {
			return
		}
		scenes, err = client.SearchEvent(ctx, params, day)
	case *refDate != "" && *secDate != "":
		var ref, sec time.Time
		if ref, err = time.Parse(dateLayout, *refDate); err != nil {
			return
		}
		if sec, err = time.Parse(dateLayout, *secDate); err != nil {
			return
		}
		scenes, err = client.SearchPair(ctx, params, ref, sec)
	default:
		return errors.New("search requires -event-date or both -reference-date and -secondary-date")
	}
	if err != nil {
		return
	}
	if len(scenes) == 0 {
		return asf.ErrNoScenes
	}

	chosen := *orbit
	if chosen == "" {
		dirs := asf.OrbitDirections(scenes)
		if len(dirs) > 1 {
			counts := asf.OrbitCounts(scenes)
			for _, ob := range asf.SortedOrbits(dirs) {
				log.Warn("search: candidate orbit", zap.String("orbit", ob),
					zap.String("direction", dirs[ob]), zap.Int("scenes", counts[ob]))
			}
			return asf.ErrOrbitAmbiguous
		}
		for ob := range dirs {
			chosen = ob
		}
	} else {
		if scenes = asf.FilterByOrbit(scenes, chosen); len(scenes) == 0 {
			return asf.ErrNoScenes
		}
	}

	dates := asf.UniqueDates(scenes)
	if len(dates) != 2 {
		log.Error("search: scene dates do not form a pair", zap.Strings("dates", dates))
		return asf.ErrNotScenePair
	}

	listPath, err := asf.WriteSceneLists(*workDir, platformName(), chosen, scenes)
	if err != nil {
		return
	}
	span := c.Span(*dLonLat)
	if wkts := asf.Footprints(scenes); len(wkts) > 0 {
		if union, e := insarlib.NewGdalToolbox().UnionSpan(wkts); e == nil {
			span = union
		} else {
			log.Warn("search: footprint union failed, use search box", zap.Error(e))
		}
	}
	if err = asf.WriteExtent(*workDir, span); err != nil {
		return
	}
	log.Info("search: done", zap.String("list", listPath), zap.String("orbit", chosen),
		zap.Strings("dates", dates), zap.Float64("totalSizeMB", asf.TotalSizeMB(scenes)))
	return
}

func runOrbit(ctx context.Context) (err error) {
	listPath, err := asf.DetectListFile(*workDir, platformName(), *orbit)
	if err != nil {
		return
	}
	log.Info("orbit: using scene list", zap.String("list", listPath))
	return asf.NewClient().FetchOrbits(ctx, listPath, filepath.Join(*workDir, insarlib.ORBIT_DIR_NAME))
}

func runXML() (err error) {
	processDir := filepath.Join(*workDir, insarlib.PROCESS_DIR_NAME)
	if err = os.MkdirAll(processDir, os.ModePerm); err != nil {
		return
	}
	orbitDir, err := filepath.Abs(filepath.Join(*workDir, insarlib.ORBIT_DIR_NAME))
	if err != nil {
		return
	}
	cfg := isce.DefaultPairConfig(processDir, orbitDir)
	if cfg.RefSafes, cfg.SecSafes, err = isce.GroupPair(filepath.Join(*workDir, insarlib.SLC_DIR_NAME)); err != nil {
		return
	}
	cfg.DemPath = isce.DetectDem(filepath.Join(*workDir, insarlib.DEM_DIR_NAME))
	if c := center(); c != nil {
		span := c.Span(*dLonLat)
		// topsApp感兴趣区为纬度在前的次序
		cfg.Roi = &[4]float64{span[2], span[3], span[0], span[1]}
	}
	return cfg.WriteConfigs()
}

func runIsce(ctx context.Context) (err error) {
	if err = isce.CheckTopsApp(); err != nil {
		return
	}
	return isce.Run(ctx, filepath.Join(*workDir, insarlib.PROCESS_DIR_NAME))
}

// 后处理：轨道号取自-orbit，缺省时从场景清单文件名推断
func runPost() (err error) {
	opt := insarlib.DefaultPostOptions(*workDir)
	opt.Center = center()
	opt.HalfWidth = *dLonLat
	opt.CohThreshold = *cohTh
	if *orbit != "" {
		opt.Orbit = *orbit
	} else if listPath, e := asf.DetectListFile(*workDir, platformName(), ""); e == nil {
		if ob := asf.OrbitFromListFile(listPath); ob != "" {
			opt.Orbit = ob
		}
	}
	return insarlib.RunPost(insarlib.NewGdalToolbox(), opt)
}
