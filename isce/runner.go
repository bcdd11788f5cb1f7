package isce

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/wgdzlh/insarlib/log"

	"go.uber.org/zap"
)

const (
	topsAppCmd = "topsApp.py"

	// topsApp步骤区间，从启动到偏移量地理编码
	stepStart = "--start=startup"
	stepEnd   = "--end=geocodeoffsets"
)

// CheckTopsApp 确认ISCE的topsApp.py可在PATH中找到
func CheckTopsApp() error {
	if _, err := exec.LookPath(topsAppCmd); err != nil {
		return ErrTopsAppNotFound
	}
	return nil
}

// Run 在处理目录内阻塞执行topsApp全步骤，输出透传到标准输出流
func Run(ctx context.Context, processDir string) (err error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, topsAppCmd, TOPS_XML, "--steps", stepStart, stepEnd)
	cmd.Dir = processDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	log.Info("isce: topsApp started", zap.String("dir", processDir))
	if err = cmd.Run(); err != nil {
		log.Error("isce: topsApp failed", zap.Error(err), zap.Duration("cost", time.Since(start)))
		return
	}
	log.Info("isce: topsApp finished", zap.Duration("cost", time.Since(start)))
	return
}
