package app

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

const auditTimeout = 5 * time.Minute

// StartBackgroundJobs schedules the store audit and the process monitor.
func (a *Application) StartBackgroundJobs() error {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.UTC
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	if a.appConfig.Audit.Enabled {
		if _, err := a.sched.AddFunc(a.appConfig.Audit.Cron, a.SchedIntegrityAuditTask); err != nil {
			return errors.Wrapf(err, "invalid audit schedule %q", a.appConfig.Audit.Cron)
		}
	}
	if _, err := a.sched.AddFunc("@every 5m", a.SchedProcessMonitorTask); err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
	return nil
}

// SchedIntegrityAuditTask re-validates the stored dataset
func (a *Application) SchedIntegrityAuditTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()
	res, err := a.AuditStore(ctx)
	if err != nil {
		zap.L().Error("store audit failed", zap.String("namespace", "audit"), zap.Error(err))
		return
	}
	if !res.OK() {
		zap.L().Warn("store audit found problems",
			zap.String("namespace", "audit"),
			zap.Strings("integrity", res.Integrity.Problems()),
			zap.Int("violations", len(res.Validation.Violations)),
			zap.Bool("digest_match", res.DigestMatches))
		return
	}
	zap.L().Info("store audit passed", zap.String("namespace", "audit"), zap.String("digest", res.Digest))
}

// processStats returns the resident memory (bytes) and CPU percent of this process.
func processStats() (uint64, float64) {
	p, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: PID is always within int32 range
	if err != nil {
		return 0, 0
	}
	var rss uint64
	if mem, err := p.MemoryInfo(); err == nil {
		rss = mem.RSS
	}
	cpuPercent, _ := p.CPUPercent()
	return rss, cpuPercent
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	rss, cpuPercent := processStats()
	zap.L().Debug("process stats",
		zap.String("namespace", "monitor"),
		zap.Uint64("rss_mb", rss/1024/1024),
		zap.Float64("cpu_percent", cpuPercent))
}
