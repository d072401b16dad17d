package job

import (
	"context"
	"time"

	"github.com/reugn/go-quartz/job"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"
)

const STATUS_JOB_KEY = "status"

type StatusReporter interface {
	ReportStatus()
}

// StatusJob periodically asks the bridge to republish its state.
type StatusJob struct {
	interval  time.Duration
	reporter  StatusReporter
	scheduler quartz.Scheduler
	logger    *zap.Logger
}

func NewStatusJob(interval time.Duration, reporter StatusReporter, logger *zap.Logger) *StatusJob {
	return &StatusJob{
		interval: interval,
		reporter: reporter,
		logger:   logger.With(zap.String("job", STATUS_JOB_KEY)),
	}
}

// Start schedules the job. A zero interval disables it.
func (j *StatusJob) Start(ctx context.Context) error {
	if j.interval <= 0 {
		j.logger.Debug("status job disabled")
		return nil
	}
	sched := quartz.NewStdScheduler()
	sched.Start(ctx)

	reportJob := job.NewFunctionJob(func(_ context.Context) (bool, error) {
		j.logger.Debug("status job: report")
		j.reporter.ReportStatus()
		return true, nil
	})
	detail := quartz.NewJobDetail(reportJob, quartz.NewJobKey(STATUS_JOB_KEY))
	if err := sched.ScheduleJob(detail, quartz.NewSimpleTrigger(j.interval)); err != nil {
		sched.Stop()
		return err
	}
	j.scheduler = sched
	j.logger.Info("status job scheduled", zap.Duration("interval", j.interval))
	return nil
}

func (j *StatusJob) Stop(ctx context.Context) {
	if j.scheduler == nil {
		return
	}
	j.scheduler.Stop()
	j.scheduler.Wait(ctx)
	j.scheduler = nil
}
