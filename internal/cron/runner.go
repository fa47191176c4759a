// Package cronrunner schedules periodic jobs such as the reconciliation sweep.
package cronrunner

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/cesargomez89/ingestq/internal/logger"
)

type Runner struct {
	cron    *cron.Cron
	logger  *logger.Logger
	baseCtx context.Context
}

func New(log *logger.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	log = log.WithComponent("cron")
	cl := cronLogger{log}
	return &Runner{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger:  log,
		baseCtx: baseCtx,
	}
}

// Add registers job under a standard five-field spec or a descriptor such as "@every 5m".
func (r *Runner) Add(spec string, job func(context.Context)) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		job(r.baseCtx)
	})
}

func (r *Runner) Start() {
	r.logger.Info("Cron started", "entries", len(r.cron.Entries()))
	r.cron.Start()
}

// Stop waits for running jobs to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("Cron stopped")
}

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	l *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
