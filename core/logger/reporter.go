package logger

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Reporter is the progress and error sink used during a sync run.
// Nothing in the pipeline branches on what a Reporter does.
type Reporter interface {
	// Activity starts a named, timed activity.
	Activity(name string) Activity
	// Progress starts a counted activity over total items.
	Progress(name string, total int) Progress
	// Error records a recoverable error.
	Error(msg string, err error, fields ...zap.Field)
}

// Activity is a running timed step.
type Activity interface {
	End()
}

// Progress is a running counted step. Tick is safe for concurrent use.
type Progress interface {
	Tick()
	Done()
}

// NewReporter returns a Reporter that writes to the given zap logger.
func NewReporter(l *zap.Logger) Reporter {
	return &zapReporter{log: l}
}

type zapReporter struct {
	log *zap.Logger
}

func (r *zapReporter) Activity(name string) Activity {
	r.log.Info("Activity started", zap.String("activity", name))
	return &zapActivity{log: r.log, name: name, start: time.Now()}
}

func (r *zapReporter) Progress(name string, total int) Progress {
	r.log.Info("Progress started", zap.String("activity", name), zap.Int("total", total))
	return &zapProgress{log: r.log, name: name, total: total, start: time.Now()}
}

func (r *zapReporter) Error(msg string, err error, fields ...zap.Field) {
	r.log.Error(msg, append(fields, zap.Error(err))...)
}

type zapActivity struct {
	log   *zap.Logger
	name  string
	start time.Time
	once  sync.Once
}

func (a *zapActivity) End() {
	a.once.Do(func() {
		a.log.Info("Activity finished",
			zap.String("activity", a.name),
			zap.Duration("elapsed", time.Since(a.start)),
		)
	})
}

type zapProgress struct {
	log     *zap.Logger
	name    string
	total   int
	current atomic.Int64
	start   time.Time
	once    sync.Once
}

func (p *zapProgress) Tick() {
	n := p.current.Add(1)
	p.log.Debug("Progress",
		zap.String("activity", p.name),
		zap.Int64("current", n),
		zap.Int("total", p.total),
	)
}

func (p *zapProgress) Done() {
	p.once.Do(func() {
		p.log.Info("Progress finished",
			zap.String("activity", p.name),
			zap.Int64("processed", p.current.Load()),
			zap.Int("total", p.total),
			zap.Duration("elapsed", time.Since(p.start)),
		)
	})
}
