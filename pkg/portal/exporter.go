package portal

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// ReportCaller is the job-lifecycle surface the orchestrator drives.
type ReportCaller interface {
	Generate(ctx context.Context, format Format) (string, error)
	Status(ctx context.Context, jobID string) (JobState, error)
	Download(ctx context.Context, jobID string) ([]byte, string, error)
}

// Saver persists a downloaded artifact.
type Saver func(filename, contentType string, data []byte) error

// ExportOrchestrator runs the generate → poll → download protocol for one
// report domain. It owns exactly one poll schedule at a time: Start while an
// export is in flight is a no-op, and every terminal path (downloaded, job
// failed, generate failed, context cancelled) stops the schedule and clears
// the in-flight state so the user can retry.
type ExportOrchestrator struct {
	gw       ReportCaller
	sink     NotificationSink
	save     Saver
	baseName string

	interval       time.Duration
	jitter         time.Duration
	rateLimitGrace int

	mu       sync.Mutex
	inFlight bool
	cancel   context.CancelFunc
	progress int
	done     chan struct{}
}

type ExportOption func(*ExportOrchestrator)

// WithPollInterval sets the base poll interval (default 2s).
func WithPollInterval(d time.Duration) ExportOption {
	return func(o *ExportOrchestrator) { o.interval = d }
}

// WithPollJitter sets the maximum random jitter added to each interval.
func WithPollJitter(d time.Duration) ExportOption {
	return func(o *ExportOrchestrator) { o.jitter = d }
}

// WithRateLimitGrace sets how many consecutive 429 responses are absorbed
// silently before the progress message switches to a contention notice
// (default 3). Polling itself never aborts on 429.
func WithRateLimitGrace(n int) ExportOption {
	return func(o *ExportOrchestrator) { o.rateLimitGrace = n }
}

// WithBaseName sets the artifact filename stem (default "report").
func WithBaseName(name string) ExportOption {
	return func(o *ExportOrchestrator) { o.baseName = name }
}

func NewExportOrchestrator(gw ReportCaller, sink NotificationSink, save Saver, opts ...ExportOption) *ExportOrchestrator {
	o := &ExportOrchestrator{
		gw:             gw,
		sink:           sink,
		save:           save,
		baseName:       "report",
		interval:       2 * time.Second,
		jitter:         500 * time.Millisecond,
		rateLimitGrace: 3,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// InFlight reports whether an export is currently running.
func (o *ExportOrchestrator) InFlight() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inFlight
}

// Progress returns the last observed job progress (0-100).
func (o *ExportOrchestrator) Progress() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progress
}

// Start begins an export. It returns false without doing anything when an
// export is already in flight; the running poll loop is unaffected. The
// returned channel (when started) closes once the export reaches a terminal
// state.
func (o *ExportOrchestrator) Start(ctx context.Context, format Format) (<-chan struct{}, bool) {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return nil, false
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	o.inFlight = true
	o.cancel = cancel
	o.progress = 0
	o.done = done
	o.mu.Unlock()

	go o.run(runCtx, format, done)
	return done, true
}

// Stop is the external teardown signal (e.g. the consuming view going away).
// It cancels the poll schedule; the in-flight request, if any, is not
// interrupted beyond its context.
func (o *ExportOrchestrator) Stop() {
	o.mu.Lock()
	cancel := o.cancel
	o.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (o *ExportOrchestrator) run(ctx context.Context, format Format, done chan struct{}) {
	defer func() {
		o.mu.Lock()
		o.inFlight = false
		o.progress = 0
		if o.cancel != nil {
			o.cancel()
			o.cancel = nil
		}
		o.mu.Unlock()
		close(done)
	}()

	o.sink.Info(fmt.Sprintf("starting %s export", format.Ext()))
	jobID, err := o.gw.Generate(ctx, format)
	if err != nil {
		o.sink.Error(exportErrMessage("could not start export", err))
		return
	}

	// One timer, re-armed only after each poll returns: a slow round-trip
	// delays the next poll instead of overlapping it.
	timer := time.NewTimer(o.nextDelay())
	defer timer.Stop()

	consecutive429 := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		st, err := o.gw.Status(ctx, jobID)
		switch {
		case IsRateLimited(err):
			consecutive429++
			if consecutive429 >= o.rateLimitGrace {
				o.sink.Info("waiting for server, retrying shortly")
			}
			timer.Reset(o.nextDelay())
			continue
		case err != nil:
			o.sink.Error(exportErrMessage("status check failed", err))
			return
		}
		consecutive429 = 0

		o.mu.Lock()
		o.progress = st.Progress
		o.mu.Unlock()

		switch st.Status {
		case JobCompleted:
			o.download(ctx, jobID, format)
			return
		case JobFailed:
			msg := st.ErrorMessage
			if msg == "" {
				msg = "unknown error"
			}
			o.sink.Error("export failed: " + msg)
			return
		default:
			o.sink.Info(fmt.Sprintf("processing... %d%%", st.Progress))
			timer.Reset(o.nextDelay())
		}
	}
}

func (o *ExportOrchestrator) download(ctx context.Context, jobID string, format Format) {
	o.sink.Info("downloading report")
	data, contentType, err := o.gw.Download(ctx, jobID)
	if err != nil {
		o.sink.Error(exportErrMessage("download failed", err))
		return
	}
	if contentType == "" {
		contentType = format.ContentType()
	}
	name := o.baseName + "." + format.Ext()
	if err := o.save(name, contentType, data); err != nil {
		o.sink.Error("could not save " + name + ": " + err.Error())
		return
	}
	o.sink.Success("report saved as " + name)
}

func (o *ExportOrchestrator) nextDelay() time.Duration {
	d := o.interval
	if o.jitter > 0 {
		d += time.Duration(rand.Int63n(int64(o.jitter)))
	}
	return d
}

func exportErrMessage(prefix string, err error) string {
	if code := StatusCode(err); code != 0 {
		return fmt.Sprintf("%s (HTTP %d): %v", prefix, code, err)
	}
	return prefix + ": " + err.Error()
}
