package portal

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type statusStep struct {
	state JobState
	err   error
}

type scriptCaller struct {
	mu        sync.Mutex
	genErr    error
	genCalls  int
	steps     []statusStep
	i         int
	dlCalls   int
	dlErr     error
	dlData    []byte
	dlType    string
	statCalls int
}

func (s *scriptCaller) Generate(context.Context, Format) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genCalls++
	if s.genErr != nil {
		return "", s.genErr
	}
	return "job-1", nil
}

func (s *scriptCaller) Status(context.Context, string) (JobState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statCalls++
	step := s.steps[len(s.steps)-1]
	if s.i < len(s.steps) {
		step = s.steps[s.i]
		s.i++
	}
	return step.state, step.err
}

func (s *scriptCaller) Download(context.Context, string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dlCalls++
	if s.dlErr != nil {
		return nil, "", s.dlErr
	}
	data := s.dlData
	if data == nil {
		data = []byte("artifact")
	}
	return data, s.dlType, nil
}

type recSink struct {
	mu   sync.Mutex
	msgs []Notification
}

func (s *recSink) Info(msg string)    { s.add(LevelInfo, msg) }
func (s *recSink) Success(msg string) { s.add(LevelSuccess, msg) }
func (s *recSink) Error(msg string)   { s.add(LevelError, msg) }

func (s *recSink) add(level, msg string) {
	s.mu.Lock()
	s.msgs = append(s.msgs, Notification{Level: level, Message: msg})
	s.mu.Unlock()
}

func (s *recSink) has(level, substr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.msgs {
		if m.Level == level && strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

type savedFile struct {
	name        string
	contentType string
	data        []byte
}

func newTestOrchestrator(gw ReportCaller, sink NotificationSink, saved *[]savedFile) *ExportOrchestrator {
	save := func(name, contentType string, data []byte) error {
		*saved = append(*saved, savedFile{name, contentType, data})
		return nil
	}
	return NewExportOrchestrator(gw, sink, save,
		WithPollInterval(time.Millisecond),
		WithPollJitter(0),
		WithBaseName("tickets_report"),
	)
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("export did not finish")
	}
}

func TestExportHappyPath(t *testing.T) {
	gw := &scriptCaller{steps: []statusStep{
		{state: JobState{Status: JobPending, Progress: 0}},
		{state: JobState{Status: JobProcessing, Progress: 50}},
		{state: JobState{Status: JobCompleted, Progress: 100}},
	}}
	sink := &recSink{}
	var saved []savedFile
	o := newTestOrchestrator(gw, sink, &saved)

	done, ok := o.Start(context.Background(), FormatXLSX)
	if !ok {
		t.Fatal("start refused")
	}
	waitDone(t, done)

	if gw.dlCalls != 1 {
		t.Fatalf("want exactly one download, got %d", gw.dlCalls)
	}
	// polling must stop right after COMPLETED was observed
	if gw.statCalls != 3 {
		t.Fatalf("want 3 status polls, got %d", gw.statCalls)
	}
	if len(saved) != 1 || saved[0].name != "tickets_report.xlsx" {
		t.Fatalf("saved = %+v", saved)
	}
	if saved[0].contentType != FormatXLSX.ContentType() {
		t.Fatalf("content type = %s", saved[0].contentType)
	}
	if !sink.has(LevelSuccess, "tickets_report.xlsx") {
		t.Fatal("missing success notification")
	}
	if o.InFlight() {
		t.Fatal("in-flight flag not cleared")
	}
	if o.Progress() != 0 {
		t.Fatal("progress not cleared")
	}
}

func TestExportAbsorbsRateLimiting(t *testing.T) {
	rl := &RateLimitedError{Op: "status"}
	gw := &scriptCaller{steps: []statusStep{
		{err: rl},
		{err: rl},
		{err: rl},
		{err: rl}, // fourth consecutive 429 still must not abort
		{state: JobState{Status: JobProcessing, Progress: 80}},
		{state: JobState{Status: JobCompleted, Progress: 100}},
	}}
	sink := &recSink{}
	var saved []savedFile
	o := newTestOrchestrator(gw, sink, &saved)

	done, _ := o.Start(context.Background(), FormatPDF)
	waitDone(t, done)

	if sink.has(LevelError, "") {
		t.Fatalf("rate limiting must not produce an error: %+v", sink.msgs)
	}
	if !sink.has(LevelInfo, "waiting for server") {
		t.Fatal("expected contention notice after third consecutive 429")
	}
	if gw.dlCalls != 1 || len(saved) != 1 || saved[0].name != "tickets_report.pdf" {
		t.Fatalf("download after 429 run failed: dl=%d saved=%+v", gw.dlCalls, saved)
	}
}

func TestExportJobFailed(t *testing.T) {
	gw := &scriptCaller{steps: []statusStep{
		{state: JobState{Status: JobProcessing, Progress: 30}},
		{state: JobState{Status: JobFailed, ErrorMessage: "disk full"}},
	}}
	sink := &recSink{}
	var saved []savedFile
	o := newTestOrchestrator(gw, sink, &saved)

	done, _ := o.Start(context.Background(), FormatXLSX)
	waitDone(t, done)

	if !sink.has(LevelError, "disk full") {
		t.Fatalf("server error message must surface: %+v", sink.msgs)
	}
	if gw.dlCalls != 0 {
		t.Fatal("failed job must not be downloaded")
	}
	if gw.statCalls != 2 {
		t.Fatalf("polling must stop on FAILED, got %d polls", gw.statCalls)
	}
	if o.InFlight() {
		t.Fatal("in-flight flag not reset after failure")
	}
}

func TestExportSingleFlight(t *testing.T) {
	gw := &scriptCaller{steps: []statusStep{
		{state: JobState{Status: JobProcessing, Progress: 10}},
	}}
	sink := &recSink{}
	var saved []savedFile
	o := newTestOrchestrator(gw, sink, &saved)

	done, ok := o.Start(context.Background(), FormatXLSX)
	if !ok {
		t.Fatal("first start refused")
	}
	if _, ok := o.Start(context.Background(), FormatPDF); ok {
		t.Fatal("second start while in flight must be a no-op")
	}
	o.Stop()
	waitDone(t, done)

	if gw.genCalls != 1 {
		t.Fatalf("no second jobId may be requested, got %d generate calls", gw.genCalls)
	}
	if o.InFlight() {
		t.Fatal("teardown must clear in-flight state")
	}

	// a fresh export is allowed after the previous one terminated
	if _, ok := o.Start(context.Background(), FormatXLSX); !ok {
		t.Fatal("start after teardown refused")
	}
	o.Stop()
}

func TestExportGenerateFailure(t *testing.T) {
	gw := &scriptCaller{
		genErr: &ServerError{Op: "generate", StatusCode: 500, Message: "boom"},
		steps:  []statusStep{{state: JobState{Status: JobPending}}},
	}
	sink := &recSink{}
	var saved []savedFile
	o := newTestOrchestrator(gw, sink, &saved)

	done, _ := o.Start(context.Background(), FormatXLSX)
	waitDone(t, done)

	if gw.statCalls != 0 {
		t.Fatal("no polling may start when generate fails")
	}
	if !sink.has(LevelError, "could not start export") {
		t.Fatalf("missing generate error: %+v", sink.msgs)
	}
	if o.InFlight() {
		t.Fatal("in-flight flag not cleared")
	}
}

func TestExportPollServerError(t *testing.T) {
	gw := &scriptCaller{steps: []statusStep{
		{state: JobState{Status: JobProcessing, Progress: 10}},
		{err: &ServerError{Op: "status", StatusCode: 502, Message: "bad gateway"}},
	}}
	sink := &recSink{}
	var saved []savedFile
	o := newTestOrchestrator(gw, sink, &saved)

	done, _ := o.Start(context.Background(), FormatXLSX)
	waitDone(t, done)

	if !sink.has(LevelError, "502") {
		t.Fatalf("poll error must include the status code: %+v", sink.msgs)
	}
	if gw.statCalls != 2 {
		t.Fatalf("polling must stop on a non-429 error, got %d", gw.statCalls)
	}
}

func TestExportDownloadFailure(t *testing.T) {
	gw := &scriptCaller{
		steps: []statusStep{{state: JobState{Status: JobCompleted, Progress: 100}}},
		dlErr: &NetworkError{Op: "download", Err: context.DeadlineExceeded},
	}
	sink := &recSink{}
	var saved []savedFile
	o := newTestOrchestrator(gw, sink, &saved)

	done, _ := o.Start(context.Background(), FormatPDF)
	waitDone(t, done)

	if gw.dlCalls != 1 {
		t.Fatalf("exactly one download attempt, got %d", gw.dlCalls)
	}
	if len(saved) != 0 {
		t.Fatal("nothing may be saved on download failure")
	}
	if !sink.has(LevelError, "download failed") {
		t.Fatalf("missing download error: %+v", sink.msgs)
	}
}
