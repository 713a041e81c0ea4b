package reports

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ticketdesk/portal/internal/platform/objstore"
)

// Status enumerates report job states as exposed on the status endpoint.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Job tracks one asynchronous report generation. Jobs are created by
// Start, mutated only by the manager, and terminal at COMPLETED or FAILED.
type Job struct {
	ID           string
	Domain       string
	Format       string
	Status       Status
	Progress     int
	ErrorMessage string
	FileName     string
	Key          string
	ContentType  string
	CreatedAt    time.Time
	CompletedAt  time.Time
}

// Source produces the tabular data for one report domain.
type Source func(ctx context.Context) (Table, error)

// Manager holds the in-memory job table and runs generation in the
// background. Artifacts land in the object store under their job id.
type Manager struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	order   []string
	store   *objstore.Store
	sources map[string]Source
}

func NewManager(store *objstore.Store, sources map[string]Source) *Manager {
	return &Manager{
		jobs:    map[string]*Job{},
		store:   store,
		sources: sources,
	}
}

// ValidFormat reports whether s is a renderable artifact format.
func ValidFormat(s string) bool {
	switch strings.ToLower(s) {
	case "xlsx", "pdf":
		return true
	}
	return false
}

func contentTypeFor(format string) string {
	if format == "pdf" {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Start creates a job for the domain and kicks off rendering. The returned
// job is a snapshot; poll Get for progress.
func (m *Manager) Start(ctx context.Context, domain, format string) (Job, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if !ValidFormat(format) {
		return Job{}, fmt.Errorf("unsupported format %q", format)
	}
	src, ok := m.sources[domain]
	if !ok {
		return Job{}, fmt.Errorf("unknown report domain %q", domain)
	}

	job := &Job{
		ID:        uuid.NewString(),
		Domain:    domain,
		Format:    format,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	m.mu.Lock()
	m.jobs[job.ID] = job
	m.order = append(m.order, job.ID)
	m.mu.Unlock()

	// The job must outlive the originating HTTP request.
	go m.run(context.WithoutCancel(ctx), job.ID, src)
	return *job, nil
}

func (m *Manager) run(ctx context.Context, jobID string, src Source) {
	m.setProgress(jobID, 10)

	table, err := src(ctx)
	if err != nil {
		m.markFailed(jobID, err)
		return
	}
	m.setProgress(jobID, 30)

	job, ok := m.Get(jobID)
	if !ok {
		return
	}
	var data []byte
	if job.Format == "pdf" {
		data, err = renderPDF(table)
	} else {
		data, err = renderXLSX(table)
	}
	if err != nil {
		m.markFailed(jobID, err)
		return
	}
	m.setProgress(jobID, 60)

	key := jobID + "." + job.Format
	contentType := contentTypeFor(job.Format)
	if err := m.store.Put(ctx, key, data, contentType); err != nil {
		m.markFailed(jobID, err)
		return
	}
	m.setProgress(jobID, 90)

	fileName := job.Domain + "_report." + job.Format
	m.mu.Lock()
	if j := m.jobs[jobID]; j != nil {
		j.Status = StatusCompleted
		j.Progress = 100
		j.Key = key
		j.FileName = fileName
		j.ContentType = contentType
		j.CompletedAt = time.Now()
	}
	m.mu.Unlock()
	logx.Infof("report job %s completed: %s", jobID, fileName)
}

func (m *Manager) setProgress(jobID string, progress int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j := m.jobs[jobID]
	if j == nil || j.Status == StatusCompleted || j.Status == StatusFailed {
		return
	}
	j.Status = StatusProcessing
	if progress > j.Progress {
		j.Progress = progress
	}
}

func (m *Manager) markFailed(jobID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j := m.jobs[jobID]; j != nil {
		j.Status = StatusFailed
		j.ErrorMessage = err.Error()
		j.CompletedAt = time.Now()
	}
	logx.Errorf("report job %s failed: %v", jobID, err)
}

// Get returns a snapshot of the job.
func (m *Manager) Get(jobID string) (Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j := m.jobs[jobID]
	if j == nil {
		return Job{}, false
	}
	return *j, true
}

// Artifact returns the bytes, content type and download filename of a
// completed job.
func (m *Manager) Artifact(ctx context.Context, jobID string) ([]byte, string, string, error) {
	job, ok := m.Get(jobID)
	if !ok {
		return nil, "", "", fmt.Errorf("job %s not found", jobID)
	}
	if job.Status != StatusCompleted {
		return nil, "", "", fmt.Errorf("job %s not completed", jobID)
	}
	data, err := m.store.Get(ctx, job.Key)
	if err != nil {
		return nil, "", "", err
	}
	return data, job.ContentType, job.FileName, nil
}

// Snapshot returns all jobs, newest first.
func (m *Manager) Snapshot() []Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Job, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		if j := m.jobs[m.order[i]]; j != nil {
			out = append(out, *j)
		}
	}
	return out
}
