package portal

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Format selects the report artifact type.
type Format string

const (
	FormatXLSX Format = "xlsx" // tabular spreadsheet
	FormatPDF  Format = "pdf"  // paginated document
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", &ValidationError{Field: "format", Reason: fmt.Sprintf("unsupported format %q", s)}
	}
}

// Ext returns the filename extension for the format.
func (f Format) Ext() string { return string(f) }

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// JobStatus enumerates report job states.
type JobStatus string

const (
	JobPending    JobStatus = "PENDING"
	JobProcessing JobStatus = "PROCESSING"
	JobCompleted  JobStatus = "COMPLETED"
	JobFailed     JobStatus = "FAILED"
)

// JobState is one poll observation of a report job.
type JobState struct {
	Status       JobStatus `json:"status"`
	Progress     int       `json:"progress"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}

// ReportGateway drives the report job endpoints for one report domain.
type ReportGateway struct {
	c      *Client
	domain string
}

// Generate starts a server-side report job and returns its id.
func (g *ReportGateway) Generate(ctx context.Context, format Format) (string, error) {
	var resp struct {
		JobID string `json:"jobId"`
	}
	path := pathf("/api/reports/%s/generate?format=%s", g.domain, format)
	if err := g.c.doJSON(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.JobID, nil
}

// Status polls the job. A 429 response surfaces as *RateLimitedError.
func (g *ReportGateway) Status(ctx context.Context, jobID string) (JobState, error) {
	var st JobState
	if err := g.c.doJSON(ctx, http.MethodGet, "/api/reports/status/"+jobID, nil, &st); err != nil {
		return JobState{}, err
	}
	return st, nil
}

// Download fetches the finished artifact bytes and their content type.
func (g *ReportGateway) Download(ctx context.Context, jobID string) ([]byte, string, error) {
	return g.c.doRaw(ctx, http.MethodGet, "/api/reports/download/"+jobID)
}
