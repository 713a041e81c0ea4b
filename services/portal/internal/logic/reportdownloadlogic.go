package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ticketdesk/portal/internal/reports"
	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

type ReportDownloadLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewReportDownloadLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ReportDownloadLogic {
	return &ReportDownloadLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ReportDownload returns the artifact bytes of a completed job.
func (l *ReportDownloadLogic) ReportDownload(req *types.ReportDownloadRequest) ([]byte, string, string, error) {
	job, ok := l.svcCtx.Reports.Get(req.JobId)
	if !ok {
		return nil, "", "", ErrNotFound
	}
	if job.Status != reports.StatusCompleted {
		return nil, "", "", ErrInvalidTransition
	}
	return l.svcCtx.Reports.Artifact(l.ctx, req.JobId)
}
