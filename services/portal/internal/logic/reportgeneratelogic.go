package logic

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

type ReportGenerateLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewReportGenerateLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ReportGenerateLogic {
	return &ReportGenerateLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ReportGenerate kicks off asynchronous report rendering and returns the job
// id for status polling.
func (l *ReportGenerateLogic) ReportGenerate(req *types.ReportGenerateRequest) (*types.ReportGenerateResponse, error) {
	job, err := l.svcCtx.Reports.Start(l.ctx, req.Domain, req.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	actor := svc.ActorFromContext(l.ctx)
	auditErr := l.svcCtx.Tickets.AppendAudit(l.ctx, "REPORT_REQUESTED", job.ID, actor, map[string]any{
		"domain": job.Domain,
		"format": job.Format,
	})
	if auditErr != nil {
		l.Errorf("audit write failed: %v", auditErr)
	}
	l.Infof("report job started: id=%s domain=%s format=%s actor=%s", job.ID, job.Domain, job.Format, actor)
	return &types.ReportGenerateResponse{JobId: job.ID}, nil
}
