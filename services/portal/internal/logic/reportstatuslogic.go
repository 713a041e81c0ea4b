package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

type ReportStatusLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewReportStatusLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ReportStatusLogic {
	return &ReportStatusLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ReportStatusLogic) ReportStatus(req *types.ReportStatusRequest) (*types.ReportStatusResponse, error) {
	job, ok := l.svcCtx.Reports.Get(req.JobId)
	if !ok {
		return nil, ErrNotFound
	}
	return &types.ReportStatusResponse{
		JobId:        job.ID,
		Status:       string(job.Status),
		Progress:     job.Progress,
		ErrorMessage: job.ErrorMessage,
		FileName:     job.FileName,
	}, nil
}
