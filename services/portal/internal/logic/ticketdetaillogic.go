package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

type TicketDetailLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewTicketDetailLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TicketDetailLogic {
	return &TicketDetailLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *TicketDetailLogic) TicketDetail(req *types.TicketDetailRequest) (*types.TicketView, error) {
	t, err := loadTicket(l.ctx, l.svcCtx, req.Id)
	if err != nil {
		return nil, err
	}
	view := ticketView(t)
	return &view, nil
}
