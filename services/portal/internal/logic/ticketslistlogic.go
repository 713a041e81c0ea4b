package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	ticketsgorm "github.com/ticketdesk/portal/internal/infra/persistence/gorm/tickets"
	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

type TicketsListLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewTicketsListLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TicketsListLogic {
	return &TicketsListLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *TicketsListLogic) TicketsList(req *types.TicketListRequest) (*types.TicketListResponse, error) {
	f := ticketsgorm.Filter{Status: req.Status, Maker: req.Maker}
	if req.Mine {
		f.Maker = svc.ActorFromContext(l.ctx)
	}
	p := ticketsgorm.Page{Page: req.Page, Size: req.Size}
	rows, total, err := l.svcCtx.Tickets.List(l.ctx, f, p)
	if err != nil {
		return nil, err
	}
	items := make([]types.TicketView, 0, len(rows))
	for _, t := range rows {
		items = append(items, ticketView(t))
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Size <= 0 {
		p.Size = 20
	}
	return &types.TicketListResponse{Tickets: items, Total: total, Page: p.Page, Size: p.Size}, nil
}
