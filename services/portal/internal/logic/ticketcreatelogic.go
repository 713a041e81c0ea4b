package logic

import (
	"context"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	ticketsgorm "github.com/ticketdesk/portal/internal/infra/persistence/gorm/tickets"
	"github.com/ticketdesk/portal/pkg/portal"
	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

type TicketCreateLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewTicketCreateLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TicketCreateLogic {
	return &TicketCreateLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *TicketCreateLogic) TicketCreate(req *types.TicketCreateRequest) (*types.TicketView, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || len(title) > 255 {
		return nil, ErrInvalidRequest
	}
	if req.Amount != nil && *req.Amount < 0 {
		return nil, ErrInvalidRequest
	}
	actor := svc.ActorFromContext(l.ctx)
	t := &ticketsgorm.Ticket{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Status:      string(portal.StatusDraft),
		Maker:       actor,
	}
	if err := l.svcCtx.Tickets.Create(l.ctx, t); err != nil {
		return nil, err
	}
	l.auditCreate(t, actor)
	view := ticketView(t)
	return &view, nil
}

func (l *TicketCreateLogic) auditCreate(t *ticketsgorm.Ticket, actor string) {
	err := l.svcCtx.Tickets.AppendAudit(l.ctx, "TICKET_CREATED", idString(t.ID), actor, map[string]any{
		"title": t.Title,
	})
	if err != nil {
		l.Errorf("audit write failed: %v", err)
	}
}
