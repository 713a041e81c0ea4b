package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	ticketsgorm "github.com/ticketdesk/portal/internal/infra/persistence/gorm/tickets"
	"github.com/ticketdesk/portal/pkg/portal"
	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

type TicketSubmitLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewTicketSubmitLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TicketSubmitLogic {
	return &TicketSubmitLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// TicketSubmit moves a DRAFT or REJECTED ticket to SUBMITTED. Only the maker
// may submit; a resubmission clears the previous decision.
func (l *TicketSubmitLogic) TicketSubmit(req *types.TicketTransitionRequest) (*types.TicketView, error) {
	t, err := loadTicket(l.ctx, l.svcCtx, req.Id)
	if err != nil {
		return nil, err
	}
	actor := svc.ActorFromContext(l.ctx)
	guard := guardTicket(t)
	if !portal.CanSubmit(guard, actor) {
		if guard.Status != portal.StatusDraft && guard.Status != portal.StatusRejected {
			return nil, ErrInvalidTransition
		}
		return nil, ErrForbidden
	}
	from := t.Status
	t.Status = string(portal.StatusSubmitted)
	t.Checker = ""
	t.RejectionReason = ""
	if err := l.svcCtx.Tickets.Update(l.ctx, t); err != nil {
		return nil, err
	}
	auditTransition(l.ctx, l.Logger, l.svcCtx, "TICKET_SUBMITTED", t, actor, from)
	view := ticketView(t)
	return &view, nil
}

func guardTicket(t *ticketsgorm.Ticket) *portal.Ticket {
	return &portal.Ticket{
		ID:     int64(t.ID),
		Status: portal.TicketStatus(t.Status),
		Maker:  t.Maker,
	}
}

func auditTransition(ctx context.Context, log logx.Logger, svcCtx *svc.ServiceContext, action string, t *ticketsgorm.Ticket, actor, from string) {
	err := svcCtx.Tickets.AppendAudit(ctx, action, idString(t.ID), actor, map[string]any{
		"from": from,
		"to":   t.Status,
	})
	if err != nil {
		log.Errorf("audit write failed: %v", err)
	}
}
