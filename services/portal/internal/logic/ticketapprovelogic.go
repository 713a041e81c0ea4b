package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ticketdesk/portal/pkg/portal"
	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

type TicketApproveLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewTicketApproveLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TicketApproveLogic {
	return &TicketApproveLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// TicketApprove moves a SUBMITTED ticket to APPROVED. The deciding actor must
// hold checker capability and must not be the ticket's maker.
func (l *TicketApproveLogic) TicketApprove(req *types.TicketTransitionRequest) (*types.TicketView, error) {
	t, err := loadTicket(l.ctx, l.svcCtx, req.Id)
	if err != nil {
		return nil, err
	}
	actor := svc.ActorFromContext(l.ctx)
	roles := svc.RolesFromContext(l.ctx)
	guard := guardTicket(t)
	if !portal.CanDecide(guard, actor, roles) {
		if guard.Status != portal.StatusSubmitted {
			return nil, ErrInvalidTransition
		}
		return nil, ErrForbidden
	}
	from := t.Status
	t.Status = string(portal.StatusApproved)
	t.Checker = actor
	t.RejectionReason = ""
	if err := l.svcCtx.Tickets.Update(l.ctx, t); err != nil {
		return nil, err
	}
	auditTransition(l.ctx, l.Logger, l.svcCtx, "TICKET_APPROVED", t, actor, from)
	view := ticketView(t)
	return &view, nil
}
