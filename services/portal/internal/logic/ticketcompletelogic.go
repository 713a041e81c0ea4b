package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ticketdesk/portal/pkg/portal"
	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

type TicketCompleteLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewTicketCompleteLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TicketCompleteLogic {
	return &TicketCompleteLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// TicketComplete closes an APPROVED ticket. The maker closes their own
// approved work; admins may close any.
func (l *TicketCompleteLogic) TicketComplete(req *types.TicketTransitionRequest) (*types.TicketView, error) {
	t, err := loadTicket(l.ctx, l.svcCtx, req.Id)
	if err != nil {
		return nil, err
	}
	actor := svc.ActorFromContext(l.ctx)
	roles := svc.RolesFromContext(l.ctx)
	guard := guardTicket(t)
	if !portal.CanComplete(guard, actor, roles) {
		if guard.Status != portal.StatusApproved {
			return nil, ErrInvalidTransition
		}
		return nil, ErrForbidden
	}
	from := t.Status
	t.Status = string(portal.StatusCompleted)
	if err := l.svcCtx.Tickets.Update(l.ctx, t); err != nil {
		return nil, err
	}
	auditTransition(l.ctx, l.Logger, l.svcCtx, "TICKET_COMPLETED", t, actor, from)
	view := ticketView(t)
	return &view, nil
}
