package logic

import (
	"context"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ticketdesk/portal/pkg/portal"
	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

type TicketRejectLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewTicketRejectLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TicketRejectLogic {
	return &TicketRejectLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// TicketReject moves a SUBMITTED ticket to REJECTED. A non-blank reason is
// mandatory; it is stored on the ticket until resubmission.
func (l *TicketRejectLogic) TicketReject(req *types.TicketRejectRequest) (*types.TicketView, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrInvalidRequest
	}
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
	t.Status = string(portal.StatusRejected)
	t.Checker = actor
	t.RejectionReason = reason
	if err := l.svcCtx.Tickets.Update(l.ctx, t); err != nil {
		return nil, err
	}
	auditTransition(l.ctx, l.Logger, l.svcCtx, "TICKET_REJECTED", t, actor, from)
	view := ticketView(t)
	return &view, nil
}
