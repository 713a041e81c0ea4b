package logic

import (
	"context"
	"errors"
	"strconv"
	"time"

	ticketsgorm "github.com/ticketdesk/portal/internal/infra/persistence/gorm/tickets"
	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

func ticketView(t *ticketsgorm.Ticket) types.TicketView {
	return types.TicketView{
		Id:              uint64(t.ID),
		Title:           t.Title,
		Description:     t.Description,
		Amount:          t.Amount,
		Status:          t.Status,
		Maker:           t.Maker,
		Checker:         t.Checker,
		RejectionReason: t.RejectionReason,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       t.UpdatedAt.Format(time.RFC3339),
	}
}

func idString(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func loadTicket(ctx context.Context, svcCtx *svc.ServiceContext, id uint64) (*ticketsgorm.Ticket, error) {
	t, err := svcCtx.Tickets.Get(ctx, uint(id))
	if errors.Is(err, ticketsgorm.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}
