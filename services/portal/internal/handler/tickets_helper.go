package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/ticketdesk/portal/services/portal/internal/logic"
)

func writeTicketsError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, logic.ErrInvalidRequest):
		httpx.WriteJsonCtx(ctx, w, http.StatusBadRequest, map[string]string{"message": err.Error()})
	case errors.Is(err, logic.ErrUnauthorized):
		httpx.WriteJsonCtx(ctx, w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
	case errors.Is(err, logic.ErrForbidden):
		httpx.WriteJsonCtx(ctx, w, http.StatusForbidden, map[string]string{"message": "forbidden"})
	case errors.Is(err, logic.ErrNotFound):
		httpx.WriteJsonCtx(ctx, w, http.StatusNotFound, map[string]string{"message": "not found"})
	case errors.Is(err, logic.ErrInvalidTransition):
		httpx.WriteJsonCtx(ctx, w, http.StatusConflict, map[string]string{"message": "invalid transition"})
	case errors.Is(err, logic.ErrLoginRateLimit):
		httpx.WriteJsonCtx(ctx, w, http.StatusTooManyRequests, map[string]string{"message": "too many attempts"})
	default:
		httpx.ErrorCtx(ctx, w, err)
	}
}
