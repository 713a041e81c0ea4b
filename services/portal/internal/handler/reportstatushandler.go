package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/ticketdesk/portal/services/portal/internal/logic"
	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

func ReportStatusHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ReportStatusRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		actor := svc.ActorFromContext(r.Context())
		if !svcCtx.AllowStatusPoll(r.Context(), actor) {
			w.Header().Set("Retry-After", "2")
			httpx.WriteJsonCtx(r.Context(), w, http.StatusTooManyRequests, map[string]string{"message": "too many requests"})
			return
		}
		l := logic.NewReportStatusLogic(r.Context(), svcCtx)
		resp, err := l.ReportStatus(&req)
		if err != nil {
			writeTicketsError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
