package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/ticketdesk/portal/services/portal/internal/logic"
	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

func ReportGenerateHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ReportGenerateRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		l := logic.NewReportGenerateLogic(r.Context(), svcCtx)
		resp, err := l.ReportGenerate(&req)
		if err != nil {
			writeTicketsError(r.Context(), w, err)
			return
		}
		httpx.WriteJsonCtx(r.Context(), w, http.StatusAccepted, resp)
	}
}
