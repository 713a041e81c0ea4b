package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/ticketdesk/portal/services/portal/internal/logic"
	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

func ReportDownloadHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ReportDownloadRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		l := logic.NewReportDownloadLogic(r.Context(), svcCtx)
		data, contentType, fileName, err := l.ReportDownload(&req)
		if err != nil {
			writeTicketsError(r.Context(), w, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
