package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

func HealthzHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.OkJsonCtx(r.Context(), w, &types.HealthResponse{Status: "ok"})
	}
}
