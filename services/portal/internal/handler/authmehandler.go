package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/ticketdesk/portal/services/portal/internal/logic"
	"github.com/ticketdesk/portal/services/portal/internal/svc"
)

func AuthMeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewAuthMeLogic(r.Context(), svcCtx)
		resp, err := l.AuthMe()
		if err != nil {
			writeTicketsError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
