// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"github.com/ticketdesk/portal/services/portal/internal/middleware"
	"github.com/ticketdesk/portal/services/portal/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	auth := middleware.NewAuthMiddleware(serverCtx)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/healthz",
				Handler: HealthzHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/auth/login",
				Handler: AuthLoginHandler(serverCtx),
			},
		},
	)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/api/auth/me",
				Handler: auth.Handle()(AuthMeHandler(serverCtx)),
			},
		},
	)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/api/tickets",
				Handler: auth.Handle("tickets:read")(TicketsListHandler(serverCtx)),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/tickets",
				Handler: auth.Handle("tickets:create")(TicketCreateHandler(serverCtx)),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/tickets/:id",
				Handler: auth.Handle("tickets:read")(TicketDetailHandler(serverCtx)),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/tickets/:id/submit",
				Handler: auth.Handle("tickets:submit")(TicketSubmitHandler(serverCtx)),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/tickets/:id/approve",
				Handler: auth.Handle("tickets:decide")(TicketApproveHandler(serverCtx)),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/tickets/:id/reject",
				Handler: auth.Handle("tickets:decide")(TicketRejectHandler(serverCtx)),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/tickets/:id/complete",
				Handler: auth.Handle("tickets:complete")(TicketCompleteHandler(serverCtx)),
			},
		},
	)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/api/reports/:domain/generate",
				Handler: auth.Handle("reports:export")(ReportGenerateHandler(serverCtx)),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/reports/status/:jobId",
				Handler: auth.Handle("reports:export")(ReportStatusHandler(serverCtx)),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/reports/download/:jobId",
				Handler: auth.Handle("reports:export")(ReportDownloadHandler(serverCtx)),
			},
		},
	)
}
