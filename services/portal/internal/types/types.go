// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package types

type AuthLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthLoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type UserInfo struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type MeResponse struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type TicketView struct {
	Id              uint64   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Amount          *float64 `json:"amount,omitempty"`
	Status          string   `json:"status"`
	Maker           string   `json:"maker"`
	Checker         string   `json:"checker,omitempty"`
	RejectionReason string   `json:"rejectionReason,omitempty"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

type TicketListRequest struct {
	Status string `form:"status,optional"`
	Maker  string `form:"maker,optional"`
	Mine   bool   `form:"mine,optional"`
	Page   int    `form:"page,optional"`
	Size   int    `form:"size,optional"`
}

type TicketListResponse struct {
	Tickets []TicketView `json:"tickets"`
	Total   int64        `json:"total"`
	Page    int          `json:"page"`
	Size    int          `json:"size"`
}

type TicketDetailRequest struct {
	Id uint64 `path:"id"`
}

type TicketCreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,optional"`
	Amount      *float64 `json:"amount,optional"`
}

type TicketTransitionRequest struct {
	Id uint64 `path:"id"`
}

type TicketRejectRequest struct {
	Id     uint64 `path:"id"`
	Reason string `json:"reason"`
}

type ReportGenerateRequest struct {
	Domain string `path:"domain"`
	Format string `form:"format,default=xlsx"`
}

type ReportGenerateResponse struct {
	JobId string `json:"jobId"`
}

type ReportStatusRequest struct {
	JobId string `path:"jobId"`
}

type ReportStatusResponse struct {
	JobId        string `json:"jobId"`
	Status       string `json:"status"`
	Progress     int    `json:"progress"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	FileName     string `json:"fileName,omitempty"`
}

type ReportDownloadRequest struct {
	JobId string `path:"jobId"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
