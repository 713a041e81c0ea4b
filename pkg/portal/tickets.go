package portal

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// TicketStatus enumerates the ticket lifecycle states.
type TicketStatus string

const (
	StatusDraft     TicketStatus = "DRAFT"
	StatusSubmitted TicketStatus = "SUBMITTED"
	StatusApproved  TicketStatus = "APPROVED"
	StatusRejected  TicketStatus = "REJECTED"
	StatusCompleted TicketStatus = "COMPLETED"
)

// Role names. The set is closed; checks use exact membership.
const (
	RoleMaker   = "maker"
	RoleChecker = "checker"
	RoleAdmin   = "admin"
)

// Ticket is the server representation of a maker/checker ticket.
type Ticket struct {
	ID              int64        `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	Status          TicketStatus `json:"status"`
	Amount          *float64     `json:"amount,omitempty"`
	Maker           string       `json:"maker"`
	Checker         string       `json:"checker,omitempty"`
	RejectionReason string       `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// CanSubmit reports whether actor may submit the ticket: only the maker, and
// only from DRAFT or REJECTED.
func CanSubmit(t *Ticket, actor string) bool {
	if t == nil || actor == "" {
		return false
	}
	return (t.Status == StatusDraft || t.Status == StatusRejected) && actor == t.Maker
}

// CanDecide reports whether actor may approve or reject the ticket: status
// SUBMITTED, a checker-equivalent role, and never the ticket's own maker
// (segregation of duties holds regardless of role).
func CanDecide(t *Ticket, actor string, roles []string) bool {
	if t == nil || actor == "" || t.Status != StatusSubmitted {
		return false
	}
	if actor == t.Maker {
		return false
	}
	return hasAnyRole(roles, RoleChecker, RoleAdmin)
}

// CanComplete reports whether actor may close an approved ticket. The maker
// closes their own approved work; admins may close any.
func CanComplete(t *Ticket, actor string, roles []string) bool {
	if t == nil || actor == "" || t.Status != StatusApproved {
		return false
	}
	return actor == t.Maker || hasAnyRole(roles, RoleAdmin)
}

func hasAnyRole(roles []string, want ...string) bool {
	for _, r := range roles {
		for _, w := range want {
			if r == w {
				return true
			}
		}
	}
	return false
}

// TicketCaller is the transition surface of the ticket gateway. The state
// machine depends on this interface so guards can be tested without a server.
type TicketCaller interface {
	Submit(ctx context.Context, id int64) (*Ticket, error)
	Approve(ctx context.Context, id int64) (*Ticket, error)
	Reject(ctx context.Context, id int64, reason string) (*Ticket, error)
	Complete(ctx context.Context, id int64) (*Ticket, error)
}

// StateMachine guards ticket transitions. Authorization and validation are
// checked locally and short-circuit before any network call; the server
// remains authoritative, so callers reload the ticket after a successful
// transition instead of trusting any client-side mutation.
type StateMachine struct {
	gw TicketCaller
}

func NewStateMachine(gw TicketCaller) *StateMachine {
	return &StateMachine{gw: gw}
}

// Submit moves a DRAFT or REJECTED ticket to SUBMITTED on behalf of its maker.
func (m *StateMachine) Submit(ctx context.Context, t *Ticket, actor string) (*Ticket, error) {
	if !CanSubmit(t, actor) {
		return nil, &AuthorizationError{Action: "submit", Actor: actor, Reason: "only the maker may submit a draft or rejected ticket"}
	}
	return m.gw.Submit(ctx, t.ID)
}

// Approve moves a SUBMITTED ticket to APPROVED.
func (m *StateMachine) Approve(ctx context.Context, t *Ticket, actor string, roles []string) (*Ticket, error) {
	if !CanDecide(t, actor, roles) {
		return nil, &AuthorizationError{Action: "approve", Actor: actor, Reason: "requires checker capability and a different actor than the maker"}
	}
	return m.gw.Approve(ctx, t.ID)
}

// Reject moves a SUBMITTED ticket to REJECTED, carrying a mandatory reason.
func (m *StateMachine) Reject(ctx context.Context, t *Ticket, actor string, roles []string, reason string) (*Ticket, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, &ValidationError{Field: "reason", Reason: "rejection reason must not be empty"}
	}
	if !CanDecide(t, actor, roles) {
		return nil, &AuthorizationError{Action: "reject", Actor: actor, Reason: "requires checker capability and a different actor than the maker"}
	}
	return m.gw.Reject(ctx, t.ID, strings.TrimSpace(reason))
}

// Complete closes an APPROVED ticket.
func (m *StateMachine) Complete(ctx context.Context, t *Ticket, actor string, roles []string) (*Ticket, error) {
	if !CanComplete(t, actor, roles) {
		return nil, &AuthorizationError{Action: "complete", Actor: actor, Reason: "only the maker or an admin may close an approved ticket"}
	}
	return m.gw.Complete(ctx, t.ID)
}

// TicketGateway is the REST gateway for ticket operations.
type TicketGateway struct {
	c *Client
}

// ListFilter narrows List results. Zero values mean no filtering.
type ListFilter struct {
	Status TicketStatus
	Maker  string
	Page   int
	Size   int
}

type ticketListResponse struct {
	Tickets []Ticket `json:"tickets"`
	Total   int64    `json:"total"`
}

func (g *TicketGateway) List(ctx context.Context, f ListFilter) ([]Ticket, int64, error) {
	path := "/api/tickets?"
	q := make([]string, 0, 4)
	if f.Status != "" {
		q = append(q, "status="+string(f.Status))
	}
	if f.Maker != "" {
		q = append(q, "maker="+f.Maker)
	}
	if f.Page > 0 {
		q = append(q, pathf("page=%d", f.Page))
	}
	if f.Size > 0 {
		q = append(q, pathf("size=%d", f.Size))
	}
	var resp ticketListResponse
	if err := g.c.doJSON(ctx, http.MethodGet, path+strings.Join(q, "&"), nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Tickets, resp.Total, nil
}

func (g *TicketGateway) Get(ctx context.Context, id int64) (*Ticket, error) {
	var t Ticket
	if err := g.c.doJSON(ctx, http.MethodGet, pathf("/api/tickets/%d", id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateRequest is the payload for a new DRAFT ticket.
type CreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
}

func (g *TicketGateway) Create(ctx context.Context, req CreateRequest) (*Ticket, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Field: "title", Reason: "title must not be empty"}
	}
	if req.Amount != nil && *req.Amount < 0 {
		return nil, &ValidationError{Field: "amount", Reason: "amount must be non-negative"}
	}
	var t Ticket
	if err := g.c.doJSON(ctx, http.MethodPost, "/api/tickets", req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (g *TicketGateway) Submit(ctx context.Context, id int64) (*Ticket, error) {
	return g.transition(ctx, id, "submit", nil)
}

func (g *TicketGateway) Approve(ctx context.Context, id int64) (*Ticket, error) {
	return g.transition(ctx, id, "approve", nil)
}

func (g *TicketGateway) Reject(ctx context.Context, id int64, reason string) (*Ticket, error) {
	return g.transition(ctx, id, "reject", map[string]string{"reason": reason})
}

func (g *TicketGateway) Complete(ctx context.Context, id int64) (*Ticket, error) {
	return g.transition(ctx, id, "complete", nil)
}

func (g *TicketGateway) transition(ctx context.Context, id int64, action string, body any) (*Ticket, error) {
	var t Ticket
	if err := g.c.doJSON(ctx, http.MethodPost, pathf("/api/tickets/%d/%s", id, action), body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
