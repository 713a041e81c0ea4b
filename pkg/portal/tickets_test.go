package portal

import (
	"context"
	"errors"
	"testing"
)

type countingCaller struct {
	calls  int
	last   string
	reason string
	err    error
}

func (c *countingCaller) Submit(_ context.Context, id int64) (*Ticket, error) {
	c.calls++
	c.last = "submit"
	if c.err != nil {
		return nil, c.err
	}
	return &Ticket{ID: id, Status: StatusSubmitted}, nil
}

func (c *countingCaller) Approve(_ context.Context, id int64) (*Ticket, error) {
	c.calls++
	c.last = "approve"
	if c.err != nil {
		return nil, c.err
	}
	return &Ticket{ID: id, Status: StatusApproved}, nil
}

func (c *countingCaller) Reject(_ context.Context, id int64, reason string) (*Ticket, error) {
	c.calls++
	c.last = "reject"
	c.reason = reason
	if c.err != nil {
		return nil, c.err
	}
	return &Ticket{ID: id, Status: StatusRejected, RejectionReason: reason}, nil
}

func (c *countingCaller) Complete(_ context.Context, id int64) (*Ticket, error) {
	c.calls++
	c.last = "complete"
	if c.err != nil {
		return nil, c.err
	}
	return &Ticket{ID: id, Status: StatusCompleted}, nil
}

func TestCanSubmit(t *testing.T) {
	cases := []struct {
		status TicketStatus
		actor  string
		want   bool
	}{
		{StatusDraft, "alice", true},
		{StatusRejected, "alice", true},
		{StatusSubmitted, "alice", false},
		{StatusApproved, "alice", false},
		{StatusCompleted, "alice", false},
		{StatusDraft, "bob", false},
		{StatusDraft, "", false},
	}
	for _, c := range cases {
		tk := &Ticket{ID: 1, Status: c.status, Maker: "alice"}
		if got := CanSubmit(tk, c.actor); got != c.want {
			t.Errorf("CanSubmit(%s, %q) = %v, want %v", c.status, c.actor, got, c.want)
		}
	}
	if CanSubmit(nil, "alice") {
		t.Error("CanSubmit(nil) should be false")
	}
}

func TestCanDecide(t *testing.T) {
	tk := &Ticket{ID: 1, Status: StatusSubmitted, Maker: "alice"}
	if !CanDecide(tk, "bob", []string{RoleChecker}) {
		t.Error("checker who is not the maker should decide")
	}
	if !CanDecide(tk, "bob", []string{RoleAdmin}) {
		t.Error("admin who is not the maker should decide")
	}
	// segregation of duties: the maker never decides, regardless of role
	if CanDecide(tk, "alice", []string{RoleChecker, RoleAdmin}) {
		t.Error("maker must not decide own ticket")
	}
	if CanDecide(tk, "bob", []string{RoleMaker}) {
		t.Error("maker role alone must not decide")
	}
	// exact role match, no substring classification
	if CanDecide(tk, "bob", []string{"administrative-assistant"}) {
		t.Error("unrelated role containing 'admin' must not decide")
	}
	draft := &Ticket{ID: 2, Status: StatusDraft, Maker: "alice"}
	if CanDecide(draft, "bob", []string{RoleChecker}) {
		t.Error("only SUBMITTED tickets are decidable")
	}
}

func TestSubmitGuard(t *testing.T) {
	gw := &countingCaller{}
	sm := NewStateMachine(gw)
	tk := &Ticket{ID: 7, Status: StatusDraft, Maker: "alice"}

	if _, err := sm.Submit(context.Background(), tk, "bob"); err == nil {
		t.Fatal("expected authorization error")
	} else {
		var ae *AuthorizationError
		if !errors.As(err, &ae) {
			t.Fatalf("want AuthorizationError, got %T", err)
		}
	}
	if gw.calls != 0 {
		t.Fatalf("authorization failure must not reach the network, got %d calls", gw.calls)
	}

	out, err := sm.Submit(context.Background(), tk, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != StatusSubmitted || gw.calls != 1 {
		t.Fatalf("submit: status=%s calls=%d", out.Status, gw.calls)
	}
}

func TestRejectBlankReason(t *testing.T) {
	gw := &countingCaller{}
	sm := NewStateMachine(gw)
	tk := &Ticket{ID: 7, Status: StatusSubmitted, Maker: "alice"}

	for _, reason := range []string{"", "   ", "\t\n"} {
		_, err := sm.Reject(context.Background(), tk, "bob", []string{RoleChecker}, reason)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("reason %q: want ValidationError, got %v", reason, err)
		}
	}
	if gw.calls != 0 {
		t.Fatalf("validation failure must not reach the network, got %d calls", gw.calls)
	}

	out, err := sm.Reject(context.Background(), tk, "bob", []string{RoleChecker}, "  missing receipts ")
	if err != nil {
		t.Fatal(err)
	}
	if out.RejectionReason != "missing receipts" {
		t.Fatalf("reason not trimmed: %q", out.RejectionReason)
	}
}

func TestDecisionGuards(t *testing.T) {
	gw := &countingCaller{}
	sm := NewStateMachine(gw)
	tk := &Ticket{ID: 7, Status: StatusSubmitted, Maker: "alice"}

	if _, err := sm.Approve(context.Background(), tk, "alice", []string{RoleChecker, RoleAdmin}); err == nil {
		t.Fatal("maker approving own ticket must fail")
	}
	if _, err := sm.Reject(context.Background(), tk, "alice", []string{RoleAdmin}, "r"); err == nil {
		t.Fatal("maker rejecting own ticket must fail")
	}
	if gw.calls != 0 {
		t.Fatalf("guards must short-circuit, got %d calls", gw.calls)
	}

	if _, err := sm.Approve(context.Background(), tk, "carol", []string{RoleChecker}); err != nil {
		t.Fatal(err)
	}
	if gw.last != "approve" {
		t.Fatalf("want approve call, got %s", gw.last)
	}
}

func TestCompleteGuard(t *testing.T) {
	gw := &countingCaller{}
	sm := NewStateMachine(gw)
	approved := &Ticket{ID: 7, Status: StatusApproved, Maker: "alice"}

	if _, err := sm.Complete(context.Background(), approved, "bob", []string{RoleChecker}); err == nil {
		t.Fatal("checker must not close another maker's ticket")
	}
	if _, err := sm.Complete(context.Background(), approved, "alice", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := sm.Complete(context.Background(), approved, "root", []string{RoleAdmin}); err != nil {
		t.Fatal(err)
	}
	submitted := &Ticket{ID: 8, Status: StatusSubmitted, Maker: "alice"}
	if _, err := sm.Complete(context.Background(), submitted, "alice", nil); err == nil {
		t.Fatal("only APPROVED tickets can be completed")
	}
}

func TestGatewayErrorsPassThrough(t *testing.T) {
	gw := &countingCaller{err: &ServerError{Op: "post", StatusCode: 503, Message: "down"}}
	sm := NewStateMachine(gw)
	tk := &Ticket{ID: 7, Status: StatusDraft, Maker: "alice"}

	_, err := sm.Submit(context.Background(), tk, "alice")
	if StatusCode(err) != 503 {
		t.Fatalf("server error must surface verbatim with status, got %v", err)
	}
	if gw.calls != 1 {
		t.Fatalf("exactly one attempt expected, got %d", gw.calls)
	}
}
