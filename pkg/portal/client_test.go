package portal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientBearerHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"username":"alice","roles":["maker"]}`))
	}))
	defer srv.Close()

	auth := NewAuthContext(nil)
	auth.SetCustomSession("tok-123", Identity{Username: "alice"})
	c := NewClient(srv.URL, auth)

	if _, err := c.Me(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestClientErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/reports/status/j1":
			w.WriteHeader(http.StatusTooManyRequests)
		case "/api/auth/me":
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"unauthorized"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"template not found"}`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, NewAuthContext(nil))

	_, err := c.Reports("tickets").Status(context.Background(), "j1")
	if !IsRateLimited(err) {
		t.Fatalf("want RateLimitedError, got %v", err)
	}

	_, err = c.Me(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("want 401 auth error, got %v", err)
	}

	_, err = c.Reports("tickets").Generate(context.Background(), FormatPDF)
	var se *ServerError
	if !errors.As(err, &se) || se.StatusCode != 500 || se.Message != "template not found" {
		t.Fatalf("want ServerError with server message, got %v", err)
	}
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, NewAuthContext(nil))
	_, err := c.Tickets().Get(context.Background(), 1)
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("want NetworkError, got %v", err)
	}
}

func TestLoginInstallsCustomSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"t-1","user":{"username":"maker1","roles":["maker"]}}`))
	}))
	defer srv.Close()

	auth := NewAuthContext(nil)
	auth.SetSSOSession("sso-1", Identity{Username: "maker1@idp"})
	c := NewClient(srv.URL, auth)

	id, err := c.Login(context.Background(), "maker1", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if id.Username != "maker1" {
		t.Fatalf("identity = %+v", id)
	}
	if auth.Token() != "t-1" {
		t.Fatalf("custom session must now be current, token = %s", auth.Token())
	}

	if _, err := c.Login(context.Background(), "", ""); err == nil {
		t.Fatal("blank credentials must fail locally")
	}
}

func TestTicketGatewayRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/tickets/5/reject":
			w.Write([]byte(`{"id":5,"title":"t","status":"REJECTED","maker":"alice","checker":"bob","rejectionReason":"nope"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/tickets/5":
			w.Write([]byte(`{"id":5,"title":"t","status":"REJECTED","maker":"alice"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, NewAuthContext(nil))
	tk, err := c.Tickets().Reject(context.Background(), 5, "nope")
	if err != nil {
		t.Fatal(err)
	}
	if tk.Status != StatusRejected || tk.Checker != "bob" || tk.RejectionReason != "nope" {
		t.Fatalf("ticket = %+v", tk)
	}

	// reload after transition: server remains authoritative
	got, err := c.Tickets().Get(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusRejected {
		t.Fatalf("reloaded status = %s", got.Status)
	}
}
