package portal

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestSessionPrecedence(t *testing.T) {
	auth := NewAuthContext(nil)
	if auth.Authenticated() {
		t.Fatal("fresh context must be unauthenticated")
	}

	auth.SetSSOSession("sso-token", Identity{Username: "alice", Roles: []string{RoleMaker}})
	if auth.Token() != "sso-token" {
		t.Fatalf("token = %s", auth.Token())
	}

	// custom session wins over SSO
	auth.SetCustomSession("custom-token", Identity{Username: "alice.custom", Roles: []string{RoleChecker}})
	if auth.Token() != "custom-token" {
		t.Fatalf("custom session must take precedence, got %s", auth.Token())
	}
	id, ok := auth.Identity()
	if !ok || id.Username != "alice.custom" {
		t.Fatalf("identity = %+v", id)
	}

	// dropping the custom session falls back to SSO
	auth.ClearCustomSession()
	if auth.Token() != "sso-token" {
		t.Fatalf("expected SSO fallback, got %s", auth.Token())
	}

	auth.Clear()
	if auth.Authenticated() {
		t.Fatal("cleared context must be unauthenticated")
	}
}

func TestAuthChangeBroadcast(t *testing.T) {
	bus := NewBus()
	var events []Identity
	bus.Subscribe(func(ev Event) {
		if ev.Kind == EventAuthChanged {
			events = append(events, ev.Payload.(Identity))
		}
	})

	auth := NewAuthContext(bus)
	auth.SetCustomSession("tok", Identity{Username: "bob"})
	auth.Clear()

	if len(events) != 2 {
		t.Fatalf("want 2 auth events, got %d", len(events))
	}
	if events[0].Username != "bob" || events[1].Username != "" {
		t.Fatalf("events = %+v", events)
	}
}

func TestHasRoleExactMatch(t *testing.T) {
	id := Identity{Roles: []string{"administrative-assistant", RoleChecker}}
	if id.HasRole(RoleAdmin) {
		t.Fatal("substring role names must not match admin")
	}
	if !id.HasRole(RoleChecker) {
		t.Fatal("exact role must match")
	}
}

func TestDisplayClaims(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "alice",
		"name": "Alice A.",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("some-secret-nobody-verifies-here"))
	if err != nil {
		t.Fatal(err)
	}

	claims := DisplayClaims(signed)
	if claims == nil {
		t.Fatal("expected decoded claims")
	}
	if claims["name"] != "Alice A." {
		t.Fatalf("name claim = %v", claims["name"])
	}

	if DisplayClaims("not-a-jwt") != nil {
		t.Fatal("garbage token must yield nil claims")
	}
}
