package ticketsgorm

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatal(err)
	}
	return NewRepo(db)
}

func TestRepoCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	amount := 120.50
	tk := &Ticket{Title: "travel refund", Status: "DRAFT", Maker: "alice", Amount: &amount}
	if err := repo.Create(ctx, tk); err != nil {
		t.Fatal(err)
	}
	if tk.ID == 0 {
		t.Fatal("id not assigned")
	}

	got, err := repo.Get(ctx, tk.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "travel refund" || got.Amount == nil || *got.Amount != 120.50 {
		t.Fatalf("got %+v", got)
	}

	got.Status = "SUBMITTED"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatal(err)
	}
	again, err := repo.Get(ctx, tk.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Status != "SUBMITTED" {
		t.Fatalf("status = %s", again.Status)
	}

	if _, err := repo.Get(ctx, 9999); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestRepoListFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, row := range []Ticket{
		{Title: "a", Status: "DRAFT", Maker: "alice"},
		{Title: "b", Status: "SUBMITTED", Maker: "alice"},
		{Title: "c", Status: "SUBMITTED", Maker: "bob"},
	} {
		r := row
		if err := repo.Create(ctx, &r); err != nil {
			t.Fatal(err)
		}
	}

	items, total, err := repo.List(ctx, Filter{Status: "SUBMITTED"}, Page{Page: 1, Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("total=%d len=%d", total, len(items))
	}
	// newest first
	if items[0].Maker != "bob" {
		t.Fatalf("order: %+v", items[0])
	}

	items, total, err = repo.List(ctx, Filter{Maker: "alice"}, Page{Page: 1, Size: 1})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(items) != 1 {
		t.Fatalf("paging: total=%d len=%d", total, len(items))
	}
}

func TestAppendAudit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.AppendAudit(ctx, "SUBMIT", "1", "alice", map[string]any{"from": "DRAFT", "to": "SUBMITTED"})
	if err != nil {
		t.Fatal(err)
	}
	var logs []AuditLog
	if err := repo.db.Find(&logs).Error; err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].Action != "SUBMIT" || logs[0].Actor != "alice" {
		t.Fatalf("logs = %+v", logs)
	}
}
