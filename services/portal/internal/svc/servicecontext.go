// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package svc

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"
	"gorm.io/gorm"

	"github.com/ticketdesk/portal/internal/auth/rbac"
	"github.com/ticketdesk/portal/internal/auth/token"
	"github.com/ticketdesk/portal/internal/db"
	ticketsgorm "github.com/ticketdesk/portal/internal/infra/persistence/gorm/tickets"
	usersgorm "github.com/ticketdesk/portal/internal/infra/persistence/gorm/users"
	"github.com/ticketdesk/portal/internal/platform/objstore"
	"github.com/ticketdesk/portal/internal/reports"
	"github.com/ticketdesk/portal/services/portal/internal/config"
)

type ServiceContext struct {
	Config config.Config

	DB      *gorm.DB
	Tickets *ticketsgorm.Repo
	Users   *usersgorm.Repo
	Tokens  *token.Manager
	Policy  *rbac.Policy
	Store   *objstore.Store
	Reports *reports.Manager

	TokenTTL time.Duration

	rdb *redis.Client

	loginMu       sync.Mutex
	loginAttempts map[string][]time.Time

	pollMu   sync.Mutex
	pollSeen map[string][]time.Time
}

func NewServiceContext(c config.Config) *ServiceContext {
	gdb, err := db.Open(c.Database.DSN)
	logx.Must(err)
	logx.Must(ticketsgorm.AutoMigrate(gdb))
	logx.Must(usersgorm.AutoMigrate(gdb))

	tickets := ticketsgorm.NewRepo(gdb)
	users := usersgorm.NewRepo(gdb)
	if len(c.Seed) > 0 {
		seed := make([]usersgorm.SeedUser, 0, len(c.Seed))
		for _, su := range c.Seed {
			seed = append(seed, usersgorm.SeedUser{Username: su.Username, Password: su.Password, Roles: su.Roles})
		}
		logx.Must(users.Seed(context.Background(), seed))
	}

	policy, err := rbac.NewPolicy(c.Auth.PolicyPath)
	logx.Must(err)

	store, err := objstore.Open(context.Background(), c.Reports.StoreURL)
	logx.Must(err)

	ttl := 8 * time.Hour
	if c.Auth.TokenTTL != "" {
		d, err := time.ParseDuration(c.Auth.TokenTTL)
		logx.Must(err)
		ttl = d
	}

	s := &ServiceContext{
		Config:        c,
		DB:            gdb,
		Tickets:       tickets,
		Users:         users,
		Tokens:        token.NewManager(c.Auth.JWTSecret, c.Auth.Issuer),
		Policy:        policy,
		Store:         store,
		TokenTTL:      ttl,
		loginAttempts: map[string][]time.Time{},
		pollSeen:      map[string][]time.Time{},
	}
	s.Reports = reports.NewManager(store, map[string]reports.Source{
		"tickets": s.ticketsSource,
		"users":   s.usersSource,
	})

	if url := strings.TrimSpace(c.Redis.URL); url != "" {
		opt, err := redis.ParseURL(url)
		logx.Must(err)
		s.rdb = redis.NewClient(opt)
	}
	return s
}

// Authenticate validates the bearer token and returns (user, roles, ok).
func (s *ServiceContext) Authenticate(r *http.Request) (string, []string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(h, "Bearer ") {
		return "", nil, false
	}
	user, roles, err := s.Tokens.Verify(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
	if err != nil {
		return "", nil, false
	}
	return user, roles, true
}

// EnforcePermission checks if the user with roles has a specific permission.
func (s *ServiceContext) EnforcePermission(user string, roles []string, perm string) bool {
	return s.Policy.Can(user, roles, perm)
}

// AllowLogin rate-limits login attempts per ip+username over a five minute
// window.
func (s *ServiceContext) AllowLogin(ip, username string) bool {
	key := strings.TrimSpace(ip) + "|" + strings.ToLower(strings.TrimSpace(username))
	now := time.Now()
	window := now.Add(-5 * time.Minute)
	s.loginMu.Lock()
	defer s.loginMu.Unlock()
	if s.loginAttempts == nil {
		s.loginAttempts = map[string][]time.Time{}
	}
	arr := s.loginAttempts[key]
	kept := arr[:0]
	for _, t := range arr {
		if t.After(window) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= 10 {
		s.loginAttempts[key] = kept
		return false
	}
	kept = append(kept, now)
	s.loginAttempts[key] = kept
	return true
}

// AllowStatusPoll rate-limits report status polls per actor. Redis backs the
// counter when configured; otherwise an in-memory sliding window is used, so
// a dev setup without Redis still gets the same behavior per process.
func (s *ServiceContext) AllowStatusPoll(ctx context.Context, actor string) bool {
	limit := s.Config.Reports.StatusPollPerMinute
	if limit <= 0 {
		limit = 120
	}
	if s.rdb != nil {
		if ok, err := s.allowPollRedis(ctx, actor, limit); err == nil {
			return ok
		} else {
			logx.WithContext(ctx).Errorf("poll rate limiter: redis unavailable, using in-memory window: %v", err)
		}
	}
	return s.allowPollMemory(actor, limit)
}

func (s *ServiceContext) allowPollRedis(ctx context.Context, actor string, limit int) (bool, error) {
	key := fmt.Sprintf("portal:pollrate:%s:%d", actor, time.Now().Unix()/60)
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		s.rdb.Expire(ctx, key, 2*time.Minute)
	}
	return n <= int64(limit), nil
}

func (s *ServiceContext) allowPollMemory(actor string, limit int) bool {
	now := time.Now()
	window := now.Add(-time.Minute)
	s.pollMu.Lock()
	defer s.pollMu.Unlock()
	if s.pollSeen == nil {
		s.pollSeen = map[string][]time.Time{}
	}
	arr := s.pollSeen[actor]
	kept := arr[:0]
	for _, t := range arr {
		if t.After(window) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= limit {
		s.pollSeen[actor] = kept
		return false
	}
	kept = append(kept, now)
	s.pollSeen[actor] = kept
	return true
}

func (s *ServiceContext) ticketsSource(ctx context.Context) (reports.Table, error) {
	rows, err := s.Tickets.ListAll(ctx)
	if err != nil {
		return reports.Table{}, err
	}
	t := reports.Table{
		Title:  "Tickets",
		Header: []string{"ID", "Title", "Status", "Amount", "Maker", "Checker", "Rejection Reason", "Created At"},
	}
	for _, r := range rows {
		amount := ""
		if r.Amount != nil {
			amount = strconv.FormatFloat(*r.Amount, 'f', 2, 64)
		}
		t.Rows = append(t.Rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Title,
			r.Status,
			amount,
			r.Maker,
			r.Checker,
			r.RejectionReason,
			r.CreatedAt.Format(time.RFC3339),
		})
	}
	return t, nil
}

func (s *ServiceContext) usersSource(ctx context.Context) (reports.Table, error) {
	rows, err := s.Users.ListAll(ctx)
	if err != nil {
		return reports.Table{}, err
	}
	t := reports.Table{
		Title:  "Users",
		Header: []string{"ID", "Username", "Display Name", "Email", "Active", "Roles"},
	}
	for _, r := range rows {
		roles, err := s.Users.ListUserRoles(ctx, r.ID)
		if err != nil {
			return reports.Table{}, err
		}
		t.Rows = append(t.Rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Username,
			r.DisplayName,
			r.Email,
			strconv.FormatBool(r.Active),
			strings.Join(roles, ","),
		})
	}
	return t, nil
}

type actorKey struct{}

type rolesKey struct{}

func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(actorKey{}).(string); ok {
		return s
	}
	return ""
}

func WithRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, rolesKey{}, roles)
}

func RolesFromContext(ctx context.Context) []string {
	if r, ok := ctx.Value(rolesKey{}).([]string); ok {
		return r
	}
	return nil
}
