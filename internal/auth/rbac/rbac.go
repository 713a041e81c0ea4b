package rbac

import (
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/fsnotify/fsnotify"
	"github.com/zeromicro/go-zero/core/logx"
)

// Closed role vocabulary. Capability checks use exact membership; a role name
// merely containing "admin" grants nothing.
const (
	RoleMaker   = "maker"
	RoleChecker = "checker"
	RoleAdmin   = "admin"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && (r.act == p.act || p.act == "*")
`

// defaultPolicy backs deployments without a policy file. Admin short-circuits
// in the middleware and needs no rows.
var defaultPolicy = [][]string{
	{"role:maker", "tickets", "read"},
	{"role:maker", "tickets", "create"},
	{"role:maker", "tickets", "submit"},
	{"role:maker", "tickets", "complete"},
	{"role:maker", "reports", "export"},
	{"role:checker", "tickets", "read"},
	{"role:checker", "tickets", "decide"},
	{"role:checker", "reports", "export"},
}

// Policy wraps a Casbin enforcer over the portal permission vocabulary.
type Policy struct {
	mu       sync.RWMutex
	enforcer *casbin.Enforcer
	watcher  *fsnotify.Watcher
}

// NewPolicy builds an enforcer. With an empty policyPath the built-in policy
// is used; otherwise the CSV policy file is loaded and hot-reloaded on write.
func NewPolicy(policyPath string) (*Policy, error) {
	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	var e *casbin.Enforcer
	if policyPath == "" {
		e, err = casbin.NewEnforcer(m)
		if err != nil {
			return nil, err
		}
		for _, rule := range defaultPolicy {
			if _, err := e.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
				return nil, err
			}
		}
	} else {
		e, err = casbin.NewEnforcer(m, fileadapter.NewAdapter(policyPath))
		if err != nil {
			return nil, err
		}
	}
	p := &Policy{enforcer: e}
	if policyPath != "" {
		if err := p.watch(policyPath); err != nil {
			logx.Errorf("rbac: policy watch disabled: %v", err)
		}
	}
	return p, nil
}

// Can checks whether the user, directly or via any of their roles, holds
// permission "obj:act" (e.g. "tickets:decide").
func (p *Policy) Can(user string, roles []string, perm string) bool {
	obj, act, ok := splitPerm(perm)
	if !ok {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if allowed, _ := p.enforcer.Enforce("user:"+user, obj, act); allowed {
		return true
	}
	for _, role := range roles {
		if allowed, _ := p.enforcer.Enforce("role:"+role, obj, act); allowed {
			return true
		}
	}
	return false
}

func splitPerm(perm string) (obj, act string, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(perm), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func (p *Policy) watch(policyPath string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(policyPath); err != nil {
		w.Close()
		return err
	}
	p.watcher = w
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				p.mu.Lock()
				if err := p.enforcer.LoadPolicy(); err != nil {
					logx.Errorf("rbac: policy reload failed: %v", err)
				} else {
					logx.Infof("rbac: policy reloaded from %s", policyPath)
				}
				p.mu.Unlock()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logx.Errorf("rbac: watcher error: %v", err)
			}
		}
	}()
	return nil
}

// Close stops the policy file watcher, if any.
func (p *Policy) Close() error {
	if p.watcher != nil {
		return p.watcher.Close()
	}
	return nil
}

// IsAdmin reports exact membership of the admin role.
func IsAdmin(roles []string) bool { return contains(roles, RoleAdmin) }

// IsCheckerEquivalent reports whether the role set carries approval capability.
func IsCheckerEquivalent(roles []string) bool {
	return contains(roles, RoleChecker) || contains(roles, RoleAdmin)
}

func contains(roles []string, want string) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}
