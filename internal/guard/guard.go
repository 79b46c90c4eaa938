// Package guard decides whether a navigation may proceed and where to
// redirect when it may not.
package guard

import (
	"net/url"
	"slices"
	"strings"

	"github.com/educonect/educonect/pkg/domain"
)

const (
	HomePath         = "/home"
	LoginPath        = "/auth/login"
	UnauthorizedPath = "/unauthorized"
	ReturnURLParam   = "returnUrl"
)

// Facts is the slice of session state the guards read.
type Facts interface {
	IsAuthenticated() bool
	UserRole() domain.Role
}

// Decision is the outcome of a guard. Redirect is set only when Allowed is false.
type Decision struct {
	Allowed  bool
	Redirect string
}

var allow = Decision{Allowed: true}

// LoginRedirect is the login path carrying requested as the return URL.
func LoginRedirect(requested string) string {
	if requested == "" {
		return LoginPath
	}
	q := url.Values{}
	q.Set(ReturnURLParam, requested)
	return LoginPath + "?" + q.Encode()
}

// RequireAuth admits any authenticated session.
func RequireAuth(f Facts, requested string) Decision {
	if !f.IsAuthenticated() {
		return Decision{Redirect: LoginRedirect(requested)}
	}
	return allow
}

// RequireRole admits authenticated sessions whose role is in allowed.
// An empty allow-list admits nobody.
func RequireRole(f Facts, requested string, allowed ...domain.Role) Decision {
	if d := RequireAuth(f, requested); !d.Allowed {
		return d
	}
	role := f.UserRole()
	if role == "" || !slices.Contains(allowed, role) {
		return Decision{Redirect: UnauthorizedPath}
	}
	return allow
}

// ReturnURL extracts the returnUrl query parameter of target. Only local
// absolute paths are accepted; anything else yields "".
func ReturnURL(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return SanitizeReturn(u.Query().Get(ReturnURLParam))
}

// SanitizeReturn keeps p only if it is a local absolute path that does not
// point back at the login page.
func SanitizeReturn(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, `\`) {
		return ""
	}
	u, err := url.Parse(p)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	if u.Path == LoginPath {
		return ""
	}
	return p
}

// DashboardPath is the landing page for role after login.
func DashboardPath(role domain.Role) string {
	switch role {
	case domain.RoleStudent:
		return "/student/dashboard"
	case domain.RoleTeacher:
		return "/teacher/dashboard"
	case domain.RoleAdmin:
		return "/admin/dashboard"
	default:
		return HomePath
	}
}
