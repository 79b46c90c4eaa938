package guard

import (
	"strings"

	"github.com/educonect/educonect/pkg/domain"
)

// Route binds a path pattern to the roles that may open it. Segments
// starting with ":" capture a parameter.
type Route struct {
	Pattern string
	Name    string
	Public  bool
	Roles   []domain.Role
}

var (
	students = []domain.Role{domain.RoleStudent}
	teachers = []domain.Role{domain.RoleTeacher}
	admins   = []domain.Role{domain.RoleAdmin}
	everyone = []domain.Role{domain.RoleStudent, domain.RoleTeacher, domain.RoleAdmin}
)

// Routes is the navigation table. Every non-public route names its roles.
var Routes = []Route{
	{Pattern: "/home", Name: "home", Public: true},
	{Pattern: "/courses", Name: "catalog", Public: true},
	{Pattern: "/courses/:id", Name: "course", Public: true},
	{Pattern: "/auth/login", Name: "login", Public: true},
	{Pattern: "/auth/register", Name: "register", Public: true},
	{Pattern: "/unauthorized", Name: "unauthorized", Public: true},

	{Pattern: "/student/dashboard", Name: "student-dashboard", Roles: students},
	{Pattern: "/student/my-courses", Name: "student-courses", Roles: students},
	{Pattern: "/student/course-viewer/:id", Name: "course-viewer", Roles: students},
	{Pattern: "/student/course/:id", Name: "course-viewer", Roles: students},
	{Pattern: "/student/messages", Name: "messages", Roles: students},

	{Pattern: "/teacher/dashboard", Name: "teacher-dashboard", Roles: teachers},
	{Pattern: "/teacher/my-courses", Name: "teacher-courses", Roles: teachers},
	{Pattern: "/teacher/course-form", Name: "course-form", Roles: teachers},
	{Pattern: "/teacher/course-form/:id", Name: "course-form", Roles: teachers},
	{Pattern: "/teacher/live-class-management", Name: "live-classes", Roles: teachers},
	{Pattern: "/teacher/analytics", Name: "analytics", Roles: teachers},
	{Pattern: "/teacher/messages", Name: "messages", Roles: teachers},

	{Pattern: "/admin/dashboard", Name: "admin-dashboard", Roles: admins},
	{Pattern: "/admin/user-management", Name: "user-management", Roles: admins},
	{Pattern: "/admin/course-management", Name: "course-management", Roles: admins},
	{Pattern: "/admin/courses", Name: "course-management", Roles: admins},

	{Pattern: "/profile", Name: "profile", Roles: everyone},
}

// Check runs the guard chain of r against f.
func (r Route) Check(f Facts, requested string) Decision {
	if r.Public {
		return allow
	}
	return RequireRole(f, requested, r.Roles...)
}

// Match reports whether path fits the pattern and returns captured params.
func (r Route) Match(path string) (map[string]string, bool) {
	want := splitPath(r.Pattern)
	got := splitPath(path)
	if len(want) != len(got) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range want {
		if strings.HasPrefix(seg, ":") {
			if got[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg[1:]] = got[i]
			continue
		}
		if seg != got[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
