// Package screens declares the panel screens, the path each is mounted on and
// the API endpoint that feeds it.
package screens

import "strings"

// Layout names the shell a screen renders in.
const (
	LayoutStandalone = "standalone"
	LayoutMain       = "main"
)

// Screen is one routable page of the admin panel.
type Screen struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Layout   string `json:"layout"`
	Endpoint string `json:"endpoint,omitempty"`
}

// Match is the result of resolving a browser path.
type Match struct {
	Screen Screen            `json:"screen"`
	Params map[string]string `json:"params"`
}

var table = []Screen{
	{Name: "login", Path: "/login", Layout: LayoutStandalone},
	{Name: "registration", Path: "/register", Layout: LayoutStandalone},
	{Name: "landing", Path: "/landing", Layout: LayoutStandalone},
	{Name: "redirect", Path: "/redirect", Layout: LayoutStandalone},
	{Name: "student-self-profile", Path: "/my-profile/:id", Layout: LayoutStandalone, Endpoint: "/api/v1/students/:id"},

	{Name: "all-students", Path: "/", Layout: LayoutMain, Endpoint: "/api/v1/students"},
	{Name: "dashboard", Path: "/dashboard", Layout: LayoutMain, Endpoint: "/api/v1/dashboard"},
	{Name: "my-calls", Path: "/my-calls", Layout: LayoutMain, Endpoint: "/api/v1/calls"},
	{Name: "assignments", Path: "/assignments", Layout: LayoutMain, Endpoint: "/api/v1/assignments"},
	{Name: "student-profile", Path: "/student/:id", Layout: LayoutMain, Endpoint: "/api/v1/students/:id"},
	{Name: "installments", Path: "/installments", Layout: LayoutMain, Endpoint: "/api/v1/installments"},
	{Name: "transactions", Path: "/transactions", Layout: LayoutMain, Endpoint: "/api/v1/transactions"},
	{Name: "admin", Path: "/admin", Layout: LayoutMain, Endpoint: "/api/v1/activity"},
}

// All returns the screen table in declaration order.
func All() []Screen {
	return append([]Screen(nil), table...)
}

// Resolve finds the screen mounted on path. Trailing slashes and a query
// string are ignored.
func Resolve(path string) (Match, bool) {
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	segments := split(path)

	for _, screen := range table {
		if params, ok := match(split(screen.Path), segments); ok {
			return Match{Screen: screen, Params: params}, true
		}
	}
	return Match{}, false
}

func match(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}
	params := map[string]string{}
	for i, part := range pattern {
		if strings.HasPrefix(part, ":") {
			if segments[i] == "" {
				return nil, false
			}
			params[part[1:]] = segments[i]
			continue
		}
		if part != segments[i] {
			return nil, false
		}
	}
	return params, true
}

func split(path string) []string {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "/")
}
