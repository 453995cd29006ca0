package screens

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveDeclaredPaths(t *testing.T) {
	cases := []struct {
		path   string
		name   string
		layout string
		params map[string]string
	}{
		{path: "/", name: "all-students", layout: LayoutMain, params: map[string]string{}},
		{path: "", name: "all-students", layout: LayoutMain, params: map[string]string{}},
		{path: "/login", name: "login", layout: LayoutStandalone, params: map[string]string{}},
		{path: "/register/", name: "registration", layout: LayoutStandalone, params: map[string]string{}},
		{path: "/my-profile/12", name: "student-self-profile", layout: LayoutStandalone, params: map[string]string{"id": "12"}},
		{path: "/student/7?tab=calls", name: "student-profile", layout: LayoutMain, params: map[string]string{"id": "7"}},
		{path: "/installments", name: "installments", layout: LayoutMain, params: map[string]string{}},
		{path: "/admin", name: "admin", layout: LayoutMain, params: map[string]string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name+tc.path, func(t *testing.T) {
			match, ok := Resolve(tc.path)
			require.True(t, ok)
			require.Equal(t, tc.name, match.Screen.Name)
			require.Equal(t, tc.layout, match.Screen.Layout)
			require.Equal(t, tc.params, match.Params)
		})
	}
}

func TestResolveEveryScreen(t *testing.T) {
	for _, screen := range All() {
		match, ok := Resolve(screen.Path)
		require.True(t, ok, screen.Path)
		require.Equal(t, screen.Name, match.Screen.Name)
	}
	require.Len(t, All(), 13)
}

func TestResolveUnknownPaths(t *testing.T) {
	for _, path := range []string{"/students", "/student", "/student/1/extra", "/my-profile/"} {
		_, ok := Resolve(path)
		require.False(t, ok, path)
	}
}
