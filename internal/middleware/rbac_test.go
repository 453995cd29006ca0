package middleware_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rayan-crm-api/internal/middleware"
)

type roleName string

func (r roleName) String() string { return string(r) }

func TestRequireRoleGuardsOperatorRoles(t *testing.T) {
	cases := []struct {
		name    string
		role    string
		allowed []string
		status  int
	}{
		{name: "admin on admin route", role: "admin", allowed: []string{middleware.AuthRoleAdmin}, status: fiber.StatusOK},
		{name: "staff on admin route", role: "staff", allowed: []string{middleware.AuthRoleAdmin}, status: fiber.StatusForbidden},
		{name: "anonymous on admin route", role: "", allowed: []string{middleware.AuthRoleAdmin}, status: fiber.StatusForbidden},
		{name: "staff on shared route", role: "staff", allowed: []string{middleware.AuthRoleStaff, middleware.AuthRoleAdmin}, status: fiber.StatusOK},
		{name: "admin on shared route", role: "admin", allowed: []string{middleware.AuthRoleStaff, middleware.AuthRoleAdmin}, status: fiber.StatusOK},
		{name: "role casing and space ignored", role: "  ADMIN ", allowed: []string{" Admin"}, status: fiber.StatusOK},
		{name: "unknown role", role: "student", allowed: []string{middleware.AuthRoleStaff, middleware.AuthRoleAdmin}, status: fiber.StatusForbidden},
		{name: "no roles configured", role: "admin", allowed: nil, status: fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(withIdentity(uint(4), tc.role))
			app.Use(middleware.RequireRole(tc.allowed...))
			app.Get("/", func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			resp := perform(t, app)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequireRoleAcceptsStringerRoles(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_role", roleName("Admin"))
		return c.Next()
	})
	app.Use(middleware.RequireRole(middleware.AuthRoleAdmin))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp := perform(t, app)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
