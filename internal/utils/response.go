package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope of every CRM API response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// SendSuccess responds 200 with data.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus responds with data and the given status; 0 means 200.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}
	return send(c, status, APIResponse{Success: true, Data: data, Message: orDefault(message, "success")})
}

// SendError responds with an error message and no data.
func SendError(c *fiber.Ctx, status int, message string) error {
	return send(c, status, APIResponse{Message: orDefault(message, "error")})
}

func send(c *fiber.Ctx, status int, body APIResponse) error {
	return c.Status(status).JSON(body)
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
