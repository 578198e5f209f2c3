package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// CORS allows every origin when origins is empty.
func CORS(origins []string) fiber.Handler {
	cfg := cors.Config{
		AllowMethods: []string{
			fiber.MethodGet,
			fiber.MethodPost,
			fiber.MethodPut,
			fiber.MethodDelete,
			fiber.MethodOptions,
		},
		AllowHeaders:  []string{fiber.HeaderAuthorization, fiber.HeaderContentType, HeaderRequestID},
		ExposeHeaders: []string{HeaderRequestID, fiber.HeaderContentDisposition},
	}
	if len(origins) > 0 {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
