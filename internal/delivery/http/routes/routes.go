package routes

import (
	"skillbridge/internal/delivery/http/handler"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Health         *handler.HealthHandler
	Auth           *handler.AuthHandler
	User           *handler.UserHandler
	UserSkill      *handler.UserSkillHandler
	Skill          *handler.SkillHandler
	Recommendation *handler.RecommendationHandler
	Analytics      *handler.AnalyticsHandler
	Learning       *handler.LearningHandler
	Chat           *handler.ChatHandler
	Voice          *handler.VoiceHandler
	WS             *ws.Handler
}

type Registry struct {
	h    Handlers
	auth *middleware.AuthMiddleware
}

func NewRegistry(h Handlers, auth *middleware.AuthMiddleware) *Registry {
	return &Registry{h: h, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.h.Health.RegisterRoutes(app)
}

// registerAPI mounts every resource under /api. Each protected prefix gets its
// own group so public routes never pass through the auth middleware.
func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	r.h.Health.RegisterRoutes(api)

	r.h.Auth.RegisterRoutes(api.Group("/auth"))

	authMw := r.auth.Middleware()

	users := api.Group("/users", authMw)
	r.h.User.RegisterRoutes(users)
	r.h.UserSkill.RegisterRoutes(users)

	learning := api.Group("/learning", authMw)
	r.h.Skill.RegisterRoutes(learning)
	r.h.Learning.RegisterRoutes(learning)

	r.h.Recommendation.RegisterRoutes(api.Group("/recommendations", authMw))
	r.h.Analytics.RegisterRoutes(api.Group("/analytics", authMw))
	r.h.Chat.RegisterRoutes(api.Group("/chat", authMw))
	r.h.Voice.RegisterRoutes(api.Group("/voice", authMw))

	if r.h.WS != nil {
		api.Get("/ws", r.auth.WebSocket(), r.h.WS.Handle)
	}
}
