package app

import (
	"fmt"
	"strings"

	"skillbridge/internal/ai/chat"
	"skillbridge/internal/ai/speech"
	"skillbridge/internal/config"
	"skillbridge/internal/database"
	"skillbridge/internal/delivery/http/handler"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/delivery/http/routes"
	"skillbridge/internal/domain/market"
	"skillbridge/internal/pkg/jwt"
	"skillbridge/internal/pkg/logger"
	"skillbridge/internal/repository"
	"skillbridge/internal/usecase"
	ucauth "skillbridge/internal/usecase/auth"
	"skillbridge/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Config, c.Log)
	routes.NewRegistry(buildHandlers(c), middleware.NewAuthMiddleware(newJWT(c.Config.JWT))).Register(f)

	return &App{Fiber: f}
}

// Bootstrap connects every dependency and returns the app with a cleanup
// that releases them.
func Bootstrap(cfg config.Config, log *logger.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, log *logger.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
	app.Use(middleware.CORS(cfg.App.CORSOrigins))
}

func newJWT(cfg config.JWTConfig) *jwt.HMACService {
	return jwt.NewHMACService(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessExpiresIn, cfg.RefreshExpiresIn)
}

func buildHandlers(c *Container) routes.Handlers {
	cfg, log, db := c.Config, c.Log, c.DB

	users := repository.NewPostgresUserRepository(db)
	profiles := repository.NewPostgresProfileRepository(db)
	skills := repository.NewPostgresSkillRepository(db)
	userSkills := repository.NewPostgresUserSkillRepository(db)
	paths := repository.NewPostgresLearningPathRepository(db)
	progress := repository.NewPostgresProgressRepository(db)
	milestones := repository.NewPostgresMilestoneRepository(db)
	uow := database.NewTxRunner(db)

	baselines := market.NewCachedProvider(market.NewSeededProvider(cfg.App.AppName), c.Cache, cfg.Market.BaselineCacheTTL, log)

	chatProvider := chat.NewOpenAIProvider(chat.OpenAIConfig{
		APIKey:  cfg.AI.OpenAIAPIKey,
		BaseURL: cfg.AI.OpenAIBaseURL,
		Model:   cfg.AI.OpenAIModel,
		Timeout: cfg.AI.RequestTimeout,
	}, log)
	speechProvider := speech.NewElevenLabsProvider(speech.ElevenLabsConfig{
		APIKey:  cfg.AI.ElevenLabsAPIKey,
		BaseURL: cfg.AI.ElevenLabsBaseURL,
		ModelID: cfg.AI.ElevenLabsModelID,
		Timeout: cfg.AI.RequestTimeout,
	}, log)

	authUC := usecase.NewAuthUsecase(ucauth.NewService(users), users, newJWT(cfg.JWT))
	userUC := usecase.NewUserUsecase(users, profiles, uow)
	skillUC := usecase.NewSkillUsecase(skills, users).WithBaselines(baselines)
	userSkillUC := usecase.NewUserSkillUsecase(userSkills, skills, milestones, uow, c.Cache, c.Hub, log)
	recommendationUC := usecase.NewRecommendationUsecase(users, profiles, skills, userSkills, baselines, log)
	analyticsUC := usecase.NewAnalyticsUsecase(users, userSkills, paths, progress, baselines, c.Cache, log)
	pathUC := usecase.NewLearningPathUsecase(paths, uow, c.Cache, log)
	progressUC := usecase.NewProgressUsecase(paths, progress, milestones, userSkills, skills, uow, c.Cache, c.Hub, log)
	chatUC := usecase.NewChatUsecase(chatProvider, c.Cache, log)
	voiceUC := usecase.NewVoiceUsecase(speechProvider)

	return routes.Handlers{
		Health:         handler.NewHealthHandler(db, c.Cache, log),
		Auth:           handler.NewAuthHandler(authUC),
		User:           handler.NewUserHandler(userUC),
		UserSkill:      handler.NewUserSkillHandler(userSkillUC),
		Skill:          handler.NewSkillHandler(skillUC),
		Recommendation: handler.NewRecommendationHandler(recommendationUC),
		Analytics:      handler.NewAnalyticsHandler(analyticsUC),
		Learning:       handler.NewLearningHandler(pathUC, progressUC),
		Chat:           handler.NewChatHandler(chatUC),
		Voice:          handler.NewVoiceHandler(voiceUC),
		WS:             ws.NewHandler(c.Hub, middleware.UserID, log),
	}
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
