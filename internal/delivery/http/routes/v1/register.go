package v1

import (
	"log"

	"skill-twin/internal/config"
	"skill-twin/internal/database"
	"skill-twin/internal/delivery/http/handler"
	"skill-twin/internal/delivery/http/middleware"
	"skill-twin/internal/infrastructure/cache"
	"skill-twin/internal/pkg/jwt"
	"skill-twin/internal/repository"
	"skill-twin/internal/usecase"
	useruc "skill-twin/internal/usecase/user"
	"skill-twin/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Register builds the full v1 dependency graph and mounts every route
// group. Only /auth is reachable without a bearer token.
func Register(r fiber.Router, cfg config.Config, db database.DB, redis *cache.Redis, hub *ws.Hub, logger *log.Logger) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := repository.NewPostgresUserRepository(db)
	skillRepo := repository.NewPostgresSkillRepository(db)
	relRepo := repository.NewPostgresRelationshipRepository(db)
	userSkillRepo := repository.NewPostgresUserSkillRepository(db)
	roleRepo := repository.NewPostgresRoleRepository(db)
	targetRoleRepo := repository.NewPostgresTargetRoleRepository(db)
	roadmapRepo := repository.NewPostgresRoadmapRepository(db)
	assessmentRepo := repository.NewPostgresAssessmentRepository(db)

	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc)
	userUC := useruc.NewService(userRepo)
	userSkillUC := usecase.NewUserSkillUsecase(userSkillRepo, skillRepo, redis)
	catalogUC := usecase.NewCatalogUsecase(skillRepo, relRepo, roleRepo)
	gapUC := usecase.NewGapAnalysisUsecase(userSkillRepo, roleRepo, targetRoleRepo, skillRepo, redis, cfg.Policy)
	alignmentUC := usecase.NewAlignmentUsecase(userSkillRepo, roleRepo, targetRoleRepo, redis, cfg.Policy)
	roadmapUC := usecase.NewRoadmapUsecase(db, roadmapRepo, userSkillRepo, skillRepo, redis, cfg.Policy)
	vizUC := usecase.NewVisualizationUsecase(skillRepo, relRepo, userSkillRepo, redis, cfg.Policy)
	assessmentUC := usecase.NewAssessmentUsecase(db, assessmentRepo, userSkillRepo, skillRepo, redis, cfg.Policy)

	authHandler := handler.NewAuthHandler(authUC)
	userHandler := handler.NewUserHandler(userUC)
	skillHandler := handler.NewSkillHandler(catalogUC)
	userSkillHandler := handler.NewUserSkillHandler(userSkillUC)
	gapHandler := handler.NewGapHandler(gapUC)
	careerHandler := handler.NewCareerHandler(alignmentUC, catalogUC)
	roadmapHandler := handler.NewRoadmapHandler(roadmapUC)
	vizHandler := handler.NewVisualizationHandler(vizUC)
	assessmentHandler := handler.NewAssessmentHandler(assessmentUC)
	wsHandler := ws.NewHandler(hub, logger)

	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup)

	protected := r.Group("", authMw.Middleware())

	skillHandler.RegisterRoutes(protected)
	careerHandler.RegisterRoutes(protected)

	usersGroup := protected.Group("/users")
	userHandler.RegisterRoutes(usersGroup)

	meGroup := protected.Group("/me")
	userSkillHandler.RegisterRoutes(meGroup)
	gapHandler.RegisterRoutes(meGroup)
	careerHandler.RegisterMeRoutes(meGroup)
	roadmapHandler.RegisterRoutes(meGroup)
	vizHandler.RegisterRoutes(meGroup)
	assessmentHandler.RegisterRoutes(meGroup)

	protected.Get("/ws", wsHandler.HandleProgressWS)
}
