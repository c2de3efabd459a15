package http

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	appsvc "agenthub/internal/app"
	"agenthub/internal/bootstrap"
	"agenthub/internal/cache"
	"agenthub/internal/identity"
	"agenthub/internal/llm"
	"agenthub/internal/model"
	"agenthub/internal/platform/rabbitmq"
	"agenthub/internal/ratelimit"
	"agenthub/internal/repository"
	"agenthub/internal/transport/http/handler"
	"agenthub/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	groupRepo := repository.NewGroupRepository(app.MySQL)
	categoryRepo := repository.NewCategoryRepository(app.MySQL)
	agentRepo := repository.NewAgentRepository(app.MySQL)
	agentFileRepo := repository.NewAgentFileRepository(app.MySQL)

	catalogCache := cache.NewCatalogCache(
		app.Redis,
		time.Duration(app.Config.Redis.CatalogTTLSeconds)*time.Second,
	)
	indexPublisher := rabbitmq.NewIndexPublisher(app.MQConn, app.Config.RabbitMQ.IndexQueue)

	llmManager := llm.NewManager()
	if app.Config.LLM.APIKey != "" {
		llmManager.Register("openai", llm.NewOpenAICompatibleProvider(
			app.Config.LLM.BaseURL,
			app.Config.LLM.APIKey,
			app.Config.LLM.Model,
		))
	}

	authService := appsvc.NewAuthService(
		userRepo,
		groupRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	categoryService := appsvc.NewCategoryService(categoryRepo, catalogCache)
	agentService := appsvc.NewAgentService(agentRepo, agentFileRepo, catalogCache)
	fileService := appsvc.NewFileService(agentService, app.ContentStore, indexPublisher)
	chatService := appsvc.NewChatService(agentService, llmManager)

	authHandler := handler.NewAuthHandler(authService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	agentHandler := handler.NewAgentHandler(agentService)
	fileHandler := handler.NewFileHandler(fileService)
	chatHandler := handler.NewChatHandler(chatService)
	groupHandler := handler.NewGroupHandler(authService, agentService)

	currentUser := middleware.CurrentUser(newResolver(app, userRepo))

	v1 := router.Group("/api/v1")
	if app.Config.RateLimit.Enabled {
		limiter, err := ratelimit.NewFixedWindowLimiter(
			app.Redis,
			"agenthub:ratelimit",
			app.Config.RateLimit.Requests,
			time.Duration(app.Config.RateLimit.WindowSeconds)*time.Second,
		)
		if err != nil {
			log.Printf("rate limiter disabled: %v", err)
		} else {
			v1.Use(middleware.RateLimit(limiter))
		}
	}

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", currentUser, authHandler.Me)
	authGroup.PUT("/password", currentUser, authHandler.ChangePassword)

	categoryGroup := v1.Group("/categories")
	categoryGroup.Use(currentUser)
	categoryGroup.POST("", categoryHandler.Create)
	categoryGroup.GET("", categoryHandler.List)
	categoryGroup.GET("/:id", categoryHandler.Get)
	categoryGroup.PUT("/:id", categoryHandler.Update)
	categoryGroup.DELETE("/:id", categoryHandler.Delete)

	agentGroup := v1.Group("/agents")
	agentGroup.Use(currentUser)
	agentGroup.POST("", agentHandler.Create)
	agentGroup.GET("", agentHandler.ListOwn)
	agentGroup.GET("/private", agentHandler.ListPrivate)
	agentGroup.GET("/public", agentHandler.ListPublic)
	agentGroup.GET("/user/:id/public", agentHandler.ListUserPublic)
	agentGroup.GET("/:id", agentHandler.Get)
	agentGroup.PUT("/:id", agentHandler.Update)
	agentGroup.DELETE("/:id", agentHandler.Delete)

	fileGroup := v1.Group("/files")
	fileGroup.Use(currentUser)
	fileGroup.POST("/upload", fileHandler.Upload)
	fileGroup.GET("", fileHandler.List)

	chatGroup := v1.Group("/chat")
	chatGroup.Use(currentUser)
	chatGroup.POST("", chatHandler.Chat)

	groupGroup := v1.Group("/groups")
	groupGroup.Use(currentUser)
	groupGroup.POST("", groupHandler.Create)
	groupGroup.POST("/:id/join", groupHandler.Join)
	groupGroup.POST("/:id/agents", groupHandler.ShareAgent)
	groupGroup.GET("/mine", groupHandler.Mine)

	return router
}

func newResolver(app *bootstrap.App, userRepo *repository.UserRepository) identity.Resolver {
	if app.Config.Auth.Mode == "jwt" {
		return &identity.JWTResolver{
			Secret:   app.Config.Auth.JWTSecret,
			UserRepo: userRepo,
		}
	}
	return &identity.MockResolver{
		User: model.User{
			ID:       app.Config.Auth.MockUserID,
			Username: app.Config.Auth.MockUsername,
			Email:    app.Config.Auth.MockEmail,
			IsActive: true,
			IsAdmin:  true,
		},
	}
}
