package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bug-journal-api/internal/config"
	"github.com/yukikurage/bug-journal-api/internal/constants"
	"github.com/yukikurage/bug-journal-api/internal/handlers"
	"github.com/yukikurage/bug-journal-api/internal/logging"
	"github.com/yukikurage/bug-journal-api/internal/middleware"
	"github.com/yukikurage/bug-journal-api/internal/repository"
	"github.com/yukikurage/bug-journal-api/internal/services"
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	DB           *gorm.DB
	Config       *config.Config
	Logger       *slog.Logger
	SessionStore sessions.Store
	// Provider overrides the configured suggestion backend when set.
	Provider services.Provider
}

// New wires repositories, services and handlers into a gin engine.
func New(deps Deps) *gin.Engine {
	cfg, logger := deps.Config, deps.Logger

	handlers.RegisterValidation()

	// Repositories
	userRepo := repository.NewUserRepository(deps.DB)
	issueRepo := repository.NewIssueRepository(deps.DB)
	tagRepo := repository.NewTagRepository(deps.DB)
	fileRepo := repository.NewFileRepository(deps.DB)

	// Services
	provider := deps.Provider
	if provider == nil {
		provider = services.NewProvider(services.ProviderOptions{
			Backend: cfg.SuggestionBackend,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		}, logger)
	}

	authService := services.NewAuthService(userRepo)
	issueService := services.NewIssueService(issueRepo)
	tagService := services.NewTagService(tagRepo, issueService)
	fileService := services.NewFileService(fileRepo, cfg.MaxUploadBytes)
	suggestionService := services.NewSuggestionService(provider, cfg.SuggestionTimeout, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	issueHandler := handlers.NewIssueHandler(issueService, logger)
	tagHandler := handlers.NewTagHandler(tagService, logger)
	fileHandler := handlers.NewFileHandler(fileService, cfg.MaxUploadBytes, logger)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.RequestLogger(logger))
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Bug Journal API is running",
		})
	})

	requireOwner := middleware.RequireIssueOwner(issueService, logger)

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/logout", authHandler.Logout)

		protected := api.Group("")
		protected.Use(middleware.RequireAuth())
		{
			protected.GET("/user", authHandler.GetCurrentUser)

			issues := protected.Group("/issues")
			{
				issues.GET("", issueHandler.ListIssues)
				issues.POST("", issueHandler.CreateIssue)
				issues.GET("/date/:date", issueHandler.ListIssuesByDate)
				issues.DELETE("/links/:linkId", issueHandler.DeleteLink)
				issues.GET("/:id", requireOwner, issueHandler.GetIssue)
				issues.PUT("/:id", requireOwner, issueHandler.UpdateIssue)
				issues.DELETE("/:id", requireOwner, issueHandler.DeleteIssue)
				issues.GET("/:id/links", requireOwner, issueHandler.ListLinks)
				issues.POST("/:id/links", requireOwner, issueHandler.AddLink)
				issues.GET("/:id/tags", requireOwner, tagHandler.ListIssueTags)
				issues.POST("/:id/tags", requireOwner, tagHandler.AddIssueTag)
				issues.DELETE("/:id/tags/:tagId", requireOwner, tagHandler.RemoveIssueTag)
			}

			protected.GET("/tags", tagHandler.ListTags)
			protected.POST("/tags", tagHandler.CreateTag)

			protected.POST("/upload", fileHandler.Upload)
			protected.GET("/files/:key", fileHandler.Download)

			ai := protected.Group("/ai")
			{
				ai.POST("/suggestion", suggestionHandler.Suggest)
				ai.POST("/summary", suggestionHandler.Summarize)
				ai.POST("/analysis", suggestionHandler.Analyze)
			}
		}
	}

	return r
}
