package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/altscore/credit-system/internal/api/handler"
	"github.com/altscore/credit-system/internal/api/middleware"
	"github.com/altscore/credit-system/internal/core/ports"
	"github.com/altscore/credit-system/internal/core/service"
	"github.com/altscore/credit-system/internal/infrastructure/config"
)

// Deps carries the constructed dependencies into the router. The services are
// built in main so the startup self-test can exercise them before the server
// accepts traffic.
type Deps struct {
	Config  *config.Config
	Mongo   *mongo.Database
	Redis   *redis.Client
	Dataset ports.Dataset
	LLM     ports.ChatClient
	Queries ports.QueryService
	Chat    ports.ChatService
	Auth    *service.AuthService
	Log     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.Config.AllowedOrigins,
	}))
	e.Use(echoprometheus.NewMiddleware("creditscore"))
	e.GET("/metrics", echoprometheus.NewHandler())

	authMiddleware := middleware.Auth(d.Config.JWTSecret)

	// --- Query processing ---
	queryHandler := handler.NewQueryHandler(d.Queries)
	e.POST("/process", queryHandler.Process)

	// --- Chat ---
	chatHandler := handler.NewChatHandler(d.Chat)
	cg := e.Group("/chat")
	cg.POST("/chat-with-agent", chatHandler.Send)
	cg.GET("/get-agent-response", chatHandler.History)
	cg.GET("/check-status", chatHandler.Status)
	cg.DELETE("/clear-chat", chatHandler.Clear)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/login", authHandler.Login)

	// --- Agent management (auth required) ---
	agentHandler := handler.NewAgentHandler()
	ag := e.Group("/agent", authMiddleware)
	ag.GET("/test", agentHandler.Test)
	ag.POST("/create-agent", agentHandler.Create)
	ag.POST("/set-agent-domain", agentHandler.SetDomain)
	ag.POST("/rename-agent", agentHandler.Rename)
	ag.DELETE("/delete-agent", agentHandler.Delete)
	ag.POST("/attach-tool-to-agent", agentHandler.AttachTool)
	ag.POST("/attach-kb-to-agent", agentHandler.AttachKnowledgebase)
	ag.GET("/list-agent-kb", agentHandler.ListKnowledgebases)

	// --- Knowledgebase management (auth required) ---
	kbHandler := handler.NewKnowledgebaseHandler(d.Config.DataDir, d.Log)
	kg := e.Group("/kb", authMiddleware)
	kg.POST("/create-knowledgebase", kbHandler.Create)
	kg.POST("/rename-knowledgebase", kbHandler.Rename)
	kg.GET("/get-knowledgebase-list", kbHandler.List)
	kg.POST("/delete-knowledgebase", kbHandler.Delete)
	kg.POST("/add-files", kbHandler.AddFiles)
	kg.GET("/list-files", kbHandler.ListFiles)
	kg.POST("/delete-files", kbHandler.DeleteFiles)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis, d.Dataset, d.LLM)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
