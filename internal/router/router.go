package router

import (
	"time"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/config"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/handler"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/metrics"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/middleware"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/tally"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and wires every handler against
// the shared store handle and aggregation engine.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	engine := tally.NewEngine(db)

	resultsTTL := time.Duration(cfg.Cache.ResultsTTLSeconds) * time.Second
	resultsCache := gocache.New(resultsTTL, time.Minute)

	r.GET("/healthz", handler.Health(db))
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(db, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	api.POST("/auth/login", authHandler.Login)

	// public dashboard: aggregated results and location lookups need no login
	resultsHandler := handler.NewResultsHandler(db, engine, resultsCache, resultsTTL)
	api.GET("/results", resultsHandler.GetResults)

	locationHandler := handler.NewLocationHandler(db)
	api.GET("/locations", locationHandler.ListLocations)

	candidateHandler := handler.NewCandidateHandler(db)
	api.GET("/candidates", candidateHandler.ListCandidates)

	// signed-in routes
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/me", handler.GetMe)

	voteHandler := handler.NewVoteHandler(engine, resultsCache)
	protected.GET("/votes", voteHandler.GetCenterVotes)
	protected.POST("/votes", voteHandler.SubmitVotes)

	// admin routes
	admin := protected.Group("", middleware.RequireAdmin())

	userHandler := handler.NewUserHandler(db, cfg.Security.BcryptCost)
	admin.GET("/users", userHandler.ListUsers)
	admin.POST("/users", userHandler.CreateUser)
	admin.PUT("/users/:id", userHandler.UpdateUser)
	admin.DELETE("/users/:id", userHandler.DeleteUser)

	admin.POST("/locations", locationHandler.CreateLocation)
	admin.PUT("/locations/:id", locationHandler.UpdateLocation)
	admin.DELETE("/locations", locationHandler.DeleteLocation)

	admin.POST("/candidates", candidateHandler.CreateCandidate)
	admin.PUT("/candidates/:id", candidateHandler.UpdateCandidate)
	admin.DELETE("/candidates/:id", candidateHandler.DeleteCandidate)

	exportHandler := handler.NewExportHandler(db)
	admin.GET("/export/csv", exportHandler.ExportCSV)
	admin.GET("/export/xlsx", exportHandler.ExportXLSX)

	auditHandler := handler.NewAuditHandler(db)
	admin.GET("/logs", auditHandler.ListLogs)

	return r
}
