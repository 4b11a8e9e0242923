package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"letterdesk/internal/entities"
	"letterdesk/internal/files"
	"letterdesk/internal/letters"
	"letterdesk/internal/research"
	"letterdesk/internal/shared/config"
	"letterdesk/internal/shared/server/middleware"
	"letterdesk/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config          config.Config
	FileHandler     *files.Handler
	EntityHandler   *entities.Handler
	ResearchHandler *research.Handler
	LetterHandler   *letters.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	if deps.Config.Env == "production" {
		r.Use(middleware.Throttle(middleware.ThrottleConfig{
			GroupFor: throttleGroup,
			Rules: map[string]middleware.ThrottleRule{
				"DEFAULT":    {PerSecond: 10, Burst: 30},
				"GENERATION": {PerSecond: 0.5, Burst: 3},
			},
		}))
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	filesGroup := api.Group("/files")
	deps.FileHandler.RegisterRoutes(filesGroup)
	deps.EntityHandler.RegisterFileRoutes(filesGroup)

	deps.EntityHandler.RegisterRoutes(api.Group("/entities"))
	deps.ResearchHandler.RegisterRoutes(api.Group("/research"))
	deps.LetterHandler.RegisterRoutes(api.Group("/recommendation"))

	return r
}

// throttleGroup sends the LLM-backed endpoints to the stricter bucket.
func throttleGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return "DEFAULT"
	}
	switch c.FullPath() {
	case "/api/v1/research/resume/:id", "/api/v1/recommendation":
		return "GENERATION"
	}
	return "DEFAULT"
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
