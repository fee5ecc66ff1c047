package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptlab/promptlab/internal/config"
	collectionsvc "github.com/promptlab/promptlab/internal/service/collection"
	promptsvc "github.com/promptlab/promptlab/internal/service/prompt"

	collectionhandler "github.com/promptlab/promptlab/internal/transport/collection"
	healthhandler "github.com/promptlab/promptlab/internal/transport/health"
	prompthandler "github.com/promptlab/promptlab/internal/transport/prompt"
	wshandler "github.com/promptlab/promptlab/internal/transport/ws"
)

// NewRouter mounts every HTTP surface of the service. mcpHandler may be nil,
// in which case /mcp is not served.
func NewRouter(
	cfg config.Config,
	version string,
	promptSvc *promptsvc.Service,
	collectionSvc *collectionsvc.Service,
	hub *wshandler.Hub,
	mcpHandler http.Handler,
	cache ResponseCache,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware(cfg.CORS.AllowOrigins))
	r.Use(IdempotencyMiddleware(cache, cfg.Idempotency.TTL))

	healthhandler.Register(r.Group("/health"), version)
	prompthandler.Register(r.Group("/prompts"), promptSvc)
	collectionhandler.Register(r.Group("/collections"), collectionSvc)
	hub.Register(r.Group("/ws"))

	if mcpHandler != nil {
		r.Any("/mcp", gin.WrapH(mcpHandler))
	}

	return r
}
