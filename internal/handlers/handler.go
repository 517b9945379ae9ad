package handlers

import (
	"library_api/internal/gql"
	"library_api/internal/logger"
	"library_api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/graphql-go/relay"

	_ "library_api/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	graphql  *relay.Handler
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies and parses
// the GraphQL schema against the services.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{
		services: services,
		graphql:  &relay.Handler{Schema: gql.NewSchema(services, log)},
		log:      log,
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	// GraphQL endpoint; anonymous requests pass through
	router.POST("/graphql", h.identityMiddleware, h.serveGraphQL)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	router.GET("/ws", h.identityMiddleware, h.requireUser, h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.identityMiddleware, h.requireUser)
	{
		api.GET("/stats", h.getStats)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}

// @Summary      GraphQL
// @Description  Executes a GraphQL query or mutation. A Bearer token, when valid, identifies the user for addBook and editAuthor.
// @Tags         graphql
// @Accept       json
// @Produce      json
// @Param        request  body  object  true  "query, operationName, variables"
// @Success      200  {object}  map[string]interface{}  "data, errors"
// @Router       /graphql [post]
func (h *Handler) serveGraphQL(c *gin.Context) {
	h.graphql.ServeHTTP(c.Writer, c.Request)
}
