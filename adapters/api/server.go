// Package api exposes the explorer operations as a JSON API for notebooks
// and external frontends. It shares the query-string contract with the
// dashboard so URLs translate between the two surfaces.
package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"cellscope/app"
	"cellscope/internal/errors"
)

// Server represents the JSON API server
type Server struct {
	router  *gin.Engine
	service *app.ExplorerService
}

// NewServer creates the API server over an explorer service.
func NewServer(service *app.ExplorerService) *Server {
	s := &Server{
		router:  gin.Default(),
		service: service,
	}
	s.router.Use(corsMiddleware())
	s.setupRoutes()
	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/health", s.handleHealth)
		v1.GET("/datasets", s.handleDatasets)
		v1.GET("/options", s.handleOptions)
		v1.GET("/dge", s.handleDGE)
		v1.GET("/gsea", s.handleGSEA)
		v1.GET("/volcano", s.handleVolcano)
		v1.GET("/pathways", s.handlePathways)
		v1.GET("/summary", s.handleSummary)
		v1.GET("/explore", s.handleExplore)
	}
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the API server
func (s *Server) Start(addr string) error {
	log.Printf("[API] JSON API listening on %s", addr)
	return s.router.Run(addr)
}

// corsMiddleware allows cross-origin reads so notebooks and local frontends
// can call the API directly.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Next()
	}
}

// abortWithError maps application error codes onto HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	log.Printf("[API] %s: %v", errors.GetCode(err), err)

	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeStoreError:
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}
