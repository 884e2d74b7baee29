// Package server wires the HTTP surface: auth delegation, dataset upload and
// querying, the conversational agent, and health.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/insightxl/insight"
	"github.com/theimaginaryfoundation/insightxl/supabase"
)

// Server holds the handlers' collaborators. All of them are injected; the
// server owns no global state.
type Server struct {
	log      *zap.Logger
	registry *insight.Registry
	gen      insight.TextGenerator
	auth     *supabase.Client
}

// New builds a server around the given collaborators.
func New(log *zap.Logger, registry *insight.Registry, gen insight.TextGenerator, auth *supabase.Client) *Server {
	return &Server{log: log, registry: registry, gen: gen, auth: auth}
}

// Router builds the gin engine with CORS and all routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		// Mirrors the permissive frontend-facing setup; tighten in production.
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", s.handleHealth)

	auth := r.Group("/auth")
	{
		auth.POST("/signup", s.handleSignUp)
		auth.POST("/signin", s.handleSignIn)
		auth.POST("/signout", s.handleSignOut)
		auth.GET("/user", s.handleUser)
	}

	chat := r.Group("/chat")
	{
		chat.POST("", s.handleChat)
		chat.POST("/upload", s.handleUpload)
		chat.POST("/query", s.handleQuery)
		chat.DELETE("/file/:file_id", s.handleDeleteFile)
	}
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok", "service": "InsightXL API"})
}
