// Package api hosts the local self API the web UI talks to. It only listens
// for loopback callers; the remote archive is always the callee, never a caller.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mediavault/mediavault-go/api/controllers"
	"github.com/mediavault/mediavault-go/api/middlewares"
	"github.com/mediavault/mediavault-go/api/notifyhub"
	"github.com/mediavault/mediavault-go/tool"
)

// Server represents the HTTP API server for the local upload surface
type Server struct {
	port   int
	ctrl   *controllers.Controllers
	hub    *notifyhub.Hub
	engine *gin.Engine
	server *http.Server
	mu     sync.RWMutex
}

// NewServer creates a new API server instance
func NewServer(port int, ctrl *controllers.Controllers, hub *notifyhub.Hub) *Server {
	return &Server{
		port: port,
		ctrl: ctrl,
		hub:  hub,
	}
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	engine.Use(middlewares.AllowAllCORS())
	engine.Use(gin.Recovery())

	self := engine.Group("/api/self/v1", middlewares.OnlyAllowLocal)
	{
		self.POST("/queue/add", s.ctrl.QueueAdd)        // Select files/folders into the queue
		self.GET("/queue", s.ctrl.QueueList)            // Full queue snapshot
		self.PATCH("/queue/:id", s.ctrl.QueueEdit)      // Edit name / date taken
		self.DELETE("/queue/:id", s.ctrl.QueueRemove)   // Remove before upload
		self.POST("/queue/:id/retry", s.ctrl.QueueRetry) // Failed item back to pending
		self.DELETE("/queue", s.ctrl.QueueClear)        // Upload surface closed
		self.POST("/upload", s.ctrl.UploadStart)        // Launch batch upload
		self.GET("/upload/:batchId", s.ctrl.UploadResult)
		self.GET("/processing", s.ctrl.ProcessingGet) // Documents still analyzing
		self.GET("/status", s.ctrl.AgentStatus)
		self.GET("/notify-ws", notifyhub.HandleNotifyWS(s.hub))
	}

	return engine
}

// Start starts the HTTP server
func (s *Server) Start() error {
	engine := s.setupRoutes()

	s.mu.Lock()
	s.engine = engine
	s.server = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler: engine,
	}
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting agent API on http://127.0.0.1:%d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	server := s.server
	s.mu.RUnlock()
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}
