// Package server exposes the ledger and authentication services over
// HTTP: JSON endpoints for point operations and a websocket feed for live
// friend-collection snapshots.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"splitmate/internal/auth"
	"splitmate/internal/ledger"
)

// Server wires the HTTP routes to the ledger and authenticator.
type Server struct {
	router        *gin.Engine
	ledger        *ledger.Ledger
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// New builds a Server with all routes registered.
func New(l *ledger.Ledger, authenticator auth.Authenticator, jwtManager *auth.JWTManager) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:        gin.New(),
		ledger:        l,
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        slog.Default(),
	}

	s.router.Use(gin.Recovery(), RequestLogger(), CORS())

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := s.router.Group("/api/auth")
	{
		authGroup.POST("/register", s.register)
		authGroup.POST("/login", s.login)
		authGroup.GET("/me", RequireAuth(s.jwtManager), s.currentUser)
	}

	friends := s.router.Group("/api/friends", RequireAuth(s.jwtManager))
	{
		friends.GET("", s.listFriends)
		friends.POST("", s.addFriend)
		friends.DELETE("/:id", s.removeFriend)
		friends.POST("/:id/split", s.applySplit)
		friends.GET("/watch", s.watchFriends)
	}

	return s
}

// Handler returns the full HTTP handler, wrapped with h2c so HTTP/2
// clients work without TLS while websocket upgrades still pass through on
// HTTP/1.1.
func (s *Server) Handler() http.Handler {
	return h2c.NewHandler(s.router, &http2.Server{})
}

// Run serves until the listener fails.
func (s *Server) Run(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.logger.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, s.Handler()); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
