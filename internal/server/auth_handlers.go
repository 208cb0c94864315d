package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"splitmate/internal/auth"
	"splitmate/internal/protocol"
)

// register creates a new account and signs the user in.
func (s *Server) register(c *gin.Context) {
	var req protocol.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, protocol.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Email == "" || req.Name == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, protocol.ErrorResponse{Error: "email, name and password are required"})
		return
	}

	user, err := s.authenticator.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", req.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			c.JSON(http.StatusConflict, protocol.ErrorResponse{Error: err.Error()})
		case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, protocol.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, protocol.ErrorResponse{Error: "registration failed"})
		}
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, protocol.ErrorResponse{Error: "registration failed"})
		return
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", user.Email)
	c.JSON(http.StatusCreated, protocol.AuthResponse{
		Token: token,
		User:  protocol.User{Email: user.Email, Name: user.DisplayName},
	})
}

// login authenticates an existing account.
func (s *Server) login(c *gin.Context) {
	var req protocol.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, protocol.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, protocol.ErrorResponse{Error: "email and password are required"})
		return
	}

	user, err := s.authenticator.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Email)
		c.JSON(http.StatusUnauthorized, protocol.ErrorResponse{Error: auth.ErrInvalidCredentials.Error()})
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, protocol.ErrorResponse{Error: "login failed"})
		return
	}

	s.logger.Info("User logged in", "user_id", user.ID, "email", user.Email)
	c.JSON(http.StatusOK, protocol.AuthResponse{
		Token: token,
		User:  protocol.User{Email: user.Email, Name: user.DisplayName},
	})
}

// currentUser returns the identity carried by the session token.
func (s *Server) currentUser(c *gin.Context) {
	c.JSON(http.StatusOK, protocol.User{
		Email: c.GetString(ctxEmail),
	})
}
