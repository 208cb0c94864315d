package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"splitmate/internal/ledger"
	"splitmate/internal/models"
	"splitmate/internal/protocol"
	"splitmate/internal/storage"
)

// listFriends returns a point-in-time snapshot of the caller's collection.
func (s *Server) listFriends(c *gin.Context) {
	userKey := c.GetString(ctxEmail)

	friends, err := s.ledger.Snapshot(c.Request.Context(), userKey)
	if err != nil {
		s.logger.Error("Snapshot failed", "user", userKey, "error", err)
		c.JSON(http.StatusInternalServerError, protocol.ErrorResponse{Error: "failed to load friends"})
		return
	}

	c.JSON(http.StatusOK, protocol.FriendsResponse{Friends: friends})
}

// addFriend creates a friend entry. The response carries the stored entry
// including any generated ID and the default image fallback, but the
// caller's view only updates through its subscription.
func (s *Server) addFriend(c *gin.Context) {
	userKey := c.GetString(ctxEmail)

	var req protocol.AddFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, protocol.ErrorResponse{Error: "invalid request body"})
		return
	}

	friend := &models.Friend{ID: req.ID, Name: req.Name, Image: req.Image}
	if err := s.ledger.AddFriend(c.Request.Context(), userKey, friend); err != nil {
		s.logger.Error("AddFriend failed", "user", userKey, "error", err)
		if errors.Is(err, ledger.ErrNameRequired) {
			c.JSON(http.StatusBadRequest, protocol.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, protocol.ErrorResponse{Error: "failed to add friend"})
		return
	}

	c.JSON(http.StatusCreated, friend)
}

// removeFriend deletes a friend entry. A missing entry is a reported,
// non-fatal failure.
func (s *Server) removeFriend(c *gin.Context) {
	userKey := c.GetString(ctxEmail)
	friendID := c.Param("id")

	if err := s.ledger.RemoveFriend(c.Request.Context(), userKey, friendID); err != nil {
		if errors.Is(err, storage.ErrFriendNotFound) {
			c.JSON(http.StatusNotFound, protocol.ErrorResponse{Error: err.Error()})
			return
		}
		s.logger.Error("RemoveFriend failed", "user", userKey, "friend_id", friendID, "error", err)
		c.JSON(http.StatusInternalServerError, protocol.ErrorResponse{Error: "failed to remove friend"})
		return
	}

	c.Status(http.StatusNoContent)
}

// applySplit applies a signed balance delta computed by the caller.
func (s *Server) applySplit(c *gin.Context) {
	userKey := c.GetString(ctxEmail)
	friendID := c.Param("id")

	var req protocol.SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, protocol.ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := s.ledger.ApplySplit(c.Request.Context(), userKey, friendID, req.Delta); err != nil {
		if errors.Is(err, storage.ErrFriendNotFound) {
			c.JSON(http.StatusNotFound, protocol.ErrorResponse{Error: err.Error()})
			return
		}
		s.logger.Error("ApplySplit failed", "user", userKey, "friend_id", friendID, "error", err)
		c.JSON(http.StatusInternalServerError, protocol.ErrorResponse{Error: "failed to apply split"})
		return
	}

	c.Status(http.StatusNoContent)
}
