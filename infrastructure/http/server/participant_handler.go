package server

import (
	"fmt"
	"net/http"
	"presence-chat/errors"

	"github.com/gin-gonic/gin"
)

func (s *Server) registerParticipant(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errors.ErrInvalidParticipant, err))
		return
	}
	if _, err := s.presence.Register(c.Request.Context(), s.sanitizer.Clean(body.Name)); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (s *Server) listParticipants(c *gin.Context) {
	participants, err := s.presence.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toParticipantResponses(participants))
}

func (s *Server) heartbeat(c *gin.Context) {
	if err := s.presence.Heartbeat(c.Request.Context(), s.user(c)); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}
