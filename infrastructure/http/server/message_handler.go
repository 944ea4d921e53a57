package server

import (
	"fmt"
	"net/http"
	"presence-chat/domain"
	"presence-chat/errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) postMessage(c *gin.Context) {
	draft, err := s.bindDraft(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if _, err = s.messages.Post(c.Request.Context(), s.user(c), draft); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// listMessages accepts an optional integer limit; zero or negative means no limit.
func (s *Server) listMessages(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.fail(c, fmt.Errorf("%w: limit %q is not an integer", errors.ErrInvalidMessage, raw))
			return
		}
		limit = n
	}
	messages, err := s.messages.ListVisibleTo(c.Request.Context(), s.user(c), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toMessageResponses(messages))
}

func (s *Server) editMessage(c *gin.Context) {
	draft, err := s.bindDraft(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err = s.messages.Edit(c.Request.Context(), c.Param("id"), s.user(c), draft); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) deleteMessage(c *gin.Context) {
	if err := s.messages.Delete(c.Request.Context(), c.Param("id"), s.user(c)); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// bindDraft decodes and sanitizes a message body. Field rules are checked by
// the message service so that ownership errors take precedence on edits.
func (s *Server) bindDraft(c *gin.Context) (domain.MessageDraft, error) {
	var body messageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		return domain.MessageDraft{}, fmt.Errorf("%w: %v", errors.ErrInvalidMessage, err)
	}
	return domain.MessageDraft{
		To:   s.sanitizer.Clean(body.To),
		Text: s.sanitizer.CleanText(body.Text),
		Kind: domain.Kind(s.sanitizer.Clean(body.Type)),
	}, nil
}
