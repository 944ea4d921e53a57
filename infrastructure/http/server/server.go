package server

import (
	"log/slog"
	"net/http"
	"presence-chat/errors"
	"presence-chat/moderation"
	"presence-chat/observability"
	"presence-chat/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
)

// UserHeader carries the name of the acting participant.
const UserHeader = "user"

type Server struct {
	log        *slog.Logger
	presence   services.IPresenceService
	messages   services.IMessageService
	sanitizer  moderation.Sanitizer
	monitoring *observability.MonitoringManager
}

func NewServer(
	log *slog.Logger,
	presence services.IPresenceService,
	messages services.IMessageService,
	sanitizer moderation.Sanitizer,
	monitoring *observability.MonitoringManager,
) *Server {
	return &Server{
		log:        log,
		presence:   presence,
		messages:   messages,
		sanitizer:  sanitizer,
		monitoring: monitoring,
	}
}

// Router mounts every route on a fresh gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog(), allowAnyOrigin())

	r.POST("/participants", s.registerParticipant)
	r.GET("/participants", s.listParticipants)
	r.POST("/status", s.heartbeat)

	r.POST("/messages", s.postMessage)
	r.GET("/messages", s.listMessages)
	r.PUT("/messages/:id", s.editMessage)
	r.DELETE("/messages/:id", s.deleteMessage)

	r.GET("/health", s.health)
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitoring.GetLatest())
}

// user returns the sanitized identity header.
func (s *Server) user(c *gin.Context) string {
	return s.sanitizer.Clean(c.GetHeader(UserHeader))
}

// fail writes the status mapped from err with an {"error": ...} body.
func (s *Server) fail(c *gin.Context, err error) {
	status := errors.MapToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.monitoring.IncrErrorCount()
		s.log.ErrorContext(c.Request.Context(), "Request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// accessLog logs every request at debug level, client errors at info and
// server errors at error level.
func (s *Server) accessLog() gin.HandlerFunc {
	return sloggin.NewWithConfig(s.log, sloggin.Config{
		DefaultLevel:     slog.LevelDebug,
		ClientErrorLevel: slog.LevelInfo,
		ServerErrorLevel: slog.LevelError,
	})
}

// allowAnyOrigin lets browsers from any origin call the API, preflight requests included.
func allowAnyOrigin() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut,
			http.MethodPatch, http.MethodPost, http.MethodDelete,
		},
		AllowHeaders: []string{"Content-Type", UserHeader},
	})
}
