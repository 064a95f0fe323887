package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"othello-arena/internal/api/controller"
	"othello-arena/internal/hub"
)

var tracer = otel.Tracer("server")

// Server exposes the arena over HTTP: the REST API for archived games and
// ratings, plus the websocket spectator feed.
type Server struct {
	engine   *gin.Engine
	hub      *hub.Hub
	upgrader websocket.Upgrader
}

// NewServer wires the routes. h may be nil when no event feed exists; the
// websocket endpoint is then not mounted.
func NewServer(ac *controller.ArenaController, h *hub.Hub) *Server {
	s := &Server{
		engine: gin.Default(),
		hub:    h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.engine.GET("/healthz", ac.Health)

	api := s.engine.Group("/api")
	{
		api.GET("/games", ac.ListGames)
		api.GET("/games/:id", ac.GetGame)
		api.GET("/ratings", ac.ListRatings)
		api.GET("/standings", ac.LiveStandings)
	}

	if h != nil {
		s.engine.GET("/ws", s.handleWebSocket)
	}

	return s
}

// Engine returns the underlying gin engine for http.Server wiring.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// handleWebSocket upgrades the connection and hands it to the spectator hub.
func (s *Server) handleWebSocket(c *gin.Context) {
	_, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upgrade connection")
		return
	}

	s.hub.Register(conn)
}
