// Package callback runs the local listener that receives the OAuth
// authorization code after the seller grants consent on eBay.
package callback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/ebay-listing-creator/internal/listing"
)

// DefaultUIURL is where the seller is sent once the code has been recorded.
const DefaultUIURL = "http://localhost:8501"

// CodeSink receives authorization codes for a session.
type CodeSink interface {
	DeliverCode(ctx context.Context, sessionID, code string) error
}

// Server is the callback listener.
type Server struct {
	echo  *echo.Echo
	sink  CodeSink
	uiURL string
	log   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithUIURL sets the redirect target after a successful callback.
func WithUIURL(u string) Option {
	return func(s *Server) {
		s.uiURL = u
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithMiddleware installs echo middleware on the listener.
func WithMiddleware(m ...echo.MiddlewareFunc) Option {
	return func(s *Server) {
		s.echo.Use(m...)
	}
}

// New creates a callback listener delivering codes to sink.
func New(sink CodeSink, opts ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:  e,
		sink:  sink,
		uiURL: DefaultUIURL,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	e.GET("/callback", s.handleCallback)
	e.GET("/test", s.handleTest)
	return s
}

// Handler returns the listener's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.log.Info("callback listener starting", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("callback listener: %w", err)
	}
	return nil
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type statusBody struct {
	Status string `json:"status"`
}

func (*Server) handleTest(c echo.Context) error {
	return c.JSON(http.StatusOK, statusBody{Status: "Server is running!"})
}

func (s *Server) handleCallback(c echo.Context) error {
	sessionID := c.QueryParam("state")

	if reason := c.QueryParam("error"); reason != "" {
		s.log.Warn("consent declined",
			"session", sessionID,
			"error", reason,
			"description", c.QueryParam("error_description"),
		)
		return c.JSON(http.StatusBadRequest, statusBody{Status: "authorization failed: " + reason})
	}

	code := c.QueryParam("code")
	if code == "" || sessionID == "" {
		return c.JSON(http.StatusBadRequest, statusBody{Status: "code and state are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := s.sink.DeliverCode(ctx, sessionID, code); err != nil {
		s.log.Error("delivering authorization code", "session", sessionID, "error", err)
		switch {
		case errors.Is(err, listing.ErrSessionNotFound):
			return c.JSON(http.StatusNotFound, statusBody{Status: "unknown session"})
		case errors.Is(err, listing.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, statusBody{Status: "session is not waiting for authorization"})
		default:
			return c.JSON(http.StatusInternalServerError, statusBody{Status: "could not record authorization"})
		}
	}

	s.log.Info("authorization code received", "session", sessionID)
	return c.Redirect(http.StatusFound, s.redirectURL(sessionID))
}

func (s *Server) redirectURL(sessionID string) string {
	u, err := url.Parse(s.uiURL)
	if err != nil {
		return s.uiURL
	}
	q := u.Query()
	q.Set("session", sessionID)
	u.RawQuery = q.Encode()
	return u.String()
}
