package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/quiverdb/quiver/gologger"
	"github.com/quiverdb/quiver/server"
	"github.com/quiverdb/quiver/utils"
)

var logger = gologger.NewLogger()

// HTTPServer exposes the engine's query and plan-inspection surfaces
// over HTTP.
type HTTPServer struct {
	Echo   *echo.Echo
	Engine *server.Engine
}

type CustomValidator struct {
	validator *validator.Validate
}

// NewHTTPServer wires the routes and middleware without listening.
func NewHTTPServer(eng *server.Engine) *HTTPServer {
	s := &HTTPServer{
		Echo:   echo.New(),
		Engine: eng,
	}
	s.Echo.HideBanner = true
	s.Echo.HidePort = true

	s.Echo.Use(CreateReqContext)
	s.Echo.Use(middleware.CORS())
	s.Echo.Validator = &CustomValidator{validator: validator.New()}

	s.Echo.GET("/hc", s.HealthCheck)
	s.Echo.POST("/plan", ccHandler(s.PlanHandler))
	s.Echo.POST("/query", ccHandler(s.QueryHandler))
	s.Echo.POST("/query/:handle/execute", ccHandler(s.ExecuteHandler))
	s.Echo.GET("/query/:handle/explain", ccHandler(s.ExplainHandler))
	return s
}

// StartHTTPServer starts serving the query surface on HTTP_PORT
// (default 8080) in a background goroutine.
func StartHTTPServer(eng *server.Engine) *HTTPServer {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", utils.GetEnvOrDefault("HTTP_PORT", "8080")))
	if err != nil {
		logger.Error().Err(err).Msg("error creating tcp listener, exiting")
		os.Exit(1)
	}
	s := NewHTTPServer(eng)
	s.Echo.Listener = listener
	go func() {
		logger.Info().Msg("starting http server on " + listener.Addr().String())
		err := s.Echo.Start("")
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("failed to start http server, exiting")
			os.Exit(1)
		}
	}()

	return s
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// ValidateRequest binds and validates the request body into s.
func ValidateRequest(c echo.Context, s interface{}) error {
	if err := c.Bind(s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(s); err != nil {
		return err
	}
	return nil
}

func (*HTTPServer) HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Shutdown stops the server gracefully.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}
