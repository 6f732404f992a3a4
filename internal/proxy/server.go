package proxy

import (
	"context"
	"github.com/denismitr/imageserver/internal/media"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"net/http"
	"os"
	"time"
)

type Config struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Server struct {
	cfg        Config
	logger     *logrus.Logger
	e          *echo.Echo
	httpServer *http.Server
	imageProxy ImageProxy
}

func NewServer(cfg Config, logger *logrus.Logger, imageProxy ImageProxy) *Server {
	s := &Server{
		cfg:        cfg,
		logger:     logger,
		e:          echo.New(),
		imageProxy: imageProxy,
	}

	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.HTTPErrorHandler = s.handleError

	s.e.Use(middleware.RequestID())
	s.e.Use(requestLogger(logger))
	s.e.Use(middleware.Recover())

	s.e.GET("/healthz", s.healthz)

	methods := []string{http.MethodGet, http.MethodHead}
	images := s.e.Group("/api/v3/image")
	images.Match(methods, "/full/:image_filename", s.imageHandler(media.Full))
	images.Match(methods, "/thumb/:image_filename", s.imageHandler(media.Thumbnail))

	// an empty filename segment does not match the param routes
	images.Match(methods, "/full/", s.imageHandler(media.Full))
	images.Match(methods, "/thumb/", s.imageHandler(media.Thumbnail))

	s.httpServer = &http.Server{
		Addr:              cfg.Port,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		Handler:           s.e,
		ReadHeaderTimeout: 2 * time.Second,
	}

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

// Run the server
func (s *Server) Run(stopCh <-chan os.Signal, shutDownTime time.Duration) error {
	s.logger.Println("Image server : Starting")

	serverError := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- errors.Wrap(err, "http server error")
		}
	}()

	s.logger.Printf("Image server : Listening on %s", s.cfg.Port)

	select {
	case err := <-serverError:
		return err
	case <-stopCh:
		s.logger.Println("Image server : Received stop signal")

		ctx, cancel := context.WithTimeout(context.Background(), shutDownTime)
		defer cancel()

		if stopErr := s.httpServer.Shutdown(ctx); stopErr != nil {
			closeErr := s.httpServer.Close()
			return errors.Wrap(closeErr, stopErr.Error())
		}

		return nil
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	fields := logrus.Fields{
		"method":     c.Request().Method,
		"path":       c.Request().URL.Path,
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	}

	if c.Response().Committed {
		s.logger.WithFields(fields).WithError(err).Warnln("image stream interrupted")
		return
	}

	status, resp := errorToResponse(err)
	fields["status"] = status
	fields["reason"] = resp.Reason

	var missing *missingImageError
	if errors.As(err, &missing) {
		fields["registry_status"] = missing.status
	}

	entry := s.logger.WithFields(fields).WithError(err)
	switch resp.Reason {
	case MissingFilename, MalformedFilename, InvalidIdentifier:
		entry.Infoln("rejected image filename")
	case NotFound:
		entry.Warnln("image file not found")
	case RouteNotFound, MethodNotAllowed, Canceled:
		entry.Debugln("request not served")
	default:
		entry.Errorln("image could not be served")
	}

	var wErr error
	if c.Request().Method == http.MethodHead {
		wErr = c.NoContent(status)
	} else {
		wErr = c.JSON(status, resp)
	}

	if wErr != nil {
		s.logger.WithFields(fields).WithError(wErr).Errorln("could not write error response")
	}
}

func requestLogger(lg *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			lg.WithFields(logrus.Fields{
				"method":      c.Request().Method,
				"path":        c.Request().URL.Path,
				"status":      c.Response().Status,
				"bytes":       c.Response().Size,
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
			}).Infoln("request completed")

			return nil
		}
	}
}
