// Package server exposes slide normalization and rendering over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	kerrors "github.com/k1LoW/errors"
	"github.com/k1LoW/slidejsx"
	"github.com/k1LoW/slidejsx/jsx"
	"github.com/k1LoW/slidejsx/schema"
	"github.com/k1LoW/slidejsx/version"
)

const maxBodySize = 32 << 20

type Server struct {
	renderer      *slidejsx.Renderer
	componentName string
	allowOrigins  []string
	logger        *slog.Logger
}

type Option func(*Server) error

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

func WithRenderer(r *slidejsx.Renderer) Option {
	return func(s *Server) error {
		if r == nil {
			return errors.New("renderer is nil")
		}
		s.renderer = r
		return nil
	}
}

// WithComponentName sets the component name used when the request does not name one.
func WithComponentName(name string) Option {
	return func(s *Server) error {
		if _, err := jsx.New(jsx.WithComponentName(name)); err != nil {
			return err
		}
		s.componentName = name
		return nil
	}
}

// WithAllowOrigins sets the origins allowed by CORS. The default allows all origins.
func WithAllowOrigins(origins ...string) Option {
	return func(s *Server) error {
		s.allowOrigins = origins
		return nil
	}
}

func New(opts ...Option) (_ *Server, err error) {
	defer func() {
		err = kerrors.WithStack(err)
	}()
	s := &Server{
		componentName: jsx.DefaultComponentName,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.renderer == nil {
		r, err := slidejsx.New(slidejsx.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.renderer = r
	}
	return s, nil
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Type"},
		MaxAge:        12 * time.Hour,
	}
	if len(s.allowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.allowOrigins
	}
	r.Use(cors.New(corsConfig))
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("handled request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	})

	r.GET("/healthz", s.healthz)
	v1 := r.Group("/api/v1")
	{
		v1.POST("/normalize", s.normalize)
		v1.POST("/render", s.render)
	}
	return r
}

// ListenAndServe serves the API on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) (err error) {
	defer func() {
		err = kerrors.WithStack(err)
	}()
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	}
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    version.Name,
		"version": version.Version,
	})
}

func (s *Server) normalize(c *gin.Context) {
	items, ok := s.parse(c)
	if !ok {
		return
	}
	b, err := items.MarshalJSON()
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

func (s *Server) render(c *gin.Context) {
	format := c.DefaultQuery("format", "jsx")
	if format != "jsx" && format != "json" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported format: %s", format)})
		return
	}
	w, err := jsx.New(jsx.WithComponentName(c.DefaultQuery("name", s.componentName)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items, ok := s.parse(c)
	if !ok {
		return
	}
	out, err := s.renderer.Render(c.Request.Context(), items)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	buf := new(bytes.Buffer)
	switch format {
	case "json":
		if err := jsx.WriteJSON(buf, out); err != nil {
			s.fail(c, http.StatusInternalServerError, err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
	default:
		if err := w.Write(buf, out); err != nil {
			s.fail(c, http.StatusInternalServerError, err)
			return
		}
		c.Data(http.StatusOK, "text/jsx; charset=utf-8", buf.Bytes())
	}
}

// parse reads and normalizes the request body. It writes the error response itself.
func (s *Server) parse(c *gin.Context) (schema.Items, bool) {
	b, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize))
	if err != nil {
		s.fail(c, http.StatusRequestEntityTooLarge, err)
		return nil, false
	}
	var items schema.Items
	if isYAML(c.ContentType()) {
		items, err = schema.ParseYAML(b)
	} else {
		items, err = schema.Parse(b)
	}
	if err == nil {
		err = items.Require()
	}
	if err != nil {
		status := http.StatusInternalServerError
		var fe *schema.FatalInputError
		if errors.As(err, &fe) {
			status = http.StatusBadRequest
		}
		if errors.Is(err, schema.ErrNoItems) {
			status = http.StatusUnprocessableEntity
		}
		s.fail(c, status, err)
		return nil, false
	}
	return items, true
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	s.logger.Error("failed to handle request", slog.String("path", c.Request.URL.Path), slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}

func isYAML(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return true
	}
	return false
}
