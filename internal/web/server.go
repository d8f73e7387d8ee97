package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bigredeye/coursesapi/api"
	"github.com/bigredeye/coursesapi/internal/config"
	"github.com/bigredeye/coursesapi/internal/database"
)

type server struct {
	config *config.Config
	logger *zap.Logger
	db     *database.DataBase

	ready *atomic.Bool
}

func newServer(config *config.Config, logger *zap.Logger, db *database.DataBase) *server {
	return &server{
		config: config,
		logger: logger,
		db:     db,
		ready:  atomic.NewBool(false),
	}
}

// NewEngine builds the HTTP handler serving the API on top of an opened
// and migrated database.
func NewEngine(config *config.Config, logger *zap.Logger, db *database.DataBase) (*gin.Engine, error) {
	s := newServer(config, logger, db)
	r, err := s.buildEngine()
	if err != nil {
		return nil, err
	}
	s.ready.Store(true)
	return r, nil
}

func (s *server) limitBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, &api.ErrorResponse{
				Detail: "Request body is too large.",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

func (s *server) buildEngine() (*gin.Engine, error) {
	maxBodySize, err := s.config.MaxBodyBytes()
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(ginzap.Ginzap(s.logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(s.logger, true))
	r.Use(s.limitBodySize(maxBodySize))

	setupCoursesService(s, r)
	setupStudentsService(s, r)

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong "+fmt.Sprint(time.Now().Unix()))
	})
	r.GET("/ready", func(c *gin.Context) {
		if !s.ready.Load() {
			c.String(http.StatusServiceUnavailable, "not ready")
			return
		}
		c.String(http.StatusOK, "ready")
	})

	return r, nil
}

func (s *server) run(ctx context.Context) error {
	r, err := s.buildEngine()
	if err != nil {
		return errors.Wrap(err, "Failed to build router")
	}

	srv := &http.Server{
		Addr:    s.config.Server.ListenAddress,
		Handler: r,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Starting server", zap.String("bind_address", s.config.Server.ListenAddress))
		s.ready.Store(true)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "Server failed")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.ready.Store(false)
		s.logger.Info("Shutting down server", zap.Duration("timeout", s.config.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()
		return errors.Wrap(srv.Shutdown(shutdownCtx), "Failed to shutdown server")
	})

	return g.Wait()
}
