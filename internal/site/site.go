// Package site wires the RoborNET site backend together and manages the
// lifecycle of its components: the HTTP API, the scheduler and the relay
// dispatcher.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/robornet/internal/config"
	"github.com/edgard/robornet/internal/logger"
	"github.com/edgard/robornet/internal/site/handlers"
)

const shutdownTimeout = 10 * time.Second

// Dispatcher runs background relay jobs until its context ends.
type Dispatcher interface {
	Run(ctx context.Context) error
}

// NewApp builds the fiber application with middleware, API routes and the
// static SPA.
func NewApp(cfg config.HTTPConfig, deps handlers.HandlerDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "robornet",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.Middleware(deps.Logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
	}))

	handlers.Mount(app, handlers.RegisterAllRoutes(deps))

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir, fiber.Static{Compress: true, Index: "index.html"})
		// Client-side routes fall back to the SPA entry point.
		app.Get("/*", func(c *fiber.Ctx) error {
			if strings.HasPrefix(c.Path(), "/api/") {
				return fiber.ErrNotFound
			}
			return c.SendFile(filepath.Join(cfg.StaticDir, "index.html"))
		})
	}
	return app
}

// Site represents the running backend and manages its components' lifecycle.
type Site struct {
	logger     *slog.Logger
	cfg        *config.Config
	app        *fiber.App
	scheduler  *Scheduler
	dispatcher Dispatcher
}

// New creates a site from its components.
func New(logger *slog.Logger, cfg *config.Config, app *fiber.App, scheduler *Scheduler, dispatcher Dispatcher) *Site {
	return &Site{
		logger:     logger.With("component", "site_orchestrator"),
		cfg:        cfg,
		app:        app,
		scheduler:  scheduler,
		dispatcher: dispatcher,
	}
}

// Run starts all components and blocks until ctx is cancelled or one of them
// fails, then shuts everything down.
func (s *Site) Run(ctx context.Context) error {
	s.logger.Info("Starting site orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting HTTP server...", "addr", s.cfg.HTTP.Addr)
		err := s.app.Listen(s.cfg.HTTP.Addr)
		if gCtx.Err() == nil {
			s.logger.Warn("HTTP server stopped unexpectedly without context cancellation.", "error", err)
			return fmt.Errorf("http server stopped unexpectedly: %w", err)
		}
		s.logger.Info("HTTP server stopped.")
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.logger.Info("Shutdown signal received, stopping HTTP server...")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error("Error stopping HTTP server", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		s.logger.Info("Starting scheduler...")
		if err := s.scheduler.Start(); err != nil {
			s.logger.Error("Failed to start scheduler", "error", err)
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		s.logger.Info("Shutdown signal received, stopping scheduler...")
		if err := s.scheduler.Stop(); err != nil {
			s.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		return s.dispatcher.Run(gCtx)
	})

	s.logger.Info("Site orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("Site orchestrator stopped due to error", "error", err)
		return err
	}

	s.logger.Info("Site orchestrator stopped gracefully.")
	return nil
}
