package bootstrap

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mlog"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mprometheus"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the operational surface: /livez, /readyz and /metrics.
type Server struct {
	app           *fiber.App
	serverAddress string
	logger        mlog.Logger
}

// NewServer creates an instance of Server.
func NewServer(cfg *Config, health *Health, metrics *mprometheus.Metrics, logger mlog.Logger) *Server {
	f := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	f.Get("/livez", func(c *fiber.Ctx) error {
		if !health.Alive() {
			return c.Status(fiber.StatusServiceUnavailable).SendString("stalled")
		}

		return c.SendString("ok")
	})

	f.Get("/readyz", func(c *fiber.Ctx) error {
		ready, reasons := health.Ready()
		if !ready {
			return c.Status(fiber.StatusServiceUnavailable).SendString(strings.Join(reasons, "; "))
		}

		return c.SendString("ok")
	})

	f.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return &Server{
		app:           f,
		serverAddress: cfg.ServerAddress,
		logger:        logger,
	}
}

// ServerAddress returns the server address.
func (s *Server) ServerAddress() string {
	return s.serverAddress
}

// Run runs the server until SIGTERM.
func (s *Server) Run(l *pkg.Launcher) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		if err := s.app.Shutdown(); err != nil {
			s.logger.Errorf("Ops server shutdown failed: %v", err)
		}
	}()

	s.logger.Infof("Ops server listening on %s", s.serverAddress)

	return s.app.Listen(s.serverAddress)
}
