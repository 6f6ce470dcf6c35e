package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"metricsprobe/internal/config"
	"metricsprobe/internal/handlers"
	"metricsprobe/internal/metrics"
	"metricsprobe/internal/middleware"
	"metricsprobe/internal/models"
	"metricsprobe/internal/telemetry"
	"metricsprobe/internal/utils"
	"metricsprobe/internal/version"
	"metricsprobe/internal/window"

	"github.com/gin-gonic/gin"
)

type App struct {
	config      *config.Config
	logger      *utils.Logger
	handlers    *handlers.MetricsHandlers
	wsHub       *middleware.Hub
	rateLimiter *middleware.RateLimiter
	exporter    *metrics.Exporter
	portMapper  *utils.PortMapper
}

var app *App

func newApp(cfg *config.Config, logger *utils.Logger, source telemetry.Source) *App {
	a := &App{
		config:   cfg,
		logger:   logger,
		handlers: handlers.NewMetricsHandlers(source, window.NewStore(), logger),
	}
	if cfg.RateLimitEnabled() {
		a.rateLimiter = middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimitPerMinute), cfg.RateLimitBurst)
	}
	if cfg.Prometheus {
		a.exporter = metrics.NewExporter()
		a.handlers.SetObserver(a.exporter)
	}
	if cfg.WebSocket {
		a.wsHub = middleware.NewHub(logger)
		a.handlers.SetBroadcaster(a.wsHub)
	}
	if cfg.NATMapping {
		a.portMapper = utils.NewPortMapper(cfg.Port, models.ServiceName, logger)
	}
	return a
}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()
	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.Load()
	if err != nil {
		if config.IsValidationError(err) {
			log.Fatalf("Invalid configuration: %v", err)
		}
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := utils.NewLogger(cfg.LogFile)
	defer logger.Close()

	app = newApp(cfg, logger, telemetry.NewHostSource(cfg.CPUInterval))

	if app.wsHub != nil {
		go app.wsHub.Run()
	}

	r := setupRouter()

	srv := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	if cfg.TLS.Enabled {
		go func() {
			logger.Writef("Starting %s %s (HTTPS) on %s", models.ServiceName, version.String(), srv.Addr)
			if err := srv.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile); err != nil && err != http.ErrServerClosed {
				log.Fatalf("HTTPS server failed to start: %v", err)
			}
		}()
	} else {
		go func() {
			logger.Writef("Starting %s %s on %s", models.ServiceName, version.String(), srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Server failed to start: %v", err)
			}
		}()
	}

	if app.portMapper != nil {
		go func() {
			ext, err := app.portMapper.Map(context.Background())
			if err != nil {
				logger.Writef("NAT port mapping unavailable: %v", err)
				return
			}
			if ip, err := app.portMapper.ExternalIP(context.Background()); err == nil && ip != nil {
				logger.Writef("NAT mapped %s:%d to %d/tcp", ip, ext, cfg.Port)
				return
			}
			logger.Writef("NAT mapped external port %d to %d/tcp", ext, cfg.Port)
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Write("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if app.portMapper != nil {
		if err := app.portMapper.Unmap(ctx); err != nil {
			logger.Writef("NAT unmap failed: %v", err)
		}
	}
	if app.wsHub != nil {
		app.wsHub.Stop()
	}
	if app.rateLimiter != nil {
		app.rateLimiter.Stop()
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Write("Server exited")
}

func setupRouter() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output: app.logger.Output(),
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC1123),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	if app.exporter != nil {
		r.Use(app.exporter.Instrument())
	}

	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	// Sampling and health routes stay outside the limiter so every
	// /metrics call records a sample and /health always answers.
	r.GET("/metrics", app.handlers.Metrics)
	r.GET("/health", app.handlers.Health)
	r.GET("/healthz", app.handlers.Health)

	aux := r.Group("/")
	if app.rateLimiter != nil {
		aux.Use(app.rateLimiter.Middleware())
	}
	{
		aux.GET("/version", app.handlers.Version)
		if app.exporter != nil {
			aux.GET("/metrics/prometheus", app.exporter.Handler())
		}
		if app.wsHub != nil {
			aux.GET("/ws", app.wsHub.HandleWebSocket())
		}
	}

	return r
}
