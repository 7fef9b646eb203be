package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"gatherly/config"
	"gatherly/db"
	"gatherly/logger"
	"gatherly/middleware"
	"gatherly/mq"
	"gatherly/ratelim"
	"gatherly/rdx"
	"gatherly/routes"
)

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(rateLimiter *ratelim.RateLimiter) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddEventsRoutes(router, rateLimiter)
	routes.AddBookingRoutes(router, rateLimiter)
	routes.AddTicketRoutes(router, rateLimiter)
	routes.AddStaticRoutes(router)

	return router
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := logger.Init(cfg.LogPath, cfg.Debug); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Log.Sync()

	// connection is acquired lazily on first use; a dead store at boot
	// only fails requests, not the process
	db.Init(cfg.MongoURI, cfg.MongoDB)
	rdx.Init(cfg.RedisAddr)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go mq.StartWorker(workerCtx)

	rateLimiter := ratelim.NewRateLimiter()
	router := setupRouter(rateLimiter)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := middleware.RequestLog(middleware.SecurityHeaders(corsHandler))

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	if port[0] != ':' {
		port = ":" + port
	}

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		logger.Sugar.Infof("server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar.Info("shutting down...")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Sugar.Errorf("server shutdown: %v", err)
	}
	if db.Default != nil {
		if err := db.Default.Release(ctx); err != nil {
			logger.Sugar.Errorf("db release: %v", err)
		}
	}
	logger.Sugar.Info("bye")
}
