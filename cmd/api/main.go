package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/consultapp/internal/audit"
	"github.com/BruksfildServices01/consultapp/internal/config"
	dbpkg "github.com/BruksfildServices01/consultapp/internal/db"
	"github.com/BruksfildServices01/consultapp/internal/infra/cache"
	"github.com/BruksfildServices01/consultapp/internal/infra/gateway"
	"github.com/BruksfildServices01/consultapp/internal/infra/storage"
	"github.com/BruksfildServices01/consultapp/internal/middleware"
	"github.com/BruksfildServices01/consultapp/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := routes.Deps{
		DB:     db,
		Config: cfg,
		Audit:  audit.NewDispatcher(audit.New(db)),
	}

	// --------------------------------------------------
	// Cache: Redis quando configurado, memória caso contrário
	// --------------------------------------------------
	if cfg.RedisURL != "" {
		store, err := cache.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer store.Close()
		deps.Cache = store
	} else {
		log.Println("REDIS_URL not set, using in-memory cache")
		deps.Cache = cache.NewMemoryStore()
	}

	if cfg.StorageEnabled() {
		deps.Photos = storage.NewS3PhotoStore(cfg)
	} else {
		log.Println("S3_BUCKET not set, encounter photo upload disabled")
	}

	if cfg.GatewayEnabled() {
		mp, err := gateway.NewMercadoPago(cfg.MercadoPagoAccessToken)
		if err != nil {
			log.Fatalf("failed to configure mercado pago: %v", err)
		}
		deps.Pix = mp
	} else {
		log.Println("MP_ACCESS_TOKEN not set, PIX charges disabled")
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		log.Printf("Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	// drena os eventos de auditoria pendentes
	deps.Audit.Close()
}
