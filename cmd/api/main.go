package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chargeconnect/charge-api/internal/cache"
	"github.com/chargeconnect/charge-api/internal/config"
	dbpkg "github.com/chargeconnect/charge-api/internal/db"
	"github.com/chargeconnect/charge-api/internal/logging"
	"github.com/chargeconnect/charge-api/internal/middleware"
	"github.com/chargeconnect/charge-api/internal/routes"
)

func main() {

	log, err := logging.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg, log)
	stationCache := cache.New(cfg.RedisAddr, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, stationCache, log)

	log.Info("server starting", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
