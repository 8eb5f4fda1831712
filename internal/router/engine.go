package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jyotir-aditya/fullstackAssignment/config"
	"github.com/jyotir-aditya/fullstackAssignment/internal/interface/middleware"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/validation"
)

// NewEngine returns a gin engine with the global middleware stack:
// recovery, request id, real ip, CORS and optional access log.
func NewEngine(cfg *config.Config) (*gin.Engine, error) {
	validation.Init()

	r := gin.New()
	if err := middleware.ConfigureClientIP(r, cfg.TrustedProxyList(), cfg.TrustedPlatform); err != nil {
		return nil, err
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())

	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(corsCfg))

	if cfg.Env == "development" || cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	return r, nil
}
