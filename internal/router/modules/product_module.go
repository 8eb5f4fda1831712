package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/jyotir-aditya/fullstackAssignment/internal/interface/http"
	"github.com/jyotir-aditya/fullstackAssignment/internal/interface/middleware"
)

// ProductModule
// Public: GET /products, GET /products/:id
// Protected: POST /products, PATCH /products/:id, DELETE /products/:id
type ProductModule struct {
	Handler *handlers.ProductHandler
	Auth    gin.HandlerFunc
	Redis   *redis.Client
}

func NewProductModule(h *handlers.ProductHandler, auth gin.HandlerFunc, rdb *redis.Client) *ProductModule {
	return &ProductModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/products", readLimiter, m.Handler.List)
	rg.GET("/products/:id", readLimiter, m.Handler.Get)

	auth := rg.Group("/products")
	auth.Use(m.Auth)
	auth.Use(middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("", m.Handler.Create)
		auth.PATCH("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
