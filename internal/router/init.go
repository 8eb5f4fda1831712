package router

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jyotir-aditya/fullstackAssignment/config"
	"github.com/jyotir-aditya/fullstackAssignment/internal/application"
	"github.com/jyotir-aditya/fullstackAssignment/internal/container"
	repo "github.com/jyotir-aditya/fullstackAssignment/internal/domain/repository"
	"github.com/jyotir-aditya/fullstackAssignment/internal/infrastructure/memory"
	pginfra "github.com/jyotir-aditya/fullstackAssignment/internal/infrastructure/postgres"
	handlers "github.com/jyotir-aditya/fullstackAssignment/internal/interface/http"
	"github.com/jyotir-aditya/fullstackAssignment/internal/interface/middleware"
	"github.com/jyotir-aditya/fullstackAssignment/internal/router/modules"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/helpers"
)

// Deps are the shared components every module is built from.
type Deps struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Redis    *redis.Client
	JWT      *helpers.JWTManager
	Jobs     application.JobPublisher
	Users    repo.UserRepository
	Products repo.ProductRepository
}

// DepsFromContainer resolves Deps from the container singletons. Postgres
// repositories are used when a pool is registered, in-memory ones otherwise.
func DepsFromContainer() Deps {
	d := Deps{
		Config: container.GetConfig(),
		Logger: container.GetLogger(),
		Redis:  container.GetRedis(),
		JWT:    container.GetJWT(),
	}
	if pub := container.GetRabbitPub(); pub != nil {
		d.Jobs = pub
	}
	if pool := container.GetPGPool(); pool != nil {
		d.Users = pginfra.NewUserRepository(pool)
		d.Products = pginfra.NewProductRepository(pool)
	} else {
		d.Users = memory.NewUserRepository()
		d.Products = memory.NewProductRepository()
	}
	return d
}

// InitModules builds services and handlers and registers every module.
// Call once during startup.
func InitModules(r *Registry, d Deps) {
	userSvc := application.NewUserService(d.Users, d.JWT, d.Logger, d.Jobs)
	productSvc := application.NewProductService(d.Products, d.Logger)

	authMW := modules.AuthMiddleware(userSvc, d.Logger)
	debugMetrics := d.Config != nil && d.Config.DebugMetricsEnabled

	// coarse per-client ceiling across the whole API; private callers bypass it
	r.Use(middleware.RateLimit(d.Redis, 600, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()))

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(userSvc, d.Logger), d.Redis))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, d.Logger), authMW, d.Redis))
	r.Add(modules.NewProductModule(handlers.NewProductHandler(productSvc, d.Logger), authMW, d.Redis))
	r.Add(modules.NewDebugModule(handlers.NewHealthHandler(userSvc, d.Logger), d.Redis, debugMetrics))
}
