package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jyotir-aditya/fullstackAssignment/config"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Router wires modules from these singletons. Optional components are nil
// when not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	jwtManager  *helpers.JWTManager
	rabbitPub   *helpers.RabbitPublisher
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func GetLogger() *logrus.Logger {
	if logger == nil {
		return helpers.NewDiscardLogger()
	}
	return logger
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
