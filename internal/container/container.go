// Package container holds the components built at startup and hands them to
// the router. It replaces package-level singletons with one explicit value.
package container

import (
	"context"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/config"
	"github.com/oksasatya/go-task-manager/internal/application"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-task-manager/internal/infrastructure/postgres"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/search"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	JWT    *helpers.JWTManager

	// optional infrastructure; nil when not configured
	PGPool *pgxpool.Pool
	Redis  *redis.Client
	ES     *elasticsearch.Client

	Users   repo.UserRepository
	Tasks   repo.TaskRepository
	Revoker application.TokenRevoker
	Index   application.TaskIndex
}

func New(cfg *config.Config, logger *logrus.Logger) *Container {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &Container{
		Config: cfg,
		Logger: logger,
		JWT:    helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL),
	}
}

// UsePostgres backs users and tasks with the given pool.
func (c *Container) UsePostgres(pool *pgxpool.Pool) {
	c.PGPool = pool
	c.Users = pginfra.NewUserRepository(pool)
	c.Tasks = pginfra.NewTaskRepository(pool)
}

// UseMemory backs users and tasks with an in-process store.
func (c *Container) UseMemory(store *memory.Store) {
	c.Users = store.Users()
	c.Tasks = store.Tasks()
}

// UseRedis enables token revocation and rate limiting.
func (c *Container) UseRedis(rdb *redis.Client) {
	if rdb == nil {
		return
	}
	c.Redis = rdb
	c.Revoker = redisstore.NewTokenDenylist(rdb)
}

// UseSearch enables the Elasticsearch task index.
func (c *Container) UseSearch(es *elasticsearch.Client) {
	if es == nil {
		return
	}
	c.ES = es
	c.Index = search.NewTaskIndex(es, c.Config.ESTasksIndex)
}

func (c *Container) AuthService() *application.AuthService {
	return application.NewAuthService(c.Users, c.JWT, c.Revoker, c.Config.BcryptCost, c.Logger)
}

func (c *Container) TaskService() *application.TaskService {
	return application.NewTaskService(c.Tasks, c.Index, c.Logger, c.Config.Location())
}

// Pingers returns a liveness probe per configured backend.
func (c *Container) Pingers() map[string]func(ctx context.Context) error {
	out := map[string]func(ctx context.Context) error{}
	if c.PGPool != nil {
		out["postgres"] = c.PGPool.Ping
	}
	if c.Redis != nil {
		out["redis"] = func(ctx context.Context) error { return c.Redis.Ping(ctx).Err() }
	}
	if c.ES != nil {
		out["elasticsearch"] = func(ctx context.Context) error {
			res, err := c.ES.Ping(c.ES.Ping.WithContext(ctx))
			if err != nil {
				return err
			}
			defer res.Body.Close()
			if res.IsError() {
				return &helpers.ESResponseError{Status: res.Status()}
			}
			return nil
		}
	}
	return out
}
