package redis

import (
	"context"
	"time"

	"github.com/flexprice/console/internal/config"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Client wraps the go-redis client shared by the redis backed stores
type Client struct {
	*redis.Client
	logger *logger.Logger
}

// NewClient connects to redis and pings it once
func NewClient(cfg *config.Configuration, log *logger.Logger) (*Client, error) {
	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,

		PoolSize: cfg.Redis.PoolSize,

		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, ierr.WithError(err).
			WithHintf("Failed to connect to redis at %s", cfg.Redis.Address).
			Mark(ierr.ErrSystem)
	}

	log.Infow("connected to redis", "address", cfg.Redis.Address, "db", cfg.Redis.DB)
	return &Client{Client: rc, logger: log}, nil
}

// RegisterHooks closes the connection pool on shutdown
func RegisterHooks(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			client.logger.Info("closing redis client")
			return client.Close()
		},
	})
}
