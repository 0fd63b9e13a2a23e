package mredis

import (
	"context"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mlog"

	"github.com/redis/go-redis/v9"
)

// RedisConnection is a hub which deal with redis connections.
type RedisConnection struct {
	ConnectionStringSource string
	Client                 *redis.Client
	Connected              bool
	Logger                 mlog.Logger
}

// Connect keeps a singleton connection with redis.
func (rc *RedisConnection) Connect(ctx context.Context) error {
	rc.Logger.Info("Connecting to redis...")

	opts, err := redis.ParseURL(rc.ConnectionStringSource)
	if err != nil {
		rc.Logger.Errorf("invalid redis connection string: %v", err)

		return err
	}

	rdb := redis.NewClient(opts)

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rc.Logger.Infof("RedisConnection.Ping %v", err)

		return err
	}

	rc.Logger.Info("Connected to redis ✅ ")

	rc.Connected = true
	rc.Client = rdb

	return nil
}

// GetClient returns a pointer to the redis client, initializing it if necessary.
func (rc *RedisConnection) GetClient(ctx context.Context) (*redis.Client, error) {
	if rc.Client == nil {
		if err := rc.Connect(ctx); err != nil {
			rc.Logger.Infof("ERRCONECT %s", err)

			return nil, err
		}
	}

	return rc.Client, nil
}
