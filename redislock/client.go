// Package redislock guards the brief window where a worker swaps in a
// freshly downloaded model binary: with multiple worker replicas
// sharing one Redis instance, Lock ensures only one replica reloads at
// a time and the others wait rather than reading a half-swapped
// *ner.Model. Adapted from redis/client.go, dropping the
// document-storage methods this spec has no use for.
package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
)

// ReleaseLock releases a lock obtained by Client.Lock.
type ReleaseLock func() error

// Config carries the Redis connection settings.
type Config struct {
	LockExpirationSeconds int    `envconfig:"NER_REDIS_LOCK_EXPIRATION" default:"3"`
	Host                  string `envconfig:"NER_REDIS_HOST" required:"true"`
	Port                  string `envconfig:"NER_REDIS_PORT" required:"true"`
	Password              string `envconfig:"NER_REDIS_AUTH_PASSWORD" default:""`
	AuthRequired          bool   `envconfig:"NER_REDIS_AUTH_REQUIRED" default:"false"`
}

// Client wraps a Redis connection used only to coordinate model
// hot-reloads across worker replicas.
type Client struct {
	client         redis.UniversalClient
	lockExpiration time.Duration
}

var ctx = context.Background()

// NewClient reads Config from the environment and connects.
func NewClient() (Client, error) {
	cfg, err := readEnvironment()
	if err != nil {
		return Client{}, err
	}
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	options := redis.Options{Addr: addr, MaxRetries: 6}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return Client{
		client:         redis.NewClient(&options),
		lockExpiration: time.Duration(cfg.LockExpirationSeconds) * time.Second,
	}, nil
}

// Lock obtains a named lock, retrying with linear backoff up to 20
// times, exactly like redis.Client.Lock.
func (client *Client) Lock(name string) (ReleaseLock, error) {
	lockClient := redislock.New(client.client)
	strategy := redislock.LimitRetry(redislock.LinearBackoff(time.Second), 20)
	lockKey := fmt.Sprintf("lock:%s", name)
	lock, err := lockClient.Obtain(ctx, lockKey, client.lockExpiration, &redislock.Options{RetryStrategy: strategy})
	if err != nil {
		return nil, err
	}
	return func() error {
		return lock.Release(ctx)
	}, nil
}

// Close closes the underlying Redis connection.
func (client *Client) Close() error {
	return client.client.Close()
}

func readEnvironment() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
