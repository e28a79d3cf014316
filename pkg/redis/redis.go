package redis

import (
	"context"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration.
type Config struct {
	Host        string
	Port        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	MinIdleConn int
}

// Addr returns host:port
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Options maps the config onto go-redis options. Timeouts are short: the
// rate limiter fails open rather than stall a listing request.
func (c Config) Options() *redis.Options {
	return &redis.Options{
		Addr:         c.Addr(),
		Password:     c.Password,
		DB:           c.DB,
		MaxRetries:   c.MaxRetries,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConn,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolTimeout:  time.Second,
	}
}

// Client backs the rate limiter only; query results are never cached.
type Client struct {
	*redis.Client
	addr string
}

// New builds a client without dialing. Call Ping to verify connectivity.
func New(cfg Config) *Client {
	return &Client{Client: redis.NewClient(cfg.Options()), addr: cfg.Addr()}
}

// Addr returns the server address the client dials.
func (c *Client) Addr() string { return c.addr }

func (c *Client) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}
