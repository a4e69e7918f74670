package handler

import (
	"github.com/hibiken/asynq"
)

// Consumer owns the bus server and the router's subscription to the five
// lifecycle task types. Message handling runs concurrently up to the
// configured window; a server failure is fatal and surfaces from Run so the
// process can exit for an external restart.
type Consumer struct {
	server *asynq.Server
	router *Router
}

type ConsumerConfig struct {
	Concurrency int
	Queues      map[string]int
}

// NewConsumer builds the consumer. Zero config values fall back to a
// ten-wide window on the default queue.
func NewConsumer(redisOpt asynq.RedisClientOpt, router *Router, cfg ConsumerConfig) *Consumer {
	con := cfg.Concurrency
	if con <= 0 {
		con = 10
	}
	qs := cfg.Queues
	if qs == nil {
		qs = map[string]int{"default": 1}
	}
	server := asynq.NewServer(redisOpt, asynq.Config{Concurrency: con, Queues: qs})
	return &Consumer{server: server, router: router}
}

// Run subscribes and blocks until the server stops. A non-nil return means
// the transport is gone.
func (c *Consumer) Run() error {
	mux := asynq.NewServeMux()
	c.router.Register(mux)
	return c.server.Run(mux)
}

func (c *Consumer) Shutdown() { c.server.Shutdown() }
