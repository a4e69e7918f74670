// Command taskwatch-backfill republishes lifecycle events from JSON files
// onto the bus. It is the operator recovery path for messages the pipeline
// lost; event task IDs are derived from task/run identity, so re-running the
// same backfill dedupes instead of double-delivering.
//
// Each input file holds an array of events:
//
//	[{"kind": "pending", "payload": {"runId": 0, "status": {...}}}, ...]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/hibiken/asynq"

	"github.com/mohans/taskwatch/internal/events"
)

type backfillEvent struct {
	Kind    events.Kind    `json:"kind"`
	Payload events.Payload `json:"payload"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "redis broker address")
	redisPassword := flag.String("redis-password", "", "redis password")
	queue := flag.String("queue", "default", "queue to publish on")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: taskwatch-backfill [flags] events.json ...")
		os.Exit(2)
	}

	pub := events.NewPublisher(asynq.RedisClientOpt{Addr: *redisAddr, Password: *redisPassword}, *queue)
	defer pub.Close()

	ctx := context.Background()
	total := 0
	for _, path := range flag.Args() {
		n, err := publishFile(ctx, pub, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			os.Exit(1)
		}
		total += n
	}
	fmt.Printf("published %d events\n", total)
}

func publishFile(ctx context.Context, pub *events.Publisher, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var evs []backfillEvent
	if err := json.Unmarshal(raw, &evs); err != nil {
		return 0, fmt.Errorf("parse events: %w", err)
	}
	for i, ev := range evs {
		if _, err := events.KindFromTaskType(ev.Kind.TaskType()); err != nil {
			return i, fmt.Errorf("event %d: %w", i, err)
		}
		msg := events.Message{Payload: ev.Payload}
		if _, err := pub.Publish(ctx, ev.Kind, msg); err != nil {
			return i, fmt.Errorf("event %d: %w", i, err)
		}
	}
	return len(evs), nil
}
