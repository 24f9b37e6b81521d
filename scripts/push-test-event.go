// Package main pushes a sample security event onto the Redis event queue
// for testing the alert engine end to end.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventsKey = "log_events"

func main() {
	redisAddr := "localhost:6379"
	if len(os.Args) > 1 {
		redisAddr = os.Args[1]
	}

	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"username":  "alice",
		"source_ip": "192.168.1.10",
		"action":    "login_failure",
		"severity":  "ERROR",
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	if err := client.RPush(ctx, eventsKey, payload).Err(); err != nil {
		log.Fatalf("Failed to push event: %v", err)
	}

	fmt.Printf("Pushed test event to %s: %s\n", eventsKey, payload)
}
