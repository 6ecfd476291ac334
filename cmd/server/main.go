package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"reelforge/api"
	"reelforge/kafka"
	"reelforge/state"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	var store state.Store
	if redisStore, err := state.NewRedisStoreFromEnv(); err != nil {
		log.Printf("Warning: redis unavailable (%v); using in-memory job store", err)
		store = state.NewMemoryStore()
	} else {
		defer redisStore.Close()
		store = redisStore
	}

	topic := os.Getenv("RENDER_TOPIC")
	if topic == "" {
		topic = "render-requests"
	}
	producer, err := kafka.NewProducerFromEnv(topic)
	if err != nil {
		log.Fatalf("failed to create kafka producer: %v", err)
	}
	defer producer.Close()

	r := api.NewRouter(store, producer)
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /api/health")
	log.Println("  POST /api/render")
	log.Println("  GET  /api/jobs")
	log.Println("  GET  /api/jobs/:id")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
