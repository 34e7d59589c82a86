package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/statsbeat/collector/internal/config"
	"github.com/statsbeat/collector/internal/httpserver"
	"github.com/statsbeat/collector/internal/store"
)

// main boots the service: .env → config → DB → schema → HTTP server.
func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Connect to durable storage (Postgres) using a connection pool.
	db, err := store.NewPostgresStore(cfg.DBURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Ensure required tables/indexes exist so `docker compose up --build` is enough.
	if err := db.EnsureSchema(); err != nil {
		log.Fatal(err)
	}

	// Build HTTP router (public health + authenticated APIs).
	router := httpserver.NewRouter(cfg, db)

	log.Printf("server started on %s", cfg.Addr)
	log.Fatal(router.Run(cfg.Addr))
}
