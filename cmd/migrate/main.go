// Package main is the offline schema-migration binary for the memory
// engine. It provisions the five memory collections and exits; it is never
// run at request time.
package main

import (
	"context"
	"log"
	"time"

	"github.com/easeaico/companion-memory/internal/config"
	"github.com/easeaico/companion-memory/internal/repository"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := repository.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate memory tables: %v", err)
	}
	log.Println("memory tables migrated")
}
