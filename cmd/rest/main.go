package main

import (
	"context"
	"log"

	"lecturenotes-be/internal/bootstrap"
	"lecturenotes-be/internal/config"
	"lecturenotes-be/internal/server"
	"lecturenotes-be/internal/tracer"
	"lecturenotes-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	// Embedding indexer runs off the in-process queue for the lifetime of the
	// server.
	go func() {
		log.Println("Background: starting embedding consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background consumer error: %v", err)
		}
	}()

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
