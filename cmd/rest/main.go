package main

import (
	"context"
	"log"

	"github.com/Srushti-17/Docolab/internal/bootstrap"
	"github.com/Srushti-17/Docolab/internal/config"
	"github.com/Srushti-17/Docolab/internal/server"
	"github.com/Srushti-17/Docolab/internal/tracer"
	"github.com/Srushti-17/Docolab/pkg/database"
)

func main() {
	// 1. Tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Load configuration
	cfg := config.Load()

	// 3. Initialize database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap dependencies
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Start background services
	go container.WebSocketHub.Run()

	if err := container.ConsumerService.Consume(context.Background()); err != nil {
		log.Printf("Background consumer error: %v", err)
	}

	// 6. Run server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
