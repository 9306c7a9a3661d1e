package main

import (
	"log"

	"jobscribe-backend/internal/bootstrap"
	"jobscribe-backend/internal/shared/config"
	"jobscribe-backend/internal/shared/server"
	"jobscribe-backend/internal/shared/telemetry"
)

func main() {
	defer telemetry.Sync()

	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
