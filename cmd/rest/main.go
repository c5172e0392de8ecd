package main

import (
	"context"
	"log"

	"member-portal-be/internal/bootstrap"
	"member-portal-be/internal/config"
	"member-portal-be/internal/server"
	"member-portal-be/internal/tracer"
	"member-portal-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Notification Dispatcher...")
		if err := container.NotificationDispatcher.Start(context.Background()); err != nil {
			log.Printf("Background Dispatcher Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
