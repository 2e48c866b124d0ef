package main

import (
	"context"
	"log"
	"os"

	"Workspace/Config"
	"Workspace/CronJobs"
	"Workspace/FiberConfig"
	"Workspace/Models"
	"Workspace/Notifications"
	"Workspace/Store"
	"Workspace/SyncClient"
	"Workspace/Validation"
)

func main() {
	cfg := Config.Load("config.json5")

	db, err := Models.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if cfg.SeedDemoTask {
		if err := Models.SeedDemoTask(db); err != nil {
			log.Println("Demo seed failed:", err)
		}
	}

	go func() {
		if err := Notifications.InitFirebase(); err != nil {
			log.Println("Failed to initialize Firebase:", err)
		}
	}()

	// Mirror mode: poll an upstream workspace server and keep a local
	// replica in memory. The replica pushes nothing; it only follows.
	if remote := os.Getenv("WORKSPACE_REMOTE"); remote != "" {
		go func() {
			mirror := Store.NewWorkspace(Validation.UpdateRules{})
			client := SyncClient.New(remote, cfg.MemberPasscode,
				SyncClient.DefaultInterval, mirror)
			log.Println("Mirroring remote workspace at", remote)
			client.Run(context.Background())
		}()
	}

	scheduler := CronJobs.NewScheduler(db, cfg)
	if err := scheduler.Start(); err != nil {
		log.Println("Failed to start scheduler:", err)
	}
	defer scheduler.Stop()

	FiberConfig.FiberConfig(db, cfg)
}
