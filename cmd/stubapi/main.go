package main

import (
	"staybook/internal/stubapi"
	"staybook/pkg/config"
)

const ServiceName = "stubapi"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting booking API stub")
	serverApp, _, err := stubapi.NewApplication(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to start booking API stub", "error", err)
	}
	serverApp.Run()
}
