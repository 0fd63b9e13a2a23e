package main

import (
	"log"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/bootstrap"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
)

func main() {
	pkg.InitLocalEnvConfig()

	service, err := bootstrap.InitService()
	if err != nil {
		log.Fatalf("Fatal init: %v", err)
	}

	service.Telemetry.InitializeTelemetry()
	defer service.Telemetry.ShutdownTelemetry()

	defer func() {
		if err := service.Logger.Sync(); err != nil {
			service.Logger.Errorf("Failed to sync logger: %s", err)
		}
	}()

	service.Logger.Infof("Launcher: App (%s) starting", bootstrap.ApplicationName)

	service.Run()
}
