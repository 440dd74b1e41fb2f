package main

import (
	"slotline/internal/resources/handler"
	"slotline/internal/resources/repository"
	"slotline/internal/resources/service"
	"slotline/internal/resources/validator"
	"slotline/pkg/app"
	"slotline/pkg/config"
)

const ServiceName = "resources"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Resources service")
	resourceService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewResourceHandler(resourceService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ResourceService {
	resourceRepo := repository.NewMongoResourceRepository(cfg)
	resourceService := service.NewResourceService(resourceRepo, validator.NewResourceValidator(), cfg)

	cfg.Log.Info("Resource service initialized", "database", cfg.MongoDatabaseName)
	return resourceService
}
