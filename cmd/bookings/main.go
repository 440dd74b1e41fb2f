package main

import (
	"slotline/internal/bookings/admission"
	"slotline/internal/bookings/handler"
	"slotline/internal/bookings/promotion"
	"slotline/internal/bookings/queue"
	"slotline/internal/bookings/repository"
	"slotline/internal/bookings/service"
	"slotline/internal/bookings/validator"
	resourcesrepository "slotline/internal/resources/repository"
	resourcesservice "slotline/internal/resources/service"
	resourcesvalidator "slotline/internal/resources/validator"
	"slotline/pkg/app"
	"slotline/pkg/config"
	"slotline/pkg/events"
	kafkaconfig "slotline/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	bookingService, publisher := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, publisher, cfg.Log))
	serverApp.OnShutdown(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Warn("Failed to close event publisher", "error", err)
		}
	})
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.BookingService, events.Publisher) {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	queueRepo := repository.NewMongoQueueEntryRepository(cfg)
	lockRepo := repository.NewMongoResourceLockRepository(cfg)

	resourceRepo := resourcesrepository.NewMongoResourceRepository(cfg)
	catalog := resourcesservice.NewResourceService(resourceRepo, resourcesvalidator.NewResourceValidator(), cfg)

	policy := admission.NewPolicy(bookingRepo, bookingRepo, cfg.DefaultLocation)
	waitQueue := queue.NewWaitQueue(queueRepo)
	promoter := promotion.NewEngine(waitQueue, bookingRepo, cfg.Log)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		catalog,
		policy,
		waitQueue,
		promoter,
		validator.NewBookingValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService, newPublisher(cfg)
}

// newPublisher wires Kafka when brokers are configured and falls back to a
// log-only publisher otherwise, so a single-node deployment still works.
func newPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, promotion events will be logged only")
		return events.NewLogPublisher(cfg.Log)
	}

	publisher, err := events.NewKafkaPublisher(
		kafkaconfig.Load(cfg.KafkaBrokers),
		cfg.KafkaPromotionTopic,
		cfg.KafkaDLQTopic,
		ServiceName,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka publisher", "error", err)
	}
	return publisher
}
