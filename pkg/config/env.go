package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvKafkaBrokers        = "KAFKA_BROKERS"
	EnvKafkaPromotionTopic = "KAFKA_PROMOTION_TOPIC"
	EnvKafkaDLQTopic       = "KAFKA_DLQ_TOPIC"

	EnvDefaultTimezone = "DEFAULT_TIMEZONE"

	EnvLockTTL               = "LOCK_TTL"
	EnvAdmissionRetries      = "ADMISSION_RETRIES"
	EnvAdmissionRetryBackoff = "ADMISSION_RETRY_BACKOFF"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
