package config

const (
	envConfigPath   = "CONFIG_PATH"
	envPort         = "PORT"
	envDatabaseURL  = "DATABASE_URL"
	envHalfLength   = "HALF_LENGTH"
	envLogLevel     = "LOG_LEVEL"
	envLogFormat    = "LOG_FORMAT"
	envAMQPURL      = "AMQP_URL"
	envAMQPExchange = "AMQP_EXCHANGE"
	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort = "4000"
	// Tournament halves run 10 minutes; the value only stamps synthesized
	// end events.
	defaultHalfLength   = 600
	defaultAMQPExchange = "matchlive.events"
	defaultMetricsPort  = "9090"
	defaultServiceName  = "matchlive"
)
