package config

// MetricsConfig controls the metrics endpoint and exporters.
type MetricsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Port         string `yaml:"port"`
	ServiceName  string `yaml:"service_name"`
	OtlpEndpoint string `yaml:"otlp_endpoint"`
	OtlpInsecure bool   `yaml:"otlp_insecure"`
}

func defaultMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:     true,
		Port:        defaultMetricsPort,
		ServiceName: defaultServiceName,
	}
}

func loadMetrics(base MetricsConfig) MetricsConfig {
	return MetricsConfig{
		Enabled:      boolEnvOrDefault(envMetricsOn, base.Enabled),
		Port:         envOrDefault(envMetricsPort, base.Port),
		ServiceName:  envOrDefault(envOtelService, base.ServiceName),
		OtlpEndpoint: envOrDefault(envOtelEndpoint, base.OtlpEndpoint),
		OtlpInsecure: boolEnvOrDefault(envOtelInsecure, base.OtlpInsecure),
	}
}
