package config

// Config holds runtime configuration for the server.
type Config struct {
	Port        string        `yaml:"port"`
	DatabaseURL string        `yaml:"database_url"`
	HalfLength  int           `yaml:"half_length"` // seconds
	Log         LogConfig     `yaml:"log"`
	AMQP        AMQPConfig    `yaml:"amqp"`
	Metrics     MetricsConfig `yaml:"metrics"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AMQPConfig controls the optional event fan-out to a message broker.
// Publishing is enabled only when URL is set.
type AMQPConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// Load reads configuration from an optional YAML file (CONFIG_PATH) with
// environment variables taking precedence, falling back to defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:       defaultPort,
		HalfLength: defaultHalfLength,
		AMQP:       AMQPConfig{Exchange: defaultAMQPExchange},
		Metrics:    defaultMetrics(),
	}

	if path := envOrDefault(envConfigPath, ""); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = envOrDefault(envPort, cfg.Port)
	cfg.DatabaseURL = envOrDefault(envDatabaseURL, cfg.DatabaseURL)
	cfg.HalfLength = intEnvOrDefault(envHalfLength, cfg.HalfLength)
	cfg.Log.Level = envOrDefault(envLogLevel, cfg.Log.Level)
	cfg.Log.Format = envOrDefault(envLogFormat, cfg.Log.Format)
	cfg.AMQP.URL = envOrDefault(envAMQPURL, cfg.AMQP.URL)
	cfg.AMQP.Exchange = envOrDefault(envAMQPExchange, cfg.AMQP.Exchange)
	cfg.Metrics = loadMetrics(cfg.Metrics)

	return cfg, nil
}
