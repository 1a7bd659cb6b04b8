package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// CORSOrigins is the comma separated list of allowed browser origins.
	CORSOrigins string `mapstructure:"CORS_ORIGINS" default:"*"`

	// Store selects and configures the shipment record store.
	Store StoreConfig `mapstructure:",squash"`

	// Redis holds the cache configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Auth holds the token verification settings.
	Auth AuthConfig `mapstructure:",squash"`

	// Events configures where shipment transition events are published.
	Events EventsConfig `mapstructure:",squash"`
}

// StoreConfig holds the shipment store connection details.
type StoreConfig struct {
	// Driver is either "mongo" or "memory".
	Driver string `mapstructure:"STORE_DRIVER" default:"mongo"`
	// MongoURI is the MongoDB connection string.
	MongoURI string `mapstructure:"MONGO_URI" default:"mongodb://localhost:27017"`
	// MongoDatabase is the database holding the shipments collection.
	MongoDatabase string `mapstructure:"MONGO_DATABASE" default:"oceantracker"`
	// MongoTimeoutSeconds bounds connect and index creation at startup.
	MongoTimeoutSeconds int `mapstructure:"MONGO_TIMEOUT_SECONDS" default:"10"`
}

// RedisConfig holds the cache connection details.
// An empty URL disables tracking lookups caching and idempotency keys.
type RedisConfig struct {
	URL string `mapstructure:"REDIS_URL"`
	// CacheTTLSeconds is how long a public tracking lookup stays cached.
	CacheTTLSeconds int `mapstructure:"CACHE_TTL_SECONDS" default:"300"`
	// IdempotencyTTLSeconds is how long an Idempotency-Key is remembered.
	IdempotencyTTLSeconds int `mapstructure:"IDEMPOTENCY_TTL_SECONDS" default:"86400"`
}

// AuthConfig holds the shared secret used to verify x-auth-token headers.
type AuthConfig struct {
	JWTSecret string `mapstructure:"JWT_SECRET" required:"true"`
}

// EventsConfig selects the shipment event sink.
type EventsConfig struct {
	// Sink is one of "none", "webhook" or "kafka".
	Sink string `mapstructure:"EVENTS_SINK" default:"none"`
	// WebhookURL receives a POST per transition when Sink is "webhook".
	WebhookURL string `mapstructure:"EVENTS_WEBHOOK_URL"`
	// WebhookTimeoutSeconds bounds each webhook call.
	WebhookTimeoutSeconds int `mapstructure:"EVENTS_WEBHOOK_TIMEOUT_SECONDS" default:"5"`
	// KafkaBrokers is a comma separated broker list.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// KafkaTopic is the topic shipment events are written to.
	KafkaTopic string `mapstructure:"KAFKA_TOPIC" default:"shipment-events"`
}

// Brokers splits KafkaBrokers into a clean list.
func (e EventsConfig) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(e.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if err := validateChoices(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields, binds env keys and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			key := field.Tag.Get("mapstructure")
			return fmt.Errorf("missing required configuration: %s", key)
		}
	}
	return nil
}

func validateChoices(config *AppConfig) error {
	switch config.Store.Driver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: must be mongo or memory", config.Store.Driver)
	}

	switch config.Events.Sink {
	case "none":
	case "webhook":
		if config.Events.WebhookURL == "" {
			return errors.New("missing required configuration: EVENTS_WEBHOOK_URL")
		}
	case "kafka":
		if len(config.Events.Brokers()) == 0 {
			return errors.New("missing required configuration: KAFKA_BROKERS")
		}
	default:
		return fmt.Errorf("invalid EVENTS_SINK %q: must be none, webhook or kafka", config.Events.Sink)
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
