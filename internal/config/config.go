package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	HTTPPort        string
	OperatorWorkers int
	LogLevel        string

	// AMQP publishing is disabled when AMQPURL is empty.
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	RecurrenceInterval    time.Duration
	RecurrenceConcurrency int
	MaxMissedOccurrences  int
}

func ProcessEnvironmentVariables() (*Config, error) {
	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",

		HTTPPort:        "9446",
		OperatorWorkers: 4,
		LogLevel:        "info",

		AMQPExchange:   "allowance",
		AMQPRoutingKey: "ledger.schedule_materialized",

		RecurrenceInterval:    time.Hour,
		RecurrenceConcurrency: 4,
		MaxMissedOccurrences:  1000,
	}

	setString(&env.PostgresAddress, "POSTGRES_ADDRESS")
	setString(&env.PostgresPort, "POSTGRES_PORT")
	setString(&env.PostgresDB, "POSTGRES_DB")
	setString(&env.PostgresUsername, "POSTGRES_USERNAME")
	setString(&env.PostgresPassword, "POSTGRES_PASSWORD")
	setString(&env.HTTPPort, "HTTP_PORT")
	setString(&env.LogLevel, "LOG_LEVEL")
	setString(&env.AMQPURL, "AMQP_URL")
	setString(&env.AMQPExchange, "AMQP_EXCHANGE")
	setString(&env.AMQPRoutingKey, "AMQP_ROUTING_KEY")

	var result *multierror.Error
	if err := setInt(&env.OperatorWorkers, "OPERATOR_WORKERS"); err != nil {
		result = multierror.Append(result, err)
	}
	if err := setInt(&env.RecurrenceConcurrency, "RECURRENCE_CONCURRENCY"); err != nil {
		result = multierror.Append(result, err)
	}
	if err := setInt(&env.MaxMissedOccurrences, "MAX_MISSED_OCCURRENCES"); err != nil {
		result = multierror.Append(result, err)
	}
	if err := setDuration(&env.RecurrenceInterval, "RECURRENCE_INTERVAL"); err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	if err := env.Validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if port, err := strconv.Atoi(c.HTTPPort); err != nil || port < 1 || port > 65535 {
		result = multierror.Append(result, fmt.Errorf("invalid HTTP_PORT %q: must be a number between 1 and 65535", c.HTTPPort))
	}
	if c.PostgresAddress == "" {
		result = multierror.Append(result, fmt.Errorf("POSTGRES_ADDRESS is required"))
	}
	if c.OperatorWorkers < 1 {
		result = multierror.Append(result, fmt.Errorf("OPERATOR_WORKERS must be at least 1, got %d", c.OperatorWorkers))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel))
	}
	if c.AMQPURL != "" {
		if !strings.HasPrefix(c.AMQPURL, "amqp://") && !strings.HasPrefix(c.AMQPURL, "amqps://") {
			result = multierror.Append(result, fmt.Errorf("AMQP_URL must start with amqp:// or amqps://"))
		}
		if c.AMQPExchange == "" {
			result = multierror.Append(result, fmt.Errorf("AMQP_EXCHANGE is required when AMQP_URL is set"))
		}
	}
	if c.RecurrenceInterval <= 0 {
		result = multierror.Append(result, fmt.Errorf("RECURRENCE_INTERVAL must be positive, got %s", c.RecurrenceInterval))
	}
	if c.RecurrenceConcurrency < 1 {
		result = multierror.Append(result, fmt.Errorf("RECURRENCE_CONCURRENCY must be at least 1, got %d", c.RecurrenceConcurrency))
	}
	if c.MaxMissedOccurrences < 1 {
		result = multierror.Append(result, fmt.Errorf("MAX_MISSED_OCCURRENCES must be at least 1, got %d", c.MaxMissedOccurrences))
	}

	return result.ErrorOrNil()
}

func setString(target *string, key string) {
	if value := os.Getenv(key); len(value) != 0 {
		*target = value
	}
}

func setInt(target *int, key string) error {
	value := os.Getenv(key)
	if len(value) == 0 {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: must be a number", key, value)
	}
	*target = parsed
	return nil
}

func setDuration(target *time.Duration, key string) error {
	value := os.Getenv(key)
	if len(value) == 0 {
		return nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*target = parsed
	return nil
}
