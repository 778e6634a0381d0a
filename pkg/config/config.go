package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"

	"greeter/pkg/probe"
)

const (
	DefaultServiceName = "greeter"
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8080
	DefaultLogLevel    = "info"
)

// Environment variables read by Load.
const (
	EnvConfigPath  = "GREETER_CONFIG"
	EnvServiceName = "SERVICE_NAME"
	EnvPort        = "PORT"
	EnvLogLevel    = "LOG_LEVEL"
	EnvKafkaAddr   = "KAFKA_ADDR"
	EnvKafkaTopic  = "KAFKA_TOPIC"
	EnvKafkaBatch  = "KAFKA_BATCH"
)

var (
	ErrInvalidPort     = errors.New("invalid port")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidBatch    = errors.New("invalid kafka batch size")
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type Config struct {
	ServiceName string `toml:"serviceName"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	LogLevel    string `toml:"logLevel"`

	KafkaAddr  string `toml:"kafkaAddr"`
	KafkaTopic string `toml:"kafkaTopic"`
	KafkaBatch int    `toml:"kafkaBatch"`

	// InOrchestrator is never read from the file, only from the environment.
	InOrchestrator bool `toml:"-"`
}

// Load builds the configuration once at startup. Values come from the
// optional TOML file named by GREETER_CONFIG, then from the environment.
func Load(lookup LookupFunc) (*Config, error) {
	cfg := &Config{
		ServiceName: DefaultServiceName,
		Host:        DefaultHost,
		Port:        DefaultPort,
		LogLevel:    DefaultLogLevel,
	}

	if path, ok := lookup(EnvConfigPath); ok && path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		if err := validPort(cfg.Port); err != nil {
			return nil, fmt.Errorf("%w: %d in %s", ErrInvalidPort, cfg.Port, path)
		}
	}

	if v, ok := lookup(EnvServiceName); ok && v != "" {
		cfg.ServiceName = v
	}
	if v, ok := lookup(EnvPort); ok {
		port, err := ParsePort(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvPort, err)
		}
		cfg.Port = port
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvKafkaAddr); ok {
		cfg.KafkaAddr = v
	}
	if v, ok := lookup(EnvKafkaTopic); ok {
		cfg.KafkaTopic = v
	}
	if v, ok := lookup(EnvKafkaBatch); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidBatch, EnvKafkaBatch, v)
		}
		cfg.KafkaBatch = n
	}

	cfg.InOrchestrator = probe.Detect(lookup)

	return cfg, nil
}

// ParsePort converts a PORT value to a TCP port number. An unparsable value
// is an error, never a silent fallback to the default.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidPort, s)
	}
	if err := validPort(port); err != nil {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}
	return port, nil
}

func validPort(port int) error {
	if port < 1 || port > 65535 {
		return ErrInvalidPort
	}
	return nil
}

// ParseLevel accepts debug, info, warn or error, in any case.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *Config) URL() string {
	return "http://" + c.Addr()
}

func (c *Config) KafkaEnabled() bool {
	return c.KafkaAddr != "" && c.KafkaTopic != ""
}

func (c Config) String() string {
	return fmt.Sprintf("%#v", c)
}
