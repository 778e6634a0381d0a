package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"greeter/pkg/api"
	"greeter/pkg/config"
	"greeter/pkg/logger"
	"greeter/pkg/probe"
)

type server struct {
	cfg    *config.Config
	http   *http.Server
	log    *log.Logger
	access *log.Logger
}

func main() {
	s, err := newServer(os.LookupEnv, os.Stdout)
	if err != nil {
		log.Fatalf("[server] invalid configuration: %v", err)
	}

	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		s.log.Fatalf("[server] failed to listen: %v", err)
	}
	if err := s.serve(ln); err != nil {
		s.log.Fatalf("[server] failed to serve: %v", err)
	}
}

// newServer builds the logging variant from the environment. Process and
// access logs both go to out.
func newServer(lookup config.LookupFunc, out io.Writer) (*server, error) {
	cfg, err := config.Load(lookup)
	if err != nil {
		return nil, err
	}

	procLog := log.New()
	procLog.SetOutput(out)
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		procLog.Warnf("[server] %v, falling back to info", err)
	}
	procLog.SetLevel(level)
	procLog.Debugf("[server] config: %s", cfg)

	if cfg.InOrchestrator {
		procLog.Debugf("[server] %s is set, requests from %q will not be logged", probe.OrchestratorEnv, probe.UserAgent)
	}

	var publisher api.Publisher
	if cfg.KafkaEnabled() {
		kafkaWriter := &kafka.Writer{
			Addr:      kafka.TCP(cfg.KafkaAddr),
			Topic:     cfg.KafkaTopic,
			BatchSize: cfg.KafkaBatch,
		}
		if err := createTopic(kafkaWriter.Addr.String(), kafkaWriter.Topic); err != nil {
			procLog.Warnf("[server] failed to create Kafka topic: %v", err)
		}
		publisher = kafkaWriter
	} else {
		procLog.Debug("[server] kafka was not configured, access logs will not be sent to Kafka")
	}

	access := logger.NewAccessLogger(out)
	api := api.New(api.Options{
		ServiceName: cfg.ServiceName,
		Greeting:    api.Greeting,
		Filter:      probe.Filter{InOrchestrator: cfg.InOrchestrator},
		Access:      access,
		Publisher:   publisher,
		Log:         procLog,
	})

	return &server{
		cfg: cfg,
		http: &http.Server{
			Addr:    cfg.Addr(),
			Handler: api.Handler(),
		},
		log:    procLog,
		access: access,
	}, nil
}

// serve announces the server and blocks until ln fails or the server is
// closed. The announcement goes through the access logger, which stays at
// info whatever LOG_LEVEL says.
func (s *server) serve(ln net.Listener) error {
	s.access.Infof("Serving on %s", s.cfg.URL())
	return s.http.Serve(ln)
}

func createTopic(broker, topic string) error {
	conn, err := kafka.DialContext(context.Background(), "tcp", broker)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
}
