package api

import (
	"context"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"greeter/pkg/probe"
)

const (
	Greeting        = "Hello, World!\n"
	MinimalGreeting = "Hello, World, I'm Python!"
)

// Publisher ships encoded access entries. *kafka.Writer satisfies it.
type Publisher interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Options struct {
	ServiceName string
	// Greeting defaults to Greeting.
	Greeting string
	Filter   probe.Filter

	// Access receives one line per logged request. Nil disables access
	// logging together with publishing.
	Access    *log.Logger
	Publisher Publisher

	// Log is the process logger. Defaults to the logrus standard logger.
	Log *log.Logger
}

type API struct {
	ServiceName string

	greeting string
	filter   probe.Filter
	access   *log.Logger
	kw       Publisher
	log      *log.Logger

	r *mux.Router
	h http.Handler
}

func New(opts Options) *API {
	api := API{
		ServiceName: opts.ServiceName,
		greeting:    opts.Greeting,
		filter:      opts.Filter,
		access:      opts.Access,
		kw:          opts.Publisher,
		log:         opts.Log,
		r:           mux.NewRouter(),
	}
	if api.greeting == "" {
		api.greeting = Greeting
	}
	if api.log == nil {
		api.log = log.StandardLogger()
	}
	api.endpoints()

	return &api
}

// Handler is what the HTTP server serves.
func (api *API) Handler() http.Handler {
	return api.h
}

func (api *API) endpoints() {
	api.r.Use(api.headerMiddleware)

	api.r.HandleFunc("/", api.greetHandler).Methods(http.MethodGet, http.MethodHead)

	// The chain wraps the router instead of going through Use, which mux
	// only applies to matched routes: 404 and 405 responses get a request
	// ID and an access line too.
	var h http.Handler = api.r
	if api.access != nil {
		h = api.loggingMiddleware(h)
	}
	api.h = api.requestIDMiddleware(h)
}

func (api *API) greetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, api.greeting); err != nil {
		api.log.Debugf("[greetHandler][from:%v] failed to write response: %v", r.RemoteAddr, err)
	}
}
