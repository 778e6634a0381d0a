// Command minimal serves the fixed greeting on 0.0.0.0:8080 with no
// configuration and no request logging.
package main

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"greeter/pkg/api"
)

const serverAddr = "0.0.0.0:8080"

func main() {
	api := api.New(api.Options{Greeting: api.MinimalGreeting})

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: api.Handler(),
	}

	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("[minimal] failed to serve: %v", err)
	}
}
