// Command healthcheck probes the local greeter and exits non-zero when it
// does not answer 200. It is meant for container HEALTHCHECK instructions in
// images that ship without curl.
package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"greeter/pkg/config"
	"greeter/pkg/probe"
)

const timeout = 5 * time.Second

func main() {
	cfg, err := config.Load(os.LookupEnv)
	if err != nil {
		log.Fatalf("[healthcheck] invalid configuration: %v", err)
	}

	url := "http://127.0.0.1:" + strconv.Itoa(cfg.Port) + "/"

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := probe.Check(ctx, &http.Client{Timeout: timeout}, url); err != nil {
		log.Errorf("[healthcheck] %v", err)
		cancel()
		os.Exit(1)
	}
}
