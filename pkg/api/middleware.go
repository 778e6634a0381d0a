package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"github.com/segmentio/kafka-go"

	"greeter/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

const publishTimeout = 10 * time.Second

type ctxKeyRequestID struct{}

var RequestIDKey = ctxKeyRequestID{}

// GetRequestID returns the request ID stored by requestIDMiddleware.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func (api *API) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			id, err := uuid.NewV4()
			if err != nil {
				api.log.Errorf("[requestIDMiddleware] failed to generate request ID for %v: %v", r.RemoteAddr, err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			reqID = id.String()
		}

		w.Header().Set(requestIDHeader, reqID)
		ctx := context.WithValue(r.Context(), RequestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (api *API) headerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware emits the access line once the inner handler has
// produced its response. Orchestrator health checks are skipped entirely.
// It expects requestIDMiddleware to run before it.
func (api *API) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := logger.New(w)

		next.ServeHTTP(lw, r)

		if !api.filter.ShouldLog(r) {
			return
		}

		entry := logger.NewEntry(r, lw.Status())
		entry.RequestID = GetRequestID(r.Context())
		entry.Size = lw.Size()
		entry.Duration = time.Since(start).Seconds()
		entry.Service = api.ServiceName

		entry.Log(api.access)

		if api.kw != nil {
			go api.publish(entry)
		}
	})
}

func (api *API) publish(entry logger.Entry) {
	jsonEntry, err := json.Marshal(entry)
	if err != nil {
		api.log.Errorf("[loggingMiddleware] failed to marshal log entry for request %s", entry.RequestID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = api.kw.WriteMessages(ctx, kafka.Message{Key: []byte(entry.RequestID), Value: jsonEntry})
	if err != nil {
		api.log.Errorf("[loggingMiddleware] failed to write log to Kafka: %v", err)
		return
	}
	api.log.Debugf("[loggingMiddleware] log entry sent to Kafka request_id:%s", entry.RequestID)
}
