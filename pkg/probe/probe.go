// Package probe recognises liveness and readiness checks sent by the
// container orchestrator so that they can be kept out of the access log.
package probe

import "net/http"

const (
	// OrchestratorEnv is injected into every pod by Kubernetes. Only its
	// presence matters.
	OrchestratorEnv = "KUBERNETES_SERVICE_HOST"

	// UserAgent is the default User-Agent of Go's net/http client, which
	// the probes are issued with.
	UserAgent = "Go-http-client/1.1"
)

// Detect reports whether the process runs under the orchestrator. lookup has
// the signature of os.LookupEnv.
func Detect(lookup func(string) (string, bool)) bool {
	_, ok := lookup(OrchestratorEnv)
	return ok
}

type Filter struct {
	InOrchestrator bool
}

// IsProbe is an exact, case-sensitive match on the User-Agent header and only
// applies inside the orchestrator. A missing header never matches.
func (f Filter) IsProbe(r *http.Request) bool {
	if !f.InOrchestrator {
		return false
	}
	return r.Header.Get("User-Agent") == UserAgent
}

// ShouldLog reports whether an access line must be emitted for r.
func (f Filter) ShouldLog(r *http.Request) bool {
	return !f.IsProbe(r)
}
