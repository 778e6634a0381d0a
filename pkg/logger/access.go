package logger

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// TimestampFormat renders as [2024-Dec-02 14:05].
const TimestampFormat = "[2006-Jan-02 15:04]"

// Field keys of an access line.
const (
	FieldRemote = "remote"
	FieldMethod = "method"
	FieldScheme = "scheme"
	FieldPath   = "path"
	FieldStatus = "status"
)

// Entry describes one handled request. It lives only until it has been
// written out.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	IP         string    `json:"ip"`
	Method     string    `json:"method"`
	Scheme     string    `json:"scheme"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	Size       int       `json:"size"`
	RequestID  string    `json:"request_id,omitempty"`
	Duration   float64   `json:"duration_sec"`
	Service    string    `json:"service"`
}

// NewEntry fills the request part of an entry. Path keeps the raw query.
func NewEntry(r *http.Request, status int) Entry {
	return Entry{
		Timestamp:  time.Now(),
		IP:         RemoteHost(r),
		Method:     r.Method,
		Scheme:     Scheme(r),
		Path:       r.URL.RequestURI(),
		StatusCode: status,
	}
}

func (e Entry) Fields() log.Fields {
	return log.Fields{
		FieldRemote: e.IP,
		FieldMethod: e.Method,
		FieldScheme: e.Scheme,
		FieldPath:   e.Path,
		FieldStatus: e.StatusCode,
	}
}

// Log writes e as a single info line.
func (e Entry) Log(l log.FieldLogger) {
	l.WithFields(e.Fields()).WithTime(e.Timestamp).Info("access")
}

func Scheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// RemoteHost strips the port from r.RemoteAddr when there is one.
func RemoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// AccessFormatter prints
//
//	[2024-Dec-02 14:05] 10.0.0.7 GET http /?q=1 200
//
// Lines without access fields fall back to the timestamp and the message.
type AccessFormatter struct {
	TimestampFormat string
}

func (f *AccessFormatter) Format(e *log.Entry) ([]byte, error) {
	layout := f.TimestampFormat
	if layout == "" {
		layout = TimestampFormat
	}

	b := e.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	b.WriteString(e.Time.Format(layout))
	if _, ok := e.Data[FieldPath]; !ok {
		fmt.Fprintf(b, " %s\n", e.Message)
		return b.Bytes(), nil
	}

	for _, key := range []string{FieldRemote, FieldMethod, FieldScheme, FieldPath, FieldStatus} {
		fmt.Fprintf(b, " %v", e.Data[key])
	}
	b.WriteByte('\n')

	return b.Bytes(), nil
}

// NewAccessLogger returns a logger dedicated to access lines. Writes are
// serialised by the logger's mutex, so lines never interleave.
func NewAccessLogger(out io.Writer) *log.Logger {
	l := log.New()
	l.SetOutput(out)
	l.SetFormatter(&AccessFormatter{})
	l.SetLevel(log.InfoLevel)
	return l
}
