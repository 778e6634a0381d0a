package logger

import "net/http"

// ResponseLogger remembers the status code and body size a handler produced.
type ResponseLogger struct {
	w           http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func New(w http.ResponseWriter) *ResponseLogger {
	return &ResponseLogger{w: w, status: http.StatusOK}
}

func (l *ResponseLogger) WriteHeader(code int) {
	if l.wroteHeader {
		return
	}
	l.wroteHeader = true
	l.status = code
	l.w.WriteHeader(code)
}

func (l *ResponseLogger) Write(b []byte) (int, error) {
	l.wroteHeader = true
	n, err := l.w.Write(b)
	l.size += n
	return n, err
}

func (l *ResponseLogger) Header() http.Header {
	return l.w.Header()
}

func (l *ResponseLogger) Status() int {
	return l.status
}

func (l *ResponseLogger) Size() int {
	return l.size
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (l *ResponseLogger) Unwrap() http.ResponseWriter {
	return l.w
}
