package middleware

import (
	"net/http"
	"sync/atomic"
)

const defaultStatus = http.StatusOK

// ResponseRecorder wraps an http.ResponseWriter and remembers the status
// code and the number of body bytes sent.
type ResponseRecorder struct {
	http.ResponseWriter

	status        int
	headerWritten bool
	bytesSent     atomic.Int64
}

func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{
		ResponseWriter: w,
		status:         defaultStatus,
	}
}

func (w *ResponseRecorder) WriteHeader(statusCode int) {
	if w.headerWritten {
		return
	}

	w.ResponseWriter.WriteHeader(statusCode)
	w.status = statusCode
	w.headerWritten = true
}

func (w *ResponseRecorder) Write(b []byte) (int, error) {
	if !w.headerWritten {
		w.WriteHeader(defaultStatus)
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytesSent.Add(int64(n))
	return n, err
}

func (w *ResponseRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *ResponseRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *ResponseRecorder) Status() int {
	return w.status
}

func (w *ResponseRecorder) BytesWritten() int {
	return int(w.bytesSent.Load())
}

// InjectWriter hands the rest of the chain a ResponseRecorder so that
// LogRequest and the metrics middleware can read the outcome.
func InjectWriter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(recorderFor(w), r)
	})
}

func recorderFor(w http.ResponseWriter) *ResponseRecorder {
	if rec, ok := w.(*ResponseRecorder); ok {
		return rec
	}
	return NewResponseRecorder(w)
}
