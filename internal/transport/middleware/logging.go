package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/custom-timesheet/pkg/logger"
)

const (
	maxLoggedBody = 4 << 10
	redacted      = "[FILTERED]"
)

// secretMarkers are matched as substrings of lower-cased header and JSON keys.
var secretMarkers = []string{"password", "token", "authorization", "secret", "api_key", "session", "credential", "cookie"}

func isSecret(key string) bool {
	key = strings.ToLower(key)
	for _, m := range secretMarkers {
		if strings.Contains(key, m) {
			return true
		}
	}
	return false
}

// LoggingMiddleware writes one access line per request at a level derived
// from the status code. Request and response bodies are only captured at
// debug level and never for uploads or file downloads.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := logger.With(r.Context(), "method", r.Method, "path", r.URL.Path)
			r = r.WithContext(ctx)

			lg := base.With("trace_id", TraceID(ctx))
			verbose := lg.Enabled(ctx, slog.LevelDebug) && loggableBody(r)

			var reqBody string
			if verbose && r.Body != nil {
				raw, _ := io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewReader(raw))
				reqBody = redactBody(raw)
			}

			rec := &recorder{ResponseWriter: w, status: http.StatusOK, capture: verbose}
			next.ServeHTTP(rec, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"status", rec.status,
				"bytes", rec.size,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			}
			if verbose {
				attrs = append(attrs,
					"headers", redactHeaders(r.Header),
					"request_body", reqBody,
					"response_body", redactBody(rec.body.Bytes()),
				)
			}
			lg.Log(ctx, levelFor(rec.status), "http request", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func loggableBody(r *http.Request) bool {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return false
	}
	return !strings.HasPrefix(r.URL.Path, "/files/") && !strings.HasPrefix(r.URL.Path, "/swagger/")
}

type recorder struct {
	http.ResponseWriter
	status  int
	size    int
	capture bool
	body    bytes.Buffer
}

func (rw *recorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recorder) Write(b []byte) (int, error) {
	if rw.capture {
		if room := maxLoggedBody - rw.body.Len(); room > 0 {
			rw.body.Write(b[:min(room, len(b))])
		}
	}
	rw.size += len(b)
	return rw.ResponseWriter.Write(b)
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if isSecret(name) {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// redactBody masks secret keys in JSON bodies. Non-JSON bodies are logged
// as-is unless they mention a secret marker.
func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxLoggedBody {
		body = body[:maxLoggedBody]
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		if isSecret(string(body)) {
			return redacted
		}
		return string(body)
	}
	out, err := json.Marshal(redactValue(doc))
	if err != nil {
		return redacted
	}
	return string(out)
}

func redactValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			if isSecret(k) {
				t[k] = redacted
			} else {
				t[k] = redactValue(val)
			}
		}
		return t
	case []interface{}:
		for i := range t {
			t[i] = redactValue(t[i])
		}
		return t
	default:
		return v
	}
}
