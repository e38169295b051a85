package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	goThrottle "github.com/KarimL92/goThrottle"
)

// errorMessage is the standardized error payload: {"code": <int>, "message": <string>}.
type errorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RateLimit returns middleware that evaluates the caller's quota before the
// wrapped handler runs.
//
// When the engine is disabled every request dispatches untouched, without
// resolving identity at all. Otherwise the decision is computed first and the
// wrapped handler is only ever invoked on an allow; denials short-circuit with
// 429 + retry-after, evaluation failures with 500. Quota headers are set before
// dispatch so the downstream handler cannot race the header write.
func RateLimit(engine *goThrottle.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				writeError(w, http.StatusInternalServerError)
				return
			}

			if !engine.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			decision, err := engine.Evaluate(r.Context(), r.Header, clientAddress(r))
			if err != nil {
				writeError(w, http.StatusInternalServerError)
				return
			}

			if decision.Denied() {
				w.Header().Set("retry-after", strconv.FormatInt(decision.Reset, 10))
				writeError(w, http.StatusTooManyRequests)
				return
			}

			if !decision.Unlimited() {
				h := w.Header()
				h.Set("x-ratelimit-limit", strconv.Itoa(decision.Limit))
				h.Set("x-ratelimit-remaining", strconv.Itoa(decision.Remaining))
				h.Set("x-ratelimit-reset", strconv.FormatInt(decision.Reset, 10))
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorMessage{Code: status, Message: http.StatusText(status)})
}

// clientAddress strips the port from RemoteAddr. An empty result means the
// transport attached no address at all, which the engine treats as a
// configuration error when limiting is active.
func clientAddress(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	return addr
}
