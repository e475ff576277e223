package middlewares

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	start   time.Time
	status  int
	stamped bool
}

// WriteHeader stamps X-Response-Time at the moment the status line goes
// out, so the header reflects actual handler time.
func (r *statusRecorder) WriteHeader(code int) {
	if !r.stamped {
		r.stamped = true
		r.Header().Set("X-Response-Time", fmt.Sprintf("%dms", time.Since(r.start).Milliseconds()))
	}
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.stamped {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

// ResponseTime stamps X-Response-Time and logs method, path, status and
// duration. Websocket upgrades pass through unwrapped: the recorder
// would hide the http.Hijacker the upgrader needs.
func ResponseTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			next.ServeHTTP(w, r)
			log.Printf("%s %s upgrade %v rid=%s",
				r.Method, r.URL.Path, time.Since(start), GetRequestID(r))
			return
		}

		rec := &statusRecorder{ResponseWriter: w, start: start, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Printf("%s %s %d %v rid=%s",
			r.Method, r.URL.Path, rec.status, time.Since(start), GetRequestID(r))
	})
}
