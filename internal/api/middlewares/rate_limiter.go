package middlewares

import (
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills a per-key bucket at rate tokens/sec up to
// capacity, then tries to take one token. Returns {allowed, remaining,
// retry_after_ms}. State lives in a Redis hash so all API instances
// share one budget per client.
const tokenBucketScript = `
local rate = tonumber(ARGV[1])
local cap  = tonumber(ARGV[2])

local t = redis.call('TIME')
local now = tonumber(t[1]) * 1000 + math.floor(tonumber(t[2]) / 1000)

local state  = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(state[1])
local ts     = tonumber(state[2])
if tokens == nil then
  tokens = cap
  ts = now
end

if now > ts then
  tokens = math.min(cap, tokens + (now - ts) / 1000.0 * rate)
end

local allowed = 0
local retry_ms = 0
if tokens >= 1.0 then
  tokens = tokens - 1.0
  allowed = 1
else
  retry_ms = math.ceil((1.0 - tokens) * 1000.0 / rate)
end

redis.call('HMSET', KEYS[1], 'tokens', tokens, 'ts', now)
redis.call('PEXPIRE', KEYS[1], math.ceil(cap / rate * 1000.0))

return {allowed, tostring(tokens), retry_ms}
`

type RateLimiter struct {
	rdb    *redis.Client
	rate   float64
	burst  int
	script *redis.Script
}

// NewRateLimiter builds a Redis-backed token bucket keyed by client IP.
// rate is tokens per second, burst is bucket capacity.
func NewRateLimiter(rdb *redis.Client, rate float64, burst int) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		rate:   rate,
		burst:  burst,
		script: redis.NewScript(tokenBucketScript),
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "rl:ip:" + clientIP(r)

		res, err := rl.script.Run(r.Context(), rl.rdb, []string{key},
			strconv.FormatFloat(rl.rate, 'f', -1, 64),
			strconv.Itoa(rl.burst),
		).Slice()
		if err != nil {
			// Fail open: a Redis outage must not take the API down with it.
			log.Printf("[RateLimit] redis error: %v (allowing)", err)
			next.ServeHTTP(w, r)
			return
		}

		allowed, _ := res[0].(int64)
		remaining, _ := res[1].(string)
		retryMs, _ := res[2].(int64)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
		w.Header().Set("X-RateLimit-Remaining", remaining)

		if allowed != 1 {
			sec := (retryMs + 999) / 1000
			if sec < 1 {
				sec = 1
			}
			w.Header().Set("Retry-After", strconv.FormatInt(sec, 10))
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
