package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/satyam539813/farmappsample/api/responses"
	pkgerrors "github.com/satyam539813/farmappsample/pkg/errors"
	"github.com/satyam539813/farmappsample/pkg/logger"
)

// emailPeekBytes bounds how much of a body is buffered to find the email.
const emailPeekBytes = 64 << 10

type windowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// rateRule counts requests sharing a key. An empty key skips the rule.
type rateRule struct {
	scope     string
	limit     int
	needsBody bool
	key       func(r *http.Request, body []byte) string
	// logValue is what the blocked log line records for the key.
	logValue func(key string) (string, string)
}

// RateLimitPolicy is a named fixed window with one or more counting rules.
type RateLimitPolicy struct {
	name   string
	window time.Duration
	rules  []rateRule
}

// NewRateLimitPolicy starts a policy with no rules; add them with PerIP,
// PerEmail and PerDevice.
func NewRateLimitPolicy(name string, window time.Duration) RateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "default"
	}
	return RateLimitPolicy{name: name, window: window}
}

// PerIP limits requests from one client address.
func (p RateLimitPolicy) PerIP(limit int) RateLimitPolicy {
	return p.with(rateRule{
		scope: "ip",
		limit: limit,
		key:   func(r *http.Request, _ []byte) string { return clientIP(r) },
		logValue: func(key string) (string, string) {
			return "ip", key
		},
	})
}

// PerEmail limits requests whose JSON body names the same email. Emails are
// hashed before they reach the counter key or the logs.
func (p RateLimitPolicy) PerEmail(limit int) RateLimitPolicy {
	return p.with(rateRule{
		scope:     "email",
		limit:     limit,
		needsBody: true,
		key: func(_ *http.Request, body []byte) string {
			email := strings.ToLower(strings.TrimSpace(extractEmail(body)))
			if email == "" {
				return ""
			}
			return hashValue(email)
		},
		logValue: func(key string) (string, string) {
			return "email_hash", key
		},
	})
}

// PerDevice limits requests from one storefront device id.
func (p RateLimitPolicy) PerDevice(limit int) RateLimitPolicy {
	return p.with(rateRule{
		scope: "device",
		limit: limit,
		key:   func(r *http.Request, _ []byte) string { return DeviceIDFromContext(r.Context()) },
		logValue: func(key string) (string, string) {
			return "device_id", key
		},
	})
}

func (p RateLimitPolicy) with(rule rateRule) RateLimitPolicy {
	if rule.limit <= 0 {
		return p
	}
	p.rules = append(append([]rateRule(nil), p.rules...), rule)
	return p
}

func (p RateLimitPolicy) enabled() bool {
	return p.window > 0 && len(p.rules) > 0
}

func (p RateLimitPolicy) readsBody() bool {
	for _, rule := range p.rules {
		if rule.needsBody {
			return true
		}
	}
	return false
}

// RateLimit rejects requests with 429 once any rule of policy exceeds its
// limit inside the window.
func RateLimit(policy RateLimitPolicy, limiter windowLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var body []byte
			if policy.readsBody() && r.Body != nil {
				peeked, err := io.ReadAll(io.LimitReader(r.Body, emailPeekBytes))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				body = peeked
				r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(peeked), r.Body), Closer: r.Body}
			}

			for _, rule := range policy.rules {
				key := rule.key(r, body)
				if key == "" {
					continue
				}
				scope := policy.name + ":" + rule.scope + ":" + key
				allowed, count, err := limiter.FixedWindowAllow(ctx, scope, int64(rule.limit), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if !allowed {
					respondRateLimited(ctx, logg, w, policy, rule, key, count)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy RateLimitPolicy, rule rateRule, key string, count int64) {
	if logg != nil {
		field, value := rule.logValue(key)
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"policy":         policy.name,
			"scope":          rule.scope,
			field:            value,
			"attempts":       count,
			"limit":          rule.limit,
			"window_seconds": int(policy.window.Seconds()),
		}), "rate_limit.blocked")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(policy.window.Seconds())))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, please try again later").
		WithNotice("Too many attempts", "Please wait a moment and try again."))
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection's remote address.
func clientIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		first, _, _ := strings.Cut(header, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(payload []byte) string {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || payload[0] != '{' {
		return ""
	}
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
