package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/viamunicipal/cms-backend/api/responses"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
	"github.com/viamunicipal/cms-backend/pkg/logger"
)

// AuthRateLimitPolicy bounds login/register attempts per fixed window, keyed
// by client IP and, when the body carries one, by a hashed email.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a named policy from config values.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{name: name, window: window, ipLimit: ipLimit, emailLimit: emailLimit}
}

type rateLimiterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// AuthRateLimit enforces the policy with redis fixed-window counters. A nil
// store disables enforcement so local setups without redis keep working; a
// counter failure fails open with a warning rather than blocking logins.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || policy.window <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()

			if policy.ipLimit > 0 {
				ip := ClientIP(r)
				key := fmt.Sprintf("auth:%s:ip:%s", policy.name, ip)
				count, err := store.IncrWithTTL(ctx, key, policy.window)
				if err != nil {
					warnCounterFailure(ctx, logg, policy, err)
				} else if count > int64(policy.ipLimit) {
					respondRateLimited(w, r, logg, policy, "ip")
					return
				}
			}

			if policy.emailLimit > 0 {
				if hashed := hashedEmailFromBody(r); hashed != "" {
					key := fmt.Sprintf("auth:%s:email:%s", policy.name, hashed)
					count, err := store.IncrWithTTL(ctx, key, policy.window)
					if err != nil {
						warnCounterFailure(ctx, logg, policy, err)
					} else if count > int64(policy.emailLimit) {
						respondRateLimited(w, r, logg, policy, "email")
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the caller address, honoring the first X-Forwarded-For
// hop when present.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// hashedEmailFromBody peeks at the JSON body for an email key without
// consuming the body for downstream handlers. Raw emails never reach redis.
func hashedEmailFromBody(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}

func warnCounterFailure(ctx context.Context, logg *logger.Logger, policy AuthRateLimitPolicy, err error) {
	if logg == nil {
		return
	}
	ctx = logg.WithField(ctx, "policy", policy.name)
	logg.Error(ctx, "auth.rate_limit.counter_failed", err)
}

func respondRateLimited(w http.ResponseWriter, r *http.Request, logg *logger.Logger, policy AuthRateLimitPolicy, dimension string) {
	ctx := r.Context()
	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"policy":    policy.name,
			"dimension": dimension,
		})
		logg.Warn(ctx, "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, fmt.Sprintf("too many %s attempts", policy.name)))
}
