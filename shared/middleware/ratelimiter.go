package middleware

import (
	"fmt"
	"net"
	"net/http"

	"github.com/potatoland/potatoland/shared/errors"
	"github.com/potatoland/potatoland/shared/middleware/ratelimiter"
	"github.com/potatoland/potatoland/shared/utils"
)

// RateLimit rejects requests with 429 once the identity returned by
// getIdentity runs out of tokens.
func RateLimit(rl *ratelimiter.UserRateLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				utils.WriteErrorAndStatusCode(w, &errors.ErrorWithStatusCode{Message: "Rate limit exceeded, try again later", StatusCode: http.StatusTooManyRequests})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserIDFromContext works only behind NeedAuth
func GetUserIDFromContext(r *http.Request) (string, error) {
	user := GetUserFromContext(r)
	if user == nil {
		return "", errors.Unauthorized("Please sign-in")
	}
	return fmt.Sprintf("user_%d", user.Id), nil
}

// GetIP extracts the client IP from RemoteAddr only; forwarding headers are not trusted.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", errors.BadRequest(fmt.Sprintf("invalid IP address: %s", ip))
	}
	return ip, nil
}
